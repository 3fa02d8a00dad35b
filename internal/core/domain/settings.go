package domain

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if the provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if the provider runs on the local machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the provider name.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable provider description.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return string(p)
	}
}

// AllAIProviders returns the selectable providers in display order.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// DefaultEmbeddingModels maps each provider to its default embedding model.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultGeneratorModels maps each provider to its default generation model.
func DefaultGeneratorModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3.2",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}

// EmbeddingDimensions maps known embedding models to their vector sizes.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"all-minilm":             384,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// EmbeddingSettings configures the embedding service.
type EmbeddingSettings struct {
	// Provider selects the embedding backend.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string

	// Dimensions overrides the model's default vector size.
	Dimensions int

	// PassagePrefix and QueryPrefix are prepended to texts before
	// embedding when the model uses asymmetric encoding (e.g.
	// "passage: " / "query: " for instruction-tuned retrieval models).
	PassagePrefix string
	QueryPrefix   string
}

// IsConfigured returns true if the settings describe a usable service.
func (s *EmbeddingSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// GeneratorSettings configures the text-generation service.
type GeneratorSettings struct {
	// Provider selects the generation backend.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// BaseURL overrides the provider's default endpoint.
	BaseURL string

	// APIKey authenticates cloud providers.
	APIKey string

	// MaxTokens bounds generated output length.
	MaxTokens int
}

// IsConfigured returns true if the settings describe a usable service.
func (s *GeneratorSettings) IsConfigured() bool {
	if s == nil || !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// IndexBackend identifies the vector index implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendQdrant uses a Qdrant server over gRPC.
	IndexBackendQdrant IndexBackend = "qdrant"

	// IndexBackendMemory keeps vectors in process memory. Useful for
	// tests and quick evaluation; nothing survives a restart.
	IndexBackendMemory IndexBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendQdrant, IndexBackendMemory:
		return true
	default:
		return false
	}
}

// IndexSettings configures the vector index backend.
type IndexSettings struct {
	// Backend selects the index implementation.
	Backend IndexBackend

	// Host is the Qdrant server host.
	Host string

	// Port is the Qdrant gRPC port.
	Port int

	// APIKey authenticates managed Qdrant deployments. Empty for local.
	APIKey string
}

// AppSettings aggregates all configurable application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	Generator GeneratorSettings
	Index     IndexSettings
}

// DefaultAppSettings returns settings for a fully local setup.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      "nomic-embed-text",
			Dimensions: 768,
		},
		Generator: GeneratorSettings{
			Provider: AIProviderOllama,
			Model:    "llama3.2",
		},
		Index: IndexSettings{
			Backend: IndexBackendQdrant,
			Host:    "localhost",
			Port:    6334,
		},
	}
}
