package services

import (
	"fmt"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider      = "embedding.provider"
	keyEmbedModel         = "embedding.model"
	keyEmbedBaseURL       = "embedding.base_url"
	keyEmbedAPIKey        = "embedding.api_key"
	keyEmbedDimensions    = "embedding.dimensions"
	keyEmbedPassagePrefix = "embedding.passage_prefix"
	keyEmbedQueryPrefix   = "embedding.query_prefix"
	keyGenProvider        = "generator.provider"
	keyGenModel           = "generator.model"
	keyGenBaseURL         = "generator.base_url"
	keyGenAPIKey          = "generator.api_key"
	keyGenMaxTokens       = "generator.max_tokens"
	keyIndexBackend       = "index.backend"
	keyIndexHost          = "index.host"
	keyIndexPort          = "index.port"
	keyIndexAPIKey        = "index.api_key"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:      s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:         s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:       s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:        s.configStore.GetString(keyEmbedAPIKey),
			Dimensions:    s.getInt(keyEmbedDimensions, defaults.Embedding.Dimensions),
			PassagePrefix: s.configStore.GetString(keyEmbedPassagePrefix),
			QueryPrefix:   s.configStore.GetString(keyEmbedQueryPrefix),
		},
		Generator: domain.GeneratorSettings{
			Provider:  s.getProvider(keyGenProvider, defaults.Generator.Provider),
			Model:     s.getString(keyGenModel, defaults.Generator.Model),
			BaseURL:   s.configStore.GetString(keyGenBaseURL),
			APIKey:    s.configStore.GetString(keyGenAPIKey),
			MaxTokens: s.configStore.GetInt(keyGenMaxTokens),
		},
		Index: domain.IndexSettings{
			Backend: s.getBackend(keyIndexBackend, defaults.Index.Backend),
			Host:    s.getString(keyIndexHost, defaults.Index.Host),
			Port:    s.getInt(keyIndexPort, defaults.Index.Port),
			APIKey:  s.configStore.GetString(keyIndexAPIKey),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := map[string]any{
		keyEmbedProvider:      settings.Embedding.Provider.String(),
		keyEmbedModel:         settings.Embedding.Model,
		keyEmbedBaseURL:       settings.Embedding.BaseURL,
		keyEmbedDimensions:    settings.Embedding.Dimensions,
		keyEmbedPassagePrefix: settings.Embedding.PassagePrefix,
		keyEmbedQueryPrefix:   settings.Embedding.QueryPrefix,
		keyGenProvider:        settings.Generator.Provider.String(),
		keyGenModel:           settings.Generator.Model,
		keyGenBaseURL:         settings.Generator.BaseURL,
		keyGenMaxTokens:       settings.Generator.MaxTokens,
		keyIndexBackend:       string(settings.Index.Backend),
		keyIndexHost:          settings.Index.Host,
		keyIndexPort:          settings.Index.Port,
	}

	// Never clear stored keys with empty values.
	if settings.Embedding.APIKey != "" {
		values[keyEmbedAPIKey] = settings.Embedding.APIKey
	}
	if settings.Generator.APIKey != "" {
		values[keyGenAPIKey] = settings.Generator.APIKey
	}
	if settings.Index.APIKey != "" {
		values[keyIndexAPIKey] = settings.Index.APIKey
	}

	for key, value := range values {
		if err := s.configStore.Set(key, value); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		defaults := domain.DefaultEmbeddingModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Local providers need a base URL; cloud providers use their own
	if provider.IsLocal() {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	// Update vector dimensions based on model
	dims := domain.EmbeddingDimensions()
	if d, ok := dims[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = d
	}

	return s.Save(settings)
}

// SetGeneratorProvider configures the generation provider.
func (s *SettingsService) SetGeneratorProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid generation provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Generator.Provider = provider

	if model != "" {
		settings.Generator.Model = model
	} else {
		defaults := domain.DefaultGeneratorModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Generator.Model = defaultModel
		}
	}

	if provider.IsLocal() {
		if settings.Generator.BaseURL == "" {
			settings.Generator.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Generator.BaseURL = ""
	}

	settings.Generator.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks if current settings are complete.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider is not configured")
	}
	if !settings.Generator.IsConfigured() {
		return fmt.Errorf("generation provider is not configured")
	}
	if !settings.Index.Backend.IsValid() {
		return fmt.Errorf("invalid index backend: %s", settings.Index.Backend)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateGeneratorConfig validates the current generation configuration by pinging the provider.
func (s *SettingsService) ValidateGeneratorConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateGenerator(&settings.Generator)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(key string, defaultVal domain.IndexBackend) domain.IndexBackend {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	backend := domain.IndexBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
