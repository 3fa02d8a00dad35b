package driven

import "context"

// Generator wraps a text-generation model: given a bounded prompt,
// produce text.
//
// Implementations may include:
//   - Ollama (local models)
//   - OpenAI (GPT-4o and friends)
type Generator interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	// Ignored when Deterministic is set.
	Temperature float64

	// Deterministic requests greedy decoding with a fixed seed.
	// Used for factual QA so the same prompt yields the same answer.
	Deterministic bool

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
