package driving

import "github.com/paperpilot/paperpilot-cli/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetGeneratorProvider configures the generation provider.
	SetGeneratorProvider(provider domain.AIProvider, model, apiKey string) error

	// Validate checks if current settings are complete.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the embedding configuration by
	// pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateGeneratorConfig validates the generation configuration by
	// pinging the provider.
	ValidateGeneratorConfig() error
}
