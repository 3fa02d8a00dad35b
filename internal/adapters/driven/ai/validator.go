package ai

import (
	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator validates AI provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding validates an embedding configuration by pinging the provider.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	embedder, err := CreateAndValidateEmbedder(config)
	if err != nil {
		return err
	}
	if embedder != nil {
		embedder.Close()
	}
	return nil
}

// ValidateGenerator validates a generation configuration by pinging the provider.
func (v *ConfigValidator) ValidateGenerator(config *domain.GeneratorSettings) error {
	generator, err := CreateAndValidateGenerator(config)
	if err != nil {
		return err
	}
	if generator != nil {
		generator.Close()
	}
	return nil
}
