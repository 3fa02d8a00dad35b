// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/paperpilot/paperpilot-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/paperpilot/paperpilot-cli/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/paperpilot/paperpilot-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/paperpilot/paperpilot-cli/internal/adapters/driven/llm/openai"
	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateEmbedder creates an embedder and validates connectivity.
// Returns nil without error when embeddings are not configured.
func CreateAndValidateEmbedder(settings *domain.EmbeddingSettings) (driven.Embedder, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	embedder, err := CreateEmbedder(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'paperpilot settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if embedder == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := embedder.Ping(ctx); err != nil {
		embedder.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'paperpilot settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return embedder, nil
}

// CreateAndValidateGenerator creates a generator and validates connectivity.
// Returns nil without error when generation is not configured.
func CreateAndValidateGenerator(settings *domain.GeneratorSettings) (driven.Generator, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	generator, err := CreateGenerator(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'paperpilot settings' to fix",
			domain.ErrGenerationUnavailable, err)
	}
	if generator == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := generator.Ping(ctx); err != nil {
		generator.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'paperpilot settings' to fix",
			domain.ErrGenerationUnavailable, err)
	}

	return generator, nil
}

// CreateEmbedder creates the appropriate embedder based on settings.
// Returns nil if the provider is not configured.
func CreateEmbedder(settings *domain.EmbeddingSettings) (driven.Embedder, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.New(ollamaembed.Config{
			BaseURL:       settings.BaseURL,
			Model:         settings.Model,
			Dimensions:    settings.Dimensions,
			PassagePrefix: settings.PassagePrefix,
			QueryPrefix:   settings.QueryPrefix,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.New(openaiembed.Config{
			APIKey:        settings.APIKey,
			BaseURL:       settings.BaseURL,
			Model:         settings.Model,
			Dimensions:    settings.Dimensions,
			PassagePrefix: settings.PassagePrefix,
			QueryPrefix:   settings.QueryPrefix,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateGenerator creates the appropriate generator based on settings.
// Returns nil if the provider is not configured.
func CreateGenerator(settings *domain.GeneratorSettings) (driven.Generator, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.New(ollamallm.Config{
			BaseURL:   settings.BaseURL,
			Model:     settings.Model,
			MaxTokens: settings.MaxTokens,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.New(openaillm.Config{
			APIKey:    settings.APIKey,
			BaseURL:   settings.BaseURL,
			Model:     settings.Model,
			MaxTokens: settings.MaxTokens,
		})

	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", settings.Provider)
	}
}
