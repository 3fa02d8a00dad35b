// Command paperpilot is a local research-paper assistant: it ingests
// papers into a vector index and answers questions grounded strictly
// in their content.
package main

import (
	"fmt"
	"os"

	"github.com/paperpilot/paperpilot-cli/internal/adapters/driven/ai"
	"github.com/paperpilot/paperpilot-cli/internal/adapters/driven/arxiv"
	"github.com/paperpilot/paperpilot-cli/internal/adapters/driven/config/file"
	memindex "github.com/paperpilot/paperpilot-cli/internal/adapters/driven/index/memory"
	"github.com/paperpilot/paperpilot-cli/internal/adapters/driven/index/qdrant"
	"github.com/paperpilot/paperpilot-cli/internal/adapters/driven/storage/sqlite"
	"github.com/paperpilot/paperpilot-cli/internal/adapters/driving/cli"
	"github.com/paperpilot/paperpilot-cli/internal/chunker"
	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
	"github.com/paperpilot/paperpilot-cli/internal/core/services"
	"github.com/paperpilot/paperpilot-cli/internal/extractor/pdf"
	"github.com/paperpilot/paperpilot-cli/internal/extractor/plaintext"
	"github.com/paperpilot/paperpilot-cli/internal/logger"
)

// version is overridden at build time via
// -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("failed to open config store: %w", err)
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("failed to open metadata store: %w", err)
	}
	defer store.Close() //nolint:errcheck

	prompts, err := file.NewPromptStore("")
	if err != nil {
		return fmt.Errorf("failed to open prompt store: %w", err)
	}

	wiring := cli.Services{
		Library:  services.NewLibraryService(store.DocumentStore()),
		Settings: settingsService,
	}

	// The AI-backed services are wired only when the providers are
	// configured; without them the relevant commands report that and
	// point at the settings wizard.
	embedder, err := ai.CreateEmbedder(&settings.Embedding)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}
	generator, err := ai.CreateGenerator(&settings.Generator)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	if embedder != nil {
		index, err := buildIndex(settings)
		if err != nil {
			return err
		}

		splitter := chunker.New()
		extractors := []driven.Extractor{pdf.New(), plaintext.New()}

		wiring.Ingest = services.NewIngestionService(
			store.DocumentStore(),
			store.IngestionStore(),
			store.ChatStore(),
			index,
			embedder,
			extractors,
			splitter,
		)
		wiring.Papers = services.NewPapersService(
			store.DocumentStore(),
			index,
			embedder,
			arxiv.New(arxiv.Config{}),
		)

		if generator != nil {
			retriever := services.NewRetriever(index, embedder)
			wiring.Assistant = services.NewAnswerService(
				store.DocumentStore(),
				store.ChatStore(),
				retriever,
				generator,
				prompts,
			)
		}
	} else {
		logger.Debug("Embedding provider not configured, AI commands disabled")
	}

	cli.SetServices(wiring)
	cli.SetVersion(version)

	return cli.Execute()
}

// buildIndex creates the vector index selected in settings.
func buildIndex(settings *domain.AppSettings) (driven.VectorIndex, error) {
	if settings.Index.Backend == domain.IndexBackendMemory {
		return memindex.New(), nil
	}

	index, err := qdrant.New(qdrant.Config{
		Host:       settings.Index.Host,
		Port:       settings.Index.Port,
		APIKey:     settings.Index.APIKey,
		Dimensions: settings.Embedding.Dimensions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to vector index: %w", err)
	}
	return index, nil
}
