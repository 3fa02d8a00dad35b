package cli

import (
	"context"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
)

func strPtr(s string) *string { return &s }

// setupTestServices installs fake services and returns a cleanup that
// restores the previous wiring.
func setupTestServices() func() {
	prevIngest := ingestService
	prevAssistant := assistant
	prevPapers := paperService
	prevLibrary := libraryService
	prevSettings := settingsService
	prevUser := userFlag

	ingestService = &fakeIngestService{}
	assistant = &fakeAssistant{}
	paperService = &fakePaperDirectory{}
	libraryService = &fakeLibraryService{}
	settingsService = &fakeSettingsService{}
	userFlag = "tester"

	return func() {
		ingestService = prevIngest
		assistant = prevAssistant
		paperService = prevPapers
		libraryService = prevLibrary
		settingsService = prevSettings
		userFlag = prevUser
	}
}

type fakeIngestService struct{}

func (f *fakeIngestService) IngestFile(_ context.Context, path, ownerID string) (*domain.Document, int, error) {
	return &domain.Document{
		ID:      "doc-1",
		Origin:  domain.OriginUpload,
		OwnerID: &ownerID,
		Title:   path,
		Path:    path,
	}, 7, nil
}

func (f *fakeIngestService) IngestDocument(context.Context, string) (int, error) { return 7, nil }
func (f *fakeIngestService) Delete(context.Context, string) error                { return nil }
func (f *fakeIngestService) Reindex(context.Context, string) (int, error)        { return 7, nil }

type fakeAssistant struct{}

func (f *fakeAssistant) Ask(_ context.Context, req driving.AskRequest) (*driving.AskResult, error) {
	return &driving.AskResult{
		Answer: "The learning rate was 0.001.",
		Snippets: []domain.Snippet{
			{Text: "we train with a learning rate of 0.001", Page: 4, Section: domain.SectionBody},
		},
	}, nil
}

func (f *fakeAssistant) Summarize(context.Context, string, string) (string, error) {
	return "A short academic summary.", nil
}

func (f *fakeAssistant) Retrieve(context.Context, string, domain.Scope, int) ([]domain.Snippet, error) {
	return nil, nil
}

type fakePaperDirectory struct{}

func (f *fakePaperDirectory) Fetch(context.Context, []string, int) (int, error) { return 4, nil }

func (f *fakePaperDirectory) Search(context.Context, string, int) ([]domain.Document, error) {
	return []domain.Document{
		{
			ID:         "paper-1",
			Origin:     domain.OriginArxiv,
			Title:      "Attention Is All You Need",
			ExternalID: strPtr("1706.03762v7"),
			Abstract:   "The dominant sequence transduction models are based on recurrent networks.",
		},
	}, nil
}

func (f *fakePaperDirectory) Recent(ctx context.Context, limit int) ([]domain.Document, error) {
	return f.Search(ctx, "", limit)
}

type fakeLibraryService struct{}

func (f *fakeLibraryService) List(context.Context, string) ([]domain.Document, error) {
	return []domain.Document{
		{ID: "doc-1", Origin: domain.OriginUpload, Title: "My Paper"},
	}, nil
}

func (f *fakeLibraryService) Get(_ context.Context, documentID, _ string) (*domain.Document, error) {
	return &domain.Document{ID: documentID, Origin: domain.OriginUpload, Title: "My Paper"}, nil
}

type fakeSettingsService struct {
	settings domain.AppSettings
}

func (f *fakeSettingsService) Get() (*domain.AppSettings, error) {
	s := f.settings
	if s.Embedding.Provider == "" {
		s = domain.DefaultAppSettings()
	}
	return &s, nil
}

func (f *fakeSettingsService) Save(settings *domain.AppSettings) error {
	f.settings = *settings
	return nil
}

func (f *fakeSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	f.settings.Embedding.Provider = provider
	f.settings.Embedding.Model = model
	f.settings.Embedding.APIKey = apiKey
	return nil
}

func (f *fakeSettingsService) SetGeneratorProvider(provider domain.AIProvider, model, apiKey string) error {
	f.settings.Generator.Provider = provider
	f.settings.Generator.Model = model
	f.settings.Generator.APIKey = apiKey
	return nil
}

func (f *fakeSettingsService) Validate() error                 { return nil }
func (f *fakeSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (f *fakeSettingsService) ValidateEmbeddingConfig() error  { return nil }
func (f *fakeSettingsService) ValidateGeneratorConfig() error  { return nil }
