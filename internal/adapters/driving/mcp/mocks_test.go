package mcp

import (
	"context"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
)

// mockAssistant is a mock implementation of driving.Assistant.
type mockAssistant struct {
	result  *driving.AskResult
	lastAsk driving.AskRequest
	err     error
}

func (m *mockAssistant) Ask(_ context.Context, req driving.AskRequest) (*driving.AskResult, error) {
	m.lastAsk = req
	return m.result, m.err
}

func (m *mockAssistant) Summarize(_ context.Context, _, _ string) (string, error) {
	return "", m.err
}

func (m *mockAssistant) Retrieve(
	_ context.Context,
	_ string,
	_ domain.Scope,
	_ int,
) ([]domain.Snippet, error) {
	return nil, m.err
}

// mockPaperDirectory is a mock implementation of driving.PaperDirectory.
type mockPaperDirectory struct {
	papers    []domain.Document
	lastQuery string
	lastLimit int
	err       error
}

func (m *mockPaperDirectory) Fetch(_ context.Context, _ []string, _ int) (int, error) {
	return 0, m.err
}

func (m *mockPaperDirectory) Search(_ context.Context, query string, limit int) ([]domain.Document, error) {
	m.lastQuery = query
	m.lastLimit = limit
	return m.papers, m.err
}

func (m *mockPaperDirectory) Recent(_ context.Context, _ int) ([]domain.Document, error) {
	return m.papers, m.err
}

// mockLibraryService is a mock implementation of driving.LibraryService.
type mockLibraryService struct {
	docs []domain.Document
	err  error
}

func (m *mockLibraryService) List(_ context.Context, _ string) ([]domain.Document, error) {
	return m.docs, m.err
}

func (m *mockLibraryService) Get(_ context.Context, _, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.docs) == 0 {
		return nil, domain.ErrNotFound
	}
	return &m.docs[0], nil
}
