package services

import (
	"context"
	"sync"

	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockEmbedder implements driven.Embedder for testing.
type mockEmbedder struct {
	mu           sync.Mutex
	passageCalls int
	passageTexts [][]string
	queryCalls   int
	queryVec     []float32
	passageErr   error
	queryErr     error
}

func (m *mockEmbedder) EmbedPassages(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.passageErr != nil {
		return nil, m.passageErr
	}
	m.passageCalls++
	m.passageTexts = append(m.passageTexts, texts)
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vectors[i] = []float32{1, 0}
	}
	return vectors, nil
}

func (m *mockEmbedder) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	m.queryCalls++
	if m.queryVec != nil {
		return m.queryVec, nil
	}
	return []float32{1, 0}, nil
}

func (m *mockEmbedder) Dimensions() int { return 2 }

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// mockGenerator implements driven.Generator for testing.
type mockGenerator struct {
	mu         sync.Mutex
	calls      int
	lastPrompt string
	response   string
	err        error
}

func (m *mockGenerator) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.calls++
	m.lastPrompt = prompt
	if m.response != "" {
		return m.response, nil
	}
	return "generated answer", nil
}

func (m *mockGenerator) ModelName() string { return "mock-llm" }

func (m *mockGenerator) Ping(_ context.Context) error { return nil }

func (m *mockGenerator) Close() error { return nil }

// mockPrompts implements driven.PromptStore for testing.
type mockPrompts struct{}

func (mockPrompts) Load(name string) (string, error) {
	switch name {
	case driven.PromptAnswer:
		return "Context:\n%s\nHistory:\n%s\nQuestion: %s", nil
	case driven.PromptSummarise:
		return "Summarise:\n%s", nil
	}
	return "", nil
}

func (mockPrompts) Reload() {}

// mockExtractor implements driven.Extractor for testing.
type mockExtractor struct {
	mu       sync.Mutex
	calls    int
	pages    []driven.Page
	err      error
	supports bool
}

func (m *mockExtractor) Extract(_ context.Context, _ string) ([]driven.Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.calls++
	return m.pages, nil
}

func (m *mockExtractor) Supports(_ string) bool { return m.supports }

func (m *mockExtractor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockPaperSource implements driven.PaperSource for testing.
type mockPaperSource struct {
	metas []driven.PaperMeta
	err   error
}

func (m *mockPaperSource) Latest(_ context.Context, _ []string, max int) ([]driven.PaperMeta, error) {
	if m.err != nil {
		return nil, m.err
	}
	if max > 0 && len(m.metas) > max {
		return m.metas[:max], nil
	}
	return m.metas, nil
}

func strPtr(s string) *string { return &s }
