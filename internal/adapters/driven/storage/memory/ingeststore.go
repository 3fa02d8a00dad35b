package memory

import (
	"context"
	"sync"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
)

// Ensure IngestionStore implements the interface.
var _ driven.IngestionStore = (*IngestionStore)(nil)

// IngestionStore is an in-memory implementation of driven.IngestionStore.
type IngestionStore struct {
	mu      sync.RWMutex
	records map[string]domain.IngestionRecord
}

// NewIngestionStore creates a new in-memory ingestion store.
func NewIngestionStore() *IngestionStore {
	return &IngestionStore{
		records: make(map[string]domain.IngestionRecord),
	}
}

// Get retrieves the ingestion record for a document.
func (s *IngestionStore) Get(_ context.Context, documentID string) (*domain.IngestionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[documentID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rec, nil
}

// Save writes an ingestion record.
func (s *IngestionStore) Save(_ context.Context, rec domain.IngestionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.DocumentID] = rec
	return nil
}

// Delete removes the record for a document.
func (s *IngestionStore) Delete(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, documentID)
	return nil
}
