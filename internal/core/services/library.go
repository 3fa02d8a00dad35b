package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService lists and inspects documents visible to a user.
type LibraryService struct {
	docStore driven.DocumentStore
}

// NewLibraryService creates a new library service.
func NewLibraryService(docStore driven.DocumentStore) *LibraryService {
	return &LibraryService{docStore: docStore}
}

// List returns the user's own documents, most recent first.
func (s *LibraryService) List(ctx context.Context, ownerID string) ([]domain.Document, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}

	docs, err := s.docStore.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// Get returns a document the user may read. Inaccessible documents are
// reported as not found so existence is not leaked.
func (s *LibraryService) Get(ctx context.Context, documentID, userID string) (*domain.Document, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if !doc.AccessibleBy(userID) {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}
	return doc, nil
}
