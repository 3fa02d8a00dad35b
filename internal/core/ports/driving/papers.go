package driving

import (
	"context"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
)

// PaperDirectory manages the shared corpus of external research papers.
type PaperDirectory interface {
	// Fetch pulls recent papers from the external source, creates shared
	// documents for the ones not seen before and indexes their abstracts.
	// Returns the number of newly indexed papers.
	Fetch(ctx context.Context, categories []string, max int) (int, error)

	// Search performs semantic search over the abstract corpus.
	// Results preserve the similarity rank order of the index.
	Search(ctx context.Context, query string, limit int) ([]domain.Document, error)

	// Recent returns the most recently added shared papers.
	Recent(ctx context.Context, limit int) ([]domain.Document, error)
}
