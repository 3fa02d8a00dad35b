package driving

import (
	"context"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
)

// LibraryService lists and inspects documents visible to a user.
type LibraryService interface {
	// List returns the user's own documents, most recent first.
	List(ctx context.Context, ownerID string) ([]domain.Document, error)

	// Get returns a document the user may read. Documents that do not
	// exist and documents the user may not read are both reported as
	// domain.ErrNotFound.
	Get(ctx context.Context, documentID, userID string) (*domain.Document, error)
}
