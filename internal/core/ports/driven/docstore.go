package driven

import (
	"context"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
)

// DocumentStore persists document metadata.
// Backed by SQLite for durable storage.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetByExternalID retrieves a document by its (origin, external id)
	// dedup key. Returns domain.ErrNotFound if it does not exist.
	GetByExternalID(ctx context.Context, origin domain.Origin, externalID string) (*domain.Document, error)

	// ListByOrigin returns up to limit documents of the given origin,
	// most recently created first.
	ListByOrigin(ctx context.Context, origin domain.Origin, limit int) ([]domain.Document, error)

	// ListByOwner returns all documents owned by the given user.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Document, error)

	// DeleteDocument removes a document row.
	DeleteDocument(ctx context.Context, id string) error
}

// IngestionStore persists the durable markers that make ingestion
// idempotent: presence of a record means "already indexed, do not
// reprocess".
type IngestionStore interface {
	// Get retrieves the ingestion record for a document.
	// Returns domain.ErrNotFound if the document was never ingested.
	Get(ctx context.Context, documentID string) (*domain.IngestionRecord, error)

	// Save writes an ingestion record.
	Save(ctx context.Context, rec domain.IngestionRecord) error

	// Delete removes the record, allowing the document to be re-ingested.
	Delete(ctx context.Context, documentID string) error
}

// ChatStore persists the append-only conversation log.
type ChatStore interface {
	// Append adds a message to the log.
	Append(ctx context.Context, msg domain.ChatMessage) error

	// History returns the most recent messages for a (document, user)
	// pair, oldest first, up to limit.
	History(ctx context.Context, documentID, userID string, limit int) ([]domain.ChatMessage, error)

	// DeleteForDocument removes all messages about a document.
	DeleteForDocument(ctx context.Context, documentID string) error
}
