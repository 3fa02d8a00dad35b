package driving

import (
	"context"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
)

// IngestService turns raw documents into indexed, searchable chunks.
type IngestService interface {
	// IngestFile registers a new owner-scoped document for the file at
	// path and runs the ingestion pipeline. Returns the created document
	// and the number of chunks indexed.
	IngestFile(ctx context.Context, path, ownerID string) (*domain.Document, int, error)

	// IngestDocument runs the ingestion pipeline for an already
	// registered document. Idempotent: a document is processed at most
	// once; repeat calls return the recorded chunk count without
	// re-reading the file or re-embedding.
	IngestDocument(ctx context.Context, documentID string) (int, error)

	// Delete removes a document and everything derived from it: index
	// entries, ingestion record and chat history.
	Delete(ctx context.Context, documentID string) error

	// Reindex wipes a document's index entries and ingestion record,
	// then runs the pipeline again from the stored file.
	Reindex(ctx context.Context, documentID string) (int, error)
}
