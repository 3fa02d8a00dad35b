package driven

import (
	"context"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
)

// Logical index collections, one per content type.
const (
	// CollectionChunks stores document chunk vectors.
	CollectionChunks = "paper_chunks"

	// CollectionAbstracts stores the shared abstract corpus.
	CollectionAbstracts = "paper_abstracts"
)

// VectorEntry is one (vector, text, metadata, id) tuple in a collection.
type VectorEntry struct {
	// ID identifies the entry. Deterministic ids make upserts idempotent.
	ID string

	// Vector is the unit-normalised embedding.
	Vector []float32

	// Text is the raw chunk text.
	Text string

	// Meta is the filterable entry metadata.
	Meta domain.ChunkMeta
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// ID is the matched entry.
	ID string

	// Text is the stored chunk text.
	Text string

	// Meta is the stored entry metadata.
	Meta domain.ChunkMeta

	// Score is the similarity score (higher is more similar).
	Score float64
}

// VectorIndex stores embeddings in named collections and supports
// metadata-filtered approximate nearest-neighbour search.
//
// Implementations must be safe for concurrent readers and writers, and
// must return results in a deterministic order for a fixed index state.
type VectorIndex interface {
	// Upsert inserts or replaces entries by id.
	// An empty batch is a no-op, not an error.
	Upsert(ctx context.Context, collection string, entries []VectorEntry) error

	// Query returns the k nearest entries to the vector, restricted to
	// entries whose metadata satisfies the filter. Returns fewer than k
	// if the filtered population is smaller.
	Query(ctx context.Context, collection string, vector []float32, k int, filter domain.Filter) ([]VectorHit, error)

	// DeleteByID removes the named entries. Unknown ids are ignored.
	DeleteByID(ctx context.Context, collection string, ids []string) error

	// DeleteByFilter removes all entries matching the filter.
	// Used for document deletion cascades and full reindexing.
	DeleteByFilter(ctx context.Context, collection string, filter domain.Filter) error

	// Close releases resources.
	Close() error
}
