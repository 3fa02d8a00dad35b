package driven

import "context"

// Embedder generates vector embeddings from text.
//
// Passages and queries are embedded through distinct methods because
// instruction-tuned retrieval models use asymmetric encoding: the adapter
// applies a role prefix ("passage: " / "query: ") when the configured
// model requires one. Returned vectors are unit-normalised so that inner
// product equals cosine similarity downstream.
//
// Embedding is deterministic: the same text with the same model yields
// the same vector.
type Embedder interface {
	// EmbedPassages generates embeddings for document chunks.
	// Returns one vector per input text, in input order.
	EmbedPassages(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	// This is determined by the model and must match the index configuration.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
