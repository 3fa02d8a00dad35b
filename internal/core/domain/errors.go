package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist, or the
	// caller lacks scope to see it. Never retried.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrExtractionFailed indicates the source file is unreadable or not
	// a valid document of the expected format. Not retried automatically;
	// the underlying bytes are not going to change.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmbeddingUnavailable indicates a transient failure of the
	// embedding service. Retryable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates a transient failure of the
	// generation service. Retryable; surfaced to users as a degraded
	// "could not generate an answer right now" response.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrIndexUnavailable indicates a transient failure of the vector
	// index. Retryable.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrEmptyGeneration indicates the model returned no usable output.
	// Surfaced as an explicit "no answer/summary could be generated"
	// outcome, never papered over with canned text.
	ErrEmptyGeneration = errors.New("model returned no output")
)
