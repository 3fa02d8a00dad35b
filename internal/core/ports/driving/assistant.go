package driving

import (
	"context"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
)

// AskRequest is a question about one document.
type AskRequest struct {
	// DocumentID is the document to answer from.
	DocumentID string

	// UserID is the asking user, used for scope checks and chat history.
	UserID string

	// Question is the user's question.
	Question string

	// TopK is the number of context snippets to retrieve (default 5).
	TopK int
}

// AskResult is the answer to a question.
type AskResult struct {
	// Answer is the generated answer, or the fixed not-found message
	// when the document held no relevant content.
	Answer string

	// Snippets are the context spans the answer was generated from.
	// Empty when no relevant content was found.
	Snippets []domain.Snippet
}

// Assistant answers questions about and summarises indexed documents.
type Assistant interface {
	// Ask answers a question using only content retrieved from the
	// scoped document. When retrieval yields nothing usable the
	// generator is not invoked and a fixed not-found answer is returned.
	Ask(ctx context.Context, req AskRequest) (*AskResult, error)

	// Summarize produces a concise academic summary of the document.
	Summarize(ctx context.Context, documentID, userID string) (string, error)

	// Retrieve exposes the raw retrieval pipeline: ranked, filtered,
	// deduplicated snippets for a query within a scope.
	Retrieve(ctx context.Context, query string, scope domain.Scope, k int) ([]domain.Snippet, error)
}
