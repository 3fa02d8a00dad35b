package driven

import "context"

// Page is one page of extracted document text.
type Page struct {
	// Number is the 1-based page number, or domain.PageUnknown when the
	// source format does not preserve page boundaries.
	Number int

	// Text is the extracted page text.
	Text string
}

// Extractor pulls plain text out of a raw document file.
//
// A corrupt or unreadable file is reported as domain.ErrExtractionFailed;
// a readable file with no text is an empty slice, not an error.
type Extractor interface {
	// Extract reads the file at path and returns its pages in order.
	Extract(ctx context.Context, path string) ([]Page, error)

	// Supports reports whether this extractor handles the file at path.
	Supports(path string) bool
}
