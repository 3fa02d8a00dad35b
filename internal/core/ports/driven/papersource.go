package driven

import (
	"context"
	"time"
)

// PaperMeta is the metadata of one paper at an external source.
type PaperMeta struct {
	// ExternalID identifies the paper at the source (e.g. arXiv id).
	ExternalID string

	// Title is the paper title.
	Title string

	// Abstract is the cleaned abstract text.
	Abstract string

	// PDFURL points at the full-text PDF.
	PDFURL string

	// Published is the submission time.
	Published time.Time

	// Categories are the source's subject categories.
	Categories []string
}

// PaperSource lists papers from an external catalogue such as arXiv.
type PaperSource interface {
	// Latest returns up to max recently submitted papers in the given
	// categories, newest first.
	Latest(ctx context.Context, categories []string, max int) ([]PaperMeta, error)
}
