// Package pdf extracts per-page text from PDF files.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// Extractor reads PDF files page by page.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports reports whether this extractor handles the given file.
func (e *Extractor) Supports(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Extract returns the text of each page, 1-indexed. Blank pages are
// skipped. A file the engine cannot open reports ErrExtractionFailed.
func (e *Extractor) Extract(ctx context.Context, path string) ([]driven.Page, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", domain.ErrExtractionFailed, filepath.Base(path), err)
	}
	defer doc.Close()

	pages := make([]driven.Page, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("%w: page %d of %s: %v", domain.ErrExtractionFailed, i+1, filepath.Base(path), err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		pages = append(pages, driven.Page{Number: i + 1, Text: text})
	}

	return pages, nil
}
