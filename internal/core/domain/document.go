package domain

import (
	"fmt"
	"time"
)

// Origin identifies where a document came from.
type Origin string

// Known document origins.
const (
	// OriginUpload is a file uploaded by a user. Always owner-scoped.
	OriginUpload Origin = "upload"

	// OriginArxiv is a paper sourced from the arXiv API.
	// Shared across users (no owner) and deduplicated by external ID.
	OriginArxiv Origin = "arxiv"
)

// IsValid returns true if the origin is recognised.
func (o Origin) IsValid() bool {
	switch o {
	case OriginUpload, OriginArxiv:
		return true
	default:
		return false
	}
}

// Document represents a unit of content to be indexed.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Origin identifies where the document came from.
	Origin Origin

	// OwnerID is the owning user. Nil means the document is shared
	// globally (e.g. a public research paper).
	OwnerID *string

	// Title is the human-readable title.
	Title string

	// Path is the storage location of the raw document.
	// May be empty for external documents whose PDF has not been fetched.
	Path string

	// ExternalID identifies the document at its external source.
	// Nil for uploads; used to deduplicate shared documents so repeated
	// requests for the same external resource reuse one Document.
	ExternalID *string

	// Abstract is the paper abstract, when the origin provides one.
	Abstract string

	// Published is the external publication time, when known.
	Published time.Time

	// CreatedAt is when the document row was created.
	CreatedAt time.Time
}

// Shared returns true if the document is globally shared (no owner).
func (d *Document) Shared() bool {
	return d.OwnerID == nil
}

// AccessibleBy returns true if the given user may read this document.
// Shared documents are readable by everyone; owned documents only by
// their owner.
func (d *Document) AccessibleBy(userID string) bool {
	if d.Shared() {
		return true
	}
	return *d.OwnerID == userID
}

// Validate checks the document invariants.
func (d *Document) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: document ID is required", ErrInvalidInput)
	}
	if !d.Origin.IsValid() {
		return fmt.Errorf("%w: unknown origin %q", ErrInvalidInput, d.Origin)
	}
	if d.Origin == OriginUpload && d.OwnerID == nil {
		return fmt.Errorf("%w: uploaded documents require an owner", ErrInvalidInput)
	}
	if d.Origin != OriginUpload && d.ExternalID == nil {
		return fmt.Errorf("%w: external documents require an external ID", ErrInvalidInput)
	}
	return nil
}

// PageUnknown marks a chunk whose page could not be determined.
const PageUnknown = -1

// Section labels assigned to chunks by the section heuristic.
const (
	SectionAbstract     = "abstract"
	SectionIntroduction = "introduction"
	SectionReferences   = "references"
	SectionBody         = "body"
)

// Chunk is a contiguous span of text from one document, the unit of
// embedding and retrieval.
type Chunk struct {
	// ID is deterministic: "{documentID}_{position}". Re-ingesting a
	// document overwrites the same index entries instead of duplicating them.
	ID string

	// DocumentID links to the source document.
	DocumentID string

	// OwnerID is copied from the document at chunk-creation time.
	// Nil for shared documents.
	OwnerID *string

	// Content is the chunk text.
	Content string

	// Page is the page the chunk starts on, or PageUnknown.
	Page int

	// Section is the detected section label (abstract, introduction,
	// references or body).
	Section string

	// Position is the sequence index within the document.
	Position int
}

// ChunkID builds the deterministic chunk identifier for a document position.
func ChunkID(documentID string, position int) string {
	return fmt.Sprintf("%s_%d", documentID, position)
}

// Meta returns the index metadata for this chunk.
func (c *Chunk) Meta() ChunkMeta {
	return ChunkMeta{
		DocumentID: c.DocumentID,
		OwnerID:    c.OwnerID,
		Page:       c.Page,
		Section:    c.Section,
	}
}

// ChunkMeta is the metadata stored alongside each indexed vector entry.
type ChunkMeta struct {
	// DocumentID is the source document.
	DocumentID string

	// OwnerID is the owning user, nil for shared documents.
	OwnerID *string

	// Page is the source page, or PageUnknown.
	Page int

	// Section is the detected section label.
	Section string
}

// Snippet is a retrieved span of text handed back to callers.
type Snippet struct {
	// Text is the chunk content.
	Text string

	// Page is the source page, or PageUnknown.
	Page int

	// Section is the detected section label.
	Section string
}

// IngestionRecord is the durable marker that a document has been indexed.
// Its presence short-circuits repeat ingestion.
type IngestionRecord struct {
	// DocumentID keys the record.
	DocumentID string

	// ChunkCount is the number of chunks written to the index.
	ChunkCount int

	// CreatedAt is when ingestion completed.
	CreatedAt time.Time
}
