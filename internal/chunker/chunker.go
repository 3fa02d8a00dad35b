// Package chunker splits extracted document text into overlapping
// segments sized for the embedding context window.
package chunker

import (
	"strings"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters
// between consecutive chunks. Overlap preserves context continuity
// across a cut.
const DefaultChunkOverlap = 100

// sectionProbe is how many leading characters of a chunk the section
// heuristic inspects.
const sectionProbe = 200

// defaultSeparators are tried in order: paragraph breaks, then line
// breaks, then spaces, with hard character cuts as the last resort.
var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Chunker splits document text into overlapping, provenance-tagged chunks.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in characters.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't exceed chunk size
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// Split turns extracted pages into an ordered sequence of chunks for the
// document. Chunk ids are deterministic ("{docID}_{position}") so
// re-ingestion overwrites rather than duplicates. Chunks never span a
// page boundary; position numbering continues across pages. An empty
// document produces an empty slice.
func (c *Chunker) Split(doc *domain.Document, pages []driven.Page) []domain.Chunk {
	var chunks []domain.Chunk
	position := 0

	for _, page := range pages {
		for _, text := range c.splitText(page.Text) {
			if strings.TrimSpace(text) == "" {
				continue
			}

			chunks = append(chunks, domain.Chunk{
				ID:         domain.ChunkID(doc.ID, position),
				DocumentID: doc.ID,
				OwnerID:    doc.OwnerID,
				Content:    text,
				Page:       page.Number,
				Section:    detectSection(text),
				Position:   position,
			})
			position++
		}
	}

	return chunks
}

// splitText splits raw text into segments of at most chunkSize
// characters, preferring natural boundaries.
func (c *Chunker) splitText(text string) []string {
	if text == "" {
		return nil
	}
	return c.split(text, defaultSeparators)
}

// split recursively breaks text at the first separator present, falling
// through to finer separators for oversized fragments.
func (c *Chunker) split(text string, separators []string) []string {
	if len(text) <= c.chunkSize {
		return []string{text}
	}

	sep := ""
	remaining := []string{""}
	for i, s := range separators {
		if s == "" {
			sep = ""
			break
		}
		if strings.Contains(text, s) {
			sep = s
			remaining = separators[i+1:]
			break
		}
	}

	if sep == "" {
		return c.hardCut(text)
	}

	parts := strings.Split(text, sep)
	pieces := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if len(part) > c.chunkSize {
			pieces = append(pieces, c.split(part, remaining)...)
			continue
		}
		pieces = append(pieces, part)
	}

	return c.merge(pieces, sep)
}

// merge greedily joins pieces into chunks of at most chunkSize,
// carrying a tail of roughly overlap characters into the next chunk.
func (c *Chunker) merge(pieces []string, sep string) []string {
	var (
		chunks  []string
		current []string
		total   int
	)

	for _, piece := range pieces {
		projected := total + len(piece)
		if len(current) > 0 {
			projected += len(sep)
		}
		if projected > c.chunkSize && len(current) > 0 {
			chunks = append(chunks, strings.Join(current, sep))

			// Shed pieces from the front until what remains fits the
			// overlap budget and leaves room for the incoming piece.
			for len(current) > 0 && (total > c.overlap || total+len(piece)+len(sep) > c.chunkSize) {
				total -= len(current[0])
				if len(current) > 1 {
					total -= len(sep)
				}
				current = current[1:]
			}
		}
		current = append(current, piece)
		total += len(piece)
		if len(current) > 1 {
			total += len(sep)
		}
	}

	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, sep))
	}

	return chunks
}

// hardCut slices text at fixed offsets when no separator is available.
func (c *Chunker) hardCut(text string) []string {
	step := c.chunkSize - c.overlap
	if step <= 0 {
		step = c.chunkSize
	}

	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + c.chunkSize
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
		if end == len(text) {
			break
		}
	}
	return chunks
}

// detectSection labels a chunk by scanning its opening characters for
// section keywords. Defaults to "body".
func detectSection(text string) string {
	probe := text
	if len(probe) > sectionProbe {
		probe = probe[:sectionProbe]
	}
	probe = strings.ToLower(probe)

	switch {
	case strings.Contains(probe, "abstract"):
		return domain.SectionAbstract
	case strings.Contains(probe, "introduction"):
		return domain.SectionIntroduction
	case strings.Contains(probe, "references"):
		return domain.SectionReferences
	default:
		return domain.SectionBody
	}
}
