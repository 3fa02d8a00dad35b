package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
	"github.com/paperpilot/paperpilot-cli/internal/logger"
)

const (
	// defaultTopK is the number of snippets retrieved when the caller
	// does not specify one.
	defaultTopK = 5

	// overFetchFactor is how many extra candidates to pull from the
	// index so that dedup and junk filtering still leave k results.
	overFetchFactor = 2

	// dedupPrefixLen is the number of leading characters used as the
	// near-duplicate key. Overlapping chunks share long prefixes.
	dedupPrefixLen = 200

	// junkMinLen is the minimum useful snippet length. Shorter spans are
	// page furniture: headers, footers, stray numbers.
	junkMinLen = 30
)

// citationPattern matches spans that are nothing but a citation marker
// like "[12]". A snippet that merely starts with one is kept.
var citationPattern = regexp.MustCompile(`^\[\d+\]$`)

// Retriever runs the retrieval pipeline: embed the query, over-fetch
// scoped candidates, then drop empties, near-duplicates and junk.
type Retriever struct {
	index    driven.VectorIndex
	embedder driven.Embedder
}

// NewRetriever creates a new retriever.
func NewRetriever(index driven.VectorIndex, embedder driven.Embedder) *Retriever {
	return &Retriever{index: index, embedder: embedder}
}

// Retrieve returns up to k cleaned snippets for the query within the
// scope, in descending similarity order.
func (r *Retriever) Retrieve(ctx context.Context, query string, scope domain.Scope, k int) ([]domain.Snippet, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = defaultTopK
	}

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := r.index.Query(ctx, driven.CollectionChunks, vector, k*overFetchFactor, scope.Filter())
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}
	logger.Debug("Retrieved %d candidates for %q", len(hits), query)

	snippets := cleanHits(hits, k)
	logger.Debug("Kept %d snippets after filtering", len(snippets))
	return snippets, nil
}

// cleanHits applies the filtering pipeline to ranked hits: drop empty
// text, collapse near-duplicates keeping the higher-ranked copy, drop
// junk spans, then truncate to k.
func cleanHits(hits []driven.VectorHit, k int) []domain.Snippet {
	seen := make(map[string]bool, len(hits))
	snippets := make([]domain.Snippet, 0, k)

	for _, hit := range hits {
		text := strings.TrimSpace(hit.Text)
		if text == "" {
			continue
		}

		key := text
		if len(key) > dedupPrefixLen {
			key = key[:dedupPrefixLen]
		}
		if seen[key] {
			continue
		}
		seen[key] = true

		if len(text) < junkMinLen || citationPattern.MatchString(text) {
			continue
		}

		snippets = append(snippets, domain.Snippet{
			Text:    text,
			Page:    hit.Meta.Page,
			Section: hit.Meta.Section,
		})
		if len(snippets) == k {
			break
		}
	}

	return snippets
}

// BuildContext joins snippet texts into a single prompt context, keeping
// whole snippets in rank order until maxChars would be exceeded. At
// least the first snippet is always included, truncated if necessary.
func BuildContext(snippets []domain.Snippet, maxChars int) string {
	if len(snippets) == 0 {
		return ""
	}

	var b strings.Builder
	for i, s := range snippets {
		addition := len(s.Text)
		if i > 0 {
			addition += 2
		}
		if b.Len()+addition > maxChars {
			if i == 0 {
				return truncateRunes(s.Text, maxChars)
			}
			break
		}
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// truncateRunes cuts s to at most maxBytes without splitting a rune.
func truncateRunes(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
