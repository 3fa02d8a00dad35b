// Package memory provides an in-process vector index, used in tests
// and as a fallback when no Qdrant instance is configured.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of driven.VectorIndex using
// exhaustive inner-product search. Entries are unit-normalised upstream,
// so inner product equals cosine similarity.
type Index struct {
	mu          sync.RWMutex
	collections map[string]map[string]driven.VectorEntry
}

// New creates a new in-memory vector index.
func New() *Index {
	return &Index{
		collections: make(map[string]map[string]driven.VectorEntry),
	}
}

// Upsert inserts or replaces entries by id.
func (idx *Index) Upsert(_ context.Context, collection string, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	coll, ok := idx.collections[collection]
	if !ok {
		coll = make(map[string]driven.VectorEntry)
		idx.collections[collection] = coll
	}
	for _, entry := range entries {
		coll[entry.ID] = entry
	}
	return nil
}

// Query returns the k nearest entries to the vector that satisfy the
// filter. Ties are broken by id so results are deterministic.
func (idx *Index) Query(_ context.Context, collection string, vector []float32, k int, filter domain.Filter) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	var hits []driven.VectorHit
	for _, entry := range idx.collections[collection] {
		if !filter.Matches(entry.Meta) {
			continue
		}
		hits = append(hits, driven.VectorHit{
			ID:    entry.ID,
			Text:  entry.Text,
			Meta:  entry.Meta,
			Score: dot(vector, entry.Vector),
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ID < hits[j].ID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// DeleteByID removes the named entries. Unknown ids are ignored.
func (idx *Index) DeleteByID(_ context.Context, collection string, ids []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	coll := idx.collections[collection]
	for _, id := range ids {
		delete(coll, id)
	}
	return nil
}

// DeleteByFilter removes all entries matching the filter.
func (idx *Index) DeleteByFilter(_ context.Context, collection string, filter domain.Filter) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	coll := idx.collections[collection]
	for id, entry := range coll {
		if filter.Matches(entry.Meta) {
			delete(coll, id)
		}
	}
	return nil
}

// Close releases resources.
func (idx *Index) Close() error {
	return nil
}

// Count returns the number of entries in a collection.
func (idx *Index) Count(collection string) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.collections[collection])
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
