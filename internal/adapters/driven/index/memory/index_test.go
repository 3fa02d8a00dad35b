package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
)

func strPtr(s string) *string { return &s }

func entry(id, docID string, owner *string, vec []float32) driven.VectorEntry {
	return driven.VectorEntry{
		ID:     id,
		Vector: vec,
		Text:   "text for " + id,
		Meta:   domain.ChunkMeta{DocumentID: docID, OwnerID: owner, Page: 1, Section: domain.SectionBody},
	}
}

func TestIndex_UpsertAndQuery(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, driven.CollectionChunks, []driven.VectorEntry{
		entry("a", "doc-1", nil, []float32{1, 0}),
		entry("b", "doc-1", nil, []float32{0, 1}),
		entry("c", "doc-2", nil, []float32{0.7, 0.7}),
	}))

	hits, err := idx.Query(ctx, driven.CollectionChunks, []float32{1, 0}, 2, domain.NoFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "a", hits[0].ID)
	assert.Equal(t, "c", hits[1].ID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestIndex_UpsertReplacesByID(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, driven.CollectionChunks, []driven.VectorEntry{
		entry("a", "doc-1", nil, []float32{1, 0}),
	}))
	replacement := entry("a", "doc-1", nil, []float32{0, 1})
	replacement.Text = "replaced"
	require.NoError(t, idx.Upsert(ctx, driven.CollectionChunks, []driven.VectorEntry{replacement}))

	assert.Equal(t, 1, idx.Count(driven.CollectionChunks))

	hits, err := idx.Query(ctx, driven.CollectionChunks, []float32{0, 1}, 1, domain.NoFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "replaced", hits[0].Text)
}

func TestIndex_QueryFilters(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, driven.CollectionChunks, []driven.VectorEntry{
		entry("a", "doc-1", strPtr("alice"), []float32{1, 0}),
		entry("b", "doc-1", strPtr("bob"), []float32{1, 0}),
		entry("c", "doc-2", strPtr("alice"), []float32{1, 0}),
		entry("d", "doc-3", nil, []float32{1, 0}),
	}))

	t.Run("document scope", func(t *testing.T) {
		scope := domain.Scope{DocumentID: "doc-1"}
		hits, err := idx.Query(ctx, driven.CollectionChunks, []float32{1, 0}, 10, scope.Filter())
		require.NoError(t, err)
		assert.Len(t, hits, 2)
	})

	t.Run("document and owner scope", func(t *testing.T) {
		scope := domain.Scope{DocumentID: "doc-1", OwnerID: strPtr("alice")}
		hits, err := idx.Query(ctx, driven.CollectionChunks, []float32{1, 0}, 10, scope.Filter())
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "a", hits[0].ID)
	})

	t.Run("owner scope excludes shared entries", func(t *testing.T) {
		scope := domain.Scope{OwnerID: strPtr("alice")}
		hits, err := idx.Query(ctx, driven.CollectionChunks, []float32{1, 0}, 10, scope.Filter())
		require.NoError(t, err)
		assert.Len(t, hits, 2)
		for _, hit := range hits {
			assert.NotEqual(t, "d", hit.ID)
		}
	})
}

func TestIndex_TieBreakByID(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, driven.CollectionChunks, []driven.VectorEntry{
		entry("b", "doc-1", nil, []float32{1, 0}),
		entry("a", "doc-1", nil, []float32{1, 0}),
		entry("c", "doc-1", nil, []float32{1, 0}),
	}))

	hits, err := idx.Query(ctx, driven.CollectionChunks, []float32{1, 0}, 3, domain.NoFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{hits[0].ID, hits[1].ID, hits[2].ID})
}

func TestIndex_Delete(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, driven.CollectionChunks, []driven.VectorEntry{
		entry("a", "doc-1", nil, []float32{1, 0}),
		entry("b", "doc-1", nil, []float32{1, 0}),
		entry("c", "doc-2", nil, []float32{1, 0}),
	}))

	t.Run("by id ignores unknown", func(t *testing.T) {
		require.NoError(t, idx.DeleteByID(ctx, driven.CollectionChunks, []string{"a", "nope"}))
		assert.Equal(t, 2, idx.Count(driven.CollectionChunks))
	})

	t.Run("by filter", func(t *testing.T) {
		scope := domain.Scope{DocumentID: "doc-1"}
		require.NoError(t, idx.DeleteByFilter(ctx, driven.CollectionChunks, scope.Filter()))
		assert.Equal(t, 1, idx.Count(driven.CollectionChunks))

		hits, err := idx.Query(ctx, driven.CollectionChunks, []float32{1, 0}, 10, domain.NoFilter{})
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "c", hits[0].ID)
	})
}

func TestIndex_CollectionsAreIsolated(t *testing.T) {
	idx := New()
	ctx := context.Background()

	require.NoError(t, idx.Upsert(ctx, driven.CollectionChunks, []driven.VectorEntry{
		entry("a", "doc-1", nil, []float32{1, 0}),
	}))
	require.NoError(t, idx.Upsert(ctx, driven.CollectionAbstracts, []driven.VectorEntry{
		entry("doc-1", "doc-1", nil, []float32{1, 0}),
	}))

	hits, err := idx.Query(ctx, driven.CollectionAbstracts, []float32{1, 0}, 10, domain.NoFilter{})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "doc-1", hits[0].ID)

	require.NoError(t, idx.DeleteByID(ctx, driven.CollectionAbstracts, []string{"doc-1"}))
	assert.Equal(t, 1, idx.Count(driven.CollectionChunks))
}

func TestIndex_EmptyBatchIsNoop(t *testing.T) {
	idx := New()
	require.NoError(t, idx.Upsert(context.Background(), driven.CollectionChunks, nil))
	assert.Equal(t, 0, idx.Count(driven.CollectionChunks))
}
