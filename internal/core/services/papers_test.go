package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	indexmem "github.com/paperpilot/paperpilot-cli/internal/adapters/driven/index/memory"
	"github.com/paperpilot/paperpilot-cli/internal/adapters/driven/storage/memory"
	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
)

type papersFixture struct {
	svc      *PapersService
	docStore *memory.DocumentStore
	index    *indexmem.Index
	embedder *mockEmbedder
	source   *mockPaperSource
}

func newPapersFixture(source *mockPaperSource) *papersFixture {
	f := &papersFixture{
		docStore: memory.NewDocumentStore(),
		index:    indexmem.New(),
		embedder: &mockEmbedder{},
		source:   source,
	}
	f.svc = NewPapersService(f.docStore, f.index, f.embedder, source)
	return f
}

func paperMeta(id, title, abstract string) driven.PaperMeta {
	return driven.PaperMeta{
		ExternalID: id,
		Title:      title,
		Abstract:   abstract,
		PDFURL:     "https://arxiv.org/pdf/" + id,
		Published:  time.Now(),
		Categories: []string{"cs.CL"},
	}
}

func TestFetch_IndexesNewPapers(t *testing.T) {
	f := newPapersFixture(&mockPaperSource{metas: []driven.PaperMeta{
		paperMeta("2401.00001", "Paper One", "Abstract of the first paper."),
		paperMeta("2401.00002", "Paper Two", "Abstract of the second paper."),
	}})
	ctx := context.Background()

	count, err := f.svc.Fetch(ctx, []string{"cs.CL"}, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.Equal(t, 2, f.index.Count(driven.CollectionAbstracts))

	doc, err := f.docStore.GetByExternalID(ctx, domain.OriginArxiv, "2401.00001")
	require.NoError(t, err)
	assert.Nil(t, doc.OwnerID)
	assert.Equal(t, "Paper One", doc.Title)
	assert.Equal(t, "Abstract of the first paper.", doc.Abstract)
	assert.True(t, doc.Shared())
}

func TestFetch_SkipsKnownPapers(t *testing.T) {
	f := newPapersFixture(&mockPaperSource{metas: []driven.PaperMeta{
		paperMeta("2401.00001", "Known Paper", "Already indexed."),
		paperMeta("2401.00002", "New Paper", "Not seen before."),
	}})
	ctx := context.Background()

	require.NoError(t, f.docStore.SaveDocument(ctx, &domain.Document{
		ID:         "existing",
		Origin:     domain.OriginArxiv,
		ExternalID: strPtr("2401.00001"),
	}))

	count, err := f.svc.Fetch(ctx, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Only the new paper's abstract was embedded.
	require.Len(t, f.embedder.passageTexts, 1)
	require.Len(t, f.embedder.passageTexts[0], 1)
	assert.Equal(t, "Not seen before.", f.embedder.passageTexts[0][0])
}

func TestFetch_EmptyAbstractFallsBackToTitle(t *testing.T) {
	f := newPapersFixture(&mockPaperSource{metas: []driven.PaperMeta{
		paperMeta("2401.00001", "Title Only Paper", "   "),
	}})

	count, err := f.svc.Fetch(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.Len(t, f.embedder.passageTexts, 1)
	assert.Equal(t, "Title Only Paper", f.embedder.passageTexts[0][0])
}

func TestFetch_NothingNew(t *testing.T) {
	f := newPapersFixture(&mockPaperSource{})

	count, err := f.svc.Fetch(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, f.embedder.passageCalls)
}

func TestSearch_PreservesRankAndDropsStale(t *testing.T) {
	f := newPapersFixture(&mockPaperSource{})
	ctx := context.Background()

	// Three abstracts with descending similarity to the query vector.
	for i, id := range []string{"best", "stale", "worst"} {
		score := float32(1) - float32(i)*0.2
		require.NoError(t, f.index.Upsert(ctx, driven.CollectionAbstracts, []driven.VectorEntry{{
			ID:     id,
			Vector: []float32{score, 0},
			Text:   "abstract " + id,
			Meta:   domain.ChunkMeta{DocumentID: id, Section: domain.SectionAbstract},
		}}))
	}
	for _, id := range []string{"best", "worst"} {
		require.NoError(t, f.docStore.SaveDocument(ctx, &domain.Document{
			ID: id, Origin: domain.OriginArxiv, ExternalID: strPtr(id), Title: "Paper " + id,
		}))
	}

	docs, err := f.svc.Search(ctx, "relevant topic", 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "best", docs[0].ID)
	assert.Equal(t, "worst", docs[1].ID)
}

func TestSearch_EmptyQuery(t *testing.T) {
	f := newPapersFixture(&mockPaperSource{})
	_, err := f.svc.Search(context.Background(), "  ", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRecent(t *testing.T) {
	f := newPapersFixture(&mockPaperSource{})
	ctx := context.Background()

	base := time.Now()
	for i, id := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, f.docStore.SaveDocument(ctx, &domain.Document{
			ID:         id,
			Origin:     domain.OriginArxiv,
			ExternalID: strPtr(id),
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}))
	}

	docs, err := f.svc.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "newest", docs[0].ID)
	assert.Equal(t, "middle", docs[1].ID)
}
