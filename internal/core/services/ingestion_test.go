package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	indexmem "github.com/paperpilot/paperpilot-cli/internal/adapters/driven/index/memory"
	"github.com/paperpilot/paperpilot-cli/internal/adapters/driven/storage/memory"
	"github.com/paperpilot/paperpilot-cli/internal/chunker"
	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
)

type ingestFixture struct {
	svc       *IngestionService
	docStore  *memory.DocumentStore
	ingStore  *memory.IngestionStore
	chatStore *memory.ChatStore
	index     *indexmem.Index
	embedder  *mockEmbedder
	extractor *mockExtractor
}

func newIngestFixture(extractor *mockExtractor) *ingestFixture {
	f := &ingestFixture{
		docStore:  memory.NewDocumentStore(),
		ingStore:  memory.NewIngestionStore(),
		chatStore: memory.NewChatStore(),
		index:     indexmem.New(),
		embedder:  &mockEmbedder{},
		extractor: extractor,
	}
	f.svc = NewIngestionService(
		f.docStore, f.ingStore, f.chatStore, f.index, f.embedder,
		[]driven.Extractor{extractor}, chunker.New(),
	)
	return f
}

// paperFile writes a placeholder file so the pipeline finds it on disk.
func paperFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("placeholder"), 0o600))
	return path
}

func TestIngestFile(t *testing.T) {
	extractor := &mockExtractor{
		supports: true,
		pages: []driven.Page{
			{Number: 1, Text: "The transformer architecture relies entirely on attention mechanisms."},
			{Number: 2, Text: "Experiments show strong results on machine translation benchmarks."},
		},
	}
	f := newIngestFixture(extractor)
	ctx := context.Background()

	doc, count, err := f.svc.IngestFile(ctx, paperFile(t, "attention_is_all_you_need.pdf"), "alice")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, 2, count)

	assert.Equal(t, domain.OriginUpload, doc.Origin)
	require.NotNil(t, doc.OwnerID)
	assert.Equal(t, "alice", *doc.OwnerID)
	assert.Equal(t, "attention is all you need", doc.Title)

	saved, err := f.docStore.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, saved.ID)

	rec, err := f.ingStore.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.ChunkCount)

	assert.Equal(t, 2, f.index.Count(driven.CollectionChunks))
}

func TestIngestFile_Validation(t *testing.T) {
	t.Run("missing owner", func(t *testing.T) {
		f := newIngestFixture(&mockExtractor{supports: true})
		_, _, err := f.svc.IngestFile(context.Background(), "/papers/paper.pdf", "  ")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unsupported file type", func(t *testing.T) {
		f := newIngestFixture(&mockExtractor{supports: false})
		_, _, err := f.svc.IngestFile(context.Background(), "/papers/archive.zip", "alice")
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestIngestDocument_Idempotent(t *testing.T) {
	extractor := &mockExtractor{
		supports: true,
		pages:    []driven.Page{{Number: 1, Text: "A single page of content for indexing."}},
	}
	f := newIngestFixture(extractor)
	ctx := context.Background()

	doc, first, err := f.svc.IngestFile(ctx, paperFile(t, "paper.pdf"), "alice")
	require.NoError(t, err)

	second, err := f.svc.IngestDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// No re-extraction, no re-embedding on the repeat call.
	assert.Equal(t, 1, extractor.callCount())
	assert.Equal(t, 1, f.embedder.passageCalls)
}

func TestIngestDocument_EmptyDocument(t *testing.T) {
	extractor := &mockExtractor{supports: true, pages: nil}
	f := newIngestFixture(extractor)
	ctx := context.Background()

	doc, count, err := f.svc.IngestFile(ctx, paperFile(t, "blank.pdf"), "alice")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, f.embedder.passageCalls)

	// No record is written, so the document stays eligible for another run.
	_, err = f.ingStore.Get(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Extraction recovers content on the next attempt (say, after an OCR
	// pass) and the document gets indexed.
	extractor.mu.Lock()
	extractor.pages = []driven.Page{{Number: 1, Text: "Scanned text recovered on the second attempt."}}
	extractor.mu.Unlock()

	count, err = f.svc.IngestDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 1, f.index.Count(driven.CollectionChunks))
}

func TestIngestDocument_MissingFile(t *testing.T) {
	extractor := &mockExtractor{
		supports: true,
		pages:    []driven.Page{{Number: 1, Text: "Content that must never be extracted."}},
	}
	f := newIngestFixture(extractor)
	ctx := context.Background()

	doc := &domain.Document{
		ID:      "doc-1",
		Origin:  domain.OriginUpload,
		OwnerID: strPtr("alice"),
		Path:    filepath.Join(t.TempDir(), "gone.pdf"),
	}
	require.NoError(t, f.docStore.SaveDocument(ctx, doc))

	count, err := f.svc.IngestDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, extractor.callCount())

	// The document row survives and no record blocks a later run.
	_, err = f.docStore.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	_, err = f.ingStore.Get(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestDocument_ExtractionFailure(t *testing.T) {
	extractor := &mockExtractor{supports: true, err: domain.ErrExtractionFailed}
	f := newIngestFixture(extractor)
	ctx := context.Background()

	_, _, err := f.svc.IngestFile(ctx, paperFile(t, "corrupt.pdf"), "alice")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)

	// No record means the document can be retried after the failure.
	docs, err := f.docStore.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	_, err = f.ingStore.Get(ctx, docs[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIngestDocument_EmbeddingFailure(t *testing.T) {
	extractor := &mockExtractor{
		supports: true,
		pages:    []driven.Page{{Number: 1, Text: "Some content that should be embedded."}},
	}
	f := newIngestFixture(extractor)
	f.embedder.passageErr = errors.New("connection refused")
	ctx := context.Background()

	_, _, err := f.svc.IngestFile(ctx, paperFile(t, "paper.pdf"), "alice")
	require.Error(t, err)
	assert.Equal(t, 0, f.index.Count(driven.CollectionChunks))
}

func TestIngestDocument_Concurrent(t *testing.T) {
	extractor := &mockExtractor{
		supports: true,
		pages:    []driven.Page{{Number: 1, Text: "Content processed exactly once under concurrency."}},
	}
	f := newIngestFixture(extractor)
	ctx := context.Background()

	doc := &domain.Document{
		ID:      "doc-1",
		Origin:  domain.OriginUpload,
		OwnerID: strPtr("alice"),
		Path:    paperFile(t, "paper.pdf"),
	}
	require.NoError(t, f.docStore.SaveDocument(ctx, doc))

	var wg sync.WaitGroup
	counts := make([]int, 5)
	errs := make([]error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			counts[i], errs[i] = f.svc.IngestDocument(ctx, doc.ID)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 5; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, counts[0], counts[i])
	}
	assert.Equal(t, 1, extractor.callCount())
	assert.Equal(t, 1, f.embedder.passageCalls)
}

func TestDelete_Cascade(t *testing.T) {
	extractor := &mockExtractor{
		supports: true,
		pages:    []driven.Page{{Number: 1, Text: "Content for the document that will be deleted."}},
	}
	f := newIngestFixture(extractor)
	ctx := context.Background()

	doc, _, err := f.svc.IngestFile(ctx, paperFile(t, "doomed.pdf"), "alice")
	require.NoError(t, err)
	other, _, err := f.svc.IngestFile(ctx, paperFile(t, "survivor.pdf"), "alice")
	require.NoError(t, err)

	require.NoError(t, f.chatStore.Append(ctx, domain.ChatMessage{
		ID: "m1", DocumentID: doc.ID, UserID: "alice", Role: domain.RoleUser, Content: "q",
	}))
	require.NoError(t, f.chatStore.Append(ctx, domain.ChatMessage{
		ID: "m2", DocumentID: other.ID, UserID: "alice", Role: domain.RoleUser, Content: "q",
	}))

	require.NoError(t, f.svc.Delete(ctx, doc.ID))

	_, err = f.docStore.GetDocument(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.ingStore.Get(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	history, err := f.chatStore.History(ctx, doc.ID, "alice", 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	// The other document's state is untouched.
	assert.Equal(t, 1, f.index.Count(driven.CollectionChunks))
	_, err = f.docStore.GetDocument(ctx, other.ID)
	assert.NoError(t, err)
	history, err = f.chatStore.History(ctx, other.ID, "alice", 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestDelete_ArxivRemovesAbstract(t *testing.T) {
	f := newIngestFixture(&mockExtractor{supports: true})
	ctx := context.Background()

	doc := &domain.Document{
		ID:         "paper-1",
		Origin:     domain.OriginArxiv,
		ExternalID: strPtr("2401.00001"),
	}
	require.NoError(t, f.docStore.SaveDocument(ctx, doc))
	require.NoError(t, f.index.Upsert(ctx, driven.CollectionAbstracts, []driven.VectorEntry{
		{ID: doc.ID, Vector: []float32{1, 0}, Text: "abstract", Meta: domain.ChunkMeta{DocumentID: doc.ID}},
	}))

	require.NoError(t, f.svc.Delete(ctx, doc.ID))
	assert.Equal(t, 0, f.index.Count(driven.CollectionAbstracts))
}

func TestDelete_UnknownDocument(t *testing.T) {
	f := newIngestFixture(&mockExtractor{supports: true})
	err := f.svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReindex(t *testing.T) {
	extractor := &mockExtractor{
		supports: true,
		pages: []driven.Page{
			{Number: 1, Text: "Original first page content for the index."},
			{Number: 2, Text: "Original second page content for the index."},
		},
	}
	f := newIngestFixture(extractor)
	ctx := context.Background()

	doc, first, err := f.svc.IngestFile(ctx, paperFile(t, "paper.pdf"), "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	// The file changed on disk: one page now.
	extractor.mu.Lock()
	extractor.pages = []driven.Page{{Number: 1, Text: "Revised content, now a single page."}}
	extractor.mu.Unlock()

	count, err := f.svc.Reindex(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	assert.Equal(t, 1, f.index.Count(driven.CollectionChunks))
	rec, err := f.ingStore.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, rec.ChunkCount)
	assert.Equal(t, 2, extractor.callCount())
}
