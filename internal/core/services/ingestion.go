package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paperpilot/paperpilot-cli/internal/chunker"
	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
	"github.com/paperpilot/paperpilot-cli/internal/logger"
)

// Ensure IngestionService implements the interface.
var _ driving.IngestService = (*IngestionService)(nil)

// IngestionService runs the pipeline that turns raw files into indexed
// chunks: extract, chunk, embed, upsert, record.
type IngestionService struct {
	docStore    driven.DocumentStore
	ingestStore driven.IngestionStore
	chatStore   driven.ChatStore
	index       driven.VectorIndex
	embedder    driven.Embedder
	extractors  []driven.Extractor
	splitter    *chunker.Chunker

	mu       sync.Mutex
	inFlight map[string]*sync.Mutex
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	docStore driven.DocumentStore,
	ingestStore driven.IngestionStore,
	chatStore driven.ChatStore,
	index driven.VectorIndex,
	embedder driven.Embedder,
	extractors []driven.Extractor,
	splitter *chunker.Chunker,
) *IngestionService {
	return &IngestionService{
		docStore:    docStore,
		ingestStore: ingestStore,
		chatStore:   chatStore,
		index:       index,
		embedder:    embedder,
		extractors:  extractors,
		splitter:    splitter,
		inFlight:    make(map[string]*sync.Mutex),
	}
}

// IngestFile registers an owner-scoped document for the file at path and
// runs the pipeline.
func (s *IngestionService) IngestFile(ctx context.Context, path, ownerID string) (*domain.Document, int, error) {
	if strings.TrimSpace(ownerID) == "" {
		return nil, 0, fmt.Errorf("%w: owner id is required", domain.ErrInvalidInput)
	}
	if s.extractorFor(path) == nil {
		return nil, 0, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, filepath.Ext(path))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to resolve path: %w", err)
	}

	owner := ownerID
	doc := &domain.Document{
		ID:        uuid.New().String(),
		Origin:    domain.OriginUpload,
		OwnerID:   &owner,
		Title:     titleFromPath(abs),
		Path:      abs,
		CreatedAt: time.Now(),
	}
	if err := doc.Validate(); err != nil {
		return nil, 0, err
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return nil, 0, fmt.Errorf("failed to save document: %w", err)
	}
	logger.Info("Registered document %s (%s)", doc.ID, doc.Title)

	count, err := s.IngestDocument(ctx, doc.ID)
	if err != nil {
		return nil, 0, err
	}
	return doc, count, nil
}

// IngestDocument runs the pipeline for a registered document. A document
// already carrying an ingestion record is not reprocessed; the recorded
// chunk count is returned instead.
func (s *IngestionService) IngestDocument(ctx context.Context, documentID string) (int, error) {
	unlock := s.lock(documentID)
	defer unlock()

	// Idempotence check before any extraction or embedding work.
	if rec, err := s.ingestStore.Get(ctx, documentID); err == nil {
		logger.Debug("Document %s already indexed (%d chunks)", documentID, rec.ChunkCount)
		return rec.ChunkCount, nil
	} else if !isNotFound(err) {
		return 0, fmt.Errorf("failed to check ingestion record: %w", err)
	}

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("failed to load document: %w", err)
	}

	extractor := s.extractorFor(doc.Path)
	if extractor == nil {
		return 0, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidInput, filepath.Ext(doc.Path))
	}

	// A missing file is not an extraction failure: the document row
	// stays, nothing gets indexed, and the run reports zero chunks.
	if _, err := os.Stat(doc.Path); err != nil {
		logger.Warn("File not found for %s: %s", doc.ID, doc.Path)
		return 0, nil
	}

	logger.Section("Ingesting " + doc.Title)
	pages, err := extractor.Extract(ctx, doc.Path)
	if err != nil {
		return 0, err
	}
	logger.Debug("Extracted %d pages", len(pages))

	chunks := s.splitter.Split(doc, pages)
	if len(chunks) == 0 {
		// No record either, so a later run can pick the document up
		// once extraction yields content.
		logger.Warn("No chunks produced for %s", doc.Title)
		return 0, nil
	}
	if err := s.indexChunks(ctx, chunks); err != nil {
		return 0, err
	}

	rec := domain.IngestionRecord{
		DocumentID: doc.ID,
		ChunkCount: len(chunks),
		CreatedAt:  time.Now(),
	}
	if err := s.ingestStore.Save(ctx, rec); err != nil {
		return 0, fmt.Errorf("failed to record ingestion: %w", err)
	}

	logger.Info("Indexed %d chunks for %s", len(chunks), doc.Title)
	return len(chunks), nil
}

// Delete removes a document and everything derived from it.
func (s *IngestionService) Delete(ctx context.Context, documentID string) error {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	scope := domain.Scope{DocumentID: doc.ID}
	if err := s.index.DeleteByFilter(ctx, driven.CollectionChunks, scope.Filter()); err != nil {
		return fmt.Errorf("failed to remove index entries: %w", err)
	}
	if doc.Origin == domain.OriginArxiv {
		if err := s.index.DeleteByID(ctx, driven.CollectionAbstracts, []string{doc.ID}); err != nil {
			return fmt.Errorf("failed to remove abstract entry: %w", err)
		}
	}

	if err := s.ingestStore.Delete(ctx, documentID); err != nil && !isNotFound(err) {
		return fmt.Errorf("failed to remove ingestion record: %w", err)
	}
	if err := s.chatStore.DeleteForDocument(ctx, documentID); err != nil {
		return fmt.Errorf("failed to remove chat history: %w", err)
	}
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	logger.Info("Deleted document %s", documentID)
	return nil
}

// Reindex wipes a document's derived state and runs the pipeline again
// from the stored file. Chat history survives a reindex.
func (s *IngestionService) Reindex(ctx context.Context, documentID string) (int, error) {
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("failed to load document: %w", err)
	}

	scope := domain.Scope{DocumentID: doc.ID}
	if err := s.index.DeleteByFilter(ctx, driven.CollectionChunks, scope.Filter()); err != nil {
		return 0, fmt.Errorf("failed to clear index entries: %w", err)
	}
	if err := s.ingestStore.Delete(ctx, documentID); err != nil && !isNotFound(err) {
		return 0, fmt.Errorf("failed to clear ingestion record: %w", err)
	}

	logger.Debug("Cleared derived state for %s, re-running pipeline", documentID)
	return s.IngestDocument(ctx, documentID)
}

// indexChunks embeds chunk contents and upserts the vectors.
func (s *IngestionService) indexChunks(ctx context.Context, chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}

	vectors, err := s.embedder.EmbedPassages(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedder returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	entries := make([]driven.VectorEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = driven.VectorEntry{
			ID:     c.ID,
			Vector: vectors[i],
			Text:   c.Content,
			Meta:   c.Meta(),
		}
	}

	if err := s.index.Upsert(ctx, driven.CollectionChunks, entries); err != nil {
		return fmt.Errorf("failed to upsert vectors: %w", err)
	}
	return nil
}

// extractorFor returns the first extractor that supports the path.
func (s *IngestionService) extractorFor(path string) driven.Extractor {
	for _, e := range s.extractors {
		if e.Supports(path) {
			return e
		}
	}
	return nil
}

// lock serialises pipeline runs per document so concurrent ingests of
// the same document cannot race the idempotence check.
func (s *IngestionService) lock(documentID string) func() {
	s.mu.Lock()
	m, ok := s.inFlight[documentID]
	if !ok {
		m = &sync.Mutex{}
		s.inFlight[documentID] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// titleFromPath derives a human-readable title from a file path.
func titleFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
