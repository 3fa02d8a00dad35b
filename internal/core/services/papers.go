package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
	"github.com/paperpilot/paperpilot-cli/internal/logger"
)

// Ensure PapersService implements the interface.
var _ driving.PaperDirectory = (*PapersService)(nil)

// defaultFetchMax bounds a catalogue fetch when the caller does not
// specify a size.
const defaultFetchMax = 25

// PapersService maintains the shared corpus of external research
// papers: fetching new ones, indexing their abstracts and searching
// over them.
type PapersService struct {
	docStore driven.DocumentStore
	index    driven.VectorIndex
	embedder driven.Embedder
	source   driven.PaperSource
}

// NewPapersService creates a new papers service.
func NewPapersService(
	docStore driven.DocumentStore,
	index driven.VectorIndex,
	embedder driven.Embedder,
	source driven.PaperSource,
) *PapersService {
	return &PapersService{
		docStore: docStore,
		index:    index,
		embedder: embedder,
		source:   source,
	}
}

// Fetch pulls recent papers from the external source, registers the
// ones not seen before as shared documents and indexes their abstracts.
// Returns the number of newly indexed papers.
func (s *PapersService) Fetch(ctx context.Context, categories []string, max int) (int, error) {
	if max <= 0 {
		max = defaultFetchMax
	}

	logger.Section("Fetching papers")
	metas, err := s.source.Latest(ctx, categories, max)
	if err != nil {
		return 0, fmt.Errorf("failed to list papers: %w", err)
	}
	logger.Debug("Source returned %d papers", len(metas))

	var fresh []domain.Document
	for _, meta := range metas {
		if meta.ExternalID == "" {
			continue
		}

		_, err := s.docStore.GetByExternalID(ctx, domain.OriginArxiv, meta.ExternalID)
		if err == nil {
			continue // already known
		}
		if !isNotFound(err) {
			return 0, fmt.Errorf("failed to check for paper %s: %w", meta.ExternalID, err)
		}

		externalID := meta.ExternalID
		fresh = append(fresh, domain.Document{
			ID:         uuid.New().String(),
			Origin:     domain.OriginArxiv,
			Title:      meta.Title,
			Path:       meta.PDFURL,
			ExternalID: &externalID,
			Abstract:   meta.Abstract,
			Published:  meta.Published,
			CreatedAt:  time.Now(),
		})
	}

	if len(fresh) == 0 {
		logger.Info("No new papers")
		return 0, nil
	}

	if err := s.indexAbstracts(ctx, fresh); err != nil {
		return 0, err
	}

	for i := range fresh {
		if err := s.docStore.SaveDocument(ctx, &fresh[i]); err != nil {
			return 0, fmt.Errorf("failed to save paper %s: %w", fresh[i].ID, err)
		}
	}

	logger.Info("Indexed %d new papers", len(fresh))
	return len(fresh), nil
}

// Search performs semantic search over the abstract corpus. Results
// preserve the similarity rank order of the index.
func (s *PapersService) Search(ctx context.Context, query string, limit int) ([]domain.Document, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if limit <= 0 {
		limit = defaultTopK
	}

	vector, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	hits, err := s.index.Query(ctx, driven.CollectionAbstracts, vector, limit, domain.NoFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to query abstracts: %w", err)
	}

	return s.orderedLookup(ctx, hits)
}

// Recent returns the most recently added shared papers.
func (s *PapersService) Recent(ctx context.Context, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = defaultFetchMax
	}
	docs, err := s.docStore.ListByOrigin(ctx, domain.OriginArxiv, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list papers: %w", err)
	}
	return docs, nil
}

// indexAbstracts embeds the abstracts of new papers and upserts them
// into the shared abstract collection, keyed by document id.
func (s *PapersService) indexAbstracts(ctx context.Context, docs []domain.Document) error {
	texts := make([]string, len(docs))
	for i, doc := range docs {
		text := doc.Abstract
		if strings.TrimSpace(text) == "" {
			text = doc.Title
		}
		texts[i] = text
	}

	vectors, err := s.embedder.EmbedPassages(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed abstracts: %w", err)
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d abstracts", len(vectors), len(docs))
	}

	entries := make([]driven.VectorEntry, len(docs))
	for i, doc := range docs {
		entries[i] = driven.VectorEntry{
			ID:     doc.ID,
			Vector: vectors[i],
			Text:   texts[i],
			Meta: domain.ChunkMeta{
				DocumentID: doc.ID,
				Section:    domain.SectionAbstract,
			},
		}
	}

	if err := s.index.Upsert(ctx, driven.CollectionAbstracts, entries); err != nil {
		return fmt.Errorf("failed to upsert abstracts: %w", err)
	}
	return nil
}

// orderedLookup hydrates index hits into documents, preserving rank
// order and dropping hits whose document row has since disappeared.
func (s *PapersService) orderedLookup(ctx context.Context, hits []driven.VectorHit) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(hits))
	for _, hit := range hits {
		doc, err := s.docStore.GetDocument(ctx, hit.ID)
		if err != nil {
			if isNotFound(err) {
				logger.Debug("Dropping stale hit %s", hit.ID)
				continue
			}
			return nil, fmt.Errorf("failed to load document %s: %w", hit.ID, err)
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}
