// Package qdrant provides a vector index adapter backed by a Qdrant
// instance via its gRPC client.
package qdrant

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	qd "github.com/qdrant/go-client/qdrant"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultHost = "localhost"
	DefaultPort = 6334
)

// Payload keys stored with each point.
const (
	payloadID         = "id"
	payloadText       = "text"
	payloadDocumentID = "document_id"
	payloadOwnerID    = "owner_id"
	payloadPage       = "page"
	payloadSection    = "section"
)

// Config holds configuration for the Qdrant index.
type Config struct {
	// Host is the Qdrant host (default: localhost).
	Host string

	// Port is the Qdrant gRPC port (default: 6334).
	Port int

	// APIKey authenticates against Qdrant Cloud. Empty for local instances.
	APIKey string

	// Dimensions is the vector size used when creating collections.
	Dimensions int
}

// Index stores embeddings in Qdrant collections.
type Index struct {
	client     *qd.Client
	dimensions int

	mu      sync.Mutex
	ensured map[string]bool
}

// New creates a new Qdrant index.
func New(cfg Config) (*Index, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant: dimensions are required")
	}

	client, err := qd.NewClient(&qd.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create qdrant client: %w", domain.ErrIndexUnavailable, err)
	}

	return &Index{
		client:     client,
		dimensions: cfg.Dimensions,
		ensured:    make(map[string]bool),
	}, nil
}

// Upsert inserts or replaces entries by id.
func (idx *Index) Upsert(ctx context.Context, collection string, entries []driven.VectorEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := idx.ensureCollection(ctx, collection); err != nil {
		return err
	}

	points := make([]*qd.PointStruct, len(entries))
	for i, entry := range entries {
		points[i] = &qd.PointStruct{
			Id:      pointID(entry.ID),
			Vectors: qd.NewVectors(entry.Vector...),
			Payload: buildPayload(entry),
		}
	}

	wait := true
	_, err := idx.client.Upsert(ctx, &qd.UpsertPoints{
		CollectionName: collection,
		Points:         points,
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("%w: upsert into %s: %w", domain.ErrIndexUnavailable, collection, err)
	}
	return nil
}

// Query returns the k nearest entries to the vector that satisfy the filter.
func (idx *Index) Query(ctx context.Context, collection string, vector []float32, k int, filter domain.Filter) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}
	if err := idx.ensureCollection(ctx, collection); err != nil {
		return nil, err
	}

	qdFilter, err := translateFilter(filter)
	if err != nil {
		return nil, err
	}

	limit := uint64(k)
	points, err := idx.client.Query(ctx, &qd.QueryPoints{
		CollectionName: collection,
		Query:          qd.NewQuery(vector...),
		Limit:          &limit,
		Filter:         qdFilter,
		WithPayload:    qd.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %w", domain.ErrIndexUnavailable, collection, err)
	}

	hits := make([]driven.VectorHit, 0, len(points))
	for _, point := range points {
		hits = append(hits, pointToHit(point))
	}
	return hits, nil
}

// DeleteByID removes the named entries. Unknown ids are ignored.
func (idx *Index) DeleteByID(ctx context.Context, collection string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := idx.ensureCollection(ctx, collection); err != nil {
		return err
	}

	pointIDs := make([]*qd.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = pointID(id)
	}

	wait := true
	_, err := idx.client.Delete(ctx, &qd.DeletePoints{
		CollectionName: collection,
		Points:         qd.NewPointsSelector(pointIDs...),
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("%w: delete from %s: %w", domain.ErrIndexUnavailable, collection, err)
	}
	return nil
}

// DeleteByFilter removes all entries matching the filter.
func (idx *Index) DeleteByFilter(ctx context.Context, collection string, filter domain.Filter) error {
	if err := idx.ensureCollection(ctx, collection); err != nil {
		return err
	}

	qdFilter, err := translateFilter(filter)
	if err != nil {
		return err
	}
	if qdFilter == nil {
		// An absent filter matches everything; make that explicit rather
		// than silently wiping the collection through a nil selector.
		qdFilter = &qd.Filter{}
	}

	wait := true
	_, err = idx.client.Delete(ctx, &qd.DeletePoints{
		CollectionName: collection,
		Points:         qd.NewPointsSelectorFilter(qdFilter),
		Wait:           &wait,
	})
	if err != nil {
		return fmt.Errorf("%w: delete from %s: %w", domain.ErrIndexUnavailable, collection, err)
	}
	return nil
}

// Close releases the client connection.
func (idx *Index) Close() error {
	return idx.client.Close()
}

// ensureCollection creates the collection on first use.
func (idx *Index) ensureCollection(ctx context.Context, collection string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.ensured[collection] {
		return nil
	}

	exists, err := idx.client.CollectionExists(ctx, collection)
	if err != nil {
		return fmt.Errorf("%w: check collection %s: %w", domain.ErrIndexUnavailable, collection, err)
	}
	if !exists {
		err = idx.client.CreateCollection(ctx, &qd.CreateCollection{
			CollectionName: collection,
			VectorsConfig: qd.NewVectorsConfig(&qd.VectorParams{
				Size:     uint64(idx.dimensions),
				Distance: qd.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("%w: create collection %s: %w", domain.ErrIndexUnavailable, collection, err)
		}
	}

	idx.ensured[collection] = true
	return nil
}

// pointID derives a deterministic UUID point id from an entry id.
// Qdrant only accepts UUIDs or integers as point ids, while entry ids
// are strings like "{documentID}_{position}"; hashing keeps upserts
// idempotent. The raw id is preserved in the payload.
func pointID(id string) *qd.PointId {
	return qd.NewID(uuid.NewSHA1(uuid.NameSpaceOID, []byte(id)).String())
}

// buildPayload converts entry metadata to a Qdrant payload.
func buildPayload(entry driven.VectorEntry) map[string]*qd.Value {
	payload := map[string]*qd.Value{
		payloadID:         qd.NewValueString(entry.ID),
		payloadText:       qd.NewValueString(entry.Text),
		payloadDocumentID: qd.NewValueString(entry.Meta.DocumentID),
		payloadPage:       qd.NewValueInt(int64(entry.Meta.Page)),
		payloadSection:    qd.NewValueString(entry.Meta.Section),
	}
	// Shared entries carry no owner key at all, so equality filters on
	// owner can never match them.
	if entry.Meta.OwnerID != nil {
		payload[payloadOwnerID] = qd.NewValueString(*entry.Meta.OwnerID)
	}
	return payload
}

// pointToHit converts a scored point back to a vector hit.
func pointToHit(point *qd.ScoredPoint) driven.VectorHit {
	hit := driven.VectorHit{
		Score: float64(point.GetScore()),
	}

	payload := point.GetPayload()
	if payload == nil {
		return hit
	}

	hit.ID = payload[payloadID].GetStringValue()
	hit.Text = payload[payloadText].GetStringValue()
	hit.Meta.DocumentID = payload[payloadDocumentID].GetStringValue()
	hit.Meta.Page = int(payload[payloadPage].GetIntegerValue())
	hit.Meta.Section = payload[payloadSection].GetStringValue()
	if owner, ok := payload[payloadOwnerID]; ok {
		value := owner.GetStringValue()
		hit.Meta.OwnerID = &value
	}
	return hit
}

// translateFilter converts the domain filter structure to Qdrant's
// native filter format. NoFilter translates to nil (no restriction).
func translateFilter(filter domain.Filter) (*qd.Filter, error) {
	conditions, err := filterConditions(filter)
	if err != nil {
		return nil, err
	}
	if len(conditions) == 0 {
		return nil, nil
	}
	return &qd.Filter{Must: conditions}, nil
}

// filterConditions flattens the filter into a conjunction of match
// conditions.
func filterConditions(filter domain.Filter) ([]*qd.Condition, error) {
	switch f := filter.(type) {
	case nil, domain.NoFilter:
		return nil, nil
	case domain.Equals:
		return []*qd.Condition{qd.NewMatch(f.Field, f.Value)}, nil
	case domain.And:
		var conditions []*qd.Condition
		for _, child := range f.Filters {
			childConditions, err := filterConditions(child)
			if err != nil {
				return nil, err
			}
			conditions = append(conditions, childConditions...)
		}
		return conditions, nil
	default:
		return nil, fmt.Errorf("unsupported filter type %T", filter)
	}
}
