package domain

// Scope restricts a retrieval query to an authorised subset of the index.
// Both fields are optional; presence, not truthiness, decides whether a
// field participates in the filter. An OwnerID pointing at an empty string
// still scopes to that owner.
type Scope struct {
	// DocumentID restricts results to one document when non-empty.
	DocumentID string

	// OwnerID restricts results to one owner when non-nil.
	OwnerID *string
}

// Metadata fields a filter can match against.
const (
	FieldDocumentID = "document_id"
	FieldOwnerID    = "owner_id"
	FieldSection    = "section"
)

// Filter is a conjunctive metadata filter for vector index queries.
// The three implementations form a small closed set: NoFilter, Equals
// and And. Adapters translate the structure to their native filter
// format; the memory index evaluates Matches directly.
type Filter interface {
	// Matches reports whether the given entry metadata satisfies the filter.
	Matches(meta ChunkMeta) bool
}

// NoFilter matches every entry (global search).
type NoFilter struct{}

// Matches always returns true.
func (NoFilter) Matches(ChunkMeta) bool { return true }

// Equals matches entries whose named field equals the value.
type Equals struct {
	Field string
	Value string
}

// Matches compares the named metadata field against the value.
// Owner comparisons treat a shared entry (nil owner) as matching nothing.
func (f Equals) Matches(meta ChunkMeta) bool {
	switch f.Field {
	case FieldDocumentID:
		return meta.DocumentID == f.Value
	case FieldOwnerID:
		return meta.OwnerID != nil && *meta.OwnerID == f.Value
	case FieldSection:
		return meta.Section == f.Value
	default:
		return false
	}
}

// And matches entries satisfying all child filters.
type And struct {
	Filters []Filter
}

// Matches returns true only if every child filter matches.
func (f And) Matches(meta ChunkMeta) bool {
	for _, child := range f.Filters {
		if !child.Matches(meta) {
			return false
		}
	}
	return true
}

// Filter builds the metadata filter for this scope. The construction is
// total over every combination of absent/present fields: no fields gives
// NoFilter, one field an equality, two or more a conjunction.
func (s Scope) Filter() Filter {
	var filters []Filter
	if s.DocumentID != "" {
		filters = append(filters, Equals{Field: FieldDocumentID, Value: s.DocumentID})
	}
	if s.OwnerID != nil {
		filters = append(filters, Equals{Field: FieldOwnerID, Value: *s.OwnerID})
	}

	switch len(filters) {
	case 0:
		return NoFilter{}
	case 1:
		return filters[0]
	default:
		return And{Filters: filters}
	}
}
