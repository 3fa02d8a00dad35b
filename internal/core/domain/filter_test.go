package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strptr(s string) *string { return &s }

func TestScope_Filter_Combinations(t *testing.T) {
	tests := []struct {
		name  string
		scope Scope
		want  Filter
	}{
		{
			name:  "no fields",
			scope: Scope{},
			want:  NoFilter{},
		},
		{
			name:  "document only",
			scope: Scope{DocumentID: "doc-1"},
			want:  Equals{Field: FieldDocumentID, Value: "doc-1"},
		},
		{
			name:  "owner only",
			scope: Scope{OwnerID: strptr("user-1")},
			want:  Equals{Field: FieldOwnerID, Value: "user-1"},
		},
		{
			name:  "document and owner",
			scope: Scope{DocumentID: "doc-1", OwnerID: strptr("user-1")},
			want: And{Filters: []Filter{
				Equals{Field: FieldDocumentID, Value: "doc-1"},
				Equals{Field: FieldOwnerID, Value: "user-1"},
			}},
		},
		{
			// Presence decides, not truthiness: an empty-string owner
			// still scopes. Naive dict merging would drop it.
			name:  "document and empty-string owner",
			scope: Scope{DocumentID: "doc-1", OwnerID: strptr("")},
			want: And{Filters: []Filter{
				Equals{Field: FieldDocumentID, Value: "doc-1"},
				Equals{Field: FieldOwnerID, Value: ""},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.scope.Filter())
		})
	}
}

func TestNoFilter_Matches(t *testing.T) {
	assert.True(t, NoFilter{}.Matches(ChunkMeta{}))
	assert.True(t, NoFilter{}.Matches(ChunkMeta{DocumentID: "doc-1", OwnerID: strptr("u")}))
}

func TestEquals_Matches(t *testing.T) {
	meta := ChunkMeta{DocumentID: "doc-1", OwnerID: strptr("user-1"), Section: SectionBody}

	assert.True(t, Equals{Field: FieldDocumentID, Value: "doc-1"}.Matches(meta))
	assert.False(t, Equals{Field: FieldDocumentID, Value: "doc-2"}.Matches(meta))
	assert.True(t, Equals{Field: FieldOwnerID, Value: "user-1"}.Matches(meta))
	assert.False(t, Equals{Field: FieldOwnerID, Value: "user-2"}.Matches(meta))
	assert.True(t, Equals{Field: FieldSection, Value: SectionBody}.Matches(meta))
	assert.False(t, Equals{Field: "unknown", Value: "x"}.Matches(meta))
}

func TestEquals_Matches_SharedEntryNeverMatchesOwnerFilter(t *testing.T) {
	shared := ChunkMeta{DocumentID: "doc-1", OwnerID: nil}
	assert.False(t, Equals{Field: FieldOwnerID, Value: ""}.Matches(shared))
	assert.False(t, Equals{Field: FieldOwnerID, Value: "user-1"}.Matches(shared))
}

func TestAnd_Matches(t *testing.T) {
	meta := ChunkMeta{DocumentID: "doc-1", OwnerID: strptr("user-1")}

	both := And{Filters: []Filter{
		Equals{Field: FieldDocumentID, Value: "doc-1"},
		Equals{Field: FieldOwnerID, Value: "user-1"},
	}}
	assert.True(t, both.Matches(meta))

	oneWrong := And{Filters: []Filter{
		Equals{Field: FieldDocumentID, Value: "doc-1"},
		Equals{Field: FieldOwnerID, Value: "user-2"},
	}}
	assert.False(t, oneWrong.Matches(meta))

	assert.True(t, And{}.Matches(meta))
}

func TestDocument_Validate(t *testing.T) {
	t.Run("upload requires owner", func(t *testing.T) {
		doc := Document{ID: "d1", Origin: OriginUpload}
		err := doc.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("valid upload", func(t *testing.T) {
		doc := Document{ID: "d1", Origin: OriginUpload, OwnerID: strptr("u1")}
		require.NoError(t, doc.Validate())
	})

	t.Run("arxiv requires external id", func(t *testing.T) {
		doc := Document{ID: "d1", Origin: OriginArxiv}
		err := doc.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("valid shared arxiv document", func(t *testing.T) {
		doc := Document{ID: "d1", Origin: OriginArxiv, ExternalID: strptr("2408.00001")}
		require.NoError(t, doc.Validate())
		assert.True(t, doc.Shared())
	})

	t.Run("unknown origin", func(t *testing.T) {
		doc := Document{ID: "d1", Origin: "dropbox"}
		assert.ErrorIs(t, doc.Validate(), ErrInvalidInput)
	})

	t.Run("missing id", func(t *testing.T) {
		doc := Document{Origin: OriginUpload, OwnerID: strptr("u1")}
		assert.ErrorIs(t, doc.Validate(), ErrInvalidInput)
	})
}

func TestDocument_AccessibleBy(t *testing.T) {
	shared := Document{ID: "d1", Origin: OriginArxiv, ExternalID: strptr("x")}
	assert.True(t, shared.AccessibleBy("anyone"))

	owned := Document{ID: "d2", Origin: OriginUpload, OwnerID: strptr("user-1")}
	assert.True(t, owned.AccessibleBy("user-1"))
	assert.False(t, owned.AccessibleBy("user-2"))
}

func TestChunkID_Deterministic(t *testing.T) {
	assert.Equal(t, "doc-1_0", ChunkID("doc-1", 0))
	assert.Equal(t, "doc-1_17", ChunkID("doc-1", 17))
	assert.Equal(t, ChunkID("doc-1", 3), ChunkID("doc-1", 3))
}

func TestChunk_Meta(t *testing.T) {
	owner := strptr("user-1")
	c := Chunk{
		ID:         ChunkID("doc-1", 2),
		DocumentID: "doc-1",
		OwnerID:    owner,
		Content:    "some text",
		Page:       3,
		Section:    SectionIntroduction,
		Position:   2,
	}

	meta := c.Meta()
	assert.Equal(t, "doc-1", meta.DocumentID)
	assert.Equal(t, owner, meta.OwnerID)
	assert.Equal(t, 3, meta.Page)
	assert.Equal(t, SectionIntroduction, meta.Section)
}
