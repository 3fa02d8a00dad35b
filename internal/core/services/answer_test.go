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
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
)

type answerFixture struct {
	svc       *AnswerService
	docStore  *memory.DocumentStore
	chatStore *memory.ChatStore
	index     *indexmem.Index
	generator *mockGenerator
}

func newAnswerFixture() *answerFixture {
	f := &answerFixture{
		docStore:  memory.NewDocumentStore(),
		chatStore: memory.NewChatStore(),
		index:     indexmem.New(),
		generator: &mockGenerator{},
	}
	retriever := NewRetriever(f.index, &mockEmbedder{})
	f.svc = NewAnswerService(f.docStore, f.chatStore, retriever, f.generator, mockPrompts{})
	return f
}

func (f *answerFixture) addDocument(t *testing.T, id string, owner *string) {
	t.Helper()
	doc := &domain.Document{ID: id, Origin: domain.OriginUpload, OwnerID: owner, Title: "Test Paper"}
	if owner == nil {
		doc.Origin = domain.OriginArxiv
		doc.ExternalID = strPtr("2401.00001")
	}
	require.NoError(t, f.docStore.SaveDocument(context.Background(), doc))
}

func TestAsk_GroundedAnswer(t *testing.T) {
	f := newAnswerFixture()
	ctx := context.Background()
	f.addDocument(t, "doc-1", strPtr("alice"))
	plant(t, f.index, "doc-1_0", "doc-1", strPtr("alice"), 0.9,
		"The model was trained for 300,000 steps on eight GPUs.")
	f.generator.response = "It was trained for 300,000 steps."

	result, err := f.svc.Ask(ctx, driving.AskRequest{
		DocumentID: "doc-1", UserID: "alice", Question: "How long was training?",
	})
	require.NoError(t, err)
	assert.Equal(t, "It was trained for 300,000 steps.", result.Answer)
	require.Len(t, result.Snippets, 1)

	// The prompt carries the retrieved context and the question.
	assert.Contains(t, f.generator.lastPrompt, "300,000 steps on eight GPUs")
	assert.Contains(t, f.generator.lastPrompt, "How long was training?")

	// Both sides of the exchange are recorded.
	history, err := f.chatStore.History(ctx, "doc-1", "alice", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.RoleUser, history[0].Role)
	assert.Equal(t, domain.RoleAssistant, history[1].Role)
	assert.Equal(t, "It was trained for 300,000 steps.", history[1].Content)
}

func TestAsk_EmptyRetrievalSkipsGenerator(t *testing.T) {
	f := newAnswerFixture()
	ctx := context.Background()
	f.addDocument(t, "doc-1", strPtr("alice"))

	result, err := f.svc.Ask(ctx, driving.AskRequest{
		DocumentID: "doc-1", UserID: "alice", Question: "Anything in here?",
	})
	require.NoError(t, err)
	assert.Equal(t, driven.AnswerAbsentSentinel, result.Answer)
	assert.Empty(t, result.Snippets)
	assert.Equal(t, 0, f.generator.calls)

	// The exchange is still recorded.
	history, err := f.chatStore.History(ctx, "doc-1", "alice", 10)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestAsk_AccessControl(t *testing.T) {
	f := newAnswerFixture()
	ctx := context.Background()
	f.addDocument(t, "doc-1", strPtr("bob"))

	t.Run("other user's document looks missing", func(t *testing.T) {
		_, err := f.svc.Ask(ctx, driving.AskRequest{
			DocumentID: "doc-1", UserID: "alice", Question: "What is this?",
		})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("shared document is readable by anyone", func(t *testing.T) {
		f.addDocument(t, "paper-1", nil)
		plant(t, f.index, "paper-1_0", "paper-1", nil, 0.9,
			"Shared paper content that anyone may read and query.")

		result, err := f.svc.Ask(ctx, driving.AskRequest{
			DocumentID: "paper-1", UserID: "alice", Question: "What does it say?",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, result.Snippets)
	})
}

func TestAsk_HistoryWovenIntoPrompt(t *testing.T) {
	f := newAnswerFixture()
	ctx := context.Background()
	f.addDocument(t, "doc-1", strPtr("alice"))
	plant(t, f.index, "doc-1_0", "doc-1", strPtr("alice"), 0.9,
		"The evaluation used the WMT 2014 English-German dataset.")

	base := time.Now().Add(-time.Minute)
	require.NoError(t, f.chatStore.Append(ctx, domain.ChatMessage{
		ID: "m1", DocumentID: "doc-1", UserID: "alice",
		Role: domain.RoleUser, Content: "Which dataset was used?", CreatedAt: base,
	}))
	require.NoError(t, f.chatStore.Append(ctx, domain.ChatMessage{
		ID: "m2", DocumentID: "doc-1", UserID: "alice",
		Role: domain.RoleAssistant, Content: "WMT 2014 English-German.", CreatedAt: base.Add(time.Second),
	}))

	_, err := f.svc.Ask(ctx, driving.AskRequest{
		DocumentID: "doc-1", UserID: "alice", Question: "And which metric?",
	})
	require.NoError(t, err)

	assert.Contains(t, f.generator.lastPrompt, "User: Which dataset was used?")
	assert.Contains(t, f.generator.lastPrompt, "Assistant: WMT 2014 English-German.")
}

func TestAsk_CitationOnlyAnswerTreatedAsAbsent(t *testing.T) {
	f := newAnswerFixture()
	ctx := context.Background()
	f.addDocument(t, "doc-1", strPtr("alice"))
	plant(t, f.index, "doc-1_0", "doc-1", strPtr("alice"), 0.9,
		"Some content long enough to be retrieved and passed along.")
	f.generator.response = "[1] [2]"

	result, err := f.svc.Ask(ctx, driving.AskRequest{
		DocumentID: "doc-1", UserID: "alice", Question: "What is the answer?",
	})
	require.NoError(t, err)
	assert.Equal(t, driven.AnswerAbsentSentinel, result.Answer)
}

func TestAsk_BlankGeneration(t *testing.T) {
	f := newAnswerFixture()
	ctx := context.Background()
	f.addDocument(t, "doc-1", strPtr("alice"))
	plant(t, f.index, "doc-1_0", "doc-1", strPtr("alice"), 0.9,
		"Some content long enough to be retrieved and passed along.")
	f.generator.response = "   \n"

	_, err := f.svc.Ask(ctx, driving.AskRequest{
		DocumentID: "doc-1", UserID: "alice", Question: "What is the answer?",
	})
	assert.ErrorIs(t, err, domain.ErrEmptyGeneration)
}

func TestAsk_Validation(t *testing.T) {
	f := newAnswerFixture()
	ctx := context.Background()

	t.Run("empty question", func(t *testing.T) {
		_, err := f.svc.Ask(ctx, driving.AskRequest{DocumentID: "doc-1", UserID: "alice", Question: " "})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("empty document id", func(t *testing.T) {
		_, err := f.svc.Ask(ctx, driving.AskRequest{UserID: "alice", Question: "hello?"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("unknown document", func(t *testing.T) {
		_, err := f.svc.Ask(ctx, driving.AskRequest{DocumentID: "nope", UserID: "alice", Question: "hello?"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSummarize(t *testing.T) {
	f := newAnswerFixture()
	ctx := context.Background()
	f.addDocument(t, "doc-1", strPtr("alice"))
	plant(t, f.index, "doc-1_0", "doc-1", strPtr("alice"), 0.9,
		"This paper introduces a sequence model built entirely on attention.")
	f.generator.response = "The paper introduces an attention-only sequence model."

	summary, err := f.svc.Summarize(ctx, "doc-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, "The paper introduces an attention-only sequence model.", summary)
	assert.Contains(t, f.generator.lastPrompt, "built entirely on attention")
}

func TestSummarize_NoIndexedContent(t *testing.T) {
	f := newAnswerFixture()
	ctx := context.Background()
	f.addDocument(t, "doc-1", strPtr("alice"))

	_, err := f.svc.Summarize(ctx, "doc-1", "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, f.generator.calls)
}

func TestRetrieve_Delegates(t *testing.T) {
	f := newAnswerFixture()
	plant(t, f.index, "doc-1_0", "doc-1", nil, 0.9,
		"Delegated retrieval returns this snippet unchanged to callers.")

	snippets, err := f.svc.Retrieve(context.Background(), "snippet", domain.Scope{DocumentID: "doc-1"}, 3)
	require.NoError(t, err)
	assert.Len(t, snippets, 1)
}
