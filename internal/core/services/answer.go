package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
	"github.com/paperpilot/paperpilot-cli/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.Assistant = (*AnswerService)(nil)

const (
	// answerContextChars bounds the context passed to the answer prompt.
	answerContextChars = 3500

	// summaryContextChars bounds the context passed to the summary
	// prompt. Summaries read more snippets than answers.
	summaryContextChars = 4000

	// summaryTopK is how many snippets a summary draws from.
	summaryTopK = 8

	// historyLimit is how many recent chat messages are woven into the
	// answer prompt.
	historyLimit = 10
)

// citationOnlyPattern matches answers that consist solely of citation
// markers, which means the model found nothing to say.
var citationOnlyPattern = regexp.MustCompile(`^(\[\d+\][\s.,;]*)+$`)

// AnswerService answers questions about and summarises indexed
// documents, grounding every generation in retrieved content.
type AnswerService struct {
	docStore  driven.DocumentStore
	chatStore driven.ChatStore
	retriever *Retriever
	generator driven.Generator
	prompts   driven.PromptStore
}

// NewAnswerService creates a new answer service.
func NewAnswerService(
	docStore driven.DocumentStore,
	chatStore driven.ChatStore,
	retriever *Retriever,
	generator driven.Generator,
	prompts driven.PromptStore,
) *AnswerService {
	return &AnswerService{
		docStore:  docStore,
		chatStore: chatStore,
		retriever: retriever,
		generator: generator,
		prompts:   prompts,
	}
}

// Ask answers a question using only content retrieved from the scoped
// document. When retrieval yields nothing usable the generator is not
// invoked at all.
func (s *AnswerService) Ask(ctx context.Context, req driving.AskRequest) (*driving.AskResult, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}

	doc, scope, err := s.scopedDocument(ctx, req.DocumentID, req.UserID)
	if err != nil {
		return nil, err
	}

	topK := req.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	logger.Section("Answering question about " + doc.Title)
	snippets, err := s.retriever.Retrieve(ctx, question, scope, topK)
	if err != nil {
		return nil, err
	}

	answer := driven.AnswerAbsentSentinel
	if len(snippets) > 0 {
		answer, err = s.generateAnswer(ctx, req, question, snippets)
		if err != nil {
			return nil, err
		}
	} else {
		logger.Debug("No usable snippets, skipping generation")
	}

	if err := s.recordExchange(ctx, req, question, answer); err != nil {
		return nil, err
	}

	return &driving.AskResult{Answer: answer, Snippets: snippets}, nil
}

// Summarize produces a concise academic summary of the document.
func (s *AnswerService) Summarize(ctx context.Context, documentID, userID string) (string, error) {
	doc, scope, err := s.scopedDocument(ctx, documentID, userID)
	if err != nil {
		return "", err
	}

	query := doc.Title
	if strings.TrimSpace(query) == "" {
		query = "overview of the document"
	}

	logger.Section("Summarising " + doc.Title)
	snippets, err := s.retriever.Retrieve(ctx, query, scope, summaryTopK)
	if err != nil {
		return "", err
	}
	if len(snippets) == 0 {
		return "", fmt.Errorf("%w: document has no indexed content", domain.ErrInvalidInput)
	}

	template, err := s.prompts.Load(driven.PromptSummarise)
	if err != nil {
		return "", fmt.Errorf("failed to load summary prompt: %w", err)
	}
	prompt := fmt.Sprintf(template, BuildContext(snippets, summaryContextChars))

	summary, err := s.generator.Generate(ctx, prompt, driven.GenerateOptions{Temperature: 0.3})
	if err != nil {
		return "", fmt.Errorf("failed to generate summary: %w", err)
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return "", domain.ErrEmptyGeneration
	}
	return summary, nil
}

// Retrieve exposes the raw retrieval pipeline.
func (s *AnswerService) Retrieve(ctx context.Context, query string, scope domain.Scope, k int) ([]domain.Snippet, error) {
	return s.retriever.Retrieve(ctx, query, scope, k)
}

// generateAnswer builds the grounded prompt and runs the generator.
func (s *AnswerService) generateAnswer(ctx context.Context, req driving.AskRequest, question string, snippets []domain.Snippet) (string, error) {
	template, err := s.prompts.Load(driven.PromptAnswer)
	if err != nil {
		return "", fmt.Errorf("failed to load answer prompt: %w", err)
	}

	history, err := s.historyTranscript(ctx, req.DocumentID, req.UserID)
	if err != nil {
		return "", err
	}

	prompt := fmt.Sprintf(template, BuildContext(snippets, answerContextChars), history, question)

	answer, err := s.generator.Generate(ctx, prompt, driven.GenerateOptions{Deterministic: true})
	if err != nil {
		return "", fmt.Errorf("failed to generate answer: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", domain.ErrEmptyGeneration
	}
	if citationOnlyPattern.MatchString(answer) {
		logger.Debug("Generator produced citation markers only, treating as not found")
		return driven.AnswerAbsentSentinel, nil
	}
	return answer, nil
}

// historyTranscript renders recent conversation turns for the prompt.
func (s *AnswerService) historyTranscript(ctx context.Context, documentID, userID string) (string, error) {
	messages, err := s.chatStore.History(ctx, documentID, userID, historyLimit)
	if err != nil {
		return "", fmt.Errorf("failed to load chat history: %w", err)
	}

	var b strings.Builder
	for _, msg := range messages {
		switch msg.Role {
		case domain.RoleUser:
			b.WriteString("User: ")
		case domain.RoleAssistant:
			b.WriteString("Assistant: ")
		}
		b.WriteString(msg.Content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// recordExchange appends the question and answer to the conversation log.
func (s *AnswerService) recordExchange(ctx context.Context, req driving.AskRequest, question, answer string) error {
	now := time.Now()
	msgs := []domain.ChatMessage{
		{
			ID:         uuid.New().String(),
			DocumentID: req.DocumentID,
			UserID:     req.UserID,
			Role:       domain.RoleUser,
			Content:    question,
			CreatedAt:  now,
		},
		{
			ID:         uuid.New().String(),
			DocumentID: req.DocumentID,
			UserID:     req.UserID,
			Role:       domain.RoleAssistant,
			Content:    answer,
			CreatedAt:  now,
		},
	}
	for _, msg := range msgs {
		if err := s.chatStore.Append(ctx, msg); err != nil {
			return fmt.Errorf("failed to record chat message: %w", err)
		}
	}
	return nil
}

// scopedDocument loads a document and builds the retrieval scope for the
// user. A document the user cannot access is reported as not found so
// existence is not leaked.
func (s *AnswerService) scopedDocument(ctx context.Context, documentID, userID string) (*domain.Document, domain.Scope, error) {
	if strings.TrimSpace(documentID) == "" {
		return nil, domain.Scope{}, fmt.Errorf("%w: document id is required", domain.ErrInvalidInput)
	}

	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, domain.Scope{}, fmt.Errorf("failed to load document: %w", err)
	}
	if !doc.AccessibleBy(userID) {
		return nil, domain.Scope{}, fmt.Errorf("document %s: %w", documentID, domain.ErrNotFound)
	}

	scope := domain.Scope{DocumentID: doc.ID}
	if !doc.Shared() {
		scope.OwnerID = doc.OwnerID
	}
	return doc, scope, nil
}

// isNotFound reports whether err is the store's missing-row error.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
