package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driven"
)

// Ensure ChatStore implements the interface.
var _ driven.ChatStore = (*ChatStore)(nil)

// ChatStore is an in-memory implementation of driven.ChatStore.
type ChatStore struct {
	mu       sync.RWMutex
	messages []domain.ChatMessage
}

// NewChatStore creates a new in-memory chat store.
func NewChatStore() *ChatStore {
	return &ChatStore{}
}

// Append adds a message to the log.
func (s *ChatStore) Append(_ context.Context, msg domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

// History returns the most recent messages for a (document, user) pair,
// oldest first, up to limit.
func (s *ChatStore) History(_ context.Context, documentID, userID string, limit int) ([]domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.ChatMessage
	for _, msg := range s.messages {
		if msg.DocumentID == documentID && msg.UserID == userID {
			result = append(result, msg)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	if limit > 0 && len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result, nil
}

// DeleteForDocument removes all messages about a document.
func (s *ChatStore) DeleteForDocument(_ context.Context, documentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.messages[:0]
	for _, msg := range s.messages {
		if msg.DocumentID != documentID {
			kept = append(kept, msg)
		}
	}
	s.messages = kept
	return nil
}
