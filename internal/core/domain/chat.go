package domain

import "time"

// Chat message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one entry in the append-only conversation log kept per
// (document, user) pair. Recent messages are woven into the QA prompt as
// conversational context.
type ChatMessage struct {
	// ID is the unique identifier for the message.
	ID string

	// DocumentID is the document the conversation is about.
	DocumentID string

	// UserID is the conversing user.
	UserID string

	// Role is "user" or "assistant".
	Role string

	// Content is the message text.
	Content string

	// CreatedAt is when the message was appended.
	CreatedAt time.Time
}
