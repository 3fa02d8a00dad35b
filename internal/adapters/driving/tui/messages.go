package tui

import (
	"github.com/paperpilot/paperpilot-cli/internal/core/domain"
)

// documentsLoaded carries the result of listing the user's documents.
type documentsLoaded struct {
	docs []domain.Document
	err  error
}

// answerReceived carries the result of one Ask round trip.
type answerReceived struct {
	answer string
	err    error
}
