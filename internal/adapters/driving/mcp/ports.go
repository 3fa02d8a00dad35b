package mcp

import (
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assistant answers questions about documents.
	Assistant driving.Assistant

	// Papers searches the shared arXiv corpus.
	Papers driving.PaperDirectory

	// Library lists and inspects documents.
	Library driving.LibraryService

	// UserID is the identity tool calls run under.
	UserID string
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistant
	}
	// Papers and Library are optional; their tools are skipped when absent.
	return nil
}
