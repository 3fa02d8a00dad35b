// Package tui provides the interactive chat interface for paperpilot.
// It implements a driving adapter following hexagonal architecture
// principles: the document list and every question go through the
// driving ports.
package tui

import (
	"github.com/paperpilot/paperpilot-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Assistant answers questions about documents.
	Assistant driving.Assistant

	// Library lists the user's documents.
	Library driving.LibraryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistant
	}
	if p.Library == nil {
		return ErrMissingLibrary
	}
	return nil
}
