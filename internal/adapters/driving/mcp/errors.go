// Package mcp provides an MCP (Model Context Protocol) server adapter
// for paperpilot. It lets AI assistants ask questions about ingested
// papers and search the shared arXiv corpus.
package mcp

import "errors"

// ErrMissingAssistant is returned when the assistant is not provided.
var ErrMissingAssistant = errors.New("mcp: assistant is required")
