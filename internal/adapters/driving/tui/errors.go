package tui

import "errors"

// ErrMissingAssistant is returned when the assistant port is not provided.
var ErrMissingAssistant = errors.New("tui: assistant is required")

// ErrMissingLibrary is returned when the library service is not provided.
var ErrMissingLibrary = errors.New("tui: library service is required")
