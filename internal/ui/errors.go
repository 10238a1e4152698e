package ui

import "errors"

// Sentinel errors for UI components.
var (
	// ErrCancelled indicates the user aborted a prompt (Ctrl-C or Esc).
	ErrCancelled = errors.New("ui: cancelled by user")

	// ErrHeadless indicates an interactive component was used without a terminal.
	ErrHeadless = errors.New("ui: no terminal available for prompt")

	// ErrNoOptions indicates a selection prompt was given nothing to choose from.
	ErrNoOptions = errors.New("ui: no options to select from")
)
