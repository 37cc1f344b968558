package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoDriver is returned when rendering without a prompt driver.
	ErrNoDriver = errors.New("tui: prompt driver is nil")
)
