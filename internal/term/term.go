// Package term provides the terminal the engine draws on: raw mode, size,
// resize notification and a non-blocking input check.
package term

import (
	"errors"
	"io"
)

// ErrNotTerminal is returned when the input is not a tty.
var ErrNotTerminal = errors.New("not a terminal")

// Terminal is a tty or a stand-in for one.
type Terminal interface {
	io.Reader
	io.Writer

	// Init puts the terminal into raw mode and starts resize tracking.
	Init() error

	// Shutdown restores the terminal state saved by Init.
	Shutdown()

	// Size returns the current dimensions.
	Size() (width, height int)

	// OnResize registers a callback run after the terminal size changes.
	OnResize(callback func(width, height int))

	// InputPending reports whether input can be read without blocking.
	InputPending() bool
}
