//go:build !unix

package term

import "os"

// TTY is unavailable on this platform; Init always fails.
type TTY struct{}

// NewTTY returns a terminal whose Init reports ErrNotTerminal.
func NewTTY() *TTY { return &TTY{} }

func (t *TTY) Init() error { return ErrNotTerminal }
func (t *TTY) Shutdown() {}
func (t *TTY) Size() (int, int) { return 80, 24 }
func (t *TTY) OnResize(func(width, height int)) {}
func (t *TTY) InputPending() bool { return false }
func (t *TTY) Read(p []byte) (int, error) { return os.Stdin.Read(p) }
func (t *TTY) Write(p []byte) (int, error) { return os.Stdout.Write(p) }
