//go:build unix

package term

import (
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

// TTY is the controlling terminal on stdin/stdout.
type TTY struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int
	old   *xterm.State

	mu       sync.Mutex
	onResize func(width, height int)

	sigCh  chan os.Signal
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewTTY creates a terminal on the process's stdin and stdout.
func NewTTY() *TTY {
	return &TTY{
		in:    os.Stdin,
		out:   os.Stdout,
		inFd:  int(os.Stdin.Fd()),
		outFd: int(os.Stdout.Fd()),
	}
}

// Init switches to raw mode and starts watching SIGWINCH.
func (t *TTY) Init() error {
	if !xterm.IsTerminal(t.inFd) {
		return ErrNotTerminal
	}
	old, err := xterm.MakeRaw(t.inFd)
	if err != nil {
		return err
	}
	t.old = old

	t.sigCh = make(chan os.Signal, 1)
	t.stopCh = make(chan struct{})
	t.doneCh = make(chan struct{})
	signal.Notify(t.sigCh, syscall.SIGWINCH)
	go t.watchResize()
	return nil
}

// Shutdown stops resize tracking and restores the saved mode.
func (t *TTY) Shutdown() {
	if t.stopCh != nil {
		signal.Stop(t.sigCh)
		close(t.stopCh)
		<-t.doneCh
		t.stopCh = nil
	}
	if t.old != nil {
		_ = xterm.Restore(t.inFd, t.old)
		t.old = nil
	}
}

func (t *TTY) watchResize() {
	defer close(t.doneCh)
	for {
		select {
		case <-t.stopCh:
			return
		case <-t.sigCh:
			w, h := t.Size()
			t.mu.Lock()
			cb := t.onResize
			t.mu.Unlock()
			if cb != nil && w > 0 && h > 0 {
				cb(w, h)
			}
		}
	}
}

// Size returns the terminal dimensions, or 80x24 when they are unknown.
func (t *TTY) Size() (int, int) {
	w, h, err := xterm.GetSize(t.outFd)
	if err != nil || w <= 0 || h <= 0 {
		return 80, 24
	}
	return w, h
}

// OnResize registers callback. It runs on the signal goroutine.
func (t *TTY) OnResize(callback func(width, height int)) {
	t.mu.Lock()
	t.onResize = callback
	t.mu.Unlock()
}

// InputPending polls stdin without blocking.
func (t *TTY) InputPending() bool {
	fds := []unix.PollFd{{Fd: int32(t.inFd), Events: unix.POLLIN}}
	n, err := unix.Poll(fds, 0)
	return err == nil && n > 0 && fds[0].Revents&unix.POLLIN != 0
}

// Read reads input bytes.
func (t *TTY) Read(p []byte) (int, error) { return t.in.Read(p) }

// Write writes to the terminal.
func (t *TTY) Write(p []byte) (int, error) { return t.out.Write(p) }
