package term

import (
	"bytes"
	"io"
	"sync"
)

// Null is an in-memory terminal for tests and headless runs. Output is
// captured; input and the pending check are scripted.
type Null struct {
	mu       sync.Mutex
	width    int
	height   int
	out      bytes.Buffer
	in       bytes.Buffer
	pending  func() bool
	onResize func(width, height int)
	inited   bool
}

// NewNull creates a null terminal with the given dimensions.
func NewNull(width, height int) *Null {
	return &Null{width: width, height: height}
}

func (n *Null) Init() error {
	n.mu.Lock()
	n.inited = true
	n.mu.Unlock()
	return nil
}

func (n *Null) Shutdown() {
	n.mu.Lock()
	n.inited = false
	n.mu.Unlock()
}

// Initialized reports whether Init ran without a later Shutdown.
func (n *Null) Initialized() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.inited
}

func (n *Null) Size() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.width, n.height
}

func (n *Null) OnResize(callback func(width, height int)) {
	n.mu.Lock()
	n.onResize = callback
	n.mu.Unlock()
}

// Resize changes the size and runs the resize callback.
func (n *Null) Resize(width, height int) {
	n.mu.Lock()
	n.width, n.height = width, height
	cb := n.onResize
	n.mu.Unlock()
	if cb != nil {
		cb(width, height)
	}
}

// SetInputPending installs the check InputPending reports from.
func (n *Null) SetInputPending(fn func() bool) {
	n.mu.Lock()
	n.pending = fn
	n.mu.Unlock()
}

// InputPending reports queued input or the installed check's answer.
func (n *Null) InputPending() bool {
	n.mu.Lock()
	fn := n.pending
	queued := n.in.Len() > 0
	n.mu.Unlock()
	if queued {
		return true
	}
	return fn != nil && fn()
}

// Feed queues input bytes for Read.
func (n *Null) Feed(p []byte) {
	n.mu.Lock()
	n.in.Write(p)
	n.mu.Unlock()
}

// Read returns queued input, or io.EOF when there is none.
func (n *Null) Read(p []byte) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.in.Len() == 0 {
		return 0, io.EOF
	}
	return n.in.Read(p)
}

func (n *Null) Write(p []byte) (int, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.out.Write(p)
}

// Output returns everything written so far.
func (n *Null) Output() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.out.String()
}

// Reset discards captured output.
func (n *Null) Reset() {
	n.mu.Lock()
	n.out.Reset()
	n.mu.Unlock()
}
