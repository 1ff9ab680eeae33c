// Package output buffers the byte stream produced by a render pass and
// writes it to the terminal in large chunks.
package output

import (
	"bufio"
	"io"

	"github.com/dshills/vterm/internal/termcap"
)

// DefaultBufferSize is the flush threshold used when none is configured.
const DefaultBufferSize = 32 * 1024

// Sink is a buffered terminal writer. The first write error sticks; later
// writes are dropped and Flush returns it.
type Sink struct {
	w    *bufio.Writer
	caps *termcap.Caps
	err  error

	total int64
	pass  int
}

// New creates a sink over w. caps may be nil, in which case capability
// strings are written verbatim.
func New(w io.Writer, size int, caps *termcap.Caps) *Sink {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Sink{
		w:    bufio.NewWriterSize(w, size),
		caps: caps,
	}
}

// SetCaps changes the capability table used for padded emission.
func (s *Sink) SetCaps(caps *termcap.Caps) { s.caps = caps }

// Write implements io.Writer.
func (s *Sink) Write(p []byte) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n, err := s.w.Write(p)
	s.count(n)
	s.err = err
	return n, err
}

// WriteString appends a string.
func (s *Sink) WriteString(str string) {
	if s.err != nil || str == "" {
		return
	}
	n, err := s.w.WriteString(str)
	s.count(n)
	s.err = err
}

// WriteByte appends one byte.
func (s *Sink) WriteByte(b byte) error {
	if s.err != nil {
		return s.err
	}
	if err := s.w.WriteByte(b); err != nil {
		s.err = err
		return err
	}
	s.count(1)
	return nil
}

// WriteRune appends the UTF-8 form of r.
func (s *Sink) WriteRune(r rune) {
	if s.err != nil {
		return
	}
	n, err := s.w.WriteRune(r)
	s.count(n)
	s.err = err
}

// WriteCap appends a capability string, expanding its padding delays.
func (s *Sink) WriteCap(str string) {
	if str == "" {
		return
	}
	if s.caps == nil {
		s.WriteString(str)
		return
	}
	s.caps.Puts(s, str)
}

// Flush writes buffered bytes to the terminal.
func (s *Sink) Flush() error {
	if s.err != nil {
		return s.err
	}
	s.err = s.w.Flush()
	return s.err
}

// Err returns the sticky write error, if any.
func (s *Sink) Err() error { return s.err }

// Buffered returns the number of bytes waiting to be flushed.
func (s *Sink) Buffered() int { return s.w.Buffered() }

// Total returns the number of bytes accepted since creation.
func (s *Sink) Total() int64 { return s.total }

// PassBytes returns the bytes accepted since the last ResetPass.
func (s *Sink) PassBytes() int { return s.pass }

// ResetPass starts a new per-pass byte count.
func (s *Sink) ResetPass() { s.pass = 0 }

func (s *Sink) count(n int) {
	s.total += int64(n)
	s.pass += n
}
