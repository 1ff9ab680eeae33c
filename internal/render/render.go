// Package render turns the dirty rows of the full-screen buffer into the
// shortest control-sequence stream the terminal's capabilities allow.
//
// The renderer keeps a model of the hardware cursor. Cursor motion is
// deferred until something is actually written, so rows whose cells are
// all unchanged cost nothing.
package render

import (
	"github.com/dshills/vterm/internal/attr"
	"github.com/dshills/vterm/internal/charset"
	"github.com/dshills/vterm/internal/core"
	"github.com/dshills/vterm/internal/logging"
	"github.com/dshills/vterm/internal/output"
	"github.com/dshills/vterm/internal/surface"
	"github.com/dshills/vterm/internal/termcap"
)

type cursorState int

const (
	cursorUnknown cursorState = iota
	cursorHidden
	cursorShown
)

// Stats describes one render pass.
type Stats struct {
	// Rows is the number of rows that produced output.
	Rows int
	// Bytes is the number of bytes handed to the sink.
	Bytes int
}

// Renderer emits the screen's pending changes.
type Renderer struct {
	screen *surface.Surface
	caps   *termcap.Caps
	attrs  *attr.Generator
	enc    *charset.Encoder
	out    *output.Sink
	log    *logging.Logger

	w, h int

	// cur is where the hardware cursor is; pos is where the next output
	// must go. (-1, -1) means unknown.
	cur core.Point
	pos core.Point

	cursor cursorState
}

// New creates a renderer for screen.
func New(screen *surface.Surface, caps *termcap.Caps, attrs *attr.Generator,
	enc *charset.Encoder, out *output.Sink, log *logging.Logger) *Renderer {
	if log == nil {
		log = logging.NewNull()
	}
	r := &Renderer{
		screen: screen,
		caps:   caps,
		attrs:  attrs,
		enc:    enc,
		out:    out,
		log:    log.WithComponent("render"),
	}
	r.Invalidate()
	return r
}

// SetCaps switches to a new capability table and forgets the terminal state.
func (r *Renderer) SetCaps(caps *termcap.Caps, attrs *attr.Generator) {
	r.caps = caps
	r.attrs = attrs
	r.Invalidate()
}

// Invalidate forgets the hardware cursor position, cursor visibility and
// attribute state, so the next output re-establishes them.
func (r *Renderer) Invalidate() {
	r.cur = core.Pt(-1, -1)
	r.pos = r.cur
	r.cursor = cursorUnknown
	r.attrs.Invalidate()
}

// Position returns the modelled hardware cursor position.
func (r *Renderer) Position() core.Point { return r.cur }

// Render writes every dirty screen row to the sink and places the hardware
// cursor. The sink is not flushed.
func (r *Renderer) Render() (Stats, error) {
	r.w, r.h = r.screen.Width(), r.screen.Height()
	r.out.ResetPass()

	var st Stats
	for y := 0; y < r.h; y++ {
		if r.updateLine(y) {
			st.Rows++
		}
	}
	r.updateCursor()
	r.screen.SetChanged(false)

	st.Bytes = r.out.PassBytes()
	r.log.Debug("pass rendered", "rows", st.Rows, "bytes", st.Bytes)
	return st, r.out.Err()
}

// MoveTo sets the position of the next output. Columns past the right edge
// wrap onto following rows; rows past the bottom are clamped.
func (r *Renderer) MoveTo(x, y int) {
	w, h := r.screen.Width(), r.screen.Height()
	if x >= w && w > 0 {
		y += x / w
		x %= w
	}
	if y >= h {
		y = h - 1
	}
	r.pos = core.Pt(x, y)
}

// sync emits the pending cursor motion.
func (r *Renderer) sync() {
	if r.pos == r.cur || r.pos.X < 0 || r.pos.Y < 0 {
		return
	}
	if h := r.screen.Height(); r.cur.Y >= h {
		r.cur.Y = h - 1
	}
	r.out.WriteCap(r.caps.Move(r.cur.X, r.cur.Y, r.pos.X, r.pos.Y))
	r.cur = r.pos
}

// setAttrs switches the terminal to c's colors and attributes.
func (r *Renderer) setAttrs(c core.Cell) {
	if s := r.attrs.Change(c); s != "" {
		r.sync()
		r.out.WriteCap(s)
	}
}

// Normal resets the terminal to default attributes.
func (r *Renderer) Normal() {
	r.setAttrs(core.BlankCell())
}

// ShowCursor makes the hardware cursor visible.
func (r *Renderer) ShowCursor() {
	if r.cursor == cursorShown {
		return
	}
	r.sync()
	r.out.WriteCap(r.caps.ShowCursor)
	r.cursor = cursorShown
}

// HideCursor hides the hardware cursor.
func (r *Renderer) HideCursor() {
	if r.cursor == cursorHidden {
		return
	}
	r.out.WriteCap(r.caps.HideCursor)
	r.cursor = cursorHidden
}

// updateCursor shows the hardware cursor at the screen's input cursor, or
// hides it.
func (r *Renderer) updateCursor() bool {
	p, shown := r.screen.InputCursor()
	if shown && r.screen.Contains(p) {
		r.MoveTo(p.X, p.Y)
		r.sync()
		r.ShowCursor()
		return true
	}
	r.HideCursor()
	return false
}

// cursorWrap fixes the cursor model after output reached the right margin.
func (r *Renderer) cursorWrap() {
	if r.cur.X < r.w {
		return
	}
	old := r.cur
	switch {
	case r.cur.Y == r.h-1:
		r.cur.X--
	case r.caps.EatNewlineGlitch:
		r.cur = core.Pt(-1, -1)
	case r.caps.AutoRightMargin:
		r.cur = core.Pt(0, r.cur.Y+1)
	default:
		r.cur.X--
	}
	if r.pos == old {
		r.pos = r.cur
	}
}

func (r *Renderer) markPrinted(from, to, y int) {
	row := r.screen.Row(y)
	for x := max(from, 0); x <= to && x < len(row); x++ {
		row[x].Attr = row[x].Attr.With(core.AttrPrinted)
	}
}

// unchanged reports whether every cell in [xmin, xmax] already shows.
func (r *Renderer) unchanged(xmin, xmax, y int) bool {
	row := r.screen.Row(y)
	for x := xmin; x <= xmax; x++ {
		if !row[x].Attr.Has(core.AttrNoChanges) {
			return false
		}
	}
	return true
}

// updateLine emits the pending changes of row y. It reports whether the
// row had changes to emit.
func (r *Renderer) updateLine(y int) bool {
	l := *r.screen.Line(y)
	if !l.Dirty() {
		r.cursorWrap()
		return false
	}
	r.screen.MarkClean(y)

	xmin, xmax := max(l.XMin, 0), min(l.XMax, r.w-1)
	if xmin > xmax || r.unchanged(xmin, xmax, y) {
		r.markPrinted(xmin, xmax, y)
		r.cursorWrap()
		return false
	}

	eolClean := r.canClearToEOL(xmin, y)
	leading, trailing := false, false
	if !eolClean {
		leading = r.canClearLeadingWS(&xmin, y)
		trailing = r.canClearTrailingWS(&xmax, y)
	}

	r.MoveTo(xmin, y)

	if eolClean {
		r.setAttrs(r.screen.Cell(xmin, y))
		r.sync()
		r.out.WriteCap(r.caps.ClearEOL)
		r.markPrinted(xmin, r.w-1, y)
	} else {
		if leading {
			r.setAttrs(r.screen.Cell(0, y))
			r.sync()
			r.out.WriteCap(r.caps.ClearBOL)
			r.markPrinted(0, xmin, y)
		}
		r.printRange(xmin, xmax, y, trailing)
		if trailing {
			r.setAttrs(r.screen.Cell(r.w-1, y))
			r.sync()
			r.out.WriteCap(r.caps.ClearEOL)
			r.markPrinted(xmax+1, r.w-1, y)
		}
	}

	r.cursorWrap()
	return true
}

// SetEncoder switches the glyph encoding.
func (r *Renderer) SetEncoder(enc *charset.Encoder) {
	r.enc = enc
}
