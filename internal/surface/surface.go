// Package surface provides the off-screen character buffers that windows
// and widgets draw into. Each surface tracks, per row, the range of columns
// that changed since it was last composited and how many of the row's cells
// are see-through.
package surface

import (
	"github.com/dshills/vterm/internal/core"
)

// ID identifies a surface inside an Arena.
type ID int

// NoSurface is the zero ID; no surface ever has it.
const NoSurface ID = 0

// OwnerID is a non-owning reference to the widget that owns a surface.
type OwnerID uint64

// LineChanges is the dirty range of one row.
// A row is dirty when XMin <= XMax.
type LineChanges struct {
	XMin       int
	XMax       int
	TransCount int
}

// Dirty reports whether the row has pending changes.
func (l LineChanges) Dirty() bool {
	return l.XMin <= l.XMax
}

// Hook is a pre-render callback registered on a surface.
type Hook struct {
	Owner OwnerID
	// Child is the owner's own drawing surface, if any. Changes to it alone
	// are enough to re-composite the surface the hook is registered on.
	Child *Surface
	Run   func()
}

// Surface is one rectangular cell buffer with an optional shadow margin.
type Surface struct {
	id    ID
	owner OwnerID

	offset       core.Point
	width        int
	height       int
	rightShadow  int
	bottomShadow int

	cursor      core.Point
	inputCursor core.Point
	inputShown  bool

	pen core.Cell

	visible  bool
	changed  bool
	unusable bool

	tabStop int
	utf8    bool
	bell    func()

	changes []LineChanges
	cells   []core.Cell
	hooks   []Hook
}

// ID returns the surface's arena ID.
func (s *Surface) ID() ID { return s.id }

// Owner returns the owning widget reference.
func (s *Surface) Owner() OwnerID { return s.owner }

// Usable reports whether the surface has cell buffers.
func (s *Surface) Usable() bool { return !s.unusable && s.cells != nil }

// Rect returns the surface geometry without shadow in global coordinates.
func (s *Surface) Rect() core.Rect {
	return core.NewRect(s.offset.X, s.offset.Y, s.width, s.height)
}

// Bounds returns the geometry including the shadow margin.
func (s *Surface) Bounds() core.Rect {
	return core.NewRect(s.offset.X, s.offset.Y, s.FullWidth(), s.FullHeight())
}

// Offset returns the top-left corner in global coordinates.
func (s *Surface) Offset() core.Point { return s.offset }

// Move sets the top-left corner without touching the cells.
func (s *Surface) Move(p core.Point) { s.offset = p }

// Width returns the interior width.
func (s *Surface) Width() int { return s.width }

// Height returns the interior height.
func (s *Surface) Height() int { return s.height }

// Shadow returns the right and bottom shadow sizes.
func (s *Surface) Shadow() core.Size {
	return core.Size{Width: s.rightShadow, Height: s.bottomShadow}
}

// FullWidth returns the row length including the right shadow.
func (s *Surface) FullWidth() int { return s.width + s.rightShadow }

// FullHeight returns the row count including the bottom shadow.
func (s *Surface) FullHeight() int { return s.height + s.bottomShadow }

// Visible reports whether the surface takes part in compositing.
func (s *Surface) Visible() bool { return s.visible }

// SetVisible shows or hides the surface.
func (s *Surface) SetVisible(v bool) { s.visible = v }

// Changed reports whether the surface has been written since it was last
// composited.
func (s *Surface) Changed() bool { return s.changed }

// SetChanged sets or clears the changed flag.
func (s *Surface) SetChanged(c bool) { s.changed = c }

// Cursor returns the write cursor in local coordinates.
func (s *Surface) Cursor() core.Point { return s.cursor }

// SetCursor moves the write cursor. Out-of-range positions are kept; the
// next write simply does not land in the buffer.
func (s *Surface) SetCursor(p core.Point) { s.cursor = p }

// InputCursor returns the input cursor position and visibility.
func (s *Surface) InputCursor() (core.Point, bool) {
	return s.inputCursor, s.inputShown
}

// SetInputCursor places the input cursor in local coordinates.
func (s *Surface) SetInputCursor(p core.Point, visible bool) {
	s.inputCursor = p
	s.inputShown = visible
}

// Pen returns the template cell used for text writes and clears.
func (s *Surface) Pen() core.Cell { return s.pen }

// SetPen sets the colors and attributes of subsequent writes.
func (s *Surface) SetPen(fg, bg core.Color, attr core.Attr) {
	s.pen.Fg = fg
	s.pen.Bg = bg
	s.pen.Attr = attr.Without(core.AttrFullwidthPadding | core.AttrPrinted | core.AttrNoChanges)
}

// Contains reports whether the local point lies inside the interior.
func (s *Surface) Contains(p core.Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.width && p.Y < s.height
}

// Cell returns the cell at the local position including the shadow margin.
func (s *Surface) Cell(x, y int) core.Cell {
	return *s.At(x, y)
}

// At returns a pointer to the cell at the local position. It panics when the
// position lies outside the buffer.
func (s *Surface) At(x, y int) *core.Cell {
	return &s.cells[y*s.FullWidth()+x]
}

// Row returns the cells of row y including the right shadow.
func (s *Surface) Row(y int) []core.Cell {
	w := s.FullWidth()
	return s.cells[y*w : (y+1)*w]
}

// Line returns the change record of row y.
func (s *Surface) Line(y int) *LineChanges {
	return &s.changes[y]
}

// MarkDirty widens row y's dirty range to include [xmin, xmax].
func (s *Surface) MarkDirty(y, xmin, xmax int) {
	l := &s.changes[y]
	if xmin < l.XMin {
		l.XMin = xmin
	}
	if xmax > l.XMax {
		l.XMax = xmax
	}
}

// MarkClean resets row y to the canonical clean state.
func (s *Surface) MarkClean(y int) {
	s.changes[y].XMin = s.FullWidth()
	s.changes[y].XMax = 0
}

// DirtyRows returns the number of rows with pending changes.
func (s *Surface) DirtyRows() int {
	n := 0
	for _, l := range s.changes {
		if l.Dirty() {
			n++
		}
	}
	return n
}

// MarkAll marks every row fully dirty.
func (s *Surface) MarkAll() {
	w := s.FullWidth()
	for y := range s.changes {
		s.changes[y].XMin = 0
		s.changes[y].XMax = w - 1
	}
	s.changed = true
}

// Hooks returns the registered pre-render hooks in registration order.
func (s *Surface) Hooks() []Hook { return s.hooks }

// AddHook registers a pre-render hook. A second registration by the same
// owner replaces the first.
func (s *Surface) AddHook(h Hook) {
	for i := range s.hooks {
		if s.hooks[i].Owner == h.Owner {
			s.hooks[i] = h
			return
		}
	}
	s.hooks = append(s.hooks, h)
}

// RemoveHook drops the hook registered by owner. It reports whether one
// was found.
func (s *Surface) RemoveHook(owner OwnerID) bool {
	for i := range s.hooks {
		if s.hooks[i].Owner == owner {
			// A fresh slice keeps a RunHooks in progress on the old list.
			hooks := make([]Hook, 0, len(s.hooks)-1)
			hooks = append(hooks, s.hooks[:i]...)
			s.hooks = append(hooks, s.hooks[i+1:]...)
			return true
		}
	}
	return false
}

// RunHooks calls every pre-render hook in order. A hook may unregister
// itself or another hook; the current run still sees the list it started
// with.
func (s *Surface) RunHooks() {
	for _, h := range s.hooks {
		if h.Run != nil {
			h.Run()
		}
	}
}

// ChildChanged reports whether any hook owner's child surface has changes.
func (s *Surface) ChildChanged() bool {
	for _, h := range s.hooks {
		if h.Child != nil && h.Child.changed {
			return true
		}
	}
	return false
}

// ClearChildChanges resets the changed flag of every hook child surface.
func (s *Surface) ClearChildChanges() {
	for _, h := range s.hooks {
		if h.Child != nil {
			h.Child.changed = false
		}
	}
}

// CountTransparent recounts the see-through cells in row y.
func (s *Surface) CountTransparent(y int) int {
	n := 0
	for _, c := range s.Row(y) {
		if c.IsSeeThrough() {
			n++
		}
	}
	return n
}

// setCell stores c at (x, y), keeping the row's trans_count and dirty range
// in step. It reports whether the cell changed.
func (s *Surface) setCell(x, y int, c core.Cell) bool {
	ac := s.At(x, y)
	// Render bookkeeping on the stored cell does not make a rewrite a change.
	const kept = core.AttrPrinted | core.AttrNoChanges
	if ac.Equal(c) && ac.Width == c.Width && ac.Attr.Without(kept) == c.Attr.Without(kept) {
		return false
	}
	l := &s.changes[y]
	was, now := ac.IsSeeThrough(), c.IsSeeThrough()
	switch {
	case now && !was:
		l.TransCount++
	case was && !now:
		l.TransCount--
	}
	*ac = c
	s.MarkDirty(y, x, x)
	return true
}
