// Package compose merges surfaces into the full-screen buffer by z-order and
// transparency.
//
// The full-screen buffer ("screen") mirrors what the terminal should show.
// Every cell written to it carries the no-changes flag when it is identical
// to the cell already printed there, so the renderer can skip it.
package compose

import (
	"github.com/dshills/vterm/internal/core"
	"github.com/dshills/vterm/internal/logging"
	"github.com/dshills/vterm/internal/surface"
)

// State is how much of a surface cell is hidden by windows above it.
type State int

// Covered states.
const (
	NotCovered State = iota
	HalfCovered
	FullyCovered
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case NotCovered:
		return "not-covered"
	case HalfCovered:
		return "half-covered"
	case FullyCovered:
		return "fully-covered"
	default:
		return "unknown"
	}
}

// Compositor owns the composition of desktop and windows into the screen.
type Compositor struct {
	screen  *surface.Surface
	desktop *surface.Surface
	stack   *Stack
	active  *surface.Surface
	log     *logging.Logger
}

// New creates a compositor. screen and desktop must have no shadow and the
// same size.
func New(screen, desktop *surface.Surface, stack *Stack, log *logging.Logger) *Compositor {
	if log == nil {
		log = logging.NewNull()
	}
	return &Compositor{
		screen:  screen,
		desktop: desktop,
		stack:   stack,
		active:  desktop,
		log:     log.WithComponent("compose"),
	}
}

// Screen returns the full-screen buffer.
func (c *Compositor) Screen() *surface.Surface { return c.screen }

// Desktop returns the desktop surface.
func (c *Compositor) Desktop() *surface.Surface { return c.desktop }

// Stack returns the window stack.
func (c *Compositor) Stack() *Stack { return c.stack }

// Active returns the surface whose input cursor is published.
func (c *Compositor) Active() *surface.Surface { return c.active }

// SetActive selects the surface whose input cursor is published.
func (c *Compositor) SetActive(s *surface.Surface) {
	if s == nil {
		s = c.desktop
	}
	c.active = s
}

// layer returns the z-position of s; the desktop and non-window surfaces
// are at 0.
func (c *Compositor) layer(s *surface.Surface) int {
	if s == nil || s == c.desktop {
		return 0
	}
	return c.stack.Layer(s.ID())
}

// CoveredState reports how the windows above s hide the global position p.
// A shadow cell above gives HalfCovered; any opaque cell gives FullyCovered.
func (c *Compositor) CoveredState(s *surface.Surface, p core.Point) State {
	state := NotCovered
	found := s == c.desktop
	for _, win := range c.stack.Windows() {
		if found && win.Visible() && win.Usable() && win.Bounds().Contains(p) {
			off := win.Offset()
			tmp := win.Cell(p.X-off.X, p.Y-off.Y)
			if tmp.Attr.Has(core.AttrTransShadow) {
				state = HalfCovered
			} else if !tmp.Attr.Has(core.AttrTransparent) {
				return FullyCovered
			}
		}
		if win == s {
			found = true
		}
	}
	return state
}

// CoveredCell returns what is visible at p underneath s: the desktop and
// every window below s.
func (c *Compositor) CoveredCell(p core.Point, s *surface.Surface) core.Cell {
	return c.lookup(p, s, false)
}

// OverlappedCell returns what is visible at p counting the desktop and every
// window above s.
func (c *Compositor) OverlappedCell(p core.Point, s *surface.Surface) core.Cell {
	return c.lookup(p, s, true)
}

func (c *Compositor) lookup(p core.Point, s *surface.Surface, above bool) core.Cell {
	x := clamp(p.X, 0, c.screen.Width()-1)
	y := clamp(p.Y, 0, c.screen.Height()-1)
	cc := c.desktop.Cell(x, y)

	layer := c.layer(s)
	for i, win := range c.stack.Windows() {
		winLayer := i + 1
		significant := layer >= winLayer
		if above {
			significant = layer < winLayer
		}
		if win == s || !significant {
			if !above {
				break
			}
			continue
		}
		if !win.Visible() || !win.Usable() {
			continue
		}
		if win.Bounds().Contains(p) {
			off := win.Offset()
			cc = layerCell(cc, win.Cell(p.X-off.X, p.Y-off.Y))
		}
	}
	return cc
}

// layerCell puts tmp on top of cc.
func layerCell(cc, tmp core.Cell) core.Cell {
	switch {
	case tmp.Attr.Has(core.AttrTransparent):
		return cc
	case tmp.Attr.Has(core.AttrTransShadow):
		cc.Fg = tmp.Fg
		cc.Bg = tmp.Bg
		cc.Attr = cc.Attr.Without(core.AttrReverse | core.AttrStandout)
		return cc
	case tmp.Attr.Has(core.AttrInheritBackground):
		tmp.Bg = cc.Bg
		return tmp
	default:
		return tmp
	}
}

// GenerateCell returns the composite of every layer at the screen position p.
func (c *Compositor) GenerateCell(p core.Point) core.Cell {
	sc := c.desktop.Cell(p.X, p.Y)
	for _, win := range c.stack.Windows() {
		if !win.Visible() || !win.Usable() || !win.Bounds().Contains(p) {
			continue
		}
		off := win.Offset()
		tmp := win.Cell(p.X-off.X, p.Y-off.Y)
		switch {
		case tmp.Attr.Has(core.AttrTransparent):
		case tmp.Attr.Has(core.AttrTransShadow):
			sc = sc.Shade(tmp)
		case tmp.Attr.Has(core.AttrInheritBackground):
			tmp.Bg = sc.Bg
			sc = tmp
		default:
			sc = tmp
		}
	}
	return sc
}

// store writes nc into the screen at p and flags it when the terminal
// already shows it.
func (c *Compositor) store(p core.Point, nc core.Cell) {
	tc := c.screen.At(p.X, p.Y)
	same := tc.Attr.Has(core.AttrPrinted) && tc.Equal(nc)
	nc.Attr = nc.Attr.Without(core.AttrPrinted | core.AttrNoChanges)
	if same {
		nc.Attr = nc.Attr.With(core.AttrPrinted | core.AttrNoChanges)
		nc.Encoded = tc.Encoded
	}
	*tc = nc
}

// composite computes the screen cell for the surface cell at local (x, y)
// shown at global p. It reports false when the cell is fully covered.
func (c *Compositor) composite(s *surface.Surface, x, y int, p core.Point) (core.Cell, bool) {
	ac := s.Cell(x, y)
	switch c.CoveredState(s, p) {
	case FullyCovered:
		return core.Cell{}, false
	case HalfCovered:
		return ac.Shade(c.OverlappedCell(p, s)), true
	}

	switch {
	case ac.Attr.Has(core.AttrTransparent):
		return c.CoveredCell(p, s), true
	case ac.Attr.Has(core.AttrTransShadow):
		return c.CoveredCell(p, s).Shade(ac), true
	case ac.Attr.Has(core.AttrInheritBackground):
		ac.Bg = c.CoveredCell(p, s).Bg
		return ac, true
	default:
		return ac, true
	}
}

// Flush runs the surface's pre-render hooks, then writes its dirty cells to
// the screen, widens the screen's dirty ranges and resets the surface's.
// The active surface's input cursor is published afterwards.
func (c *Compositor) Flush(s *surface.Surface) {
	if s == nil || !s.Visible() || !s.Usable() {
		return
	}
	s.RunHooks()

	off := s.Offset()
	sw, sh := c.screen.Width(), c.screen.Height()
	written := 0

	for y := 0; y < s.FullHeight(); y++ {
		l := *s.Line(y)
		if !l.Dirty() {
			continue
		}
		s.MarkClean(y)

		ty := off.Y + y
		if ty < 0 || ty >= sh {
			continue
		}
		first, last := -1, -1
		for x := l.XMin; x <= l.XMax && x < s.FullWidth(); x++ {
			tx := off.X + x
			if tx < 0 || tx >= sw {
				continue
			}
			p := core.Pt(tx, ty)
			nc, ok := c.composite(s, x, y, p)
			if !ok {
				continue
			}
			c.store(p, nc)
			if first < 0 {
				first = tx
			}
			last = tx
		}
		if first >= 0 {
			c.screen.MarkDirty(ty, first, last)
			written += last - first + 1
		}
	}

	c.screen.SetChanged(true)
	c.log.Debug("flushed surface", "surface", int(s.ID()), "cells", written)
	if s == c.active {
		c.PublishCursor()
	}
}

// UpdateAll flushes the desktop and every window that has changes, in
// z-order. A window whose hook-owned child surfaces changed is flushed too.
func (c *Compositor) UpdateAll() {
	if c.desktop.Changed() {
		c.Flush(c.desktop)
		c.desktop.SetChanged(false)
	}
	for _, win := range c.stack.Windows() {
		if !win.Visible() || !win.Usable() {
			continue
		}
		switch {
		case win.Changed():
			c.Flush(win)
			win.SetChanged(false)
		case win.ChildChanged():
			c.Flush(win)
			win.ClearChildChanges()
		}
	}
	c.PublishCursor()
}

// PublishCursor copies the input cursor of the active surface to the
// screen when the surface is visible, the cursor lies inside the surface
// and the terminal, and nothing covers it. Otherwise the screen cursor is
// hidden. It reports whether the cursor is shown.
func (c *Compositor) PublishCursor() bool {
	p, was := c.screen.InputCursor()
	if s := c.active; s != nil && s.Visible() && s.Usable() {
		if ic, shown := s.InputCursor(); shown {
			gp := s.Offset().Add(ic)
			if s.Contains(ic) && c.screen.Contains(gp) && c.CoveredState(s, gp) == NotCovered {
				if !was || gp != p {
					c.screen.SetChanged(true)
				}
				c.screen.SetInputCursor(gp, true)
				return true
			}
		}
	}
	if was {
		c.screen.SetChanged(true)
	}
	c.screen.SetInputCursor(p, false)
	return false
}

// RestoreRegion regenerates the screen cells inside rect from all layers.
func (c *Compositor) RestoreRegion(rect core.Rect) {
	r := rect.Intersection(core.NewRect(0, 0, c.screen.Width(), c.screen.Height()))
	if r.IsEmpty() {
		return
	}
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			p := core.Pt(x, y)
			c.store(p, c.GenerateCell(p))
		}
		c.screen.MarkDirty(y, r.X, r.Right()-1)
	}
	c.screen.SetChanged(true)
}

// PutAt copies the whole of s, shadow included, to the screen with its
// top-left corner at pos. Rows without see-through cells are copied as a
// block.
func (c *Compositor) PutAt(pos core.Point, s *surface.Surface) {
	if s == nil || !s.Visible() || !s.Usable() {
		return
	}
	sw, sh := c.screen.Width(), c.screen.Height()
	ol := 0
	if pos.X < 0 {
		ol = -pos.X
		pos.X = 0
	}
	length := s.FullWidth() - ol
	if pos.X+length > sw {
		length = sw - pos.X
	}
	if length < 1 {
		return
	}

	for y := 0; y < s.FullHeight(); y++ {
		ty := pos.Y + y
		if ty < 0 {
			continue
		}
		if ty >= sh {
			break
		}
		src := s.Row(y)[ol : ol+length]
		if s.Line(y).TransCount == 0 {
			for i, ac := range src {
				c.store(core.Pt(pos.X+i, ty), ac)
			}
		} else {
			for i, ac := range src {
				p := core.Pt(pos.X+i, ty)
				c.store(p, c.putCell(p, s, ac))
			}
		}
		c.screen.MarkDirty(ty, pos.X, pos.X+length-1)
	}
	c.screen.SetChanged(true)
}

func (c *Compositor) putCell(p core.Point, s *surface.Surface, ac core.Cell) core.Cell {
	switch {
	case ac.Attr.Has(core.AttrTransparent):
		return c.CoveredCell(p, s)
	case ac.Attr.Has(core.AttrTransShadow):
		return c.CoveredCell(p, s).Shade(ac)
	case ac.Attr.Has(core.AttrInheritBackground):
		ac.Bg = c.CoveredCell(p, s).Bg
		return ac
	default:
		return ac
	}
}

// Snapshot copies the screen block at pos into the interior of s.
func (c *Compositor) Snapshot(pos core.Point, s *surface.Surface) {
	if s == nil || !s.Usable() || pos.X < 0 || pos.Y < 0 {
		return
	}
	rows := min(s.Height(), c.screen.Height()-pos.Y)
	length := min(s.Width(), c.screen.Width()-pos.X)
	if rows < 1 || length < 1 {
		return
	}
	for y := 0; y < rows; y++ {
		src := c.screen.Row(pos.Y + y)[pos.X : pos.X+length]
		dst := s.Row(y)
		for x, tc := range src {
			tc.Attr = tc.Attr.Without(core.AttrPrinted | core.AttrNoChanges)
			dst[x] = tc
		}
		s.Line(y).TransCount = s.CountTransparent(y)
		s.MarkDirty(y, 0, length-1)
	}
	s.SetChanged(true)
}

// RequestFullRedraw marks every screen row fully dirty and forgets what was
// printed, so the next pass re-emits the whole screen.
func (c *Compositor) RequestFullRedraw() {
	for y := 0; y < c.screen.Height(); y++ {
		row := c.screen.Row(y)
		for x := range row {
			row[x].Attr = row[x].Attr.Without(core.AttrPrinted | core.AttrNoChanges)
		}
	}
	c.screen.MarkAll()
}

// MarkPrinted flags screen rows [from, to] as already shown by the terminal
// and marks them clean.
func (c *Compositor) MarkPrinted(from, to int) {
	for y := max(from, 0); y <= to && y < c.screen.Height(); y++ {
		row := c.screen.Row(y)
		for x := range row {
			row[x].Attr = row[x].Attr.With(core.AttrPrinted | core.AttrNoChanges)
		}
		c.screen.MarkClean(y)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
