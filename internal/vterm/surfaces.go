package vterm

import (
	"github.com/dshills/vterm/internal/core"
	"github.com/dshills/vterm/internal/surface"
)

// target maps nil to the desktop.
func (c *Context) target(s *surface.Surface) *surface.Surface {
	if s == nil {
		return c.desktop
	}
	return s
}

// check verifies that s belongs to this context and has buffers.
func (c *Context) check(op string, s *surface.Surface) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if got, ok := c.arena.Get(s.ID()); !ok || got != s {
		return opError(op, s, ErrUnknownSurface)
	}
	if !s.Usable() {
		return opError(op, s, ErrSurfaceUnusable)
	}
	return nil
}

// CreateSurface allocates a surface for owner. It starts hidden and
// outside the window stack. On allocation failure the returned surface is
// unusable until a later ResizeSurface succeeds.
func (c *Context) CreateSurface(owner surface.OwnerID, rect core.Rect, shadow core.Size) (*surface.Surface, error) {
	if !c.initialized {
		return nil, ErrNotInitialized
	}
	s, err := c.arena.Create(owner, rect, shadow)
	if err != nil {
		c.log.Warn("surface allocation failed", "surface", int(s.ID()),
			"width", rect.Width, "height", rect.Height, "error", err)
		return s, opError("create", s, err)
	}
	c.log.Debug("surface created", "surface", int(s.ID()), "owner", uint64(owner))
	return s, nil
}

// ResizeSurface changes the geometry of s. The content is reset, so the
// owner redraws afterwards. A failed reallocation keeps the old buffers
// and leaves s unusable until a later resize succeeds; a visible window's
// area then shows what lies below it.
func (c *Context) ResizeSurface(s *surface.Surface, rect core.Rect, shadow core.Size) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if got, ok := c.arena.Get(s.ID()); !ok || got != s {
		return opError("resize", s, ErrUnknownSurface)
	}
	old := s.Bounds()
	if err := c.arena.Resize(s.ID(), rect, shadow); err != nil {
		c.log.Warn("surface reallocation failed", "surface", int(s.ID()), "error", err)
		// The compositor skips s now, so whatever lies below shows through.
		if s.Visible() && s != c.desktop {
			c.comp.RestoreRegion(old)
			c.sched.Request()
		}
		return opError("resize", s, err)
	}
	if s.Visible() && s != c.desktop {
		c.comp.RestoreRegion(old)
		s.MarkAll()
	}
	c.sched.Request()
	return nil
}

// DestroySurface removes s from the stack, restores what it covered and
// releases its buffers.
func (c *Context) DestroySurface(s *surface.Surface) error {
	if !c.initialized {
		return ErrNotInitialized
	}
	if s == c.desktop || s == c.screen {
		return opError("destroy", s, ErrUnknownSurface)
	}
	if got, ok := c.arena.Get(s.ID()); !ok || got != s {
		return opError("destroy", s, ErrUnknownSurface)
	}
	c.comp.Stack().Remove(s.ID())
	if s.Visible() {
		s.SetVisible(false)
		c.comp.RestoreRegion(s.Bounds())
	}
	if c.comp.Active() == s {
		c.comp.SetActive(nil)
	}
	c.sched.Request()
	return c.arena.Destroy(s.ID())
}

// ShowSurface puts s on top of the window stack if it is not there yet and
// makes it visible.
func (c *Context) ShowSurface(s *surface.Surface) error {
	if err := c.check("show", s); err != nil {
		return err
	}
	if s == c.desktop {
		return nil
	}
	if c.comp.Stack().Layer(s.ID()) == 0 {
		c.comp.Stack().Push(s)
	}
	s.SetVisible(true)
	s.MarkAll()
	c.sched.Request()
	return nil
}

// HideSurface makes s invisible and restores what it covered.
func (c *Context) HideSurface(s *surface.Surface) error {
	if err := c.check("hide", s); err != nil {
		return err
	}
	if s == c.desktop || !s.Visible() {
		return nil
	}
	s.SetVisible(false)
	c.comp.RestoreRegion(s.Bounds())
	c.sched.Request()
	return nil
}

// MoveSurface moves s to p.
func (c *Context) MoveSurface(s *surface.Surface, p core.Point) error {
	if err := c.check("move", s); err != nil {
		return err
	}
	if s == c.desktop || s.Offset() == p {
		return nil
	}
	old := s.Bounds()
	s.Move(p)
	if s.Visible() {
		c.comp.RestoreRegion(old)
		s.MarkAll()
		c.sched.Request()
	}
	return nil
}

// RaiseSurface moves s to the top of the window stack.
func (c *Context) RaiseSurface(s *surface.Surface) error {
	if err := c.check("raise", s); err != nil {
		return err
	}
	if c.comp.Stack().Raise(s.ID()) && s.Visible() {
		s.MarkAll()
		c.sched.Request()
	}
	return nil
}

// LowerSurface moves s to the bottom of the window stack.
func (c *Context) LowerSurface(s *surface.Surface) error {
	if err := c.check("lower", s); err != nil {
		return err
	}
	if c.comp.Stack().Lower(s.ID()) && s.Visible() {
		c.comp.RestoreRegion(s.Bounds())
		c.sched.Request()
	}
	return nil
}

// SetActive selects the surface whose input cursor becomes the terminal
// cursor. Nil selects the desktop.
func (c *Context) SetActive(s *surface.Surface) {
	c.comp.SetActive(s)
	c.sched.Request()
}

// Print writes text at the write cursor of s, or of the desktop when s is
// nil.
func (c *Context) Print(s *surface.Surface, text string) (int, error) {
	s = c.target(s)
	if err := c.check("print", s); err != nil {
		return 0, err
	}
	n, err := s.WriteString(text)
	c.sched.Request()
	return n, opError("print", s, err)
}

// PrintCells writes cells at the write cursor of s, or of the desktop when
// s is nil.
func (c *Context) PrintCells(s *surface.Surface, cells []core.Cell) (int, error) {
	s = c.target(s)
	if err := c.check("print", s); err != nil {
		return 0, err
	}
	n, err := s.Write(cells)
	c.sched.Request()
	return n, opError("print", s, err)
}

// ClearSurface fills s with fill in its current pen. For the desktop the
// terminal's own clear is tried first.
func (c *Context) ClearSurface(s *surface.Surface, fill rune) error {
	s = c.target(s)
	if err := c.check("clear", s); err != nil {
		return err
	}
	if err := s.Clear(fill); err != nil {
		return opError("clear", s, err)
	}
	if s == c.desktop && c.render.ClearScreen(s.Pen(), fill) {
		// The terminal already shows the cleared desktop.
		for y := 0; y < s.FullHeight(); y++ {
			s.MarkClean(y)
		}
		s.SetChanged(false)
		c.markWindows()
		c.log.Debug("desktop cleared by terminal")
	}
	c.sched.Request()
	return nil
}

// ScrollForward scrolls s up one row. The desktop uses the terminal's own
// scroll when no window is showing and nothing is waiting to be drawn.
func (c *Context) ScrollForward(s *surface.Surface) error {
	return c.scroll(s, true)
}

// ScrollReverse scrolls s down one row.
func (c *Context) ScrollReverse(s *surface.Surface) error {
	return c.scroll(s, false)
}

func (c *Context) scroll(s *surface.Surface, forward bool) error {
	s = c.target(s)
	if err := c.check("scroll", s); err != nil {
		return err
	}
	if s == c.desktop && c.hardwareScroll(forward) {
		return nil
	}
	if forward {
		s.ScrollForward()
	} else {
		s.ScrollReverse()
	}
	c.sched.Request()
	return nil
}

func (c *Context) hardwareScroll(forward bool) bool {
	d := c.desktop
	h := d.Height()
	if h < 2 || c.comp.Stack().HasVisible() || c.screen.DirtyRows() > 0 || d.DirtyRows() > 0 {
		return false
	}
	var ok bool
	if forward {
		ok = c.render.ScrollForward()
	} else {
		ok = c.render.ScrollReverse()
	}
	if !ok {
		return false
	}

	exposed := h - 1
	if forward {
		d.ScrollForward()
	} else {
		d.ScrollReverse()
		exposed = 0
	}
	c.comp.PutAt(d.Offset(), d)
	if forward {
		c.comp.MarkPrinted(0, h-2)
	} else {
		c.comp.MarkPrinted(1, h-1)
	}
	row := c.screen.Row(exposed)
	for x := range row {
		row[x].Attr = row[x].Attr.Without(core.AttrPrinted | core.AttrNoChanges)
	}
	for y := 0; y < d.FullHeight(); y++ {
		d.MarkClean(y)
	}
	d.SetChanged(false)
	c.sched.Request()
	c.log.Debug("desktop scrolled by terminal", "forward", forward)
	return true
}

// markWindows schedules every visible window for re-compositing.
func (c *Context) markWindows() {
	for _, win := range c.comp.Stack().Windows() {
		if win.Visible() {
			win.MarkAll()
		}
	}
}

// RegisterPreRenderHook runs fn before target is composited. child is the
// owner's own surface, if any; its changes alone make target re-composite.
// A second registration by the same owner replaces the first.
func (c *Context) RegisterPreRenderHook(target *surface.Surface, owner surface.OwnerID, child *surface.Surface, fn func()) error {
	target = c.target(target)
	if err := c.check("register hook", target); err != nil {
		return err
	}
	target.AddHook(surface.Hook{Owner: owner, Child: child, Run: fn})
	return nil
}

// UnregisterPreRenderHook removes owner's hook from target.
func (c *Context) UnregisterPreRenderHook(target *surface.Surface, owner surface.OwnerID) bool {
	target = c.target(target)
	if target == nil {
		return false
	}
	return target.RemoveHook(owner)
}

// PutArea copies the whole of s to the screen at pos.
func (c *Context) PutArea(pos core.Point, s *surface.Surface) error {
	if err := c.check("put area", s); err != nil {
		return err
	}
	c.comp.PutAt(pos, s)
	c.sched.Request()
	return nil
}

// GetArea copies the screen block at pos into s.
func (c *Context) GetArea(pos core.Point, s *surface.Surface) error {
	if err := c.check("get area", s); err != nil {
		return err
	}
	c.comp.Snapshot(pos, s)
	return nil
}

// RestoreRegion regenerates the screen inside rect from all layers.
func (c *Context) RestoreRegion(rect core.Rect) {
	if !c.initialized {
		return
	}
	c.comp.RestoreRegion(rect)
	c.sched.Request()
}
