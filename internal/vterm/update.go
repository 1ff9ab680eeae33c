package vterm

// UpdateTerminal composites every changed surface and emits the result,
// unless the scheduler defers the pass. It reports whether a pass ran.
func (c *Context) UpdateTerminal() (bool, error) {
	if !c.initialized {
		return false, ErrNotInitialized
	}
	return c.sched.Update(c.pass)
}

// ProcessPending runs a pass only if one was requested since the last.
func (c *Context) ProcessPending() (bool, error) {
	if !c.initialized {
		return false, ErrNotInitialized
	}
	return c.sched.ProcessPending(c.pass)
}

// ForceUpdate runs a pass now regardless of pending input.
func (c *Context) ForceUpdate() (bool, error) {
	c.sched.Force()
	return c.UpdateTerminal()
}

func (c *Context) pass() error {
	if c.resized() {
		return ErrTerminalResized
	}
	c.comp.UpdateAll()
	st, err := c.render.Render()
	if err != nil {
		return err
	}
	if err := c.out.Flush(); err != nil {
		return err
	}
	c.last = st
	return nil
}

// resized reports whether the terminal no longer matches the screen.
func (c *Context) resized() bool {
	if c.sizeChanged.Load() {
		return true
	}
	w, h := c.term.Size()
	return w != c.screen.Width() || h != c.screen.Height()
}

// HandleResize adapts the screen and desktop to the terminal's current
// size, clears the terminal and schedules every window for re-compositing.
// Window surfaces keep their geometry.
func (c *Context) HandleResize() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	c.sizeChanged.Store(false)
	c.sched.ClearResize()

	w, h := c.term.Size()
	c.log.Info("terminal resized", "width", w, "height", h)
	if w == c.screen.Width() && h == c.screen.Height() {
		c.RequestFullRedraw()
		return nil
	}
	rect := c.screen.Rect()
	rect.Width, rect.Height = w, h
	if err := c.arena.Resize(c.screen.ID(), rect, c.screen.Shadow()); err != nil {
		return opError("resize screen", c.screen, err)
	}
	if err := c.arena.Resize(c.desktop.ID(), rect, c.desktop.Shadow()); err != nil {
		c.log.Warn("desktop resize failed", "error", err)
		return opError("resize desktop", c.desktop, err)
	}

	c.render.Invalidate()
	c.render.Normal()
	if err := c.ClearSurface(c.desktop, ' '); err != nil {
		return err
	}
	c.markWindows()
	c.sched.Request()
	if c.onResize != nil {
		c.onResize(w, h)
	}
	return nil
}

// RequestFullRedraw forgets what the terminal shows so the next pass
// re-emits every cell.
func (c *Context) RequestFullRedraw() {
	if !c.initialized {
		return
	}
	c.comp.RequestFullRedraw()
	c.render.Invalidate()
	c.sched.Request()
}

// PauseUpdates stops render passes until ResumeUpdates.
func (c *Context) PauseUpdates() { c.sched.Pause() }

// ResumeUpdates allows render passes again.
func (c *Context) ResumeUpdates() { c.sched.Resume() }

// StartUpdate opens a print phase; passes wait for FinishUpdate.
func (c *Context) StartUpdate() { c.sched.StartUpdate() }

// FinishUpdate closes the print phase.
func (c *Context) FinishUpdate() { c.sched.FinishUpdate() }
