// Package vterm ties the engine together. A Context owns the full-screen
// buffer, the desktop, every surface, the output sink and the scheduler,
// and runs render passes against one terminal.
package vterm

import (
	"sync/atomic"

	"github.com/dshills/vterm/internal/attr"
	"github.com/dshills/vterm/internal/charset"
	"github.com/dshills/vterm/internal/compose"
	"github.com/dshills/vterm/internal/config"
	"github.com/dshills/vterm/internal/core"
	"github.com/dshills/vterm/internal/logging"
	"github.com/dshills/vterm/internal/output"
	"github.com/dshills/vterm/internal/render"
	"github.com/dshills/vterm/internal/schedule"
	"github.com/dshills/vterm/internal/surface"
	"github.com/dshills/vterm/internal/term"
	"github.com/dshills/vterm/internal/termcap"
)

// Options configures a Context.
type Options struct {
	// Terminal is where output goes. Required.
	Terminal term.Terminal
	// Config is the engine configuration. Nil means config.Default().
	Config *config.Config
	// Caps overrides the capability lookup by terminal name.
	Caps   *termcap.Caps
	Logger *logging.Logger
	// Alloc overrides the surface buffer allocator.
	Alloc surface.Allocator
	// Bell is called when a bell character is printed.
	Bell func()
	// InputPending replaces Terminal.InputPending as the check that defers
	// render passes, for callers that read input ahead of the scheduler.
	InputPending func() bool
}

// Context is one virtual terminal session.
type Context struct {
	cfg  *config.Config
	log  *logging.Logger
	term term.Terminal

	caps   *termcap.Caps
	attrs  *attr.Generator
	enc    *charset.Encoder
	out    *output.Sink
	arena  *surface.Arena
	comp   *compose.Compositor
	render *render.Renderer
	sched  *schedule.Scheduler

	screen  *surface.Surface
	desktop *surface.Surface

	initialized bool
	sizeChanged atomic.Bool
	onResize    func(width, height int)
	last        render.Stats
}

// New creates a context. Capabilities are resolved from the configured
// terminal name unless opts.Caps is set. Nothing is written until Init.
func New(opts Options) (*Context, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = logging.NewNull()
	}

	caps := opts.Caps
	if caps == nil {
		var err error
		caps, err = termcap.Load(cfg.Terminal.Name, overrides(cfg))
		if err != nil {
			return nil, err
		}
	}
	enc, err := encoder(cfg, caps)
	if err != nil {
		return nil, err
	}

	c := &Context{
		cfg:   cfg,
		log:   log.WithComponent("vterm"),
		term:  opts.Terminal,
		caps:  caps,
		attrs: attr.New(caps),
		enc:   enc,
		arena: surface.NewArena(surface.Options{
			TabStop: cfg.Terminal.TabStop,
			UTF8:    enc.Encoding() == charset.UTF8,
			Bell:    opts.Bell,
			Alloc:   opts.Alloc,
		}),
	}
	c.out = output.New(opts.Terminal, cfg.Output.BufferSize, caps)
	pending := opts.InputPending
	if pending == nil {
		pending = opts.Terminal.InputPending
	}
	c.sched = schedule.New(schedule.Options{
		MaxSkip:      cfg.Scheduler.MaxSkip,
		InputPending: pending,
		Logger:       log,
	})
	return c, nil
}

func overrides(cfg *config.Config) termcap.Overrides {
	return termcap.Overrides{
		BCE:           cfg.Terminal.BCE,
		NewlineGlitch: cfg.Terminal.NewlineGlitch,
		Disable:       cfg.Capabilities.Disable,
	}
}

func encoder(cfg *config.Config, caps *termcap.Caps) (*charset.Encoder, error) {
	e, err := charset.Parse(cfg.Terminal.Encoding)
	if err != nil {
		return nil, err
	}
	return charset.NewEncoder(e, caps.Terminfo().AltChars), nil
}

// Init prepares the terminal, creates the full-screen buffer and the
// desktop, and clears the screen.
func (c *Context) Init() error {
	if c.initialized {
		return ErrAlreadyInitialized
	}
	if err := c.term.Init(); err != nil {
		return err
	}
	w, h := c.term.Size()
	rect := core.NewRect(0, 0, w, h)

	screen, err := c.arena.Create(0, rect, core.Size{})
	if err != nil {
		c.term.Shutdown()
		return opError("create screen", screen, err)
	}
	desktop, err := c.arena.Create(0, rect, core.Size{})
	if err != nil {
		c.term.Shutdown()
		return opError("create desktop", desktop, err)
	}
	desktop.SetVisible(true)
	c.screen, c.desktop = screen, desktop
	c.comp = compose.New(screen, desktop, compose.NewStack(), c.log)
	c.comp.SetActive(desktop)
	c.render = render.New(screen, c.caps, c.attrs, c.enc, c.out, c.log)

	c.term.OnResize(func(int, int) { c.sizeChanged.Store(true) })

	if c.cfg.Terminal.AltScreen {
		c.out.WriteCap(c.caps.EnterCA)
	}
	if c.enc.Encoding() == charset.VT100 {
		c.out.WriteCap(c.caps.EnableAcs)
	}
	c.render.HideCursor()
	c.render.Normal()
	c.initialized = true

	if err := c.ClearSurface(desktop, ' '); err != nil {
		return err
	}
	c.log.Info("initialized", "terminal", c.caps.Name, "width", w, "height", h,
		"encoding", c.enc.Encoding().String())
	return c.out.Flush()
}

// Finish restores the terminal: default attributes, visible cursor, and
// the normal screen when the alternate screen was used.
func (c *Context) Finish() error {
	if !c.initialized {
		return ErrNotInitialized
	}
	c.render.Normal()
	if c.cfg.Terminal.AltScreen {
		c.render.ClearScreen(core.BlankCell(), ' ')
		c.out.WriteCap(c.caps.ExitCA)
	} else {
		c.render.MoveTo(0, c.screen.Height()-1)
	}
	c.render.ShowCursor()
	err := c.out.Flush()

	c.term.Shutdown()
	for _, win := range c.comp.Stack().Windows() {
		_ = c.arena.Destroy(win.ID())
	}
	_ = c.arena.Destroy(c.desktop.ID())
	_ = c.arena.Destroy(c.screen.ID())
	c.initialized = false
	c.log.Info("finished", "bytes", c.out.Total())
	return err
}

// Initialized reports whether Init has run.
func (c *Context) Initialized() bool { return c.initialized }

// Desktop returns the always-visible bottom surface.
func (c *Context) Desktop() *surface.Surface { return c.desktop }

// Screen returns the full-screen buffer.
func (c *Context) Screen() *surface.Surface { return c.screen }

// Compositor returns the compositor.
func (c *Context) Compositor() *compose.Compositor { return c.comp }

// Scheduler returns the update scheduler.
func (c *Context) Scheduler() *schedule.Scheduler { return c.sched }

// Caps returns the active capability table.
func (c *Context) Caps() *termcap.Caps { return c.caps }

// Config returns the active configuration.
func (c *Context) Config() *config.Config { return c.cfg }

// Output returns the output sink.
func (c *Context) Output() *output.Sink { return c.out }

// LastPass returns the statistics of the most recent completed pass.
func (c *Context) LastPass() render.Stats { return c.last }

// Size returns the dimensions of the full-screen buffer.
func (c *Context) Size() (int, int) {
	if c.screen == nil {
		return 0, 0
	}
	return c.screen.Width(), c.screen.Height()
}

// OnResize registers fn to run after HandleResize has resized the screen
// and desktop. Owners redraw their surfaces from it.
func (c *Context) OnResize(fn func(width, height int)) {
	c.onResize = fn
}
