package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/dshills/vterm/internal/core"
	"github.com/dshills/vterm/internal/logging"
	"github.com/dshills/vterm/internal/surface"
	"github.com/dshills/vterm/internal/vterm"
)

const (
	ownerBack surface.OwnerID = iota + 1
	ownerFront
	ownerLog
)

type demo struct {
	ctx *vterm.Context
	log *logging.Logger

	back  *surface.Surface
	front *surface.Surface
	logw  *surface.Surface

	ticks  int
	passes int
}

func newDemo(ctx *vterm.Context, log *logging.Logger) (*demo, error) {
	d := &demo{ctx: ctx, log: log}

	var err error
	if d.back, err = d.window(ownerBack, core.NewRect(4, 2, 34, 8), core.ColorBlack, core.ColorCyan); err != nil {
		return nil, err
	}
	if d.front, err = d.window(ownerFront, core.NewRect(22, 6, 34, 8), core.ColorWhite, core.ColorBlue); err != nil {
		return nil, err
	}
	w, h := ctx.Size()
	if d.logw, err = d.window(ownerLog, logRect(w, h), core.ColorDefault, core.ColorDefault); err != nil {
		return nil, err
	}

	d.drawDesktop()
	d.drawBack()
	d.drawFront()
	ctx.SetActive(d.front)

	ctx.OnResize(func(w, h int) {
		if err := ctx.ResizeSurface(d.logw, logRect(w, h), d.logw.Shadow()); err != nil {
			log.Warn("log window resize failed", "error", err)
		}
		d.logw.Clear(' ')
		d.drawDesktop()
		d.logf("terminal resized to %dx%d", w, h)
	})
	d.logf("vterm %s started", version)
	return d, nil
}

// logRect places the log window along the bottom of a w x h terminal.
func logRect(w, h int) core.Rect {
	return core.NewRect(2, max(h-7, 1), max(w-6, 1), 4)
}

func (d *demo) window(owner surface.OwnerID, rect core.Rect, fg, bg core.Color) (*surface.Surface, error) {
	s, err := d.ctx.CreateSurface(owner, rect, core.Size{Width: 2, Height: 1})
	if err != nil {
		return nil, err
	}
	s.SetPen(fg, bg, core.AttrNone)
	if err := d.ctx.ClearSurface(s, ' '); err != nil {
		return nil, err
	}
	if err := s.Shade(); err != nil {
		return nil, err
	}
	return s, d.ctx.ShowSurface(s)
}

func (d *demo) drawDesktop() {
	desk := d.ctx.Desktop()
	desk.SetPen(core.ColorDefault, core.ColorDefault, core.AttrNone)
	d.ctx.ClearSurface(nil, ' ')

	desk.SetCursor(core.Pt(1, 0))
	desk.SetPen(core.ColorYellow, core.ColorDefault, core.AttrBold)
	d.ctx.Print(nil, "vterm demo")
	desk.SetPen(core.ColorDefault, core.ColorDefault, core.AttrDim)
	d.ctx.Print(nil, "  arrows move  tab raise  s scroll  ^L redraw  q quit")
	desk.SetPen(core.ColorDefault, core.ColorDefault, core.AttrNone)
}

func (d *demo) drawBack() {
	lines := []string{
		" Back window",
		"",
		" Covered cells of this window",
		" are never sent to the terminal.",
		"",
		" Press tab to raise it.",
	}
	d.text(d.back, lines)
}

func (d *demo) drawFront() {
	lines := []string{
		" Front window",
		"",
		" The drop shadow blends with",
		" whatever lies underneath.",
		"",
		" 中文 wide glyphs: ｗｉｄｅ",
	}
	d.text(d.front, lines)
	d.front.SetInputCursor(core.Pt(13, 0), true)
}

func (d *demo) text(s *surface.Surface, lines []string) {
	for y, line := range lines {
		if y >= s.Height() {
			return
		}
		s.SetCursor(core.Pt(0, y))
		d.ctx.Print(s, runewidth.Truncate(line, s.Width(), "…"))
	}
}

// logf appends a line to the log window, scrolling it when full.
func (d *demo) logf(format string, args ...any) {
	s := d.logw
	if !s.Usable() {
		return
	}
	line := fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	y := s.Cursor().Y
	if s.Cursor().X > 0 {
		y++
	}
	if y >= s.Height() {
		d.ctx.ScrollForward(s)
		y = s.Height() - 1
	}
	s.SetCursor(core.Pt(0, y))
	if _, err := d.ctx.Print(s, runewidth.Truncate(line, s.Width(), "…")); err != nil {
		d.log.Debug("log line truncated", "error", err)
	}
}

func (d *demo) tick() {
	d.ticks++
	if d.ticks%4 == 0 {
		st := d.ctx.LastPass()
		d.logf("passes %d, last pass %d rows, %d bytes", d.passes, st.Rows, st.Bytes)
	}
}

// handleInput reacts to raw terminal input. It reports whether to quit.
func (d *demo) handleInput(in []byte) bool {
	for i := 0; i < len(in); i++ {
		switch in[i] {
		case 'q', 'Q', 0x03:
			return true
		case '\t':
			d.ctx.RaiseSurface(d.back)
			d.back, d.front = d.front, d.back
			d.ctx.SetActive(d.front)
			d.logf("raised window %d", d.front.ID())
		case 0x0c:
			d.ctx.RequestFullRedraw()
		case 's':
			d.ctx.ScrollForward(nil)
		case 0x1b:
			if i+2 < len(in) && in[i+1] == '[' {
				d.arrow(in[i+2])
				i += 2
			}
		}
	}
	return false
}

func (d *demo) arrow(b byte) {
	p := d.front.Offset()
	switch b {
	case 'A':
		p.Y--
	case 'B':
		p.Y++
	case 'C':
		p.X++
	case 'D':
		p.X--
	default:
		return
	}
	if err := d.ctx.MoveSurface(d.front, p); err != nil {
		d.log.Warn("move failed", "error", err)
	}
}

// update runs a pass, recovering from a terminal resize.
func (d *demo) update() {
	ran, err := d.ctx.UpdateTerminal()
	if errors.Is(err, vterm.ErrTerminalResized) {
		if err := d.ctx.HandleResize(); err != nil {
			d.log.Error("resize failed", "error", err)
			return
		}
		ran, err = d.ctx.ForceUpdate()
	}
	if err != nil {
		d.log.Error("render pass failed", "error", err)
		return
	}
	if ran {
		d.passes++
	}
}
