// Package attr generates the escape sequences that switch the terminal
// from one cell's colors and attributes to another's.
package attr

import (
	"strings"

	"github.com/gdamore/tcell/v2/terminfo"

	"github.com/dshills/vterm/internal/core"
	"github.com/dshills/vterm/internal/termcap"
)

// Attributes that need their own enter sequence. Standout and double
// underline fold into reverse and underline.
const wanted = core.AttrBold | core.AttrDim | core.AttrItalic | core.AttrUnderline |
	core.AttrBlink | core.AttrReverse | core.AttrInvisible | core.AttrCrossedOut

// Generator tracks the terminal's current attribute state and produces
// minimal transitions.
type Generator struct {
	caps *termcap.Caps
	ti   *terminfo.Terminfo

	known bool
	attr  core.Attr
	fg    core.Color
	bg    core.Color
	acs   bool
	pc    bool

	fitter *Fitter
}

// New creates a generator for the given capabilities.
// The initial terminal state is unknown, so the first change always resets.
func New(caps *termcap.Caps) *Generator {
	ti := caps.Terminfo()
	return &Generator{
		caps:   caps,
		ti:     ti,
		fg:     core.ColorDefault,
		bg:     core.ColorDefault,
		fitter: NewFitter(ti.Colors),
	}
}

// Invalidate forgets the terminal state.
func (g *Generator) Invalidate() {
	g.known = false
}

// Normal returns the sequence that resets to default colors and no attributes.
func (g *Generator) Normal() string {
	return g.Change(core.BlankCell())
}

// normalize maps a cell's attributes onto what the terminal can express.
func normalize(a core.Attr) core.Attr {
	if a.Has(core.AttrStandout) {
		a = a.With(core.AttrReverse)
	}
	if a.Has(core.AttrDoubleUnderline) {
		a = a.With(core.AttrUnderline)
	}
	return a & wanted
}

// Change returns the sequence that switches the terminal to next's colors,
// attributes and character set, and records next as the current state.
func (g *Generator) Change(next core.Cell) string {
	want := normalize(next.Attr)
	wantACS := next.Attr.Has(core.AttrAltCharset)
	wantPC := next.Attr.Has(core.AttrPCCharset)

	if g.known && want == g.attr && wantACS == g.acs && wantPC == g.pc &&
		next.Fg.Equals(g.fg) && next.Bg.Equals(g.bg) {
		return ""
	}

	var b strings.Builder

	turnedOff := g.attr &^ want
	resetColors := (!next.Fg.Equals(g.fg) && next.Fg.IsDefault()) ||
		(!next.Bg.Equals(g.bg) && next.Bg.IsDefault())

	switch {
	case !g.known || turnedOff != 0 || (resetColors && g.ti.ResetFgBg == ""):
		b.WriteString(g.ti.AttrOff)
		if g.acs && g.caps.ExitAcs != "" && !strings.Contains(g.ti.AttrOff, g.caps.ExitAcs) {
			b.WriteString(g.caps.ExitAcs)
		}
		g.attr, g.fg, g.bg, g.acs = core.AttrNone, core.ColorDefault, core.ColorDefault, false
	case resetColors:
		b.WriteString(g.ti.ResetFgBg)
		g.fg, g.bg = core.ColorDefault, core.ColorDefault
	}

	g.writeAttrs(&b, want&^g.attr)
	g.attr = want

	g.writeColors(&b, next.Fg, next.Bg)

	if wantACS != g.acs {
		if wantACS {
			b.WriteString(g.caps.EnterAcs)
		} else {
			b.WriteString(g.caps.ExitAcs)
		}
		g.acs = wantACS
	}
	if wantPC != g.pc {
		if wantPC {
			b.WriteString(g.caps.EnterPCCharset)
		} else {
			b.WriteString(g.caps.ExitPCCharset)
		}
		g.pc = wantPC
	}

	g.known = true
	return b.String()
}

func (g *Generator) writeAttrs(b *strings.Builder, on core.Attr) {
	if on == 0 {
		return
	}
	seqs := []struct {
		a core.Attr
		s string
	}{
		{core.AttrBold, g.ti.Bold},
		{core.AttrDim, g.ti.Dim},
		{core.AttrItalic, g.ti.Italic},
		{core.AttrUnderline, g.ti.Underline},
		{core.AttrBlink, g.ti.Blink},
		{core.AttrReverse, g.ti.Reverse},
		{core.AttrCrossedOut, g.ti.StrikeThrough},
	}
	for _, s := range seqs {
		if on.Has(s.a) {
			b.WriteString(s.s)
		}
	}
	if on.Has(core.AttrInvisible) && g.ti.XTermLike {
		b.WriteString("\x1b[8m")
	}
}

func (g *Generator) writeColors(b *strings.Builder, fg, bg core.Color) {
	if !fg.Equals(g.fg) && !fg.IsDefault() {
		b.WriteString(g.colorSeq(fg, true))
	}
	if !bg.Equals(g.bg) && !bg.IsDefault() {
		b.WriteString(g.colorSeq(bg, false))
	}
	g.fg, g.bg = fg, bg
}

func (g *Generator) colorSeq(c core.Color, foreground bool) string {
	if !c.Indexed && g.ti.TrueColor {
		tmpl := g.ti.SetBgRGB
		if foreground {
			tmpl = g.ti.SetFgRGB
		}
		if tmpl != "" {
			return g.ti.TParm(tmpl, int(c.R), int(c.G), int(c.B))
		}
	}

	idx := g.fitter.Index(c)
	if idx < 0 {
		return ""
	}
	if foreground {
		return g.ti.TColor(idx, -1)
	}
	return g.ti.TColor(-1, idx)
}
