package termcap

import (
	"strings"

	"github.com/gdamore/tcell/v2/terminfo"
)

// ANSI sequences shared by every profile below.
const (
	ansiClearEOS   = "\x1b[J"
	ansiClearEOL   = "\x1b[K"
	ansiClearBOL   = "\x1b[1K"
	ansiEraseChars = "\x1b[%p1%dX"
	ansiIndex      = "\n"
	ansiRevIndex   = "\x1bM"
	ansiBackspace  = "\b"
	ansiRight      = "\x1b[%p1%dC"
	ansiLeft       = "\x1b[%p1%dD"
	ansiUp         = "\x1b[%p1%dA"
	ansiDown       = "\x1b[%p1%dB"
	ansiColumn     = "\x1b[%i%p1%dG"
	ansiRow        = "\x1b[%i%p1%dd"
	// rep prints the character once and repeats it n-1 times.
	ansiRepeat = "%p1%c\x1b[%p2%{1}%-%db"
)

// profile holds what a terminal family supports beyond its terminfo entry.
type profile struct {
	prefixes []string
	ech      bool
	rep      bool
	hpa      bool
	el1      bool
	bce      bool
	xenl     bool
	pc       bool
}

var profiles = []profile{
	{prefixes: []string{"xterm", "alacritty", "foot", "wezterm", "contour"}, ech: true, rep: true, hpa: true, el1: true, bce: true, xenl: true},
	{prefixes: []string{"kitty", "ghostty", "konsole", "gnome", "vte", "iterm"}, ech: true, hpa: true, el1: true, bce: true, xenl: true},
	{prefixes: []string{"screen", "tmux"}, ech: true, hpa: true, el1: true, xenl: true},
	{prefixes: []string{"rxvt", "urxvt", "eterm"}, ech: true, hpa: true, el1: true, bce: true, xenl: true},
	{prefixes: []string{"linux"}, ech: true, hpa: true, el1: true, bce: true, xenl: true, pc: true},
	{prefixes: []string{"putty"}, ech: true, hpa: true, el1: true, bce: true, xenl: true, pc: true},
	{prefixes: []string{"vt220", "vt320", "vt420", "vt520"}, ech: true, el1: true, xenl: true},
	{prefixes: []string{"vt100", "vt102", "ansi"}, el1: true, xenl: true},
}

func lookupProfile(ti *terminfo.Terminfo) *profile {
	names := append([]string{ti.Name}, ti.Aliases...)
	for i := range profiles {
		for _, name := range names {
			for _, prefix := range profiles[i].prefixes {
				if strings.HasPrefix(name, prefix) {
					return &profiles[i]
				}
			}
		}
	}
	if ti.XTermLike {
		return &profiles[0]
	}
	return nil
}

func (p *profile) apply(c *Caps, ti *terminfo.Terminfo) {
	c.ClearEOS = ansiClearEOS
	c.ClearEOL = ansiClearEOL
	c.ScrollForward = ansiIndex
	c.ScrollReverse = ansiRevIndex
	c.CursorLeft = ansiBackspace
	c.ParmRightCursor = ansiRight
	c.ParmLeftCursor = ansiLeft
	c.ParmUpCursor = ansiUp
	c.ParmDownCursor = ansiDown
	if p.el1 {
		c.ClearBOL = ansiClearBOL
	}
	if p.ech {
		c.EraseChars = ansiEraseChars
	}
	if p.rep || ti.XTermLike {
		c.RepeatChar = ansiRepeat
	}
	if p.hpa {
		c.ColumnAddress = ansiColumn
		c.RowAddress = ansiRow
	}
	if p.pc {
		c.EnterPCCharset = "\x1b[11m"
		c.ExitPCCharset = "\x1b[10m"
	}
	c.BackgroundColorErase = p.bce
	c.EatNewlineGlitch = p.xenl
}
