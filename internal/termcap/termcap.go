// Package termcap resolves the capability table the renderer works from:
// templates and flags from tcell's terminfo database, supplemented with the
// ANSI sequences terminfo entries there do not carry, and the byte costs the
// differ compares.
package termcap

import (
	"io"
	"strings"

	"github.com/gdamore/tcell/v2/terminfo"
	_ "github.com/gdamore/tcell/v2/terminfo/extended" // registers the common terminals
)

// Infinite is the cost of a capability the terminal lacks.
const Infinite = 1 << 30

// Overrides adjust detected capabilities.
type Overrides struct {
	// BCE forces background-color-erase on or off when non-nil.
	BCE *bool
	// NewlineGlitch forces xenl on or off when non-nil.
	NewlineGlitch *bool
	// Disable lists capability names to switch off.
	Disable []string
}

// Caps is the resolved capability table of one terminal.
type Caps struct {
	Name string
	info *terminfo.Terminfo

	Clear           string // clear
	ClearEOS        string // ed
	ClearEOL        string // el
	ClearBOL        string // el1
	EraseChars      string // ech
	RepeatChar      string // rep
	ScrollForward   string // ind
	ScrollReverse   string // ri
	CursorLeft      string // cub1
	ParmRightCursor string // cuf
	ParmLeftCursor  string // cub
	ParmUpCursor    string // cuu
	ParmDownCursor  string // cud
	CursorAddress   string // cup
	ColumnAddress   string // hpa
	RowAddress      string // vpa
	CarriageReturn  string // cr
	EnterAMMode     string // smam
	ExitAMMode      string // rmam
	InsertChar      string // ich1
	EnterAcs        string // smacs
	ExitAcs         string // rmacs
	EnableAcs       string // enacs
	ShowCursor      string // cnorm
	HideCursor      string // civis
	EnterCA         string // smcup
	ExitCA          string // rmcup
	EnterPCCharset  string // smpch
	ExitPCCharset   string // rmpch

	// AutoRightMargin is the am flag.
	AutoRightMargin bool
	// EatNewlineGlitch is the xenl flag.
	EatNewlineGlitch bool
	// BackgroundColorErase is the bce flag.
	BackgroundColorErase bool

	// Precomputed byte costs.
	CursorAddressLen int
	EraseCharsLen    int
	RepeatCharLen    int
	ClrBolLen        int
	ClrEolLen        int
}

// Load looks up name in the terminfo registry and resolves its capabilities.
func Load(name string, ov Overrides) (*Caps, error) {
	ti, err := terminfo.LookupTerminfo(name)
	if err != nil {
		return nil, err
	}
	return FromTerminfo(ti, ov), nil
}

// FromTerminfo resolves capabilities from a terminfo entry.
func FromTerminfo(ti *terminfo.Terminfo, ov Overrides) *Caps {
	c := &Caps{
		Name:            ti.Name,
		info:            ti,
		Clear:           ti.Clear,
		CursorAddress:   ti.SetCursor,
		InsertChar:      ti.InsertChar,
		EnterAcs:        ti.EnterAcs,
		ExitAcs:         ti.ExitAcs,
		EnableAcs:       ti.EnableAcs,
		ShowCursor:      ti.ShowCursor,
		HideCursor:      ti.HideCursor,
		EnterCA:         ti.EnterCA,
		ExitCA:          ti.ExitCA,
		AutoRightMargin: ti.AutoMargin,
		CarriageReturn:  "\r",
	}
	// tcell names these after what the sequence does, not after the capability.
	if ti.AutoMargin {
		c.ExitAMMode = ti.DisableAutoMargin
		c.EnterAMMode = ti.EnableAutoMargin
	}

	if p := lookupProfile(ti); p != nil {
		p.apply(c, ti)
	}

	if ov.BCE != nil {
		c.BackgroundColorErase = *ov.BCE
	}
	if ov.NewlineGlitch != nil {
		c.EatNewlineGlitch = *ov.NewlineGlitch
	}
	for _, name := range ov.Disable {
		c.disable(name)
	}

	c.computeCosts()
	return c
}

// Terminfo returns the underlying terminfo entry.
func (c *Caps) Terminfo() *terminfo.Terminfo {
	return c.info
}

// Param substitutes integer parameters into a capability template.
func (c *Caps) Param(tmpl string, p ...int) string {
	if tmpl == "" {
		return ""
	}
	args := make([]any, len(p))
	for i, v := range p {
		args[i] = v
	}
	return c.info.TParm(tmpl, args...)
}

// Goto returns the absolute cursor address sequence for (x, y).
func (c *Caps) Goto(x, y int) string {
	if c.CursorAddress == "" {
		return ""
	}
	return c.info.TGoto(x, y)
}

// Puts writes s to w, honoring inline padding.
func (c *Caps) Puts(w io.Writer, s string) {
	if s == "" {
		return
	}
	c.info.TPuts(w, s)
}

func (c *Caps) computeCosts() {
	c.CursorAddressLen = cost(c.Goto(79, 23))
	c.EraseCharsLen = cost(c.Param(c.EraseChars, 23))
	c.RepeatCharLen = cost(c.Param(c.RepeatChar, ' ', 23))
	c.ClrBolLen = cost(c.ClearBOL)
	c.ClrEolLen = cost(c.ClearEOL)
}

func cost(s string) int {
	if s == "" {
		return Infinite
	}
	return len(s)
}

// disable blanks the named capability.
func (c *Caps) disable(name string) {
	if p := c.field(name); p != nil {
		*p = ""
	}
}

// Has reports whether the named capability is available.
func (c *Caps) Has(name string) bool {
	p := c.field(name)
	return p != nil && *p != ""
}

func (c *Caps) field(name string) *string {
	switch strings.ToLower(name) {
	case "clear":
		return &c.Clear
	case "ed":
		return &c.ClearEOS
	case "el":
		return &c.ClearEOL
	case "el1":
		return &c.ClearBOL
	case "ech":
		return &c.EraseChars
	case "rep":
		return &c.RepeatChar
	case "ind":
		return &c.ScrollForward
	case "ri":
		return &c.ScrollReverse
	case "cub1":
		return &c.CursorLeft
	case "cuf":
		return &c.ParmRightCursor
	case "cub":
		return &c.ParmLeftCursor
	case "cuu":
		return &c.ParmUpCursor
	case "cud":
		return &c.ParmDownCursor
	case "cup":
		return &c.CursorAddress
	case "hpa":
		return &c.ColumnAddress
	case "vpa":
		return &c.RowAddress
	case "smam":
		return &c.EnterAMMode
	case "rmam":
		return &c.ExitAMMode
	case "ich1":
		return &c.InsertChar
	case "smacs":
		return &c.EnterAcs
	case "rmacs":
		return &c.ExitAcs
	case "civis":
		return &c.HideCursor
	case "cnorm":
		return &c.ShowCursor
	}
	return nil
}
