package render

import "github.com/dshills/vterm/internal/core"

// canClearToEOL reports whether the row from xmin to the right edge is one
// blank run that clear-to-end-of-line can produce more cheaply.
func (r *Renderer) canClearToEOL(xmin, y int) bool {
	if r.caps.ClearEOL == "" {
		return false
	}
	row := r.screen.Row(y)
	mc := row[xmin]
	if mc.Ch != ' ' {
		return false
	}
	run := 1
	for x := xmin + 1; x < r.w && row[x].Equal(mc); x++ {
		run++
	}
	return run == r.w-xmin && r.erasable(mc) && r.caps.ClrEolLen < run
}

// canClearLeadingWS checks for a blank run at the start of the row that
// reaches past xmin. On success xmin moves to the run's last cell.
func (r *Renderer) canClearLeadingWS(xmin *int, y int) bool {
	if r.caps.ClearBOL == "" {
		return false
	}
	row := r.screen.Row(y)
	fc := row[0]
	if fc.Ch != ' ' {
		return false
	}
	run := 1
	for x := 1; x < r.w && row[x].Equal(fc); x++ {
		run++
	}
	if run > *xmin && r.erasable(fc) && r.caps.ClrBolLen < run {
		*xmin = run - 1
		return true
	}
	return false
}

// canClearTrailingWS checks for a blank run at the end of the row that
// covers xmax. On success xmax moves to the last cell before the run.
func (r *Renderer) canClearTrailingWS(xmax *int, y int) bool {
	if r.caps.ClearEOL == "" {
		return false
	}
	row := r.screen.Row(y)
	lc := row[r.w-1]
	if lc.Ch != ' ' {
		return false
	}
	run := 1
	for x := r.w - 2; x >= 0 && row[x].Equal(lc); x-- {
		run++
	}
	if run >= r.w-*xmax && r.erasable(lc) && r.caps.ClrEolLen < run {
		*xmax = r.w - run - 1
		return true
	}
	return false
}

// erasable reports whether an erase with c's attributes leaves cells that
// look like c.
func (r *Renderer) erasable(c core.Cell) bool {
	return r.caps.BackgroundColorErase || c.IsNormal()
}

// ClearScreen clears the terminal with the attributes of pen. It fails
// when fill is not a blank, when the terminal has no erase capability, or
// when pen has colors or attributes the terminal cannot erase with.
// On success every screen cell becomes pen and counts as printed.
func (r *Renderer) ClearScreen(pen core.Cell, fill rune) bool {
	c := r.caps
	if fill != ' ' || (c.Clear == "" && c.ClearEOS == "" && c.ClearEOL == "") || !r.erasable(pen) {
		return false
	}
	r.setAttrs(pen)

	switch {
	case c.Clear != "":
		r.out.WriteCap(c.Clear)
		r.cur = core.Pt(0, 0)
	case c.ClearEOS != "":
		r.MoveTo(0, 0)
		r.sync()
		r.out.WriteCap(c.ClearEOS)
	default:
		for y := 0; y < r.screen.Height(); y++ {
			r.MoveTo(0, y)
			r.sync()
			r.out.WriteCap(c.ClearEOL)
		}
		r.MoveTo(0, 0)
	}
	r.pos = r.cur

	nc := pen
	nc.Ch = ' '
	nc.Width = 1
	nc.Attr = nc.Attr.Without(core.TransparencyMask|core.AttrFullwidthPadding).With(core.AttrPrinted | core.AttrNoChanges)
	for y := 0; y < r.screen.Height(); y++ {
		row := r.screen.Row(y)
		for x := range row {
			row[x] = nc
		}
		r.screen.MarkClean(y)
	}
	return true
}

// ScrollForward scrolls the whole terminal up one line. It reports false
// when the terminal cannot.
func (r *Renderer) ScrollForward() bool {
	if r.caps.ScrollForward == "" {
		return false
	}
	r.MoveTo(0, r.screen.Height()-1)
	r.sync()
	r.out.WriteCap(r.caps.ScrollForward)
	return true
}

// ScrollReverse scrolls the whole terminal down one line.
func (r *Renderer) ScrollReverse() bool {
	if r.caps.ScrollReverse == "" {
		return false
	}
	r.MoveTo(0, 0)
	r.sync()
	r.out.WriteCap(r.caps.ScrollReverse)
	return true
}
