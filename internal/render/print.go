package render

import (
	"github.com/dshills/vterm/internal/charset"
	"github.com/dshills/vterm/internal/core"
)

// printRange emits the cells xmin..xmax of row y, choosing per run between
// skipping, erasing, repeating and plain output. drawTrailing reports that
// a clear-to-end-of-line follows the range.
func (r *Renderer) printRange(xmin, xmax, y int, drawTrailing bool) {
	first := xmin != xmax
	for x := xmin; x <= xmax; x++ {
		c := r.screen.At(x, y)
		c.Attr = c.Attr.With(core.AttrPrinted)
		r.replaceNonPrintableFullwidth(x, c)

		if r.skipUnchanged(&x, xmax, y) {
			continue
		}
		minAndNotMax := first && x == xmin

		switch {
		case r.caps.EraseChars != "" && c.Ch == ' ' && c.Width == 1:
			if r.eraseCharacters(&x, xmax, y, drawTrailing, minAndNotMax) {
				return
			}
		case r.caps.RepeatChar != "" && c.Width == 1 && !c.IsPadding():
			r.repeatCharacter(&x, xmax, y, minAndNotMax)
		default:
			r.printCharacter(&x, y, minAndNotMax, c)
		}
	}
}

// replaceNonPrintableFullwidth swaps in a marker for a wide glyph cut by
// the left or right screen edge.
func (r *Renderer) replaceNonPrintableFullwidth(x int, c *core.Cell) {
	switch {
	case x == 0 && c.IsPadding():
		c.Ch = core.SingleLeftAngleQuotationMark
		c.Attr = c.Attr.Without(core.AttrFullwidthPadding)
		c.Width = 1
	case x == r.w-1 && c.IsFullWidth():
		c.Ch = core.SingleRightAngleQuotationMark
		c.Width = 1
	}
}

// skipUnchanged jumps over a run of cells the terminal already shows when
// moving is cheaper than reprinting them.
func (r *Renderer) skipUnchanged(x *int, xmax, y int) bool {
	if !r.screen.At(*x, y).Attr.Has(core.AttrNoChanges) {
		return false
	}
	count := 1
	for i := *x + 1; i <= xmax && r.screen.At(i, y).Attr.Has(core.AttrNoChanges); i++ {
		count++
	}
	if *x+count-1 == xmax || count > r.caps.CursorAddressLen {
		r.MoveTo(*x+count, y)
		*x += count - 1
		return true
	}
	return false
}

// run counts the cells from x to xmax equal to the cell at x.
func (r *Renderer) run(x, xmax, y int) int {
	row := r.screen.Row(y)
	n := 1
	for i := x + 1; i <= xmax && row[i].Equal(row[x]); i++ {
		n++
	}
	return n
}

// eraseCharacters emits a run of blanks, using ech when it is shorter.
// It reports true when the rest of the line needs no further output.
func (r *Renderer) eraseCharacters(x *int, xmax, y int, drawTrailing, minAndNotMax bool) bool {
	c := r.screen.At(*x, y)
	ws := r.run(*x, xmax, y)
	if ws == 1 {
		r.printCharacter(x, y, minAndNotMax, c)
		return false
	}

	start := *x
	if ws > r.caps.EraseCharsLen+r.caps.CursorAddressLen && r.erasable(*c) {
		r.setAttrs(*c)
		r.sync()
		r.out.WriteCap(r.caps.Param(r.caps.EraseChars, ws))
		if start+ws-1 >= xmax && !drawTrailing {
			r.markPrinted(start, start+ws-1, y)
			return true
		}
		r.MoveTo(start+ws, y)
	} else {
		for i := 0; i < ws; i++ {
			r.appendCharacter(r.screen.At(start+i, y))
		}
	}
	*x = start + ws - 1
	r.markPrinted(start, *x, y)
	return false
}

// repeatCharacter emits a run of one glyph, using rep when it is shorter.
func (r *Renderer) repeatCharacter(x *int, xmax, y int, minAndNotMax bool) {
	c := r.screen.At(*x, y)
	reps := r.run(*x, xmax, y)
	// The lower-right cell goes through appendCharacter.
	if y == r.h-1 && *x+reps-1 == r.w-1 {
		reps--
	}
	if reps <= 1 {
		r.printCharacter(x, y, minAndNotMax, c)
		return
	}

	start := *x
	if reps > r.caps.RepeatCharLen && c.Ch < 0x80 && c.Ch >= 0x20 {
		r.setAttrs(*c)
		r.sync()
		r.out.WriteCap(r.caps.Param(r.caps.RepeatChar, int(c.Ch), reps))
		r.cur.X += reps
		r.pos = r.cur
		for i := 0; i < reps; i++ {
			r.screen.At(start+i, y).Encoded = c.Ch
		}
	} else {
		for i := 0; i < reps; i++ {
			r.appendCharacter(r.screen.At(start+i, y))
		}
	}
	*x = start + reps - 1
	r.markPrinted(start, *x, y)
}

// printCharacter emits the cell at x, repairing wide glyphs that the
// dirty range splits.
func (r *Renderer) printCharacter(x *int, y int, minAndNotMax bool, c *core.Cell) {
	switch {
	case *x < r.w-1 && c.IsFullWidth():
		r.printFullWidth(x, y, c)
	case *x > 0 && c.IsPadding():
		r.printFullWidthPadding(x, y, c)
	case *x > 0 && minAndNotMax:
		r.printHalfCovered(x, y, c)
	default:
		r.appendCharacter(c)
		r.markPrinted(*x, *x, y)
	}
}

func (r *Renderer) printFullWidth(x *int, y int, c *core.Cell) {
	next := r.screen.At(*x+1, y)
	if next.IsPadding() && c.SameStyle(*next) {
		r.appendCharacter(c)
		r.markPrinted(*x, *x, y)
		r.skipPadding(x, y, c)
		return
	}
	r.appendEllipsis(c)
	r.markPrinted(*x, *x, y)
	if next.IsPadding() {
		*x++
		r.appendEllipsis(next)
		r.markPrinted(*x, *x, y)
	}
}

// printFullWidthPadding handles a dirty range that starts on the second
// half of a wide glyph: the glyph is reprinted from its first column.
func (r *Renderer) printFullWidthPadding(x *int, y int, c *core.Cell) {
	prev := r.screen.At(*x-1, y)
	if prev.IsFullWidth() && c.SameStyle(*prev) && r.canMoveLeft() {
		r.MoveTo(*x-1, y)
		*x--
		r.appendCharacter(prev)
		r.markPrinted(*x, *x, y)
		r.skipPadding(x, y, prev)
		return
	}
	r.appendEllipsis(c)
	r.markPrinted(*x, *x, y)
}

// printHalfCovered replaces a wide glyph whose second half is about to be
// overwritten with an ellipsis.
func (r *Renderer) printHalfCovered(x *int, y int, c *core.Cell) {
	prev := r.screen.At(*x-1, y)
	if prev.IsFullWidth() && !c.IsPadding() && r.canMoveLeft() {
		r.MoveTo(*x-1, y)
		r.appendEllipsis(prev)
		r.markPrinted(*x-1, *x-1, y)
	}
	r.appendCharacter(c)
	r.markPrinted(*x, *x, y)
}

// skipPadding steps over the padding cell after a wide glyph just printed.
func (r *Renderer) skipPadding(x *int, y int, c *core.Cell) {
	if !c.IsFullWidth() {
		return
	}
	*x++
	r.cur.X++
	r.pos = r.cur
	r.markPrinted(*x, *x, y)
}

func (r *Renderer) canMoveLeft() bool {
	return r.caps.CursorLeft != "" || r.caps.ParmLeftCursor != ""
}

// appendEllipsis prints '…' in c's colors.
func (r *Renderer) appendEllipsis(c *core.Cell) {
	e := *c
	e.Ch = core.HorizontalEllipsis
	e.Width = 1
	e.Attr = e.Attr.Without(core.AttrFullwidthPadding)
	r.appendCharacter(&e)
}

// appendCharacter prints c at the output position and advances the
// cursor model.
func (r *Renderer) appendCharacter(c *core.Cell) {
	r.sync()
	if r.cur.X == r.w-1 && r.cur.Y == r.h-1 {
		r.appendLowerRight(c)
	} else {
		r.appendChar(c)
	}
	r.cur.X++
	r.pos = r.cur
}

// appendChar writes one glyph in the terminal's encoding.
func (r *Renderer) appendChar(c *core.Cell) {
	res := r.enc.Encode(c.Ch)
	c.Encoded = res.Ch

	next := *c
	if res.AltCharset {
		next.Attr = next.Attr.With(core.AttrAltCharset)
	}
	if res.PCCharset {
		next.Attr = next.Attr.With(core.AttrPCCharset)
	}
	r.setAttrs(next)

	if r.enc.Encoding() == charset.UTF8 {
		r.out.WriteRune(res.Ch)
	} else {
		_ = r.out.WriteByte(byte(res.Ch))
	}
}

// appendLowerRight writes the bottom-right cell without scrolling the
// screen on terminals with automatic margins.
func (r *Renderer) appendLowerRight(c *core.Cell) {
	switch {
	case !r.caps.AutoRightMargin:
		r.appendChar(c)
	case r.caps.ExitAMMode != "" && r.caps.EnterAMMode != "":
		r.out.WriteCap(r.caps.ExitAMMode)
		r.appendChar(c)
		r.out.WriteCap(r.caps.EnterAMMode)
	case r.caps.InsertChar != "" && r.w > 1:
		// Print into the column before, then shift it right with an
		// inserted blank and print the column before again.
		x, y := r.w-2, r.h-1
		r.MoveTo(x, y)
		r.sync()
		r.appendChar(c)
		r.cur.X++
		r.MoveTo(x, y)
		r.sync()
		r.out.WriteCap(r.caps.InsertChar)
		r.appendChar(r.screen.At(x, y))
	default:
		r.appendChar(c)
	}
}
