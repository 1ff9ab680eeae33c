package termcap

import "strings"

// Move returns the cheapest sequence that moves the cursor from (fx, fy)
// to (tx, ty). A negative from coordinate means the position is unknown,
// in which case only absolute addressing is used.
func (c *Caps) Move(fx, fy, tx, ty int) string {
	if fx == tx && fy == ty {
		return ""
	}
	best := c.Goto(tx, ty)
	if fx < 0 || fy < 0 {
		return best
	}

	consider := func(s string) {
		if best == "" || len(s) < len(best) {
			best = s
		}
	}

	v, vok := c.vertical(fy, ty)
	if !vok {
		return best
	}
	if h, ok := c.horizontal(fx, tx); ok {
		consider(v + h)
	}
	if fx != 0 && c.CarriageReturn != "" {
		if h, ok := c.horizontal(0, tx); ok {
			consider(c.CarriageReturn + v + h)
		}
	}
	return best
}

func (c *Caps) horizontal(from, to int) (string, bool) {
	if from == to {
		return "", true
	}
	best, ok := "", false
	pick := func(s string) {
		if s != "" && (!ok || len(s) < len(best)) {
			best, ok = s, true
		}
	}
	if to > from {
		pick(c.Param(c.ParmRightCursor, to-from))
	} else {
		n := from - to
		if c.CursorLeft != "" && n*len(c.CursorLeft) <= 8 {
			pick(strings.Repeat(c.CursorLeft, n))
		}
		pick(c.Param(c.ParmLeftCursor, n))
	}
	pick(c.Param(c.ColumnAddress, to))
	return best, ok
}

func (c *Caps) vertical(from, to int) (string, bool) {
	if from == to {
		return "", true
	}
	best, ok := "", false
	pick := func(s string) {
		if s != "" && (!ok || len(s) < len(best)) {
			best, ok = s, true
		}
	}
	if to > from {
		pick(c.Param(c.ParmDownCursor, to-from))
	} else {
		pick(c.Param(c.ParmUpCursor, from-to))
	}
	pick(c.Param(c.RowAddress, to))
	return best, ok
}
