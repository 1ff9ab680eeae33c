package surface

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/vterm/internal/core"
)

// Put writes one cell at the write cursor and advances it. The cell replaces
// the buffer content only if it differs. A full-width cell is followed by a
// padding cell. ErrAreaExhausted is returned once the cursor would leave the
// bottom margin; the cursor then stays on the last row.
func (s *Surface) Put(c core.Cell) error {
	if !s.Usable() {
		return ErrUnusable
	}
	if c.Width == 0 && !c.IsPadding() {
		return nil
	}

	fullW, fullH := s.FullWidth(), s.FullHeight()
	x, y := s.cursor.X, s.cursor.Y
	if x >= 0 && y >= 0 && x < fullW && y < fullH {
		s.setCell(x, y, c)
	}

	s.cursor.X++
	s.changed = true

	if s.cursor.X >= fullW {
		s.cursor.X = 0
		s.cursor.Y++
	} else if c.Width == 2 {
		if err := s.Put(s.padding(c)); err != nil {
			return err
		}
	}

	if s.cursor.Y >= fullH {
		s.cursor.Y--
		return ErrAreaExhausted
	}
	return nil
}

// padding returns the placeholder for the column after the wide cell c.
func (s *Surface) padding(c core.Cell) core.Cell {
	pc := c
	pc.Encoded = 0
	if s.utf8 {
		pc.Ch = 0
		pc.Width = 0
		pc.Attr = pc.Attr.With(core.AttrFullwidthPadding)
	} else {
		pc.Ch = '.'
		pc.Width = 1
	}
	return pc
}

// Write writes cells at the write cursor. Control characters in Ch move the
// cursor instead of being stored. It returns the number of cells consumed.
func (s *Surface) Write(cells []core.Cell) (int, error) {
	if !s.Usable() {
		return 0, ErrUnusable
	}
	for i, c := range cells {
		if isControl(c.Ch) {
			if s.control(c.Ch) {
				return i, ErrAreaExhausted
			}
			continue
		}
		if c.Width == 0 && !c.IsPadding() {
			c.Width = uint8(core.RuneWidth(c.Ch))
		}
		if err := s.Put(c); err != nil {
			return i + 1, err
		}
	}
	return len(cells), nil
}

// WriteString writes text with the current pen. Text is split into grapheme
// clusters; each cluster occupies one cell holding its first codepoint.
// It returns the number of clusters consumed.
func (s *Surface) WriteString(text string) (int, error) {
	if !s.Usable() {
		return 0, ErrUnusable
	}
	n := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		r := runes[0]
		if isControl(r) {
			n++
			// "\r\n" arrives as one cluster.
			for _, cr := range runes {
				if s.control(cr) {
					return n, ErrAreaExhausted
				}
			}
			continue
		}

		w := g.Width()
		if len(runes) == 1 {
			w = core.RuneWidth(r)
		}
		if w > 2 {
			w = 2
		}

		c := s.pen
		c.Ch = r
		c.Width = uint8(w)
		n++
		if err := s.Put(c); err != nil {
			return n, err
		}
	}
	return n, nil
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

// control applies a cursor-control character. It reports whether the
// cursor ran past the bottom margin.
func (s *Surface) control(r rune) bool {
	switch r {
	case '\n':
		s.cursor.Y++
		s.cursor.X = 0
	case '\r':
		s.cursor.X = 0
	case '\t':
		s.cursor.X = (s.cursor.X/s.tabStop + 1) * s.tabStop
	case '\b':
		if s.cursor.X > 0 {
			s.cursor.X--
		}
	case '\a':
		if s.bell != nil {
			s.bell()
		}
	default:
		return false
	}
	return s.wrap()
}

// wrap moves the cursor to the next row when it is past the right margin
// and keeps it on the last row. It reports whether the area is exhausted.
func (s *Surface) wrap() bool {
	if s.cursor.X >= s.FullWidth() {
		s.cursor.X = 0
		s.cursor.Y++
	}
	if s.cursor.Y >= s.FullHeight() {
		s.cursor.Y--
		return true
	}
	return false
}
