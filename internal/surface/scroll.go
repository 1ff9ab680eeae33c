package surface

import "github.com/dshills/vterm/internal/core"

// ScrollForward moves the interior up by one row. The new bottom row is
// blank in the style of the old bottom row's last cell. It reports whether
// anything moved.
func (s *Surface) ScrollForward() bool {
	if !s.Usable() || s.height <= 1 {
		return false
	}
	last := s.height - 1
	for y := 0; y < last; y++ {
		copy(s.Row(y)[:s.width], s.Row(y+1)[:s.width])
		s.touchRow(y)
	}
	s.blankRow(last, s.Cell(s.width-1, last))
	s.changed = true
	return true
}

// ScrollReverse moves the interior down by one row. The new top row is blank
// in the style of the old top row's first cell.
func (s *Surface) ScrollReverse() bool {
	if !s.Usable() || s.height <= 1 {
		return false
	}
	edge := s.Cell(0, 0)
	for y := s.height - 1; y > 0; y-- {
		copy(s.Row(y)[:s.width], s.Row(y-1)[:s.width])
		s.touchRow(y)
	}
	s.blankRow(0, edge)
	s.changed = true
	return true
}

func (s *Surface) blankRow(y int, edge core.Cell) {
	nc := edge
	nc.Ch = ' '
	nc.Width = 1
	nc.Attr = nc.Attr.Without(core.AttrFullwidthPadding | core.AttrPrinted | core.AttrNoChanges)
	row := s.Row(y)
	for x := 0; x < s.width; x++ {
		row[x] = nc
	}
	s.touchRow(y)
}

// touchRow marks the interior of row y dirty and recounts its see-through
// cells.
func (s *Surface) touchRow(y int) {
	s.MarkDirty(y, 0, s.width-1)
	s.changes[y].TransCount = s.CountTransparent(y)
}
