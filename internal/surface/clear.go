package surface

import "github.com/dshills/vterm/internal/core"

// Clear fills the interior with fill in the current pen and makes the shadow
// margin transparent. Every row becomes fully dirty.
func (s *Surface) Clear(fill rune) error {
	nc := s.pen
	nc.Ch = fill
	nc.Width = uint8(core.RuneWidth(fill))
	return s.ClearWith(nc)
}

// ClearWith is Clear with an explicit fill cell.
func (s *Surface) ClearWith(nc core.Cell) error {
	if !s.Usable() {
		return ErrUnusable
	}
	nc.Attr = nc.Attr.Without(core.AttrPrinted | core.AttrNoChanges)

	shadow := nc
	shadow.Attr = shadow.Attr.With(core.AttrTransparent)

	w := s.FullWidth()
	for y := 0; y < s.height; y++ {
		row := s.Row(y)
		for x := 0; x < s.width; x++ {
			row[x] = nc
		}
		for x := s.width; x < w; x++ {
			row[x] = shadow
		}
		l := &s.changes[y]
		l.XMin, l.XMax = 0, w-1
		switch {
		case nc.IsSeeThrough():
			l.TransCount = w
		default:
			l.TransCount = s.rightShadow
		}
	}
	for y := s.height; y < s.FullHeight(); y++ {
		row := s.Row(y)
		for x := range row {
			row[x] = shadow
		}
		s.changes[y] = LineChanges{XMin: 0, XMax: w - 1, TransCount: w}
	}
	s.changed = true
	return nil
}

// Shade turns the shadow margin into a drop shadow. Margin cells blend
// with whatever lies below instead of showing it unchanged. The margin's
// top-right and bottom-left corners stay transparent so the shadow looks
// offset from the surface.
func (s *Surface) Shade() error {
	if !s.Usable() {
		return ErrUnusable
	}
	shade := func(x, y int) {
		c := s.Cell(x, y)
		c.Attr = c.Attr.Without(core.TransparencyMask).With(core.AttrTransShadow)
		s.setCell(x, y, c)
	}
	for y := s.bottomShadow; y < s.FullHeight(); y++ {
		for x := s.width; x < s.FullWidth(); x++ {
			shade(x, y)
		}
	}
	for y := s.height; y < s.FullHeight(); y++ {
		for x := s.rightShadow; x < s.width; x++ {
			shade(x, y)
		}
	}
	s.changed = true
	return nil
}
