package core

import (
	"github.com/mattn/go-runewidth"
)

// Cell is one character position: glyph, colors and attribute flags.
type Cell struct {
	// Ch is the codepoint shown in this cell. Zero for a padding cell.
	Ch rune
	// Encoded is the charset-encoded form of Ch, filled in by the renderer.
	Encoded rune
	Fg      Color
	Bg      Color
	Attr    Attr
	// Width is the column width of Ch (0, 1 or 2).
	Width uint8
}

// Block glyphs that become a blank when a shadow falls on them.
const (
	UpperHalfBlock = '▀'
	LowerHalfBlock = '▄'
	FullBlock      = '█'
	LeftHalfBlock  = '▌'
	RightHalfBlock = '▐'
	MediumShade    = '▒'
)

// Markers used for truncated or orphaned full-width glyphs.
const (
	HorizontalEllipsis            = '…'
	SingleLeftAngleQuotationMark  = '‹'
	SingleRightAngleQuotationMark = '›'
)

// BlankCell returns a space with default colors and no attributes.
func BlankCell() Cell {
	return Cell{Ch: ' ', Fg: ColorDefault, Bg: ColorDefault, Width: 1}
}

// NewCell creates a cell for r with the given colors and attributes.
func NewCell(r rune, fg, bg Color, attr Attr) Cell {
	return Cell{Ch: r, Fg: fg, Bg: bg, Attr: attr, Width: uint8(RuneWidth(r))}
}

// Equal reports whether two cells look the same on screen.
// Bookkeeping flags, the encoded glyph and the width are ignored.
func (c Cell) Equal(o Cell) bool {
	return c.Ch == o.Ch &&
		c.Fg.Equals(o.Fg) &&
		c.Bg.Equals(o.Bg) &&
		c.Attr&compareMask == o.Attr&compareMask
}

// SameStyle reports whether two cells share colors and visual attributes.
func (c Cell) SameStyle(o Cell) bool {
	return c.Fg.Equals(o.Fg) && c.Bg.Equals(o.Bg) &&
		c.Attr&compareMask == o.Attr&compareMask
}

// IsNormal reports whether the cell has default colors and no visual attributes.
func (c Cell) IsNormal() bool {
	return c.Fg.IsDefault() && c.Bg.IsDefault() && c.Attr.Style() == AttrNone
}

// IsFullWidth reports whether the cell holds the first half of a wide glyph.
func (c Cell) IsFullWidth() bool {
	return c.Width == 2
}

// IsPadding reports whether the cell is the placeholder after a wide glyph.
func (c Cell) IsPadding() bool {
	return c.Attr.Has(AttrFullwidthPadding)
}

// IsSeeThrough reports whether any transparency flag is set.
func (c Cell) IsSeeThrough() bool {
	return c.Attr&TransparencyMask != 0
}

// Shade puts a shadow over c using the colors of cover.
// Reverse and standout are dropped; block glyphs collapse to a blank.
func (c Cell) Shade(cover Cell) Cell {
	c.Fg = cover.Fg
	c.Bg = cover.Bg
	c.Attr = c.Attr.Without(AttrReverse | AttrStandout)
	if IsShadeInvisible(c.Ch) {
		c.Ch = ' '
		c.Width = 1
	}
	return c
}

// IsShadeInvisible reports whether r cannot be seen through a shadow.
func IsShadeInvisible(r rune) bool {
	switch r {
	case UpperHalfBlock, LowerHalfBlock, FullBlock,
		LeftHalfBlock, RightHalfBlock, MediumShade:
		return true
	}
	return false
}

// RuneWidth returns the display width of a rune (0, 1 or 2).
func RuneWidth(r rune) int {
	if r == 0 {
		return 0
	}
	w := runewidth.RuneWidth(r)
	if w > 2 {
		return 2
	}
	return w
}
