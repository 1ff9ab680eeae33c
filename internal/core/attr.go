package core

import "strings"

// Attr is the attribute bitmask of a cell.
type Attr uint32

// Visual attributes.
const (
	AttrBold Attr = 1 << iota
	AttrDim
	AttrItalic
	AttrUnderline
	AttrDoubleUnderline
	AttrBlink
	AttrReverse
	AttrStandout
	AttrInvisible
	AttrProtected
	AttrCrossedOut
	AttrAltCharset
	AttrPCCharset

	// Compositing flags.
	AttrTransparent
	AttrTransShadow
	AttrInheritBackground

	// Bookkeeping flags. These never take part in cell comparison.
	AttrFullwidthPadding
	AttrPrinted
	AttrNoChanges
)

// AttrNone is the empty attribute set.
const AttrNone Attr = 0

const (
	// styleMask covers every flag that changes how a glyph looks.
	styleMask = AttrBold | AttrDim | AttrItalic | AttrUnderline |
		AttrDoubleUnderline | AttrBlink | AttrReverse | AttrStandout |
		AttrInvisible | AttrProtected | AttrCrossedOut | AttrAltCharset |
		AttrPCCharset

	// TransparencyMask is any of the three see-through flags.
	TransparencyMask = AttrTransparent | AttrTransShadow | AttrInheritBackground

	// compareMask is the set of flags that take part in Cell.Equal.
	compareMask = styleMask | TransparencyMask
)

// Has returns true if the set contains attr.
func (a Attr) Has(attr Attr) bool {
	return a&attr != 0
}

// With returns a new set with attr added.
func (a Attr) With(attr Attr) Attr {
	return a | attr
}

// Without returns a new set with attr removed.
func (a Attr) Without(attr Attr) Attr {
	return a &^ attr
}

// Style returns only the visual attribute bits.
func (a Attr) Style() Attr {
	return a & styleMask
}

var attrNames = []struct {
	attr Attr
	name string
}{
	{AttrBold, "bold"},
	{AttrDim, "dim"},
	{AttrItalic, "italic"},
	{AttrUnderline, "underline"},
	{AttrDoubleUnderline, "dbl-underline"},
	{AttrBlink, "blink"},
	{AttrReverse, "reverse"},
	{AttrStandout, "standout"},
	{AttrInvisible, "invisible"},
	{AttrProtected, "protected"},
	{AttrCrossedOut, "crossed-out"},
	{AttrAltCharset, "alt-charset"},
	{AttrPCCharset, "pc-charset"},
	{AttrTransparent, "transparent"},
	{AttrTransShadow, "trans-shadow"},
	{AttrInheritBackground, "inherit-bg"},
	{AttrFullwidthPadding, "fullwidth-padding"},
	{AttrPrinted, "printed"},
	{AttrNoChanges, "no-changes"},
}

// String lists the set flags separated by '|'.
func (a Attr) String() string {
	if a == AttrNone {
		return "none"
	}
	var parts []string
	for _, n := range attrNames {
		if a&n.attr != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}
