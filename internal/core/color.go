// Package core provides the shared cell, color and geometry types used by
// every layer of the virtual terminal.
package core

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents a cell foreground or background color.
// Supports true color (RGB), palette indices and the terminal default.
type Color struct {
	R, G, B uint8
	// If Indexed is true, R contains the palette index (0-255).
	Indexed bool
	// Default indicates the terminal's default color.
	Default bool
}

// ColorDefault represents the terminal's default color.
var ColorDefault = Color{Default: true}

// The eight ANSI palette colors plus their bright variants.
var (
	ColorBlack        = ColorFromIndex(0)
	ColorRed          = ColorFromIndex(1)
	ColorGreen        = ColorFromIndex(2)
	ColorYellow       = ColorFromIndex(3)
	ColorBlue         = ColorFromIndex(4)
	ColorMagenta      = ColorFromIndex(5)
	ColorCyan         = ColorFromIndex(6)
	ColorLightGray    = ColorFromIndex(7)
	ColorDarkGray     = ColorFromIndex(8)
	ColorLightRed     = ColorFromIndex(9)
	ColorLightGreen   = ColorFromIndex(10)
	ColorLightYellow  = ColorFromIndex(11)
	ColorLightBlue    = ColorFromIndex(12)
	ColorLightMagenta = ColorFromIndex(13)
	ColorLightCyan    = ColorFromIndex(14)
	ColorWhite        = ColorFromIndex(15)
)

// ColorFromRGB creates a true color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromIndex creates an indexed palette color.
func ColorFromIndex(index uint8) Color {
	return Color{R: index, Indexed: true}
}

// ColorFromHex parses "#rrggbb" (or "rrggbb") into a true color.
func ColorFromHex(hex string) (Color, error) {
	if len(hex) > 0 && hex[0] != '#' {
		hex = "#" + hex
	}
	if len(hex) == 4 {
		hex = string([]byte{'#', hex[1], hex[1], hex[2], hex[2], hex[3], hex[3]})
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return ColorFromRGB(r, g, b), nil
}

// IsDefault returns true if this is the terminal default color.
func (c Color) IsDefault() bool {
	return c.Default
}

// Equals returns true if two colors are equal.
func (c Color) Equals(other Color) bool {
	if c.Default != other.Default {
		return false
	}
	if c.Default {
		return true
	}
	if c.Indexed != other.Indexed {
		return false
	}
	if c.Indexed {
		return c.R == other.R
	}
	return c.R == other.R && c.G == other.G && c.B == other.B
}

// String returns a string representation of the color.
func (c Color) String() string {
	switch {
	case c.Default:
		return "default"
	case c.Indexed:
		return fmt.Sprintf("idx(%d)", c.R)
	default:
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
}
