package attr

import (
	"sync"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/vterm/internal/core"
)

// xterm256 holds the standard xterm palette.
var xterm256 = buildPalette()

func buildPalette() [256]colorful.Color {
	var p [256]colorful.Color
	base := [16][3]uint8{
		{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
		{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
		{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
		{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
	}
	for i, rgb := range base {
		p[i] = rgb255(rgb[0], rgb[1], rgb[2])
	}
	steps := [6]uint8{0, 95, 135, 175, 215, 255}
	for i := 0; i < 216; i++ {
		p[16+i] = rgb255(steps[i/36], steps[(i/6)%6], steps[i%6])
	}
	for i := 0; i < 24; i++ {
		v := uint8(8 + 10*i)
		p[232+i] = rgb255(v, v, v)
	}
	return p
}

func rgb255(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// Fitter maps colors onto the palette a terminal can show.
type Fitter struct {
	mu     sync.Mutex
	colors int
	cache  map[core.Color]int
}

// NewFitter creates a fitter for a terminal with the given number of colors.
func NewFitter(colors int) *Fitter {
	return &Fitter{colors: min(colors, 256), cache: make(map[core.Color]int)}
}

// Index returns the palette index for c, or -1 if the terminal has no colors.
func (f *Fitter) Index(c core.Color) int {
	if f.colors <= 0 || c.IsDefault() {
		return -1
	}
	if c.Indexed && int(c.R) < f.colors {
		return int(c.R)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if idx, ok := f.cache[c]; ok {
		return idx
	}

	target := rgb255(c.R, c.G, c.B)
	if c.Indexed {
		target = xterm256[c.R]
	}
	best, bestDist := 0, -1.0
	for i := 0; i < f.colors; i++ {
		d := target.DistanceLab(xterm256[i])
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	f.cache[c] = best
	return best
}
