package surface

import (
	"errors"
	"fmt"

	"github.com/dshills/vterm/internal/core"
)

var (
	// ErrAllocation is returned when a cell buffer cannot be allocated.
	ErrAllocation = errors.New("surface: cell buffer allocation failed")

	// ErrUnusable is returned by operations on a surface whose first
	// allocation failed.
	ErrUnusable = errors.New("surface: surface is unusable")

	// ErrAreaExhausted is returned when a write runs past the bottom margin.
	ErrAreaExhausted = errors.New("surface: area exhausted")

	// ErrUnknown is returned for an ID that is not in the arena.
	ErrUnknown = errors.New("surface: unknown surface")
)

// GeometryError describes an invalid surface geometry. It is raised with
// panic, since it always indicates a programming error in the caller.
type GeometryError struct {
	Rect   core.Rect
	Shadow core.Size
}

// Error implements the error interface.
func (e *GeometryError) Error() string {
	return fmt.Sprintf("surface: invalid geometry %dx%d at (%d,%d) with shadow %dx%d",
		e.Rect.Width, e.Rect.Height, e.Rect.X, e.Rect.Y,
		e.Shadow.Width, e.Shadow.Height)
}

func checkGeometry(rect core.Rect, shadow core.Size) {
	if rect.Width <= 0 || rect.Height <= 0 || shadow.Width < 0 || shadow.Height < 0 {
		panic(&GeometryError{Rect: rect, Shadow: shadow})
	}
}
