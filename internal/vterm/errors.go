package vterm

import (
	"errors"
	"fmt"

	"github.com/dshills/vterm/internal/schedule"
	"github.com/dshills/vterm/internal/surface"
)

// Errors returned by Context operations.
var (
	// ErrAllocation indicates a surface's cell buffer could not be allocated.
	ErrAllocation = surface.ErrAllocation

	// ErrSurfaceUnusable indicates the surface has no usable buffer.
	ErrSurfaceUnusable = surface.ErrUnusable

	// ErrAreaExhausted indicates a write ran past the surface's last row.
	ErrAreaExhausted = surface.ErrAreaExhausted

	// ErrUnknownSurface indicates the surface is not owned by this context.
	ErrUnknownSurface = surface.ErrUnknown

	// ErrPassInProgress indicates a pass was requested from inside a pass.
	ErrPassInProgress = schedule.ErrPassInProgress

	// ErrTerminalResized indicates a pass was aborted by a size change.
	ErrTerminalResized = schedule.ErrTerminalResized

	// ErrNotInitialized indicates Init has not run or Finish already has.
	ErrNotInitialized = errors.New("vterm: context not initialized")

	// ErrAlreadyInitialized indicates Init was called twice.
	ErrAlreadyInitialized = errors.New("vterm: context already initialized")
)

// GeometryError is the panic value for invalid surface geometry.
type GeometryError = surface.GeometryError

// OperationError records the operation and surface an error came from.
type OperationError struct {
	Op      string
	Surface surface.ID
	Err     error
}

// Error implements the error interface.
func (e *OperationError) Error() string {
	return fmt.Sprintf("vterm: %s surface %d: %v", e.Op, e.Surface, e.Err)
}

// Unwrap returns the underlying error.
func (e *OperationError) Unwrap() error {
	return e.Err
}

func opError(op string, s *surface.Surface, err error) error {
	if err == nil {
		return nil
	}
	id := surface.NoSurface
	if s != nil {
		id = s.ID()
	}
	return &OperationError{Op: op, Surface: id, Err: err}
}
