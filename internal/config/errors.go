package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrInvalidValue indicates a setting failed validation.
	ErrInvalidValue = errors.New("config: invalid value")

	// ErrWatcherClosed indicates the watcher was already closed.
	ErrWatcherClosed = errors.New("config: watcher closed")
)

// ParseError reports a configuration source that is not valid TOML or
// names an unknown setting. Line and Column are zero when the decoder gave
// no position.
type ParseError struct {
	Source       string
	Line, Column int
	Err          error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("config: %s:%d:%d: %v", e.Source, e.Line, e.Column, e.Err)
	case e.Line > 0:
		return fmt.Sprintf("config: %s:%d: %v", e.Source, e.Line, e.Err)
	}
	return fmt.Sprintf("config: %s: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError describes a validation failure for a setting.
type ValidationError struct {
	// Path is the setting path that failed validation.
	Path string
	// Message describes the problem.
	Message string
	// Value is the rejected value.
	Value any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s %s (got %v)", e.Path, e.Message, e.Value)
}

// Is reports ErrInvalidValue as a match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidValue
}
