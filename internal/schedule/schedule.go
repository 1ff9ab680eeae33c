// Package schedule paces render passes against pending input.
//
// A pass is deferred while keyboard input is waiting, so a burst of
// keystrokes is drawn once instead of after every key. Deferral is bounded:
// after MaxSkip consecutive deferrals the next pass runs regardless.
package schedule

import (
	"errors"

	"github.com/dshills/vterm/internal/logging"
)

// DefaultMaxSkip is the default number of consecutive deferrals.
const DefaultMaxSkip = 8

var (
	// ErrPassInProgress is returned when a pass is requested from inside
	// a running pass, for example from a pre-render hook.
	ErrPassInProgress = errors.New("render pass in progress")

	// ErrTerminalResized aborts a pass whose screen no longer matches the
	// terminal size.
	ErrTerminalResized = errors.New("terminal size changed")
)

// Options configures a Scheduler.
type Options struct {
	// MaxSkip bounds consecutive deferrals. Zero never defers.
	MaxSkip int
	// InputPending reports whether input is waiting. Nil means never.
	InputPending func() bool
	// OnResize is called when a pass is aborted by a size change.
	OnResize func()
	Logger   *logging.Logger
}

// Scheduler decides when a render pass runs.
type Scheduler struct {
	maxSkip      int
	inputPending func() bool
	onResize     func()
	log          *logging.Logger

	suspended bool
	pending   bool
	printing  bool
	forced    bool
	inPass    bool
	resized   bool
	skipped   int
}

// New creates a scheduler.
func New(opts Options) *Scheduler {
	if opts.MaxSkip < 0 {
		opts.MaxSkip = 0
	}
	if opts.InputPending == nil {
		opts.InputPending = func() bool { return false }
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNull()
	}
	return &Scheduler{
		maxSkip:      opts.MaxSkip,
		inputPending: opts.InputPending,
		onResize:     opts.OnResize,
		log:          opts.Logger.WithComponent("schedule"),
	}
}

// SetMaxSkip changes the deferral bound.
func (s *Scheduler) SetMaxSkip(n int) {
	s.maxSkip = max(n, 0)
}

// Pause stops all passes until Resume.
func (s *Scheduler) Pause() { s.suspended = true }

// Resume allows passes again and marks one pending.
func (s *Scheduler) Resume() {
	s.suspended = false
	s.pending = true
}

// Suspended reports whether passes are paused.
func (s *Scheduler) Suspended() bool { return s.suspended }

// StartUpdate opens a print phase. Passes wait until FinishUpdate unless
// forced.
func (s *Scheduler) StartUpdate() { s.printing = true }

// FinishUpdate closes the print phase and marks a pass pending.
func (s *Scheduler) FinishUpdate() {
	s.printing = false
	s.pending = true
}

// Printing reports whether a print phase is open.
func (s *Scheduler) Printing() bool { return s.printing }

// Request marks a pass pending.
func (s *Scheduler) Request() { s.pending = true }

// Force makes the next pass run even with input waiting.
func (s *Scheduler) Force() {
	s.forced = true
	s.pending = true
}

// Pending reports whether a pass has been requested and not yet run.
func (s *Scheduler) Pending() bool { return s.pending }

// Skipped returns the current number of consecutive deferrals.
func (s *Scheduler) Skipped() int { return s.skipped }

// Resized reports whether the last pass was aborted by a size change.
func (s *Scheduler) Resized() bool { return s.resized }

// ClearResize acknowledges a size change.
func (s *Scheduler) ClearResize() { s.resized = false }

// InPass reports whether a pass is running.
func (s *Scheduler) InPass() bool { return s.inPass }

// ready decides whether a pass may run now, counting deferrals.
// A deferred pass stays pending.
func (s *Scheduler) ready() bool {
	if s.suspended {
		s.pending = true
		return false
	}
	if s.forced {
		return true
	}
	if s.printing {
		s.pending = true
		return false
	}
	if s.inputPending() {
		if s.skipped < s.maxSkip {
			s.skipped++
			s.pending = true
			s.log.Debug("pass deferred", "skipped", s.skipped)
			return false
		}
		s.log.Debug("pass forced after deferrals", "skipped", s.skipped)
	}
	s.skipped = 0
	return true
}

// Update runs pass if the scheduler allows it now. It reports whether the
// pass ran to completion. A pass returning ErrTerminalResized leaves the
// pass pending and raises the resize signal.
func (s *Scheduler) Update(pass func() error) (bool, error) {
	if s.inPass {
		return false, ErrPassInProgress
	}
	if !s.ready() {
		return false, nil
	}

	s.inPass = true
	err := pass()
	s.inPass = false

	if errors.Is(err, ErrTerminalResized) {
		s.resized = true
		s.pending = true
		s.log.Warn("pass aborted by resize")
		if s.onResize != nil {
			s.onResize()
		}
		return false, err
	}
	s.pending = false
	s.forced = false
	return err == nil, err
}

// ProcessPending runs pass when one has been requested.
func (s *Scheduler) ProcessPending(pass func() error) (bool, error) {
	if !s.pending {
		return false, nil
	}
	return s.Update(pass)
}
