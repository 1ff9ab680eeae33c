package schedule

import (
	"errors"
	"testing"
)

func counting(n *int) func() error {
	return func() error {
		*n++
		return nil
	}
}

func TestDeferWhileInputPending(t *testing.T) {
	s := New(Options{MaxSkip: DefaultMaxSkip, InputPending: func() bool { return true }})
	runs := 0
	for i := 1; i <= DefaultMaxSkip; i++ {
		ran, err := s.Update(counting(&runs))
		if err != nil || ran {
			t.Fatalf("call %d: ran=%v err=%v, want deferred", i, ran, err)
		}
		if s.Skipped() != i {
			t.Fatalf("call %d: skipped = %d", i, s.Skipped())
		}
		if !s.Pending() {
			t.Fatalf("call %d: deferred pass not left pending", i)
		}
	}
	ran, err := s.Update(counting(&runs))
	if err != nil || !ran || runs != 1 {
		t.Fatalf("9th call: ran=%v err=%v runs=%d, want forced pass", ran, err, runs)
	}
	if s.Skipped() != 0 {
		t.Errorf("skipped after forced pass = %d", s.Skipped())
	}
	if s.Pending() {
		t.Error("pending after the pass ran")
	}
}

func TestDeferredPassRunsFromProcessPending(t *testing.T) {
	input := true
	s := New(Options{MaxSkip: DefaultMaxSkip, InputPending: func() bool { return input }})
	runs := 0
	if ran, _ := s.Update(counting(&runs)); ran {
		t.Fatal("pass ran with input pending")
	}
	input = false
	if ran, err := s.ProcessPending(counting(&runs)); !ran || err != nil || runs != 1 {
		t.Errorf("ProcessPending ran=%v err=%v runs=%d", ran, err, runs)
	}
}

func TestNoInputRunsImmediately(t *testing.T) {
	s := New(Options{MaxSkip: 8})
	runs := 0
	if ran, _ := s.Update(counting(&runs)); !ran || runs != 1 {
		t.Errorf("ran=%v runs=%d", ran, runs)
	}
}

func TestStates(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(s *Scheduler)
		pending bool
		wantRun bool
	}{
		{name: "suspended", setup: func(s *Scheduler) { s.Pause() }, pending: true, wantRun: false},
		{name: "resumed", setup: func(s *Scheduler) { s.Pause(); s.Resume() }, wantRun: true},
		{name: "print phase open", setup: func(s *Scheduler) { s.StartUpdate() }, pending: true, wantRun: false},
		{name: "print phase closed", setup: func(s *Scheduler) { s.StartUpdate(); s.FinishUpdate() }, wantRun: true},
		{name: "forced during print phase", setup: func(s *Scheduler) { s.StartUpdate(); s.Force() }, wantRun: true},
		{name: "forced while suspended", setup: func(s *Scheduler) { s.Pause(); s.Force() }, pending: true, wantRun: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Options{MaxSkip: 8})
			tt.setup(s)
			runs := 0
			ran, err := s.Update(counting(&runs))
			if err != nil {
				t.Fatal(err)
			}
			if ran != tt.wantRun {
				t.Errorf("ran = %v, want %v", ran, tt.wantRun)
			}
			if s.Pending() != tt.pending {
				t.Errorf("pending = %v, want %v", s.Pending(), tt.pending)
			}
		})
	}
}

func TestForceIgnoresInput(t *testing.T) {
	s := New(Options{MaxSkip: 8, InputPending: func() bool { return true }})
	s.Force()
	if ran, _ := s.Update(func() error { return nil }); !ran {
		t.Error("forced pass deferred")
	}
	if ran, _ := s.Update(func() error { return nil }); ran {
		t.Error("force should last one pass")
	}
}

func TestReentryLatch(t *testing.T) {
	s := New(Options{})
	var inner error
	ran, err := s.Update(func() error {
		_, inner = s.Update(func() error { return nil })
		return nil
	})
	if !ran || err != nil {
		t.Fatalf("outer pass ran=%v err=%v", ran, err)
	}
	if !errors.Is(inner, ErrPassInProgress) {
		t.Errorf("inner = %v, want ErrPassInProgress", inner)
	}
	if s.InPass() {
		t.Error("latch still set after pass")
	}
}

func TestResizeAbortsPass(t *testing.T) {
	signalled := 0
	s := New(Options{OnResize: func() { signalled++ }})
	s.Request()
	ran, err := s.Update(func() error { return ErrTerminalResized })
	if ran || !errors.Is(err, ErrTerminalResized) {
		t.Fatalf("ran=%v err=%v", ran, err)
	}
	if !s.Resized() || !s.Pending() || signalled != 1 {
		t.Errorf("resized=%v pending=%v signalled=%d", s.Resized(), s.Pending(), signalled)
	}
	s.ClearResize()
	if s.Resized() {
		t.Error("ClearResize did not clear")
	}
}

func TestProcessPending(t *testing.T) {
	s := New(Options{})
	runs := 0
	if ran, _ := s.ProcessPending(counting(&runs)); ran {
		t.Error("ran without a request")
	}
	s.Request()
	if ran, _ := s.ProcessPending(counting(&runs)); !ran || s.Pending() {
		t.Errorf("ran=%v pending=%v", ran, s.Pending())
	}
}

func TestPassErrorPropagates(t *testing.T) {
	s := New(Options{})
	boom := errors.New("write failed")
	ran, err := s.Update(func() error { return boom })
	if ran || !errors.Is(err, boom) {
		t.Errorf("ran=%v err=%v", ran, err)
	}
}
