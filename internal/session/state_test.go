package session

import "testing"

func TestStateNavigation(t *testing.T) {
	s := NewState([]int64{10, 20, 30})

	if s.Index() != 0 {
		t.Fatalf("initial index = %d, want 0", s.Index())
	}

	s.Advance(Forward)
	if s.Index() != 1 {
		t.Errorf("index after forward = %d, want 1", s.Index())
	}

	s.Advance(Backward)
	s.Advance(Backward) // out of bounds: no-op
	if s.Index() != 0 {
		t.Errorf("index after backward past start = %d, want 0", s.Index())
	}

	s.JumpTo(2)
	s.Advance(Forward) // out of bounds: no-op
	if s.Index() != 2 {
		t.Errorf("index after forward past end = %d, want 2", s.Index())
	}

	s.JumpTo(99) // ignored
	s.JumpTo(-1) // ignored
	if s.Index() != 2 {
		t.Errorf("index after invalid jumps = %d, want 2", s.Index())
	}
}

func TestStateSelectAnswer(t *testing.T) {
	s := NewState([]int64{10, 20})

	s.SelectAnswer(10, "A")
	s.SelectAnswer(10, "C") // overwrite
	s.SelectAnswer(20, "")  // empty key ignored

	snap := s.Snapshot()
	if snap[10] != "C" {
		t.Errorf("answer for 10 = %q, want %q", snap[10], "C")
	}
	if _, ok := snap[20]; ok {
		t.Errorf("empty answer must not be recorded")
	}
	if s.Answered() != 1 {
		t.Errorf("Answered() = %d, want 1", s.Answered())
	}

	// Snapshot is a copy: mutating it must not affect the state.
	snap[10] = "D"
	if s.Snapshot()[10] != "C" {
		t.Errorf("Snapshot must return a copy")
	}
}
