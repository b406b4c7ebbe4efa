package scrollsync

import "testing"

func TestOffsetFollowsFocusedCursor(t *testing.T) {
	s := New(2)
	s.Observe(5, true)
	if got := s.Offset(); got != 10 {
		t.Fatalf("Offset=%d want 10", got)
	}
	s.Observe(9, false)
	if got := s.Line(); got != 5 {
		t.Fatalf("unfocused observe changed line to %d", got)
	}
}

func TestLineHeightClamp(t *testing.T) {
	s := New(0)
	if s.LineHeight() != 1 {
		t.Fatalf("LineHeight=%d want 1", s.LineHeight())
	}
	s.Observe(-3, true)
	if s.Line() != 0 {
		t.Fatalf("negative row not clamped: %d", s.Line())
	}
}

func TestReset(t *testing.T) {
	s := New(1)
	s.Observe(7, true)
	s.Reset()
	if s.Offset() != 0 {
		t.Fatalf("Offset after reset=%d", s.Offset())
	}
}
