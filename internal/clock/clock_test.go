package clock

import (
	"testing"
	"time"
)

func TestManualAdvance(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewManual(start)
	m.Advance(1500 * time.Millisecond)
	if got := m.Now().Sub(start); got != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s, got %v", got)
	}
	m.Set(start)
	if !m.Now().Equal(start) {
		t.Fatalf("expected reset to start, got %v", m.Now())
	}
}
