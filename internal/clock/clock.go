package clock

import (
	"sync"
	"time"
)

// Provider is the time source the game reads each frame
type Provider interface {
	Now() time.Time
}

// Real reads the monotonic system clock
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

// Manual only moves when advanced. Sessions keep game time on one and
// tests drive the wall clock with it.
type Manual struct {
	mu  sync.RWMutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
