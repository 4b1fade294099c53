// Package schedule runs deferred continuations from the frame loop.
// Nothing here blocks: tasks become due and run on the next Run call.
package schedule

import (
	"sort"
	"time"

	"git.lost.host/meutraa/medallion/internal/clock"
)

type Task struct {
	at        time.Time
	seq       uint64
	fn        func()
	cancelled bool
}

// Cancel stops a task that has not run yet
func (t *Task) Cancel() {
	if nil != t {
		t.cancelled = true
	}
}

type Scheduler struct {
	clock clock.Provider
	queue []*Task
	seq   uint64
}

func New(c clock.Provider) *Scheduler {
	return &Scheduler{clock: c}
}

// After schedules fn to run once d has elapsed on the scheduler's clock
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	s.seq++
	t := &Task{
		at:  s.clock.Now().Add(d),
		seq: s.seq,
		fn:  fn,
	}
	s.queue = append(s.queue, t)
	return t
}

// Run executes every due task in due order and returns how many ran.
// Tasks scheduled by a running task wait for the next call.
func (s *Scheduler) Run() int {
	now := s.clock.Now()
	due := []*Task{}
	rest := s.queue[:0]
	for _, t := range s.queue {
		if t.cancelled {
			continue
		}
		if t.at.After(now) {
			rest = append(rest, t)
			continue
		}
		due = append(due, t)
	}
	s.queue = rest

	sort.Slice(due, func(i, j int) bool {
		if due[i].at.Equal(due[j].at) {
			return due[i].seq < due[j].seq
		}
		return due[i].at.Before(due[j].at)
	})

	ran := 0
	for _, t := range due {
		if t.cancelled {
			continue
		}
		t.fn()
		ran++
	}
	return ran
}

// Pending returns the number of tasks that have not run or been cancelled
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.queue {
		if !t.cancelled {
			n++
		}
	}
	return n
}
