package event

import "sync"

// Recorder buffers events until they are drained, for renderers that poll
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Handle(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Drain returns all buffered events in order and empties the buffer
func (r *Recorder) Drain() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.events
	r.events = nil
	return out
}

// Count returns how many buffered events have the given type
func (r *Recorder) Count(t Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

// Last returns the most recent buffered event of the given type
func (r *Recorder) Last(t Type) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Type == t {
			return r.events[i], true
		}
	}
	return Event{}, false
}

// Fanout delivers every event to each handler in order
type Fanout []Handler

func (f Fanout) Handle(e Event) {
	for _, h := range f {
		h.Handle(e)
	}
}
