package events

import (
	"context"
	"sync"
)

// Recorder is a Publisher that keeps every event it receives (test-only).
type Recorder struct {
	mu     sync.Mutex
	events []Event
	Err    error
}

// Publish records e and returns r.Err.
func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return r.Err
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

// Reset drops the recorded events.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}
