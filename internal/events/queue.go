package events

import "sync"

// Queue is an ordered interaction-event queue. Producers (UI threads, the
// inspector's HTTP handlers) push concurrently; the runtime drains once at
// the start of each tick. A pre-allocated swap buffer keeps Drain cheap.
type Queue struct {
	mu      sync.Mutex
	pending []Event
	swap    []Event
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		pending: make([]Event, 0, 16),
		swap:    make([]Event, 0, 16),
	}
}

// Push appends an event, preserving arrival order.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	q.pending = append(q.pending, ev)
	q.mu.Unlock()
}

// Drain returns all pending events in arrival order and empties the queue.
// The returned slice is owned by the caller until the next Drain.
func (q *Queue) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()

	drained := q.pending
	q.pending = q.swap[:0]
	q.swap = drained
	return drained
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
