package sse

import "sync"

// Queue hands parsed frames from the transport goroutine to the consumer.
// All methods are safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	events []Event
	done   bool
	err    error
}

// NewQueue creates an empty, open queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an event. Pushes after Finish are dropped.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.done {
		return
	}
	q.events = append(q.events, ev)
}

// Finish marks the end of the stream. A nil err means the stream ended
// normally. Only the first call has an effect.
func (q *Queue) Finish(err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.done {
		return
	}
	q.done = true
	q.err = err
}

// Drain removes and returns every queued event in push order, together with
// the stream state observed at the same instant. When done is true no further
// events will arrive.
func (q *Queue) Drain() (events []Event, done bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	events = q.events
	q.events = nil
	return events, q.done, q.err
}

// Len returns the number of events waiting to be drained.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
