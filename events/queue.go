// Package events implements the single-consumer bounded queue the
// trackpad smoother uses to post touch-state transitions back to the
// tick thread (§5: "observer callbacks ... model as a single-consumer
// bounded queue drained by the tick thread; no callbacks registered from
// concurrent producers").
package events

import "sync/atomic"

// queueSize must be a power of two; touch-state transitions are rare
// (at most one per tick) so a small ring is ample headroom.
const (
	queueSize = 16
	queueMask = queueSize - 1
)

// TouchStateEvent records an edge in the smoother's touching/not-touching
// state. It carries no timestamp.
type TouchStateEvent struct {
	Touching bool
}

// Queue is a lock-free single-producer/single-consumer ring buffer,
// adapted from the teacher's multi-producer events.EventQueue but
// narrowed to the one writer (the trackpad consumer goroutine) and one
// reader (the tick thread) this domain has. Overflow overwrites the
// oldest unread event rather than blocking the producer.
type Queue struct {
	events    [queueSize]TouchStateEvent
	published [queueSize]atomic.Bool
	head      atomic.Uint64
	tail      atomic.Uint64
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push enqueues ev. Safe to call only from the single producer goroutine.
func (q *Queue) Push(ev TouchStateEvent) {
	tail := q.tail.Load()
	idx := tail & queueMask

	q.events[idx] = ev
	q.published[idx].Store(true)
	q.tail.Store(tail + 1)

	head := q.head.Load()
	if tail+1-head > queueSize {
		q.head.Store(tail + 1 - queueSize)
	}
}

// Drain returns all pending events in FIFO order and advances head. Safe
// to call only from the single consumer goroutine (the tick thread).
func (q *Queue) Drain() []TouchStateEvent {
	head := q.head.Load()
	tail := q.tail.Load()
	if head == tail {
		return nil
	}

	available := tail - head
	if available > queueSize {
		available = queueSize
		head = tail - queueSize
	}

	result := make([]TouchStateEvent, 0, available)
	for i := uint64(0); i < available; i++ {
		idx := (head + i) & queueMask
		if !q.published[idx].Load() {
			break
		}
		result = append(result, q.events[idx])
		q.published[idx].Store(false)
	}
	q.head.Store(head + uint64(len(result)))
	return result
}
