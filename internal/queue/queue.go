package queue

import (
	"context"
	"errors"
	"sync"
	"time"
)

var (
	// ErrQueueClosed is returned when operations are attempted on a closed queue
	ErrQueueClosed = errors.New("queue is closed")

	// ErrQueueEmpty is returned by TryPop when nothing is queued
	ErrQueueEmpty = errors.New("queue is empty")
)

// Queue is an unbounded FIFO safe for concurrent use. Consumers block in Pop
// until an item arrives, the queue is closed, or their context ends.
type Queue[T any] struct {
	items []T

	// Synchronization
	mu     sync.Mutex
	notify chan struct{} // closed and replaced whenever items arrive or the queue closes

	// State
	closed bool
	stats  Stats
}

// Stats tracks queue activity.
type Stats struct {
	TotalEnqueued int64
	TotalDequeued int64
	TotalCleared  int64
	CurrentSize   int
	PeakSize      int
	LastEnqueue   time.Time
	LastDequeue   time.Time
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		notify: make(chan struct{}),
	}
}

// Push appends items to the tail of the queue.
func (q *Queue[T]) Push(items ...T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	if len(items) == 0 {
		return nil
	}

	q.items = append(q.items, items...)
	q.stats.TotalEnqueued += int64(len(items))
	q.stats.LastEnqueue = time.Now()
	if len(q.items) > q.stats.PeakSize {
		q.stats.PeakSize = len(q.items)
	}

	q.wakeLocked()
	return nil
}

// Pop removes and returns the head of the queue, waiting for one to arrive
// if necessary. Items still queued when the queue is closed are dropped.
func (q *Queue[T]) Pop(ctx context.Context) (T, error) {
	var zero T
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return zero, ErrQueueClosed
		}
		if len(q.items) > 0 {
			item := q.popLocked()
			q.mu.Unlock()
			return item, nil
		}
		wait := q.notify
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-wait:
		}
	}
}

// TryPop removes the head of the queue without waiting.
func (q *Queue[T]) TryPop() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if q.closed {
		return zero, ErrQueueClosed
	}
	if len(q.items) == 0 {
		return zero, ErrQueueEmpty
	}
	return q.popLocked(), nil
}

// Clear drops every queued item and returns how many were dropped.
func (q *Queue[T]) Clear() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	n := len(q.items)
	clear(q.items)
	q.items = q.items[:0]
	q.stats.TotalCleared += int64(n)
	return n
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Stats returns a snapshot of the queue statistics.
func (q *Queue[T]) Stats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()

	stats := q.stats
	stats.CurrentSize = len(q.items)
	return stats
}

// Close releases every waiting consumer. It is safe to call more than once.
func (q *Queue[T]) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	q.items = nil
	q.wakeLocked()
	return nil
}

// IsClosed reports whether Close has been called.
func (q *Queue[T]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// popLocked must be called with the lock held and a non-empty queue.
func (q *Queue[T]) popLocked() T {
	var zero T
	item := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]

	q.stats.TotalDequeued++
	q.stats.LastDequeue = time.Now()
	return item
}

func (q *Queue[T]) wakeLocked() {
	close(q.notify)
	q.notify = make(chan struct{})
}
