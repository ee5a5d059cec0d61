// Package queue provides the thread-safe work queue shared by a pool of
// workers. The queue is pre-loaded before workers start, so an empty
// TryPop is a terminal condition for a draining worker, not a race.
package queue

import "sync"

// WorkQueue is a FIFO queue safe for concurrent push and pop.
type WorkQueue[T any] struct {
	mu    sync.Mutex
	items []T
}

// New creates a WorkQueue pre-loaded with the given items.
func New[T any](items ...T) *WorkQueue[T] {
	q := &WorkQueue[T]{}
	q.items = append(q.items, items...)
	return q
}

// Push appends an item to the queue.
func (q *WorkQueue[T]) Push(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
}

// TryPop removes and returns the oldest item without blocking.
// Returns the zero value and false when the queue is empty.
func (q *WorkQueue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var zero T
	if len(q.items) == 0 {
		return zero, false
	}
	item := q.items[0]
	q.items[0] = zero // release the reference
	q.items = q.items[1:]
	return item, true
}

// Len returns the current number of queued items.
func (q *WorkQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
