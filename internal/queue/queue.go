// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package queue

import "sync"

// minQueueLen is the smallest capacity that queue may have.
// Must be power of 2 for bitwise modulus: x % n == x & (n - 1).
const minQueueLen = 16

// Queue is a thread-safe unbounded FIFO backed by a ring buffer.
// Producers never block; a consumer may park in Wait or WaitAll until an item
// arrives or the queue is closed.
type Queue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	nodes  []T
	head   int
	tail   int
	count  int
	closed bool
}

// New creates an instance of Queue
func New[T any]() *Queue[T] {
	q := &Queue[T]{
		nodes: make([]T, minQueueLen),
	}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push adds an item to the back of the queue and wakes a waiting consumer.
// It returns false when the queue is closed, in which case the item is dropped.
func (q *Queue[T]) Push(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	if q.count == len(q.nodes) {
		q.resize(q.count << 1)
	}
	q.nodes[q.tail] = item
	// bitwise modulus
	q.tail = (q.tail + 1) & (len(q.nodes) - 1)
	q.count++
	q.cond.Signal()
	return true
}

// Pop removes the item at the front of the queue.
// It returns false when the queue is empty or closed.
func (q *Queue[T]) Pop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pop()
}

// Wait blocks until an item is available and pops it.
// It returns false once the queue is closed.
func (q *Queue[T]) Wait() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.count == 0 && !q.closed {
		q.cond.Wait()
	}
	return q.pop()
}

// Drain pops every item currently queued, in arrival order
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.drain()
}

// WaitAll blocks until at least one item is queued, then pops every item in
// arrival order. It returns an empty slice once the queue is closed.
func (q *Queue[T]) WaitAll() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.count == 0 && !q.closed {
		q.cond.Wait()
	}
	return q.drain()
}

// Close closes the queue and returns the entries still queued.
// Every goroutine parked in Wait or WaitAll returns.
func (q *Queue[T]) Close() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	remaining := q.drain()
	q.closed = true
	q.nodes = nil
	q.cond.Broadcast()
	return remaining
}

// IsClosed returns true if the queue has been closed
func (q *Queue[T]) IsClosed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len return the current length of the queue.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// IsEmpty returns true when the queue is empty
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// pop must be called with the lock held
func (q *Queue[T]) pop() (T, bool) {
	var zero T
	if q.count == 0 || q.closed {
		return zero, false
	}
	item := q.nodes[q.head]
	q.nodes[q.head] = zero
	// bitwise modulus
	q.head = (q.head + 1) & (len(q.nodes) - 1)
	q.count--
	// Resize down if buffer 1/4 full.
	if len(q.nodes) > minQueueLen && (q.count<<2) == len(q.nodes) {
		q.resize(len(q.nodes) >> 1)
	}
	return item, true
}

// drain must be called with the lock held
func (q *Queue[T]) drain() []T {
	if q.count == 0 || q.closed {
		return nil
	}
	items := make([]T, 0, q.count)
	for q.count > 0 {
		items = append(items, q.nodes[q.head])
		var zero T
		q.nodes[q.head] = zero
		q.head = (q.head + 1) & (len(q.nodes) - 1)
		q.count--
	}
	q.head, q.tail = 0, 0
	return items
}

// resize must be called with the lock held
func (q *Queue[T]) resize(size int) {
	nodes := make([]T, max(size, minQueueLen))
	if q.tail > q.head {
		copy(nodes, q.nodes[q.head:q.tail])
	} else if q.count > 0 {
		n := copy(nodes, q.nodes[q.head:])
		copy(nodes[n:], q.nodes[:q.tail])
	}
	q.tail = q.count & (len(nodes) - 1)
	q.head = 0
	q.nodes = nodes
}
