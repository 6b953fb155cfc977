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

package pool

import (
	"math"
	"sync"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
)

const growthFactor = 1.5

// ObjectPool is an arena of fixed-size slots handing out *T.
// Slots never move once allocated; free slots are tracked by index and are reused
// in the order they were returned. Get and Put are O(1) unless the pool grows.
type ObjectPool[T any] struct {
	mu     sync.Mutex
	slots  []*T
	index  map[*T]int
	inUse  []bool
	free   []int
	onPut  func(*T)
	onGrow func(oldCap, newCap int)
}

// Option configures an ObjectPool
type Option[T any] func(pool *ObjectPool[T])

// WithReset sets the function applied to every element given back to the pool
func WithReset[T any](fn func(*T)) Option[T] {
	return func(pool *ObjectPool[T]) {
		pool.onPut = fn
	}
}

// WithGrowHook sets a function called every time the pool grows
func WithGrowHook[T any](fn func(oldCap, newCap int)) Option[T] {
	return func(pool *ObjectPool[T]) {
		pool.onGrow = fn
	}
}

// New creates an ObjectPool with the given initial number of slots
func New[T any](initial int, opts ...Option[T]) *ObjectPool[T] {
	pool := &ObjectPool[T]{
		index: make(map[*T]int),
	}
	for _, opt := range opts {
		opt(pool)
	}
	pool.grow(max(initial, 1))
	return pool
}

// Get hands out a free slot, growing the pool by half of its capacity when none is left
func (p *ObjectPool[T]) Get() *T {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.free) == 0 {
		extra := int(math.Ceil(float64(len(p.slots)) * (growthFactor - 1)))
		p.grow(max(extra, 1))
	}

	idx := p.free[0]
	p.free[0] = 0
	p.free = p.free[1:]
	p.inUse[idx] = true
	return p.slots[idx]
}

// Put gives a slot back to the pool. Elements the pool did not hand out are refused.
func (p *ObjectPool[T]) Put(element *T) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx, ok := p.index[element]
	if !ok {
		return gerrors.ErrForeignElement
	}
	if !p.inUse[idx] {
		return gerrors.ErrElementNotInUse
	}
	if p.onPut != nil {
		p.onPut(element)
	}
	p.inUse[idx] = false
	p.free = append(p.free, idx)
	return nil
}

// Len returns the number of slots handed out
func (p *ObjectPool[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots) - len(p.free)
}

// Capacity returns the number of slots allocated
func (p *ObjectPool[T]) Capacity() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.slots)
}

// Free returns the number of slots available without growing
func (p *ObjectPool[T]) Free() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.free)
}

// grow must be called with the lock held
func (p *ObjectPool[T]) grow(extra int) {
	oldCap := len(p.slots)
	chunk := make([]T, extra)
	for i := range chunk {
		idx := len(p.slots)
		element := &chunk[i]
		p.slots = append(p.slots, element)
		p.inUse = append(p.inUse, false)
		p.index[element] = idx
		p.free = append(p.free, idx)
	}
	if p.onGrow != nil && oldCap > 0 {
		p.onGrow(oldCap, len(p.slots))
	}
}
