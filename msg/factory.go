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

package msg

import (
	"time"

	gods "github.com/Workiva/go-datastructures/queue"
	"go.uber.org/atomic"

	"github.com/mgukowsky/Omulator-sub000/log"
)

const (
	defaultPoolSize      = 1024
	defaultQueueCapacity = 16
	pollTimeout          = time.Microsecond
)

// FactoryStats is a snapshot of the storage accounting of a Factory
type FactoryStats struct {
	HandedOut uint64
	Returned  uint64
	Pooled    uint64
}

// Factory hands out Queues backed by pooled storage. Get and Submit are safe for
// concurrent use; the pool itself is a lock-free ring buffer.
type Factory struct {
	pool          *gods.RingBuffer
	logger        log.Logger
	poolSize      uint64
	queueCapacity int
	handedOut     *atomic.Uint64
	returned      *atomic.Uint64
	closed        *atomic.Bool
}

// NewFactory creates a Factory
func NewFactory(logger log.Logger, opts ...FactoryOption) *Factory {
	if logger == nil {
		logger = log.DiscardLogger
	}
	factory := &Factory{
		logger:        logger,
		poolSize:      defaultPoolSize,
		queueCapacity: defaultQueueCapacity,
		handedOut:     atomic.NewUint64(0),
		returned:      atomic.NewUint64(0),
		closed:        atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt.Apply(factory)
	}
	factory.pool = gods.NewRingBuffer(factory.poolSize)
	return factory
}

// Get returns an empty, unsealed Queue. Pooled storage is reused when available.
func (f *Factory) Get() *Queue {
	storage := f.poll()
	if storage == nil {
		storage = newStorage(f, f.queueCapacity)
	}
	storage.checkedOut.Store(true)
	f.handedOut.Inc()
	return newQueue(storage, f.logger)
}

// Submit gives the storage of q back to the factory. The queue is invalid afterwards.
// Invalid queues, double submissions and storage owned by another factory are
// logged and refused.
func (f *Factory) Submit(q *Queue) {
	if !q.Valid() {
		f.logger.Error("Attempted to submit an invalid MessageQueue to a MessageQueueFactory")
		return
	}

	storage := q.storage
	if storage.factory != f {
		f.logger.Errorf("Attempted to submit MessageQueue storage %s to a MessageQueueFactory that did not create it", storage.id)
		q.MarkInvalid()
		return
	}
	if !storage.checkedOut.CompareAndSwap(true, false) {
		f.logger.Errorf("MessageQueue storage %s was already submitted to its MessageQueueFactory", storage.id)
		q.MarkInvalid()
		return
	}

	q.Reset()
	q.MarkInvalid()
	f.returned.Inc()

	if f.closed.Load() {
		return
	}
	if ok, err := f.pool.Offer(storage); err != nil || !ok {
		f.logger.Debugf("MessageQueueFactory pool is full, dropping storage %s", storage.id)
	}
}

// Stats returns the current storage accounting
func (f *Factory) Stats() FactoryStats {
	return FactoryStats{
		HandedOut: f.handedOut.Load(),
		Returned:  f.returned.Load(),
		Pooled:    f.pool.Len(),
	}
}

// Close disposes the pool. Storage handed out and never submitted is reported as a leak.
func (f *Factory) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	handedOut, returned := f.handedOut.Load(), f.returned.Load()
	if handedOut != returned {
		f.logger.Errorf("MessageQueueFactory leak: %d MessageQueue(s) were never submitted back", handedOut-returned)
	}
	f.pool.Dispose()
	return nil
}

func (f *Factory) poll() *Storage {
	if f.closed.Load() || f.pool.Len() == 0 {
		return nil
	}
	item, err := f.pool.Poll(pollTimeout)
	if err != nil {
		return nil
	}
	storage, _ := item.(*Storage)
	return storage
}
