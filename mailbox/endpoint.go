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

package mailbox

import (
	"sync"

	"go.uber.org/atomic"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
	"github.com/mgukowsky/Omulator-sub000/internal/queue"
	"github.com/mgukowsky/Omulator-sub000/log"
	"github.com/mgukowsky/Omulator-sub000/msg"
)

// RecvBehavior tells Recv whether to wait for incoming queues
type RecvBehavior int

const (
	// RecvBlock parks the caller until at least one queue has been sent
	RecvBlock RecvBehavior = iota
	// RecvNonBlock processes whatever has been sent and returns at once
	RecvNonBlock
)

// Handler processes a single message
type Handler func(m msg.Message)

// Endpoint is the rendezvous point of a mailbox. Any number of goroutines may
// send sealed queues to it; a single goroutine receives them in arrival order.
type Endpoint struct {
	id       MailboxID
	claimed  *atomic.Bool
	factory  *msg.Factory
	queues   *queue.Queue[*msg.Queue]
	logger   log.Logger
	mu       sync.RWMutex
	handlers map[msg.MessageType]Handler
}

func newEndpoint(id MailboxID, factory *msg.Factory, logger log.Logger) *Endpoint {
	return &Endpoint{
		id:       id,
		claimed:  atomic.NewBool(false),
		factory:  factory,
		queues:   queue.New[*msg.Queue](),
		logger:   logger,
		handlers: make(map[msg.MessageType]Handler),
	}
}

// ID returns the mailbox id of the endpoint
func (e *Endpoint) ID() MailboxID {
	return e.id
}

// Claim marks the endpoint as claimed. It returns false when it already was.
func (e *Endpoint) Claim() bool {
	return e.claimed.CompareAndSwap(false, true)
}

// Claimed returns true once the endpoint has been claimed
func (e *Endpoint) Claimed() bool {
	return e.claimed.Load()
}

// Queue returns an empty queue to fill and send to this endpoint
func (e *Endpoint) Queue() *msg.Queue {
	return e.factory.Get()
}

// Send seals q and hands it to the receiver. Send never blocks.
func (e *Endpoint) Send(q *msg.Queue) {
	if !q.Valid() {
		e.logger.Errorf("Attempted to send an invalid MessageQueue to mailbox %d", e.id)
		return
	}
	q.Seal()
	if !e.queues.Push(q) {
		e.logger.Warnf("Mailbox %d is closed; dropping %d message(s)", e.id, q.Len())
		q.Clear()
		e.factory.Submit(q)
	}
}

// On registers the handler for the given message kind, replacing any previous one
func (e *Endpoint) On(mtype msg.MessageType, handler Handler) {
	e.mu.Lock()
	e.handlers[mtype] = handler
	e.mu.Unlock()
}

// Off removes the handler for the given message kind
func (e *Endpoint) Off(mtype msg.MessageType) {
	e.mu.Lock()
	delete(e.handlers, mtype)
	e.mu.Unlock()
}

// Recv processes every queue sent so far with the registered handlers.
// It returns ErrMailboxClosed once the endpoint is closed.
func (e *Endpoint) Recv(behavior RecvBehavior) error {
	return e.RecvWith(behavior, nil)
}

// RecvWith behaves like Recv. Messages with no registered handler go to fallback.
func (e *Endpoint) RecvWith(behavior RecvBehavior, fallback Handler) error {
	var queues []*msg.Queue
	switch behavior {
	case RecvNonBlock:
		queues = e.queues.Drain()
	default:
		queues = e.queues.WaitAll()
	}

	for _, q := range queues {
		q.Pump(func(m msg.Message) {
			e.dispatch(m, fallback)
		})
		e.factory.Submit(q)
	}

	if len(queues) == 0 && e.queues.IsClosed() {
		return gerrors.ErrMailboxClosed
	}
	return nil
}

// Pending returns the number of queues waiting to be received
func (e *Endpoint) Pending() int {
	return e.queues.Len()
}

// Close wakes a parked receiver and drops every queue not yet received
func (e *Endpoint) Close() {
	remaining := e.queues.Close()
	if len(remaining) > 0 {
		e.logger.Warnf("Mailbox %d closed with %d unprocessed MessageQueue(s)", e.id, len(remaining))
	}
	for _, q := range remaining {
		q.Clear()
		e.factory.Submit(q)
	}
}

func (e *Endpoint) dispatch(m msg.Message, fallback Handler) {
	e.mu.RLock()
	handler, ok := e.handlers[m.Type]
	e.mu.RUnlock()

	switch {
	case ok:
		handler(m)
	case fallback != nil:
		fallback(m)
	default:
		e.logger.Debugf("Mailbox %d has no handler for message %s", e.id, m.Type)
	}
}
