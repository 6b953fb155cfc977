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
	"github.com/mgukowsky/Omulator-sub000/msg"
)

// Receiver is the consuming side of a mailbox. It is returned once, to the
// goroutine that claimed the mailbox.
type Receiver struct {
	endpoint *Endpoint
}

// ID returns the id of the mailbox
func (r *Receiver) ID() MailboxID {
	return r.endpoint.ID()
}

// On registers a callback for a message kind, ignoring the payload
func (r *Receiver) On(mtype msg.MessageType, fn func()) {
	r.endpoint.On(mtype, func(msg.Message) { fn() })
}

// OnMessage registers a callback receiving the whole message
func (r *Receiver) OnMessage(mtype msg.MessageType, fn func(m msg.Message)) {
	r.endpoint.On(mtype, fn)
}

// OnUnmanagedPayload registers a callback receiving the raw payload
func (r *Receiver) OnUnmanagedPayload(mtype msg.MessageType, fn func(payload uint64)) {
	r.endpoint.On(mtype, func(m msg.Message) { fn(m.Payload) })
}

// OnTrivialPayload registers a callback receiving the payload as an integer of type T
func OnTrivialPayload[T msg.Integer](r *Receiver, mtype msg.MessageType, fn func(payload T)) {
	r.endpoint.On(mtype, func(m msg.Message) { fn(msg.TrivialPayload[T](m)) })
}

// OnManagedPayload registers a callback receiving the managed payload as a T.
// A message carrying anything else is logged and skipped. The payload must not be
// retained once fn returns.
func OnManagedPayload[T any](r *Receiver, mtype msg.MessageType, fn func(payload T)) {
	logger := r.endpoint.logger
	r.endpoint.On(mtype, func(m msg.Message) {
		payload, err := msg.ManagedPayload[T](m)
		if err != nil {
			logger.Errorf("Mailbox %d could not read payload of message %s: %v", r.endpoint.ID(), m.Type, err)
			return
		}
		fn(payload)
	})
}

// Off removes the callback of a message kind
func (r *Receiver) Off(mtype msg.MessageType) {
	r.endpoint.Off(mtype)
}

// Recv processes the queues sent to the mailbox
func (r *Receiver) Recv(behavior RecvBehavior) error {
	return r.endpoint.Recv(behavior)
}

// RecvWith processes the queues sent to the mailbox, handing unregistered kinds to fallback
func (r *Receiver) RecvWith(behavior RecvBehavior, fallback Handler) error {
	return r.endpoint.RecvWith(behavior, fallback)
}
