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
	"github.com/mgukowsky/Omulator-sub000/internal/pool"
	"github.com/mgukowsky/Omulator-sub000/msg"
)

// Sender is the producing side of a mailbox. Senders are cheap and may be shared.
type Sender struct {
	endpoint *Endpoint
	buffers  *pool.ObjectPool[msg.Buffer]
}

// ID returns the id of the mailbox
func (s *Sender) ID() MailboxID {
	return s.endpoint.ID()
}

// Queue returns an empty queue to fill and pass to Send
func (s *Sender) Queue() *msg.Queue {
	return s.endpoint.Queue()
}

// Send seals q and delivers it. q must not be touched afterwards.
func (s *Sender) Send(q *msg.Queue) {
	s.endpoint.Send(q)
}

// SendSingle delivers a queue holding a single message with no payload
func (s *Sender) SendSingle(mtype msg.MessageType) {
	q := s.Queue()
	q.Push(mtype)
	s.Send(q)
}

// SendSinglePayload delivers a queue holding a single message with a raw payload
func (s *Sender) SendSinglePayload(mtype msg.MessageType, payload uint64) {
	q := s.Queue()
	q.PushPayload(mtype, msg.FlagsNull, payload)
	s.Send(q)
}

// SendManaged delivers a queue holding a single message owning value
func (s *Sender) SendManaged(mtype msg.MessageType, value any) error {
	q := s.Queue()
	if err := q.PushManaged(mtype, value); err != nil {
		s.endpoint.factory.Submit(q)
		return err
	}
	s.Send(q)
	return nil
}

// Package returns an empty package whose buffers come from the router's buffer pool
func (s *Sender) Package() *msg.Package {
	return msg.NewPackage(s.buffers, s.endpoint.logger)
}

// SendPackage delivers pkg as the managed payload of a message of the given kind.
// Its buffers go back to the pool once the receiver has processed it.
func (s *Sender) SendPackage(mtype msg.MessageType, pkg *msg.Package) error {
	return s.SendManaged(mtype, pkg)
}
