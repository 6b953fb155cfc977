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
	"github.com/zeebo/xxh3"
	"go.uber.org/atomic"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
	"github.com/mgukowsky/Omulator-sub000/internal/pool"
	"github.com/mgukowsky/Omulator-sub000/internal/types"
	"github.com/mgukowsky/Omulator-sub000/internal/xsync"
	"github.com/mgukowsky/Omulator-sub000/log"
	"github.com/mgukowsky/Omulator-sub000/msg"
)

const defaultBufferPoolSize = 32

// MailboxID is the address of a mailbox
type MailboxID uint64

// MailboxIDOf returns the address of the mailbox owned by T
func MailboxIDOf[T any]() MailboxID {
	return MailboxID(types.Of[T]())
}

// MailboxIDFor returns the address of the mailbox with the given name
func MailboxIDFor(name string) MailboxID {
	return MailboxID(xxh3.HashString(name))
}

// Router maps mailbox ids to their endpoints, creating them on first use
type Router struct {
	mailboxes *xsync.Map[MailboxID, *Endpoint]
	factory   *msg.Factory
	buffers   *pool.ObjectPool[msg.Buffer]
	logger    log.Logger
	closed    *atomic.Bool
}

// NewRouter creates a Router whose mailboxes draw their queues from factory
func NewRouter(factory *msg.Factory, logger log.Logger) *Router {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &Router{
		mailboxes: xsync.NewMap[MailboxID, *Endpoint](),
		factory:   factory,
		buffers:   pool.New[msg.Buffer](defaultBufferPoolSize, pool.WithReset(func(b *msg.Buffer) { b.Reset() })),
		logger:    logger,
		closed:    atomic.NewBool(false),
	}
}

// ClaimMailbox returns the receiving side of a mailbox. A mailbox can only be claimed once.
func (r *Router) ClaimMailbox(id MailboxID) (*Receiver, error) {
	if r.closed.Load() {
		return nil, gerrors.ErrMailboxClosed
	}
	endpoint := r.endpoint(id)
	if !endpoint.Claim() {
		r.logger.Errorf("Attempting to claim mailbox %d that has already been claimed", id)
		return nil, gerrors.NewErrMailboxClaimed(uint64(id))
	}
	return &Receiver{endpoint: endpoint}, nil
}

// GetMailbox returns the sending side of a mailbox, claimed or not
func (r *Router) GetMailbox(id MailboxID) *Sender {
	return &Sender{endpoint: r.endpoint(id), buffers: r.buffers}
}

// Factory returns the queue factory shared by every mailbox of the router
func (r *Router) Factory() *msg.Factory {
	return r.factory
}

// Len returns the number of mailboxes created so far
func (r *Router) Len() int {
	return r.mailboxes.Len()
}

// Close closes every mailbox, waking their receivers. Queues sent afterwards are dropped.
func (r *Router) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	for _, endpoint := range r.mailboxes.Values() {
		endpoint.Close()
	}
	return nil
}

func (r *Router) endpoint(id MailboxID) *Endpoint {
	endpoint, loaded := r.mailboxes.GetOrSet(id, func() *Endpoint {
		return newEndpoint(id, r.factory, r.logger)
	})
	if !loaded && r.closed.Load() {
		endpoint.Close()
	}
	return endpoint
}
