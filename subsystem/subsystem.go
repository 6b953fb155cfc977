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

package subsystem

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/flowchartsman/retry"
	"go.uber.org/atomic"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
	"github.com/mgukowsky/Omulator-sub000/fault"
	"github.com/mgukowsky/Omulator-sub000/log"
	"github.com/mgukowsky/Omulator-sub000/mailbox"
	"github.com/mgukowsky/Omulator-sub000/msg"
)

// Handler processes the messages received by a Subsystem
type Handler interface {
	MessageProc(s *Subsystem, m msg.Message)
}

// HandlerFunc adapts a function to the Handler interface
type HandlerFunc func(s *Subsystem, m msg.Message)

// MessageProc calls f
func (f HandlerFunc) MessageProc(s *Subsystem, m msg.Message) {
	f(s, m)
}

// BaseMessageProc is the default Handler. Handlers of their own message kinds
// should fall back to it so that unhandled kinds are reported.
type BaseMessageProc struct{}

var _ Handler = BaseMessageProc{}

// MessageProc treats a Poke as a wake-up and logs any other message
func (BaseMessageProc) MessageProc(s *Subsystem, m msg.Message) {
	if m.Type == msg.Poke {
		return
	}
	s.Logger().Warnf("Unprocessed message: %d", m.Type)
}

// Subsystem owns a mailbox and a goroutine locked to its own OS thread.
// The goroutine processes the mailbox until the subsystem is stopped.
type Subsystem struct {
	name     string
	logger   log.Logger
	handler  Handler
	receiver *mailbox.Receiver
	sender   *mailbox.Sender
	faults   *fault.Handler

	onStart        func(ctx context.Context) error
	onEnd          func()
	initMaxRetries int
	initTimeout    time.Duration
	mailboxID      mailbox.MailboxID

	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
	started   chan struct{}
	done      chan struct{}
	stopping  *atomic.Bool
	running   *atomic.Bool
	initErr   error
}

// New creates a Subsystem and claims its mailbox. The goroutine is created right away
// but does not process anything until Start is called.
func New(router *mailbox.Router, name string, handler Handler, opts ...Option) (*Subsystem, error) {
	if handler == nil {
		handler = BaseMessageProc{}
	}
	s := &Subsystem{
		name:           name,
		logger:         log.DiscardLogger,
		handler:        handler,
		faults:         fault.Default(),
		onStart:        func(context.Context) error { return nil },
		onEnd:          func() {},
		initMaxRetries: DefaultInitMaxRetries,
		initTimeout:    DefaultInitTimeout,
		mailboxID:      mailbox.MailboxIDFor(name),
		started:        make(chan struct{}),
		done:           make(chan struct{}),
		stopping:       atomic.NewBool(false),
		running:        atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt.Apply(s)
	}

	receiver, err := router.ClaimMailbox(s.mailboxID)
	if err != nil {
		return nil, err
	}
	s.receiver = receiver
	s.sender = router.GetMailbox(s.mailboxID)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Infof("Creating subsystem: %s", name)
	go s.faults.Guard(s.run)
	return s, nil
}

// Name returns the name of the subsystem
func (s *Subsystem) Name() string {
	return s.name
}

// Logger returns the logger of the subsystem
func (s *Subsystem) Logger() log.Logger {
	return s.logger
}

// MailboxID returns the id of the mailbox owned by the subsystem
func (s *Subsystem) MailboxID() mailbox.MailboxID {
	return s.mailboxID
}

// Receiver gives access to the mailbox to register per kind callbacks.
// Callbacks run on the subsystem goroutine; kinds with no callback go to the Handler.
func (s *Subsystem) Receiver() *mailbox.Receiver {
	return s.receiver
}

// Sender returns a sender to the subsystem's own mailbox
func (s *Subsystem) Sender() *mailbox.Sender {
	return s.sender
}

// Running returns true while the message loop is active
func (s *Subsystem) Running() bool {
	return s.running.Load()
}

// Start releases the goroutine. It is idempotent.
func (s *Subsystem) Start() {
	s.startOnce.Do(func() {
		close(s.started)
	})
}

// RequestStop asks the message loop to exit once the messages at hand are processed.
// It does not wait, and may be called from the subsystem goroutine itself.
func (s *Subsystem) RequestStop() {
	s.stopping.Store(true)
}

// Stop asks the message loop to exit, wakes it up and waits for it.
// It returns the initialization error, if any.
func (s *Subsystem) Stop(ctx context.Context) error {
	s.stopping.Store(true)
	s.cancel()
	// release a goroutine that was never started
	s.Start()
	s.sender.SendSingle(msg.Poke)

	select {
	case <-s.done:
		return s.initErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done returns a channel closed once the goroutine has exited
func (s *Subsystem) Done() <-chan struct{} {
	return s.done
}

func (s *Subsystem) run() {
	defer close(s.done)
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	<-s.started

	retrier := retry.NewRetrier(s.initMaxRetries, time.Millisecond, s.initTimeout)
	if err := retrier.RunContext(s.ctx, s.onStart); err != nil {
		if !s.stopping.Load() {
			s.initErr = gerrors.NewErrInitFailure(err)
			s.logger.Errorf("Failed to initialize subsystem %s: %v", s.name, err)
		}
		return
	}

	s.running.Store(true)
	defer s.running.Store(false)
	for !s.stopping.Load() {
		err := s.receiver.RecvWith(mailbox.RecvBlock, func(m msg.Message) {
			s.handler.MessageProc(s, m)
		})
		if errors.Is(err, gerrors.ErrMailboxClosed) {
			s.logger.Warnf("Mailbox of subsystem %s was closed", s.name)
			break
		}
	}
	s.onEnd()
}
