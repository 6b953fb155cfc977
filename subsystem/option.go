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
	"time"

	"github.com/mgukowsky/Omulator-sub000/fault"
	"github.com/mgukowsky/Omulator-sub000/log"
	"github.com/mgukowsky/Omulator-sub000/mailbox"
)

const (
	// DefaultInitMaxRetries is the number of attempts given to the start hook
	DefaultInitMaxRetries = 5
	// DefaultInitTimeout bounds the delay between two attempts of the start hook
	DefaultInitTimeout = time.Second
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(s *Subsystem)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(s *Subsystem)

// Apply applies the options to Subsystem
func (f OptionFunc) Apply(s *Subsystem) {
	f(s)
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(s *Subsystem) {
		if logger != nil {
			s.logger = logger
		}
	})
}

// WithOnStart sets the hook run on the subsystem goroutine before it processes any message.
// A failing hook is retried.
func WithOnStart(fn func(ctx context.Context) error) Option {
	return OptionFunc(func(s *Subsystem) {
		if fn != nil {
			s.onStart = fn
		}
	})
}

// WithOnEnd sets the hook run on the subsystem goroutine once the message loop exits
func WithOnEnd(fn func()) Option {
	return OptionFunc(func(s *Subsystem) {
		if fn != nil {
			s.onEnd = fn
		}
	})
}

// WithInitMaxRetries sets how many times the start hook is attempted
func WithInitMaxRetries(retries int) Option {
	return OptionFunc(func(s *Subsystem) {
		if retries > 0 {
			s.initMaxRetries = retries
		}
	})
}

// WithInitTimeout bounds the delay between two attempts of the start hook
func WithInitTimeout(timeout time.Duration) Option {
	return OptionFunc(func(s *Subsystem) {
		if timeout > 0 {
			s.initTimeout = timeout
		}
	})
}

// WithMailboxID makes the subsystem claim the given mailbox instead of the one named after it
func WithMailboxID(id mailbox.MailboxID) Option {
	return OptionFunc(func(s *Subsystem) {
		s.mailboxID = id
	})
}

// WithFaultHandler sets the handler receiving panics escaping the message loop
func WithFaultHandler(handler *fault.Handler) Option {
	return OptionFunc(func(s *Subsystem) {
		if handler != nil {
			s.faults = handler
		}
	})
}
