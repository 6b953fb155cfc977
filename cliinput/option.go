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

package cliinput

import (
	"github.com/mgukowsky/Omulator-sub000/fault"
	"github.com/mgukowsky/Omulator-sub000/log"
	"github.com/mgukowsky/Omulator-sub000/mailbox"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a CLIInput.
	Apply(c *CLIInput)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(c *CLIInput)

// Apply applies the options to CLIInput
func (f OptionFunc) Apply(c *CLIInput) {
	f(c)
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(c *CLIInput) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithTarget sets the mailbox lines are sent to
func WithTarget(id mailbox.MailboxID) Option {
	return OptionFunc(func(c *CLIInput) {
		c.target = id
	})
}

// WithFaultHandler sets the handler receiving a panic escaping the reading goroutine
func WithFaultHandler(handler *fault.Handler) Option {
	return OptionFunc(func(c *CLIInput) {
		if handler != nil {
			c.faults = handler
		}
	})
}
