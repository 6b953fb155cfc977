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
	"bufio"
	"io"
	"strings"

	"github.com/mgukowsky/Omulator-sub000/fault"
	"github.com/mgukowsky/Omulator-sub000/killable"
	"github.com/mgukowsky/Omulator-sub000/log"
	"github.com/mgukowsky/Omulator-sub000/mailbox"
	"github.com/mgukowsky/Omulator-sub000/msg"
)

// DefaultTarget is the name of the mailbox lines are sent to
const DefaultTarget = "app"

// CLIInput reads lines from its input and sends each of them, trimmed, as a
// StdinString message to the target mailbox.
//
// Reading from a terminal cannot be cancelled, so the input is closed on Close
// to release the goroutine blocked on it.
type CLIInput struct {
	reader *killable.ReaderKiller
	sender *mailbox.Sender
	logger log.Logger
	faults *fault.Handler
	target mailbox.MailboxID
	done   chan struct{}
}

// New creates a CLIInput and starts reading from input
func New(router *mailbox.Router, input io.ReadCloser, opts ...Option) *CLIInput {
	c := &CLIInput{
		reader: killable.NewReaderKiller(input),
		logger: log.DiscardLogger,
		faults: fault.Default(),
		target: mailbox.MailboxIDFor(DefaultTarget),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt.Apply(c)
	}
	c.sender = router.GetMailbox(c.target)

	go c.faults.Guard(c.loop)
	return c
}

// Target returns the id of the mailbox lines are sent to
func (c *CLIInput) Target() mailbox.MailboxID {
	return c.target
}

// Done is closed once the input is exhausted or closed
func (c *CLIInput) Done() <-chan struct{} {
	return c.done
}

// Close stops reading and waits for the reading goroutine to exit
func (c *CLIInput) Close() error {
	err := c.reader.Kill()
	<-c.done
	return err
}

func (c *CLIInput) loop() {
	defer close(c.done)

	scanner := bufio.NewScanner(c.reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if err := c.sender.SendManaged(msg.StdinString, line); err != nil {
			c.logger.Errorf("Failed to send input line: %v", err)
		}
	}
	if err := scanner.Err(); err != nil && !c.reader.Killed() {
		c.logger.Errorf("Failed to read input: %v", err)
	}
	c.logger.Debug("Input closed")
}
