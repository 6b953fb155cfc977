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

// Package killable provides a last resort to unblock goroutines parked in calls
// that offer no cancellation of their own, such as a read on standard input.
package killable

import (
	"io"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/multierr"
)

// Killable is implemented by anything that can be forcibly unblocked
type Killable interface {
	// Kill unblocks the goroutine and makes it return. It is idempotent.
	Kill() error
	// Killed returns true once Kill has been called
	Killed() bool
}

// ReaderKiller owns a reader that some goroutine is blocked on.
// Killing it expires the read deadline when the reader has one and closes the
// reader, which makes the pending Read return.
//
// Closing a file descriptor in blocking mode does not interrupt a Read already
// parked on it. An *os.File is therefore read through a non-blocking duplicate
// handed to the runtime poller, where the platform allows it.
type ReaderKiller struct {
	reader  io.ReadCloser
	closers []io.Closer
	killed  *atomic.Bool
	once    sync.Once
	err     error
}

type readDeadliner interface {
	SetReadDeadline(t time.Time) error
}

var _ Killable = (*ReaderKiller)(nil)
var _ io.Reader = (*ReaderKiller)(nil)

// NewReaderKiller wraps reader
func NewReaderKiller(reader io.ReadCloser) *ReaderKiller {
	k := &ReaderKiller{
		reader:  reader,
		closers: []io.Closer{reader},
		killed:  atomic.NewBool(false),
	}
	if pollable, ok := pollableFile(reader); ok {
		k.reader = pollable
		k.closers = []io.Closer{pollable, reader}
	}
	return k
}

// Read reads from the underlying reader. Once killed it returns io.EOF.
func (k *ReaderKiller) Read(p []byte) (int, error) {
	if k.killed.Load() {
		return 0, io.EOF
	}
	n, err := k.reader.Read(p)
	if err != nil && k.killed.Load() {
		return n, io.EOF
	}
	return n, err
}

// Kill closes the underlying reader
func (k *ReaderKiller) Kill() error {
	k.once.Do(func() {
		k.killed.Store(true)
		if deadliner, ok := k.reader.(readDeadliner); ok {
			_ = deadliner.SetReadDeadline(time.Now())
		}
		for _, closer := range k.closers {
			k.err = multierr.Append(k.err, closer.Close())
		}
	})
	return k.err
}

// Killed returns true once Kill has been called
func (k *ReaderKiller) Killed() bool {
	return k.killed.Load()
}
