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

package fault

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// PrimitiveIO reports messages when the regular logging facility can no longer
// be trusted, during early startup or while handling a fatal fault.
type PrimitiveIO interface {
	// LogMsg writes msg to the standard output
	LogMsg(msg string)
	// AlertInfo notifies the user with an informational message
	AlertInfo(msg string)
	// AlertErr notifies the user with an error message
	AlertErr(msg string)
}

// ConsoleIO is a PrimitiveIO writing to a pair of streams
type ConsoleIO struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

var _ PrimitiveIO = (*ConsoleIO)(nil)

// NewConsoleIO creates a ConsoleIO. Nil writers default to the process standard streams.
func NewConsoleIO(out, err io.Writer) *ConsoleIO {
	if out == nil {
		out = os.Stdout
	}
	if err == nil {
		err = os.Stderr
	}
	return &ConsoleIO{out: out, err: err}
}

// LogMsg writes msg to the output stream
func (c *ConsoleIO) LogMsg(msg string) {
	c.write(c.out, msg)
}

// AlertInfo writes msg to the output stream
func (c *ConsoleIO) AlertInfo(msg string) {
	c.write(c.out, msg)
}

// AlertErr writes msg to the error stream
func (c *ConsoleIO) AlertErr(msg string) {
	c.write(c.err, msg)
}

func (c *ConsoleIO) write(w io.Writer, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(w, msg)
}
