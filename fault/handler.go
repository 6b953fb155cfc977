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
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
)

const (
	// ExitFailure is the exit code used after a fault has been reported
	ExitFailure = 1
	// ExitDoubleFault is the exit code used when reporting the fault itself failed
	ExitDoubleFault = 2
)

// Kind classifies a fault
type Kind int

const (
	// KindUnknown is a fault carrying a value that is not an error
	KindUnknown Kind = iota
	// KindAllocation is a failure to obtain memory
	KindAllocation
	// KindException is a fault carrying an error
	KindException
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindAllocation:
		return "allocation"
	case KindException:
		return "exception"
	default:
		return "unknown"
	}
}

// Handler is the single place every unrecovered panic of the application ends up in.
// It reports the fault to the user and terminates the process deliberately.
type Handler struct {
	io   PrimitiveIO
	exit func(code int)
}

// NewHandler creates a Handler
func NewHandler(opts ...Option) *Handler {
	handler := &Handler{
		io:   NewConsoleIO(os.Stdout, os.Stderr),
		exit: os.Exit,
	}
	for _, opt := range opts {
		opt.Apply(handler)
	}
	return handler
}

// Classify returns the kind of a recovered value
func Classify(recovered any) Kind {
	err, ok := recovered.(error)
	if !ok {
		return KindUnknown
	}
	if errors.Is(err, gerrors.ErrAllocationFailure) {
		return KindAllocation
	}
	var rerr runtime.Error
	if errors.As(err, &rerr) && isAllocationMessage(rerr.Error()) {
		return KindAllocation
	}
	return KindException
}

// Handle reports recovered and terminates the process
func (h *Handler) Handle(recovered any) {
	defer func() {
		if r := recover(); r != nil {
			h.io.AlertErr("Fault occurred in the fault handler!")
			h.exit(ExitDoubleFault)
		}
	}()

	switch Classify(recovered) {
	case KindAllocation:
		h.io.AlertErr("Memory allocation failed. This indicates that there is either not " +
			"enough RAM installed on your system, or there are too many other programs running in the background.")
	case KindException:
		h.io.AlertErr(fmt.Sprintf("An unexpected error occurred; Details:\n%v", recovered))
	default:
		h.io.AlertErr(fmt.Sprintf("An unknown fault occurred: %v", recovered))
	}
	h.exit(ExitFailure)
}

// Guard runs fn and hands any panic escaping it to Handle
func (h *Handler) Guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			h.Handle(r)
		}
	}()
	fn()
}

// Report writes an informational message through the handler's PrimitiveIO
func (h *Handler) Report(msg string) {
	h.io.AlertInfo(msg)
}

var defaultHandler = NewHandler()

// Default returns the process wide Handler
func Default() *Handler {
	return defaultHandler
}

func isAllocationMessage(msg string) bool {
	for _, marker := range []string{"out of memory", "len out of range", "cap out of range", "size out of range"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
