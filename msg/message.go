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

package msg

import (
	"fmt"
	"io"
	"reflect"
	"unsafe"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
	"github.com/mgukowsky/Omulator-sub000/internal/types"
)

// the payload must be able to carry any pointer-sized value
var _ [8 - unsafe.Sizeof(uintptr(0))]struct{}

// MessageType identifies the kind of a message. Values are unique across the
// whole process; new kinds are appended before MsgMax and never renumbered.
type MessageType uint32

const (
	// MsgNull is a no-op message, skipped when a queue is pumped
	MsgNull MessageType = iota
	// Poke wakes the receiver of a mailbox without asking anything of it
	Poke
	// AppQuit asks the application to shut down
	AppQuit
	// StdinString carries a line read from standard input as a managed string
	StdinString
	// SchedulerStop asks the scheduler mailbox loop to exit
	SchedulerStop
	// DemoMsgA is reserved for examples and tests
	DemoMsgA
	// DemoMsgB is reserved for examples and tests
	DemoMsgB
	// DemoMsgC is reserved for examples and tests
	DemoMsgC
	// MsgMax bounds the valid message kinds
	MsgMax
)

var messageTypeNames = [...]string{
	MsgNull:       "MSG_NULL",
	Poke:          "POKE",
	AppQuit:       "APP_QUIT",
	StdinString:   "STDIN_STRING",
	SchedulerStop: "SCHEDULER_STOP",
	DemoMsgA:      "DEMO_MSG_A",
	DemoMsgB:      "DEMO_MSG_B",
	DemoMsgC:      "DEMO_MSG_C",
	MsgMax:        "MSG_MAX",
}

// String returns the name of the message kind
func (t MessageType) String() string {
	if int(t) < len(messageTypeNames) {
		return messageTypeNames[t]
	}
	return fmt.Sprintf("MessageType(%d)", uint32(t))
}

// MessageFlag holds the flag bits of a message
type MessageFlag uint32

const (
	// FlagsNull means no flag is set
	FlagsNull MessageFlag = 0
	// FlagManaged marks a message whose payload is owned by the queue carrying it
	FlagManaged MessageFlag = 1 << 0
)

// Message is an immutable triple of kind, flags and a 64-bit payload.
// For a managed message the payload holds the type identity of the managed value,
// which the message system releases right after the message is dispatched.
type Message struct {
	Type    MessageType
	Flags   MessageFlag
	Payload uint64

	managed any
}

// HasManagedPayload returns true when the message carries a managed payload
func (m Message) HasManagedPayload() bool {
	return m.Flags&FlagManaged != 0
}

// Integer is the set of scalar types a message payload can carry by value
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// TrivialPayload reads the payload of m as T
func TrivialPayload[T Integer](m Message) T {
	return T(m.Payload)
}

// ManagedPayload returns the managed value carried by m. It fails when m has no
// managed payload or when the payload is not a T.
func ManagedPayload[T any](m Message) (T, error) {
	var zero T
	if !m.HasManagedPayload() || m.managed == nil {
		return zero, gerrors.NewErrTypeMismatch(types.NameOf[T](), "unmanaged payload")
	}
	if types.Identity(m.Payload) != types.Of[T]() {
		return zero, fmt.Errorf("want=(%s) got=(%s) %w", types.NameOf[T](), types.Name(reflect.TypeOf(m.managed)), gerrors.ErrPayloadMismatch)
	}
	value, ok := m.managed.(T)
	if !ok {
		return zero, fmt.Errorf("want=(%s) got=(%T) %w", types.NameOf[T](), m.managed, gerrors.ErrPayloadMismatch)
	}
	return value, nil
}

// releasePayload frees a managed value once it has been dispatched
func releasePayload(value any) {
	switch closer := value.(type) {
	case io.Closer:
		_ = closer.Close()
	case interface{ Close() }:
		closer.Close()
	}
}
