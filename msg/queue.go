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
	"reflect"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
	"github.com/mgukowsky/Omulator-sub000/internal/types"
	"github.com/mgukowsky/Omulator-sub000/log"
)

// Storage is the pooled backing array of a Queue
type Storage struct {
	id         string
	factory    *Factory
	messages   []Message
	nulls      int
	pumped     bool
	checkedOut *atomic.Bool
}

func newStorage(factory *Factory, capacity int) *Storage {
	return &Storage{
		id:         uuid.NewString(),
		factory:    factory,
		messages:   make([]Message, 0, capacity),
		checkedOut: atomic.NewBool(false),
	}
}

// ID returns the unique id of the storage
func (s *Storage) ID() string {
	return s.id
}

// Queue is an append-only sequence of messages with a one-way sealed state.
// A Queue is written by a single goroutine until it is sealed, and then consumed
// exactly once by a single goroutine.
type Queue struct {
	storage *Storage
	logger  log.Logger
	sealed  bool
}

// NewQueue creates a Queue that does not belong to any factory
func NewQueue(logger log.Logger) *Queue {
	return newQueue(newStorage(nil, defaultQueueCapacity), logger)
}

func newQueue(storage *Storage, logger log.Logger) *Queue {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &Queue{
		storage: storage,
		logger:  logger,
	}
}

// Push appends a message with no payload
func (q *Queue) Push(mtype MessageType) {
	q.push(Message{Type: mtype})
}

// PushPayload appends a message carrying a raw payload. Managed payloads must go
// through PushManaged.
func (q *Queue) PushPayload(mtype MessageType, flags MessageFlag, payload uint64) {
	if flags&FlagManaged != 0 {
		q.logger.Errorf("Could not push message of type %d with a raw managed payload; dropping message", mtype)
		return
	}
	q.push(Message{Type: mtype, Flags: flags, Payload: payload})
}

// PushManaged appends a message owning value. The value is released right after the
// message is dispatched, or when the queue is cleared.
func (q *Queue) PushManaged(mtype MessageType, value any) error {
	if !q.Valid() {
		q.logger.Errorf("Could not push message of type %d on an invalid MessageQueue", mtype)
		releasePayload(value)
		return gerrors.ErrInvalidQueue
	}
	if q.sealed {
		q.logger.Errorf("Could not push message because MessageQueue has already been sealed (type: %d); dropping message", mtype)
		releasePayload(value)
		return gerrors.ErrQueueSealed
	}
	q.storage.messages = append(q.storage.messages, Message{
		Type:    mtype,
		Flags:   FlagManaged,
		Payload: uint64(types.Hash(reflect.TypeOf(value))),
		managed: value,
	})
	return nil
}

// PushTrivial appends a message carrying an integer payload by value
func PushTrivial[T Integer](q *Queue, mtype MessageType, payload T) {
	q.PushPayload(mtype, FlagsNull, uint64(payload))
}

func (q *Queue) push(m Message) {
	if !q.Valid() {
		q.logger.Errorf("Could not push message of type %d on an invalid MessageQueue", m.Type)
		return
	}
	if q.sealed {
		q.logger.Errorf("Could not push message because MessageQueue has already been sealed (type: %d; payload: %d); dropping message", m.Type, m.Payload)
		return
	}
	q.storage.messages = append(q.storage.messages, m)
}

// Seal makes the queue read-only. It is idempotent.
func (q *Queue) Seal() {
	q.sealed = true
}

// Sealed returns true once the queue has been sealed
func (q *Queue) Sealed() bool {
	return q.sealed
}

// Valid returns false once the queue has given its storage away
func (q *Queue) Valid() bool {
	return q != nil && q.storage != nil
}

// Pump calls fn once per message in insertion order. The queue must be sealed and
// is consumed by the first Pump; later calls log an error and process nothing.
// MsgNull messages are counted and skipped; messages of an unknown kind are dropped.
// A managed payload is released right after fn returns.
func (q *Queue) Pump(fn func(Message)) {
	if !q.Valid() {
		q.logger.Error("Attempted to pump an invalid MessageQueue")
		return
	}
	if !q.sealed {
		q.logger.Error("Attempted to pump a MessageQueue that has not been sealed; no messages will be processed")
		return
	}
	if q.storage.pumped {
		q.logger.Error("Attempted to pump a MessageQueue that has already been consumed; no messages will be processed")
		return
	}
	q.storage.pumped = true

	messages := q.storage.messages
	for i := range messages {
		m := messages[i]
		switch {
		case m.Type == MsgNull:
			q.storage.nulls++
		case m.Type > MsgMax:
			q.logger.Errorf("Message with type %d exceeding MSG_MAX detected; this message will be dropped", m.Type)
		default:
			fn(m)
		}
		if m.managed != nil {
			releasePayload(m.managed)
			messages[i].managed = nil
		}
	}
}

// Clear releases every managed payload still held and seals the queue
func (q *Queue) Clear() {
	if !q.Valid() {
		return
	}
	for i := range q.storage.messages {
		if managed := q.storage.messages[i].managed; managed != nil {
			releasePayload(managed)
			q.storage.messages[i].managed = nil
		}
	}
	q.sealed = true
}

// Reset empties the queue while keeping its capacity, and unseals it
func (q *Queue) Reset() {
	if !q.Valid() {
		return
	}
	for _, m := range q.storage.messages {
		if m.managed != nil {
			q.logger.Warnf("Unfreed managed payload of type %d found while resetting a MessageQueue", m.Type)
		}
	}
	q.Clear()
	clear(q.storage.messages)
	q.storage.messages = q.storage.messages[:0]
	q.storage.nulls = 0
	q.storage.pumped = false
	q.sealed = false
}

// Release hands the storage over to the caller and invalidates the queue
func (q *Queue) Release() *Storage {
	storage := q.storage
	q.MarkInvalid()
	return storage
}

// MarkInvalid detaches the queue from its storage
func (q *Queue) MarkInvalid() {
	q.storage = nil
}

// NullCount returns the number of MsgNull messages seen by Pump
func (q *Queue) NullCount() int {
	if !q.Valid() {
		return 0
	}
	return q.storage.nulls
}

// Len returns the number of messages held, MsgNull included
func (q *Queue) Len() int {
	if !q.Valid() {
		return 0
	}
	return len(q.storage.messages)
}
