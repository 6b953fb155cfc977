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
	"encoding/binary"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
)

const (
	// BufferSize is the size of the arena of a Buffer, roughly two pages
	BufferSize = 0x2000
	// HeaderSize is the size of the header preceding every record
	HeaderSize = 8
	// MaxMsgSize is the largest payload a single record can hold
	MaxMsgSize = BufferSize - HeaderSize
)

// Header describes a record stored in a Buffer
type Header struct {
	// ID identifies the record; it need not be unique
	ID uint32
	// OffsetNext is the distance from this header to the next one, header included
	OffsetNext uint16

	offset uint16
}

// Offset returns the position of the header relative to the start of its buffer
func (h Header) Offset() uint16 {
	return h.offset
}

// Size returns the size of the payload following the header
func (h Header) Size() int {
	return int(h.OffsetNext) - HeaderSize
}

// Buffer is a fixed-size arena holding a contiguous sequence of variable-length
// records, each one prefixed by a little-endian header laid out as
// {u32 id, u16 offsetNext, u16 reserved}. Buffers are chained through NextBuffer
// and are meant to be pooled and Reset rather than rebuilt.
//
// A Buffer is not safe for concurrent use.
type Buffer struct {
	buff        [BufferSize]byte
	next        *Buffer
	offsetFirst uint16
	offsetLast  uint16
}

// NewBuffer creates an empty Buffer
func NewBuffer() *Buffer {
	return new(Buffer)
}

// Alloc writes a header for a record of size bytes and returns the payload area.
// It returns nil without error when the buffer lacks room: the caller should
// chain a fresh buffer. A size above MaxMsgSize is an error since no buffer can hold it.
func (b *Buffer) Alloc(id uint32, size int) ([]byte, error) {
	if size < 0 || size > MaxMsgSize {
		return nil, gerrors.NewErrRecordTooLarge(size, MaxMsgSize)
	}
	if !b.canAlloc(size) {
		return nil, nil
	}

	start := int(b.offsetLast)
	next := uint16(size + HeaderSize)
	binary.LittleEndian.PutUint32(b.buff[start:], id)
	binary.LittleEndian.PutUint16(b.buff[start+4:], next)
	binary.LittleEndian.PutUint16(b.buff[start+6:], 0)
	b.offsetLast += next

	payload := start + HeaderSize
	return b.buff[payload : payload+size : payload+size], nil
}

// AllocHeader writes a header-only record, used for pure notifications.
// It returns false when the buffer lacks room.
func (b *Buffer) AllocHeader(id uint32) (Header, bool) {
	start := b.offsetLast
	if _, err := b.Alloc(id, 0); err != nil || start == b.offsetLast {
		return Header{}, false
	}
	return b.header(start), true
}

// Empty returns true when the buffer holds no record
func (b *Buffer) Empty() bool {
	return b.offsetLast == 0 && b.offsetFirst == b.offsetLast
}

// Begin returns the first header of the buffer
func (b *Buffer) Begin() (Header, bool) {
	if b.Empty() {
		return Header{}, false
	}
	return b.header(b.offsetFirst), true
}

// Next returns the header following h within the buffer
func (b *Buffer) Next(h Header) (Header, bool) {
	offset := h.offset + h.OffsetNext
	if offset >= b.offsetLast {
		return Header{}, false
	}
	return b.header(offset), true
}

// Data returns the payload of the record described by h
func (b *Buffer) Data(h Header) []byte {
	start := int(h.offset) + HeaderSize
	end := int(h.offset) + int(h.OffsetNext)
	return b.buff[start:end:end]
}

// Each calls fn for every record of the buffer in insertion order
func (b *Buffer) Each(fn func(h Header, data []byte)) {
	for h, ok := b.Begin(); ok; h, ok = b.Next(h) {
		fn(h, b.Data(h))
	}
}

// OffsetFirst returns the offset of the first header
func (b *Buffer) OffsetFirst() uint16 {
	return b.offsetFirst
}

// OffsetLast returns the offset where the next header would be written
func (b *Buffer) OffsetLast() uint16 {
	return b.offsetLast
}

// NextBuffer returns the buffer holding the records that follow this one
func (b *Buffer) NextBuffer() *Buffer {
	return b.next
}

// SetNextBuffer links next after this buffer
func (b *Buffer) SetNextBuffer(next *Buffer) *Buffer {
	b.next = next
	return b.next
}

// Reset returns the buffer to an empty, unlinked state. Whatever the next link
// referenced must already have been given back by the caller.
func (b *Buffer) Reset() {
	b.next = nil
	b.offsetFirst = 0
	b.offsetLast = 0
}

func (b *Buffer) canAlloc(size int) bool {
	return size+HeaderSize <= BufferSize-int(b.offsetLast)
}

func (b *Buffer) header(offset uint16) Header {
	return Header{
		ID:         binary.LittleEndian.Uint32(b.buff[offset:]),
		OffsetNext: binary.LittleEndian.Uint16(b.buff[offset+4:]),
		offset:     offset,
	}
}
