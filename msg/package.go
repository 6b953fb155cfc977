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
	"fmt"

	"github.com/mgukowsky/Omulator-sub000/internal/pool"
	"github.com/mgukowsky/Omulator-sub000/internal/types"
	"github.com/mgukowsky/Omulator-sub000/log"
)

// Package is a chain of pooled Buffers written by a single sender and read by a
// single receiver. Records keep their insertion order across buffer boundaries.
type Package struct {
	pool   *pool.ObjectPool[Buffer]
	logger log.Logger
	head   *Buffer
	tail   *Buffer
}

// NewPackage creates a Package drawing its buffers from the given pool
func NewPackage(buffers *pool.ObjectPool[Buffer], logger log.Logger) *Package {
	if logger == nil {
		logger = log.DiscardLogger
	}
	head := buffers.Get()
	head.Reset()
	return &Package{
		pool:   buffers,
		logger: logger,
		head:   head,
		tail:   head,
	}
}

// AllocData reserves a record of size bytes, chaining a new buffer when the
// current one is full
func (p *Package) AllocData(id uint32, size int) ([]byte, error) {
	data, err := p.tail.Alloc(id, size)
	if err != nil {
		return nil, err
	}
	if data != nil {
		return data, nil
	}

	next := p.pool.Get()
	next.Reset()
	p.tail = p.tail.SetNextBuffer(next)
	return p.tail.Alloc(id, size)
}

// AllocMsg writes a header-only record
func (p *Package) AllocMsg(id uint32) error {
	_, err := p.AllocData(id, 0)
	return err
}

// Empty returns true when no record has been written
func (p *Package) Empty() bool {
	return p.head == nil || p.head.Empty()
}

// Each visits every record in insertion order
func (p *Package) Each(fn func(h Header, data []byte)) {
	for buffer := p.head; buffer != nil; buffer = buffer.NextBuffer() {
		buffer.Each(fn)
	}
}

// ReceiveMsgs dispatches every record to the callback registered for its id.
// Records with no callback are dropped.
func (p *Package) ReceiveMsgs(callbacks map[uint32]func(data []byte)) {
	p.Each(func(h Header, data []byte) {
		callback, ok := callbacks[h.ID]
		if !ok {
			p.logger.Debugf("No callback for record id %d, dropping it", h.ID)
			return
		}
		callback(data)
	})
}

// Close gives every buffer of the chain back to the pool
func (p *Package) Close() error {
	for buffer := p.head; buffer != nil; {
		next := buffer.NextBuffer()
		buffer.Reset()
		if err := p.pool.Put(buffer); err != nil {
			p.logger.Errorf("failed to release message buffer: %v", err)
		}
		buffer = next
	}
	p.head, p.tail = nil, nil
	return nil
}

// PutData writes value as a fixed-size little-endian record keyed by its type
func PutData[T any](p *Package, value T) error {
	size := binary.Size(value)
	if size < 0 {
		return fmt.Errorf("type=(%s) has no fixed size", types.NameOf[T]())
	}
	data, err := p.AllocData(types.Of32[T](), size)
	if err != nil {
		return err
	}
	_, err = binary.Encode(data, binary.LittleEndian, value)
	return err
}

// ReadData decodes a record written by PutData
func ReadData[T any](data []byte) (T, error) {
	var value T
	_, err := binary.Decode(data, binary.LittleEndian, &value)
	return value, err
}

// RecordID returns the record id PutData uses for T
func RecordID[T any]() uint32 {
	return types.Of32[T]()
}
