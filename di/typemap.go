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

package di

import (
	"io"
	"reflect"
	"slices"
	"sync"

	"go.uber.org/multierr"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
	"github.com/mgukowsky/Omulator-sub000/internal/types"
)

// container wraps exactly one instance of a given type
type container struct {
	id    types.Identity
	rtype reflect.Type
	value any
	owned bool
}

// TypeMap is a heterogeneous store holding at most one instance per type identity.
// Owned instances are released in the reverse order of their insertion when the
// TypeMap is closed; external instances are never released.
type TypeMap struct {
	mu      sync.RWMutex
	entries map[types.Identity]*container
	order   []*container
}

// NewTypeMap creates an empty TypeMap
func NewTypeMap() *TypeMap {
	return &TypeMap{
		entries: make(map[types.Identity]*container),
	}
}

// Emplace stores value as the instance of T. The TypeMap owns it from now on.
func Emplace[T any](m *TypeMap, value T) error {
	return m.emplace(reflect.TypeFor[T](), value, true)
}

// EmplaceExternal stores value as the instance of T without taking ownership of it.
func EmplaceExternal[T any](m *TypeMap, value T) error {
	return m.emplace(reflect.TypeFor[T](), value, false)
}

// Ref returns the instance of T. The stored instance must have been emplaced as
// exactly T; anything else is a type mismatch.
func Ref[T any](m *TypeMap) (T, error) {
	var zero T
	rtype := reflect.TypeFor[T]()
	c, ok := m.lookup(types.Hash(rtype))
	if !ok {
		return zero, gerrors.NewErrInstanceNotFound(types.Name(rtype))
	}
	if c.rtype != rtype {
		return zero, gerrors.NewErrTypeMismatch(rtype.String(), c.rtype.String())
	}
	value, _ := c.value.(T)
	return value, nil
}

// Has returns true when the TypeMap holds an instance with the identity of T
func Has[T any](m *TypeMap) bool {
	_, ok := m.lookup(types.Of[T]())
	return ok
}

// Erase removes the instance of T without releasing it
func Erase[T any](m *TypeMap) bool {
	id := types.Of[T]()
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.entries[id]
	if !ok {
		return false
	}
	delete(m.entries, id)
	m.order = slices.DeleteFunc(m.order, func(x *container) bool { return x == c })
	return true
}

// Len returns the number of instances held
func (m *TypeMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close empties the TypeMap and releases owned instances, newest first.
// An instance is released when it implements io.Closer or has a Close method.
func (m *TypeMap) Close() error {
	m.mu.Lock()
	order := m.order
	m.order = nil
	m.entries = make(map[types.Identity]*container)
	m.mu.Unlock()

	var err error
	// the same pointer can be held under an interface and its implementation
	released := make(map[any]struct{}, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		c := order[i]
		if !c.owned || c.value == nil {
			continue
		}
		if reflect.TypeOf(c.value).Kind() == reflect.Pointer {
			if _, ok := released[c.value]; ok {
				continue
			}
			released[c.value] = struct{}{}
		}
		err = multierr.Append(err, release(c.value))
	}
	return err
}

func (m *TypeMap) emplace(rtype reflect.Type, value any, owned bool) error {
	id := types.Hash(rtype)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[id]; ok {
		return gerrors.NewErrAlreadyEmplaced(types.Name(rtype))
	}
	c := &container{
		id:    id,
		rtype: rtype,
		value: value,
		owned: owned,
	}
	m.entries[id] = c
	m.order = append(m.order, c)
	return nil
}

func (m *TypeMap) lookup(id types.Identity) (*container, bool) {
	m.mu.RLock()
	c, ok := m.entries[id]
	m.mu.RUnlock()
	return c, ok
}

func release(value any) error {
	switch closer := value.(type) {
	case io.Closer:
		return closer.Close()
	case interface{ Close() }:
		closer.Close()
	}
	return nil
}
