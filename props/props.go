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

package props

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"sync"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
	"github.com/mgukowsky/Omulator-sub000/log"
)

// Well-known keys
const (
	// Headless disables the window when true
	Headless = "sys.headless"
	// Interactive accepts commands on stdin when true
	Interactive = "sys.interactive"
	// VKDebug turns on Vulkan debugging and validation when true
	VKDebug = "sys.vkdebug"
)

const (
	// NotFound is the variant of a key absent from the map
	NotFound = "NOT_FOUND"
	// InvalidTag is the variant of an entry whose tag is not known
	InvalidTag = "INVALID_TAG"
)

// Tag identifies the type of a property
type Tag uint8

const (
	TagInvalid Tag = iota
	TagS64
	TagU64
	TagBool
	TagDouble
	TagString
)

// String returns the name of the tag
func (t Tag) String() string {
	switch t {
	case TagS64:
		return "int64"
	case TagU64:
		return "uint64"
	case TagBool:
		return "bool"
	case TagDouble:
		return "float64"
	case TagString:
		return "string"
	default:
		return InvalidTag
	}
}

// Value lists the types a property can hold
type Value interface {
	int64 | uint64 | bool | float64 | string
}

// TagOf returns the tag of T
func TagOf[T Value]() Tag {
	var zero T
	switch any(zero).(type) {
	case int64:
		return TagS64
	case uint64:
		return TagU64
	case bool:
		return TagBool
	case float64:
		return TagDouble
	case string:
		return TagString
	}
	return TagInvalid
}

// Prop holds the value of a property. It is safe for concurrent use.
type Prop[T Value] struct {
	mu  sync.RWMutex
	val T
}

// Get returns a copy of the value
func (p *Prop[T]) Get() T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.val
}

// Set sets the value
func (p *Prop[T]) Set(val T) {
	p.mu.Lock()
	p.val = val
	p.mu.Unlock()
}

type entry struct {
	tag  Tag
	prop any
}

// PropertyMap maps string keys to typed properties. The type of a property is fixed by
// the first access to its key. PropertyMap is safe for concurrent use.
type PropertyMap struct {
	mu      sync.Mutex
	entries map[string]*entry
	logger  log.Logger
}

// New creates an empty PropertyMap
func New(logger log.Logger) *PropertyMap {
	if logger == nil {
		logger = log.DiscardLogger
	}
	return &PropertyMap{
		entries: make(map[string]*entry),
		logger:  logger,
	}
}

// Get returns the property stored under key, creating it with the zero value of T when
// the key is absent. Callers should hold on to the returned Prop rather than calling
// Get repeatedly.
func Get[T Value](pm *PropertyMap, key string) (*Prop[T], error) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return getLocked[T](pm, key)
}

// MustGet is like Get but panics on a type mismatch
func MustGet[T Value](pm *PropertyMap, key string) *Prop[T] {
	prop, err := Get[T](pm, key)
	if err != nil {
		panic(err)
	}
	return prop
}

// Query returns the value stored under key without creating the entry
func Query[T Value](pm *PropertyMap, key string) (T, bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	var zero T
	e, ok := pm.entries[key]
	if !ok || e.tag != TagOf[T]() {
		return zero, false
	}
	return e.prop.(*Prop[T]).Get(), true
}

// Lookup returns the tag of the entry stored under key
func (pm *PropertyMap) Lookup(key string) (Tag, bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	e, ok := pm.entries[key]
	if !ok {
		return TagInvalid, false
	}
	return e.tag, true
}

// GetVariant returns the value stored under key formatted as a string. It returns
// NotFound when the key is absent and does not create the entry.
func (pm *PropertyMap) GetVariant(key string) string {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	e, ok := pm.entries[key]
	if !ok {
		return NotFound
	}
	switch prop := e.prop.(type) {
	case *Prop[int64]:
		return strconv.FormatInt(prop.Get(), 10)
	case *Prop[uint64]:
		return strconv.FormatUint(prop.Get(), 10)
	case *Prop[bool]:
		return strconv.FormatBool(prop.Get())
	case *Prop[float64]:
		return strconv.FormatFloat(prop.Get(), 'g', -1, 64)
	case *Prop[string]:
		return prop.Get()
	default:
		pm.logger.Errorf("Invalid tag for property '%s'", key)
		return InvalidTag
	}
}

// SetVariant parses value into the type of the entry stored under key. A value that
// cannot be parsed resets the property to its zero value and returns the parse error.
// An absent key is stored as a string.
func (pm *PropertyMap) SetVariant(key, value string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	e, ok := pm.entries[key]
	if !ok {
		prop, _ := getLocked[string](pm, key)
		prop.Set(value)
		return nil
	}

	var err error
	switch prop := e.prop.(type) {
	case *Prop[int64]:
		err = parseInto(prop, value, func(s string) (int64, error) { return strconv.ParseInt(s, 0, 64) })
	case *Prop[uint64]:
		err = parseInto(prop, value, func(s string) (uint64, error) { return strconv.ParseUint(s, 0, 64) })
	case *Prop[bool]:
		err = parseInto(prop, value, strconv.ParseBool)
	case *Prop[float64]:
		err = parseInto(prop, value, func(s string) (float64, error) { return strconv.ParseFloat(s, 64) })
	case *Prop[string]:
		prop.Set(value)
	default:
		pm.logger.Errorf("Failed to set existing property '%s' due to invalid type", key)
		return gerrors.NewErrPropTypeMismatch(key, TagString.String(), e.tag.String())
	}
	if err != nil {
		pm.logger.Warnf("Failed to parse '%s' for property '%s': %v", value, key, err)
		return fmt.Errorf("property %s: %w", key, err)
	}
	return nil
}

// Keys returns the keys of the map in lexical order
func (pm *PropertyMap) Keys() []string {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return slices.Sorted(maps.Keys(pm.entries))
}

// Len returns the number of entries
func (pm *PropertyMap) Len() int {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return len(pm.entries)
}

func getLocked[T Value](pm *PropertyMap, key string) (*Prop[T], error) {
	tag := TagOf[T]()
	e, ok := pm.entries[key]
	if !ok {
		e = &entry{tag: tag, prop: new(Prop[T])}
		pm.entries[key] = e
	}
	if e.tag != tag {
		return nil, gerrors.NewErrPropTypeMismatch(key, tag.String(), e.tag.String())
	}
	return e.prop.(*Prop[T]), nil
}

func parseInto[T Value](prop *Prop[T], value string, parse func(string) (T, error)) error {
	parsed, err := parse(value)
	if err != nil {
		var zero T
		prop.Set(zero)
		return err
	}
	prop.Set(parsed)
	return nil
}
