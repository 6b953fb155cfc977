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

package types

import (
	"reflect"
	"strconv"
	"sync"

	"github.com/zeebo/xxh3"
)

// Identity is the stable key of a type. Two types share an Identity when they
// differ only by one level of pointer indirection: *Foo and Foo are the same
// identity while **Foo is not.
//
// Types declared inside functions can share a qualified name. The first one hashed
// keeps the name; the others get a numbered suffix, so their identities only hold
// within the running process.
type Identity uint64

var (
	identities sync.Map

	mu     sync.Mutex
	owners = map[string]reflect.Type{}
)

// Hash returns the Identity of the given type
func Hash(rtype reflect.Type) Identity {
	if rtype == nil {
		return Identity(xxh3.HashString(Name(nil)))
	}
	base := Deref(rtype)
	if cached, ok := identities.Load(base); ok {
		return cached.(Identity)
	}

	mu.Lock()
	defer mu.Unlock()
	if cached, ok := identities.Load(base); ok {
		return cached.(Identity)
	}
	key := Name(rtype)
	for n := 2; ; n++ {
		owner, taken := owners[key]
		if !taken || owner == base {
			break
		}
		key = Name(rtype) + "#" + strconv.Itoa(n)
	}
	owners[key] = base
	id := Identity(xxh3.HashString(key))
	identities.Store(base, id)
	return id
}

// Of returns the Identity of T
func Of[T any]() Identity {
	return Hash(reflect.TypeFor[T]())
}

// Of32 returns the 32-bit projection of the Identity of T
func Of32[T any]() uint32 {
	return Of[T]().Uint32()
}

// Uint32 folds the identity into 32 bits
func (id Identity) Uint32() uint32 {
	return uint32(id) ^ uint32(id>>32)
}

// Name returns the fully qualified name of the given type once
// a single pointer level is stripped.
func Name(rtype reflect.Type) string {
	if rtype == nil {
		return "<nil>"
	}
	if rtype.Kind() == reflect.Pointer {
		rtype = rtype.Elem()
	}
	if rtype.Name() != "" && rtype.PkgPath() != "" {
		return rtype.PkgPath() + "." + rtype.Name()
	}
	return rtype.String()
}

// NameOf returns the fully qualified name of T
func NameOf[T any]() string {
	return Name(reflect.TypeFor[T]())
}

// Deref strips a single pointer level from the given type
func Deref(rtype reflect.Type) reflect.Type {
	if rtype.Kind() == reflect.Pointer {
		return rtype.Elem()
	}
	return rtype
}
