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
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
}

type otherStruct struct {
}

func TestIdentity(t *testing.T) {
	t.Run("With pointer and value sharing identity", func(t *testing.T) {
		assert.Equal(t, Of[testStruct](), Of[*testStruct]())
		assert.NotEqual(t, Of[*testStruct](), Of[**testStruct]())
	})
	t.Run("With distinct types", func(t *testing.T) {
		assert.NotEqual(t, Of[testStruct](), Of[otherStruct]())
		assert.NotEqual(t, Of[io.Reader](), Of[io.Writer]())
		assert.NotEqual(t, Of[int32](), Of[uint32]())
	})
	t.Run("With same named local types", func(t *testing.T) {
		first := func() reflect.Type {
			type local struct{ a int }
			return reflect.TypeOf(local{})
		}()
		second := func() reflect.Type {
			type local struct{ b string }
			return reflect.TypeOf(local{})
		}()
		require.Equal(t, Name(first), Name(second))
		assert.NotEqual(t, Hash(first), Hash(second))
		assert.Equal(t, Hash(first), Hash(reflect.PointerTo(first)))
		assert.Equal(t, Hash(second), Hash(reflect.PointerTo(second)))
	})
	t.Run("With stable hash", func(t *testing.T) {
		first := Hash(reflect.TypeOf(testStruct{}))
		second := Hash(reflect.TypeOf(&testStruct{}))
		require.Equal(t, first, second)
		require.Equal(t, first.Uint32(), Of32[testStruct]())
	})
}

func TestName(t *testing.T) {
	assert.Equal(t, "github.com/mgukowsky/Omulator-sub000/internal/types.testStruct", NameOf[*testStruct]())
	assert.Equal(t, "io.Reader", NameOf[io.Reader]())
	assert.Equal(t, "[]int", NameOf[[]int]())
	assert.Equal(t, "int", NameOf[int]())
	assert.Equal(t, "<nil>", Name(nil))
	assert.Equal(t, reflect.TypeOf(testStruct{}), Deref(reflect.TypeOf(&testStruct{})))
}
