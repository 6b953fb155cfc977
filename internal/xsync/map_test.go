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

package xsync

import (
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Run("With set and get", func(t *testing.T) {
		m := NewMap[string, int]()
		_, replaced := m.Set("a", 1)
		assert.False(t, replaced)
		prev, replaced := m.Set("a", 2)
		assert.True(t, replaced)
		assert.Equal(t, 1, prev)

		v, ok := m.Get("a")
		require.True(t, ok)
		assert.Equal(t, 2, v)
		assert.Equal(t, 1, m.Len())

		m.Delete("a")
		_, ok = m.Get("a")
		assert.False(t, ok)
	})
	t.Run("With GetOrSet creating once", func(t *testing.T) {
		m := NewMap[int, *int]()
		calls := 0
		var mu sync.Mutex
		var wg sync.WaitGroup
		for range 16 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.GetOrSet(7, func() *int {
					mu.Lock()
					calls++
					mu.Unlock()
					return new(int)
				})
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, calls)

		_, loaded := m.GetOrSet(7, func() *int { return nil })
		assert.True(t, loaded)
	})
	t.Run("With range values and reset", func(t *testing.T) {
		m := NewMap[string, int]()
		m.Set("a", 1)
		m.Set("b", 2)
		values := m.Values()
		sort.Ints(values)
		assert.Equal(t, []int{1, 2}, values)

		sum := 0
		m.Range(func(_ string, v int) { sum += v })
		assert.Equal(t, 3, sum)

		m.Reset()
		assert.Zero(t, m.Len())
	})
}
