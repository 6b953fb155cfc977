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
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
	"github.com/mgukowsky/Omulator-sub000/log"
)

type plain struct {
	value int
}

type greeter interface {
	Greet() string
}

type english struct{}

func (*english) Greet() string { return "hello" }

type cycleA struct{ b *cycleB }
type cycleB struct{ a *cycleA }

type engine struct {
	shared *plain
	owned  plain
}

type teardown struct {
	name  string
	order *[]string
}

func (x *teardown) Close() error {
	*x.order = append(*x.order, x.name)
	return nil
}

type slowDep struct{ id int }

type spawner struct{ dep *slowDep }

type first struct{ *teardown }
type second struct{ *teardown }

func TestGet(t *testing.T) {
	t.Run("With singleton instance", func(t *testing.T) {
		inj := New()
		calls := atomic.NewInt32(0)
		AddRecipe(inj, func(*Injector) (*plain, error) {
			calls.Inc()
			return &plain{value: 42}, nil
		})

		one, err := Get[*plain](inj)
		require.NoError(t, err)
		two, err := Get[*plain](inj)
		require.NoError(t, err)
		assert.Same(t, one, two)
		assert.EqualValues(t, 1, calls.Load())
		assert.Equal(t, 42, one.value)
		assert.True(t, HasInstance[*plain](inj))
	})
	t.Run("With default construction", func(t *testing.T) {
		inj := New()
		p, err := Get[*plain](inj)
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Zero(t, p.value)
	})
	t.Run("With non default constructible type", func(t *testing.T) {
		inj := New()
		_, err := Get[*map[string]int](inj)
		require.ErrorIs(t, err, gerrors.ErrNoRecipe)

		_, err = Get[*func()](inj)
		require.ErrorIs(t, err, gerrors.ErrNoRecipe)
	})
	t.Run("With value type", func(t *testing.T) {
		inj := New()
		_, err := Get[plain](inj)
		require.ErrorIs(t, err, gerrors.ErrInvalidTarget)
	})
	t.Run("With interface and no implementation", func(t *testing.T) {
		inj := New()
		_, err := Get[greeter](inj)
		require.ErrorIs(t, err, gerrors.ErrNoImplementation)
	})
	t.Run("With bound implementation", func(t *testing.T) {
		inj := New()
		BindImpl[greeter, *english](inj)

		g, err := Get[greeter](inj)
		require.NoError(t, err)
		assert.Equal(t, "hello", g.Greet())

		impl, err := Get[*english](inj)
		require.NoError(t, err)
		assert.Same(t, impl, g.(*english))
	})
	t.Run("With injector itself", func(t *testing.T) {
		inj := New()
		self, err := Get[*Injector](inj)
		require.NoError(t, err)
		require.NotNil(t, self)
		assert.True(t, HasInstance[*Injector](inj))
	})
	t.Run("With closed injector", func(t *testing.T) {
		inj := New()
		require.NoError(t, inj.Close())
		require.NoError(t, inj.Close())
		_, err := Get[*plain](inj)
		require.ErrorIs(t, err, gerrors.ErrInjectorClosed)
		_, err = Creat[plain](inj)
		require.ErrorIs(t, err, gerrors.ErrInjectorClosed)
	})
	t.Run("With failing recipe", func(t *testing.T) {
		inj := New()
		boom := errors.New("boom")
		AddRecipe(inj, func(*Injector) (*plain, error) { return nil, boom })
		_, err := Get[*plain](inj)
		require.ErrorIs(t, err, boom)
		assert.False(t, HasInstance[*plain](inj))
	})
}

func TestCycleDetection(t *testing.T) {
	inj := New()
	require.NoError(t, AddCtorRecipe(inj, func(b *cycleB) *cycleA { return &cycleA{b: b} }))
	require.NoError(t, AddCtorRecipe(inj, func(a *cycleA) *cycleB { return &cycleB{a: a} }))

	_, err := Get[*cycleA](inj)
	require.ErrorIs(t, err, gerrors.ErrDependencyCycle)
	require.Contains(t, err.Error(), "cycleA")

	// the failed resolution leaves the injector usable
	p, err := Get[*plain](inj)
	require.NoError(t, err)
	require.NotNil(t, p)

	require.NoError(t, AddCtorRecipe(inj, func() *cycleB { return &cycleB{} }))
	a, err := Get[*cycleA](inj)
	require.NoError(t, err)
	require.NotNil(t, a.b)
}

func TestCreat(t *testing.T) {
	t.Run("With fresh instances", func(t *testing.T) {
		inj := New()
		one, err := Creat[*plain](inj)
		require.NoError(t, err)
		two, err := Creat[*plain](inj)
		require.NoError(t, err)
		assert.NotSame(t, one, two)
		assert.False(t, HasInstance[*plain](inj))
	})
	t.Run("With value built from a pointer recipe", func(t *testing.T) {
		inj := New()
		AddRecipe(inj, func(*Injector) (*plain, error) { return &plain{value: 7}, nil })
		value, err := Creat[plain](inj)
		require.NoError(t, err)
		assert.Equal(t, 7, value.value)
	})
	t.Run("With abstract type", func(t *testing.T) {
		inj := New()
		BindImpl[greeter, *english](inj)
		_, err := Creat[greeter](inj)
		require.ErrorIs(t, err, gerrors.ErrAbstractType)
	})
	t.Run("With child injector", func(t *testing.T) {
		inj := New()
		child, err := Creat[*Injector](inj)
		require.NoError(t, err)
		assert.False(t, child.IsRoot())
		assert.True(t, inj.IsRoot())
	})
}

func TestCtorRecipe(t *testing.T) {
	t.Run("With shared and owned arguments", func(t *testing.T) {
		inj := New()
		AddRecipe(inj, func(*Injector) (*plain, error) { return &plain{value: 3}, nil })
		require.NoError(t, AddCtorRecipe(inj, func(shared *plain, owned plain) *engine {
			return &engine{shared: shared, owned: owned}
		}))

		e, err := Get[*engine](inj)
		require.NoError(t, err)
		shared, err := Get[*plain](inj)
		require.NoError(t, err)
		assert.Same(t, shared, e.shared)
		assert.Equal(t, 3, e.owned.value)
	})
	t.Run("With injector argument", func(t *testing.T) {
		inj := New()
		require.NoError(t, AddCtorRecipe(inj, func(view *Injector) (*engine, error) {
			shared, err := Get[*plain](view)
			if err != nil {
				return nil, err
			}
			return &engine{shared: shared}, nil
		}))
		e, err := Get[*engine](inj)
		require.NoError(t, err)
		require.NotNil(t, e.shared)
	})
	t.Run("With error return", func(t *testing.T) {
		inj := New()
		boom := errors.New("boom")
		require.NoError(t, AddCtorRecipe(inj, func() (*engine, error) { return nil, boom }))
		_, err := Get[*engine](inj)
		require.ErrorIs(t, err, boom)
	})
	t.Run("With invalid constructors", func(t *testing.T) {
		inj := New()
		require.ErrorIs(t, AddCtorRecipe(inj, 42), gerrors.ErrInvalidRecipe)
		require.ErrorIs(t, AddCtorRecipe(inj, func() {}), gerrors.ErrInvalidRecipe)
		require.ErrorIs(t, AddCtorRecipe(inj, func() (*plain, int) { return nil, 0 }), gerrors.ErrInvalidRecipe)
		require.ErrorIs(t, AddCtorRecipe(inj, func(...int) *plain { return nil }), gerrors.ErrInvalidRecipe)
	})
}

func TestRecipeOverride(t *testing.T) {
	buffer := new(bytes.Buffer)
	inj := New(WithLogger(log.NewZap(log.WarningLevel, buffer)))

	AddRecipes(inj,
		NewRecipe(func(*Injector) (*plain, error) { return &plain{value: 1}, nil }),
		NewRecipe(func(*Injector) (*plain, error) { return &plain{value: 2}, nil }),
	)
	assert.Contains(t, buffer.String(), "Overriding an existing recipe")

	p, err := Get[*plain](inj)
	require.NoError(t, err)
	assert.Equal(t, 2, p.value)
}

func TestTeardownOrder(t *testing.T) {
	var order []string
	inj := New()
	AddRecipe(inj, func(*Injector) (*first, error) {
		return &first{&teardown{name: "first", order: &order}}, nil
	})
	AddRecipe(inj, func(view *Injector) (*second, error) {
		if _, err := Get[*first](view); err != nil {
			return nil, err
		}
		return &second{&teardown{name: "second", order: &order}}, nil
	})

	_, err := Get[*second](inj)
	require.NoError(t, err)
	require.NoError(t, inj.Close())
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestChildInjector(t *testing.T) {
	t.Run("With upstream instance", func(t *testing.T) {
		parent := New()
		p, err := Get[*plain](parent)
		require.NoError(t, err)

		child := parent.Child()
		fromChild, err := Get[*plain](child)
		require.NoError(t, err)
		assert.Same(t, p, fromChild)
		assert.False(t, HasInstance[*plain](child))
	})
	t.Run("With upstream recipe managed by the child", func(t *testing.T) {
		parent := New()
		AddRecipe(parent, func(*Injector) (*plain, error) { return &plain{value: 9}, nil })

		child := parent.Child()
		p, err := Get[*plain](child)
		require.NoError(t, err)
		assert.Equal(t, 9, p.value)
		assert.True(t, HasInstance[*plain](child))
		assert.False(t, HasInstance[*plain](parent))
	})
}

func TestConcurrentGet(t *testing.T) {
	inj := New()
	calls := atomic.NewInt32(0)
	require.NoError(t, AddCtorRecipe(inj, func(shared *plain) *engine {
		calls.Inc()
		return &engine{shared: shared}
	}))

	var wg sync.WaitGroup
	results := make([]*engine, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := Get[*engine](inj)
			if err == nil {
				results[i] = e
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls.Load())
	for _, e := range results {
		assert.Same(t, results[0], e)
	}
}

func TestSessionOwnership(t *testing.T) {
	t.Run("With a goroutine resolving through a recipe view", func(t *testing.T) {
		inj := New()
		calls := atomic.NewInt32(0)
		AddRecipe(inj, func(*Injector) (*slowDep, error) {
			time.Sleep(50 * time.Millisecond)
			return &slowDep{id: int(calls.Inc())}, nil
		})

		type outcome struct {
			dep *slowDep
			err error
		}
		background := make(chan outcome, 1)
		AddRecipe(inj, func(view *Injector) (*spawner, error) {
			go func() {
				dep, err := Get[*slowDep](view)
				background <- outcome{dep, err}
			}()
			time.Sleep(20 * time.Millisecond)
			dep, err := Get[*slowDep](view)
			if err != nil {
				return nil, err
			}
			return &spawner{dep: dep}, nil
		})

		s, err := Get[*spawner](inj)
		require.NoError(t, err)

		select {
		case got := <-background:
			require.NoError(t, got.err)
			assert.Same(t, s.dep, got.dep)
		case <-time.After(time.Second):
			t.Fatal("background resolution did not complete")
		}
		assert.EqualValues(t, 1, calls.Load())
	})
	t.Run("With a view used after its call returned", func(t *testing.T) {
		inj := New()
		var kept *Injector
		AddRecipe(inj, func(view *Injector) (*engine, error) {
			kept = view
			return &engine{}, nil
		})
		_, err := Get[*engine](inj)
		require.NoError(t, err)

		p, err := Get[*plain](kept)
		require.NoError(t, err)
		assert.Same(t, MustGet[*plain](inj), p)
	})
}

func TestTypeMap(t *testing.T) {
	t.Run("With typed access", func(t *testing.T) {
		m := NewTypeMap()
		require.NoError(t, Emplace(m, &plain{value: 5}))
		require.ErrorIs(t, Emplace(m, &plain{}), gerrors.ErrAlreadyEmplaced)

		p, err := Ref[*plain](m)
		require.NoError(t, err)
		assert.Equal(t, 5, p.value)
		assert.True(t, Has[plain](m))

		_, err = Ref[plain](m)
		require.ErrorIs(t, err, gerrors.ErrTypeMismatch)

		_, err = Ref[*english](m)
		require.ErrorIs(t, err, gerrors.ErrInstanceNotFound)

		assert.True(t, Erase[*plain](m))
		assert.False(t, Erase[*plain](m))
		assert.Zero(t, m.Len())
	})
	t.Run("With external instances never released", func(t *testing.T) {
		var order []string
		m := NewTypeMap()
		require.NoError(t, EmplaceExternal(m, &first{&teardown{name: "first", order: &order}}))
		require.NoError(t, Emplace(m, &second{&teardown{name: "second", order: &order}}))
		require.NoError(t, m.Close())
		assert.Equal(t, []string{"second"}, order)
		assert.Zero(t, m.Len())
	})
}
