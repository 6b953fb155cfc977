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

package component

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/mgukowsky/Omulator-sub000/log"
	"github.com/mgukowsky/Omulator-sub000/mailbox"
	"github.com/mgukowsky/Omulator-sub000/msg"
	"github.com/mgukowsky/Omulator-sub000/subsystem"
)

type recorder struct {
	Base
	cycles uint64
	steps  *[]string
}

func (r *recorder) Step(cycles uint64) uint64 {
	r.cycles += cycles
	*r.steps = append(*r.steps, r.Name())
	return cycles
}

type frozen struct {
	Base
	stepped bool
}

func (f *frozen) CanStep() bool { return false }

func (f *frozen) Step(uint64) uint64 {
	f.stepped = true
	return 0
}

type fakeSubsystem struct {
	name    string
	started *atomic.Bool
	err     error
}

func (f *fakeSubsystem) Name() string { return f.name }
func (f *fakeSubsystem) Start()       { f.started.Store(true) }
func (f *fakeSubsystem) Stop(context.Context) error {
	f.started.Store(false)
	return f.err
}

func TestBase(t *testing.T) {
	buffer := new(bytes.Buffer)
	logger := log.NewZap(log.InfoLevel, buffer)

	base := NewBase(logger, "cpu")
	require.NoError(t, logger.Flush())

	assert.Equal(t, "cpu", base.Name())
	assert.True(t, base.CanStep())
	assert.Zero(t, base.Step(10))
	assert.Contains(t, buffer.String(), "Creating component: cpu")
}

func TestSystem(t *testing.T) {
	t.Run("With components stepped in order", func(t *testing.T) {
		var steps []string
		a := &recorder{Base: NewBase(log.DiscardLogger, "A"), steps: &steps}
		b := &recorder{Base: NewBase(log.DiscardLogger, "B"), steps: &steps}
		c := &frozen{Base: NewBase(log.DiscardLogger, "C")}

		system := NewSystem(log.DiscardLogger, "testsystem")
		system.AddComponent(a)
		system.AddComponent(c)
		system.AddComponent(b)
		require.Len(t, system.Components(), 3)

		assert.EqualValues(t, 3, system.Step(3))
		assert.EqualValues(t, 3, a.cycles)
		assert.EqualValues(t, 3, b.cycles)
		assert.False(t, c.stepped)
		assert.Equal(t, []string{"A", "B", "A", "B", "A", "B"}, steps)
	})
	t.Run("With no cycles", func(t *testing.T) {
		var steps []string
		system := NewSystem(log.DiscardLogger, "testsystem")
		system.AddComponent(&recorder{Base: NewBase(log.DiscardLogger, "A"), steps: &steps})
		assert.Zero(t, system.Step(0))
		assert.Empty(t, steps)
	})
	t.Run("With a nested system", func(t *testing.T) {
		var steps []string
		inner := NewSystem(log.DiscardLogger, "inner")
		inner.AddComponent(&recorder{Base: NewBase(log.DiscardLogger, "A"), steps: &steps})

		outer := NewSystem(log.DiscardLogger, "outer")
		outer.AddComponent(inner)
		assert.EqualValues(t, 2, outer.Step(2))
		assert.Equal(t, []string{"A", "A"}, steps)
	})
	t.Run("With subsystems started and stopped", func(t *testing.T) {
		ctx := context.Background()
		first := &fakeSubsystem{name: "first", started: atomic.NewBool(false)}
		second := &fakeSubsystem{name: "second", started: atomic.NewBool(false)}

		system := NewSystem(log.DiscardLogger, "testsystem")
		system.AddSubsystem(first)
		system.AddSubsystem(second)

		require.NoError(t, system.Start(ctx))
		assert.True(t, first.started.Load())
		assert.True(t, second.started.Load())

		require.NoError(t, system.Stop(ctx))
		assert.False(t, first.started.Load())
		assert.False(t, second.started.Load())
	})
	t.Run("With a subsystem failing to stop", func(t *testing.T) {
		ctx := context.Background()
		failure := errors.New("stuck")
		failing := &fakeSubsystem{name: "failing", started: atomic.NewBool(false), err: failure}
		healthy := &fakeSubsystem{name: "healthy", started: atomic.NewBool(false)}

		system := NewSystem(log.DiscardLogger, "testsystem")
		system.AddSubsystem(failing)
		system.AddSubsystem(healthy)
		require.NoError(t, system.Start(ctx))

		assert.ErrorIs(t, system.Stop(ctx), failure)
		assert.False(t, healthy.started.Load())
	})
	t.Run("With real subsystems", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		ctx := context.Background()
		factory := msg.NewFactory(log.DiscardLogger)
		router := mailbox.NewRouter(factory, log.DiscardLogger)

		var (
			mu    sync.Mutex
			ended []string
		)
		system := NewSystem(log.DiscardLogger, "testsystem")
		for _, name := range []string{"video", "audio"} {
			s, err := subsystem.New(router, name, nil, subsystem.WithOnEnd(func() {
				mu.Lock()
				ended = append(ended, name)
				mu.Unlock()
			}))
			require.NoError(t, err)
			system.AddSubsystem(s)
		}

		require.NoError(t, system.Start(ctx))
		require.NoError(t, system.Stop(ctx))
		assert.ElementsMatch(t, []string{"video", "audio"}, ended)

		require.NoError(t, router.Close())
		require.NoError(t, factory.Close())
	})
}
