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

package app

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	"github.com/mgukowsky/Omulator-sub000/component"
	"github.com/mgukowsky/Omulator-sub000/config"
	"github.com/mgukowsky/Omulator-sub000/internal/clock"
	ometric "github.com/mgukowsky/Omulator-sub000/internal/metric"
	"github.com/mgukowsky/Omulator-sub000/log"
	"github.com/mgukowsky/Omulator-sub000/msg"
	"github.com/mgukowsky/Omulator-sub000/props"
)

type syncBuffer struct {
	mu     sync.Mutex
	buffer bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buffer.String()
}

type ticker struct {
	component.Base
	steps *atomic.Uint64
}

func (t *ticker) Step(cycles uint64) uint64 {
	t.steps.Add(cycles)
	return cycles
}

type fakeObserver struct {
	metric.Observer
	observed []int64
}

func (o *fakeObserver) ObserveInt64(_ metric.Int64Observable, value int64, _ ...metric.ObserveOption) {
	o.observed = append(o.observed, value)
}

func newTestConfig(output io.Writer, opts ...config.Option) *config.Config {
	opts = append([]config.Option{
		config.WithLogOutput(output),
		config.WithLogLevel(log.DebugLevel),
		config.WithNumWorkers(2),
		config.WithMeterProvider(noop.NewMeterProvider()),
	}, opts...)
	return config.New(opts...)
}

func TestApp(t *testing.T) {
	t.Run("With quit typed on the input", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		output := new(syncBuffer)
		cfg := newTestConfig(output, config.WithInteractive(true), config.WithHeadless(true))

		app, err := New(cfg, WithInput(io.NopCloser(strings.NewReader("hello\n  QUIT \n"))))
		require.NoError(t, err)

		headless, ok := props.Query[bool](app.Props(), props.Headless)
		require.True(t, ok)
		assert.True(t, headless)

		require.NoError(t, app.Run(context.Background()))
		assert.False(t, app.Running())

		logs := output.String()
		assert.Contains(t, logs, "Received input: hello")
		assert.Contains(t, logs, "Quit requested")
		assert.Contains(t, logs, "Creating subsystem: "+MailboxName)
	})
	t.Run("With a cancelled context", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		app, err := New(newTestConfig(io.Discard))
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- app.Run(ctx) }()

		require.Eventually(t, app.Running, time.Second, time.Millisecond)
		cancel()
		require.NoError(t, <-done)
		// stopping again is a no-op
		require.NoError(t, app.Stop(context.Background()))
	})
	t.Run("With Quit", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		app, err := New(newTestConfig(io.Discard))
		require.NoError(t, err)

		done := make(chan error, 1)
		go func() { done <- app.Run(context.Background()) }()

		require.Eventually(t, app.Running, time.Second, time.Millisecond)
		app.Quit()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			require.Fail(t, "the application did not quit")
		}
	})
	t.Run("With the system stepped periodically", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		app, err := New(newTestConfig(io.Discard), WithStepInterval(5*time.Millisecond))
		require.NoError(t, err)

		steps := atomic.NewUint64(0)
		app.System().AddComponent(&ticker{Base: component.NewBase(app.Logger(), "ticker"), steps: steps})

		done := make(chan error, 1)
		go func() { done <- app.Run(context.Background()) }()

		require.Eventually(t, func() bool { return steps.Load() >= 3 }, 2*time.Second, time.Millisecond)
		app.Quit()
		require.NoError(t, <-done)
	})
	t.Run("With stepping paced by the clock", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		clk := clock.NewManual(time.Now())
		app, err := New(newTestConfig(io.Discard), WithStepInterval(5*time.Millisecond), WithClock(clk))
		require.NoError(t, err)

		steps := atomic.NewUint64(0)
		app.System().AddComponent(&ticker{Base: component.NewBase(app.Logger(), "ticker"), steps: steps})

		done := make(chan error, 1)
		go func() { done <- app.Run(context.Background()) }()

		time.Sleep(30 * time.Millisecond)
		assert.Zero(t, steps.Load())

		clk.Advance(15 * time.Millisecond)
		require.Eventually(t, func() bool { return steps.Load() == 3 }, 2*time.Second, time.Millisecond)
		app.Quit()
		require.NoError(t, <-done)
		assert.EqualValues(t, 3, steps.Load())
	})
	t.Run("With a stop before run", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		app, err := New(newTestConfig(io.Discard))
		require.NoError(t, err)
		require.NoError(t, app.Stop(context.Background()))
	})
	t.Run("With an invalid configuration", func(t *testing.T) {
		app, err := New(newTestConfig(io.Discard, config.WithNumWorkers(0)))
		require.ErrorIs(t, err, config.ErrInvalidNumWorkers)
		assert.Nil(t, app)
	})
}

func TestObserveMessaging(t *testing.T) {
	instruments, err := ometric.NewMessagingMetric(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	observer := &fakeObserver{}
	observeMessaging(instruments, msg.FactoryStats{HandedOut: 5, Returned: 3, Pooled: 2}, observer)
	assert.Equal(t, []int64{5, 3, 2}, observer.observed)
}
