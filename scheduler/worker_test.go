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

package scheduler

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/goleak"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
	"github.com/mgukowsky/Omulator-sub000/fault"
	"github.com/mgukowsky/Omulator-sub000/log"
)

type recordingIO struct {
	mu     sync.Mutex
	alerts []string
}

func (r *recordingIO) LogMsg(string)    {}
func (r *recordingIO) AlertInfo(string) {}
func (r *recordingIO) AlertErr(msg string) {
	r.mu.Lock()
	r.alerts = append(r.alerts, msg)
	r.mu.Unlock()
}

func (r *recordingIO) Alerts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.alerts...)
}

func idleWorker(id int, peers func() []*Worker) *Worker {
	return newWorker(id, DefaultWaitTimeout, peers, fault.Default(), log.DiscardLogger)
}

func TestWorker(t *testing.T) {
	t.Run("With jobs ordered by priority", func(t *testing.T) {
		worker := idleWorker(0, func() []*Worker { return nil })

		var order []string
		record := func(name string) Job { return func() { order = append(order, name) } }

		require.True(t, worker.AddJob(record("normal-1"), PriorityNormal))
		require.True(t, worker.AddJob(record("low"), PriorityLow))
		require.True(t, worker.AddJob(record("max"), PriorityMax))
		require.True(t, worker.AddJob(record("normal-2"), PriorityNormal))
		require.True(t, worker.AddJob(record("min"), PriorityMin))
		require.True(t, worker.AddJob(record("high"), PriorityHigh))
		assert.Equal(t, 6, worker.NumJobs())

		for {
			e, ok := worker.pop()
			if !ok {
				break
			}
			e.job()
		}
		assert.Equal(t, []string{"max", "high", "normal-1", "normal-2", "low", "min"}, order)
		assert.Zero(t, worker.NumJobs())
	})
	t.Run("With ignored jobs", func(t *testing.T) {
		worker := idleWorker(0, func() []*Worker { return nil })
		assert.False(t, worker.AddJob(func() {}, PriorityIgnore))
		assert.False(t, worker.AddJob(nil, PriorityNormal))
		assert.Zero(t, worker.NumJobs())
	})
	t.Run("With a job stolen by a peer", func(t *testing.T) {
		var workers []*Worker
		peers := func() []*Worker { return workers }
		workers = []*Worker{idleWorker(0, peers), idleWorker(1, peers), idleWorker(2, peers)}

		var ran string
		workers[0].AddJob(func() { ran = "low" }, PriorityLow)
		workers[1].AddJob(func() { ran = "high" }, PriorityHigh)
		workers[1].AddJob(func() { ran = "normal" }, PriorityNormal)

		job, ok := workers[2].steal()
		require.True(t, ok)
		job()
		assert.Equal(t, "high", ran)
		assert.Equal(t, 1, workers[0].NumJobs())
		assert.Equal(t, 1, workers[1].NumJobs())

		job, ok = workers[2].steal()
		require.True(t, ok)
		job()
		assert.Equal(t, "normal", ran)

		_, ok = workers[0].steal()
		assert.False(t, ok)
	})
	t.Run("With an idle worker stealing from a busy one", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		var workers []*Worker
		peers := func() []*Worker { return workers }
		busy := idleWorker(0, peers)
		thief := newWorker(1, time.Millisecond, peers, fault.Default(), log.DiscardLogger)
		workers = []*Worker{busy, thief}
		thief.start()

		stolen := atomic.NewBool(false)
		require.True(t, busy.AddJob(func() { stolen.Store(true) }, PriorityNormal))
		require.Eventually(t, stolen.Load, time.Second, time.Millisecond)
		assert.EqualValues(t, 1, thief.Executed())
		assert.Zero(t, busy.NumJobs())

		thief.Stop()
	})
	t.Run("With a panicking job", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		io := &recordingIO{}
		codes := make(chan int, 1)
		handler := fault.NewHandler(
			fault.WithPrimitiveIO(io),
			fault.WithExitFunc(func(code int) { codes <- code }),
		)
		pool := NewWorkerPool(WithNumWorkers(1), WithFaultHandler(handler))

		require.NoError(t, pool.AddJob(func() { panic("job exploded") }, PriorityNormal))
		select {
		case code := <-codes:
			assert.Equal(t, fault.ExitFailure, code)
		case <-time.After(time.Second):
			require.Fail(t, "the fault handler was not called")
		}

		alerts := io.Alerts()
		require.Len(t, alerts, 1)
		assert.True(t, strings.Contains(alerts[0], "job exploded"))

		// the worker survives the panic
		done := make(chan struct{})
		require.NoError(t, pool.AddJob(func() { close(done) }, PriorityNormal))
		<-done
		pool.Stop()
		assert.EqualValues(t, 2, pool.Stats()[0].Executed)
	})
	t.Run("With queued jobs dropped on stop", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		pool := NewWorkerPool(WithNumWorkers(1))

		release := make(chan struct{})
		started := make(chan struct{})
		require.NoError(t, pool.AddJob(func() {
			close(started)
			<-release
		}, PriorityNormal))
		<-started

		dropped := atomic.NewBool(false)
		require.NoError(t, pool.AddJob(func() { dropped.Store(true) }, PriorityNormal))

		stopped := make(chan struct{})
		go func() {
			pool.Stop()
			close(stopped)
		}()

		// Stop waits for the running job
		require.Eventually(t, func() bool { return pool.workers[0].stopping.Load() }, time.Second, time.Millisecond)
		close(release)
		<-stopped

		assert.False(t, dropped.Load())
		assert.ErrorIs(t, pool.AddJob(func() {}, PriorityNormal), gerrors.ErrSchedulerStopped)
	})
}

func TestWorkerPool(t *testing.T) {
	t.Run("With invalid jobs", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		pool := NewWorkerPool(WithNumWorkers(1))
		defer pool.Stop()

		assert.ErrorIs(t, pool.AddJob(func() {}, PriorityIgnore), gerrors.ErrInvalidPriority)
		assert.ErrorIs(t, pool.AddJob(nil, PriorityNormal), gerrors.ErrInvalidPriority)
	})
	t.Run("With jobs balanced over the workers", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		pool := NewWorkerPool(WithNumWorkers(4), WithWaitTimeout(10*time.Millisecond))
		require.Equal(t, 4, pool.Size())

		// occupy every worker
		release := make(chan struct{})
		running := atomic.NewInt32(0)
		for range 4 {
			require.NoError(t, pool.AddJob(func() {
				running.Inc()
				<-release
			}, PriorityNormal))
		}
		require.Eventually(t, func() bool { return running.Load() == 4 }, 2*time.Second, time.Millisecond)

		for range 4 {
			require.NoError(t, pool.AddJob(func() {}, PriorityNormal))
		}
		require.NoError(t, pool.AddJob(func() {}, PriorityHigh))

		var queued []int
		for _, stats := range pool.Stats() {
			queued = append(queued, stats.NumJobs)
		}
		assert.Equal(t, []int{2, 1, 1, 1}, queued)

		close(release)
		require.Eventually(t, func() bool {
			var executed uint64
			for _, stats := range pool.Stats() {
				executed += stats.Executed
			}
			return executed == 9
		}, 2*time.Second, time.Millisecond)
		pool.Stop()
	})
	t.Run("With concurrent submissions", func(t *testing.T) {
		defer goleak.VerifyNone(t)
		pool := NewWorkerPool(WithNumWorkers(3))

		const total = 300
		ran := atomic.NewInt32(0)
		var wg sync.WaitGroup
		for range 3 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range total / 3 {
					_ = pool.AddJob(func() { ran.Inc() }, PriorityNormal)
				}
			}()
		}
		wg.Wait()
		require.Eventually(t, func() bool { return ran.Load() == total }, 2*time.Second, time.Millisecond)
		pool.Stop()
	})
}
