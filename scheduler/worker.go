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
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
	"github.com/mgukowsky/Omulator-sub000/fault"
	"github.com/mgukowsky/Omulator-sub000/log"
)

// Job is a unit of work run by a worker
type Job func()

type entry struct {
	job      Job
	priority Priority
}

// Worker runs the jobs of its own priority queue on a dedicated goroutine.
// Jobs of equal priority run in insertion order.
type Worker struct {
	id          int
	mu          sync.Mutex
	jobs        []entry
	wake        chan struct{}
	done        chan struct{}
	stopping    *atomic.Bool
	executed    *atomic.Uint64
	waitTimeout time.Duration
	peers       func() []*Worker
	faults      *fault.Handler
	logger      log.Logger
}

func newWorker(id int, waitTimeout time.Duration, peers func() []*Worker, faults *fault.Handler, logger log.Logger) *Worker {
	return &Worker{
		id:          id,
		wake:        make(chan struct{}, 1),
		done:        make(chan struct{}),
		stopping:    atomic.NewBool(false),
		executed:    atomic.NewUint64(0),
		waitTimeout: waitTimeout,
		peers:       peers,
		faults:      faults,
		logger:      logger,
	}
}

// ID returns the position of the worker within its pool
func (w *Worker) ID() int {
	return w.id
}

// NumJobs returns the number of jobs waiting to run
func (w *Worker) NumJobs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.jobs)
}

// Executed returns the number of jobs run so far
func (w *Worker) Executed() uint64 {
	return w.executed.Load()
}

// AddJob queues job ahead of every job of lower priority.
// Jobs with PriorityIgnore are never queued.
func (w *Worker) AddJob(job Job, priority Priority) bool {
	if job == nil || priority == PriorityIgnore || w.stopping.Load() {
		return false
	}

	w.mu.Lock()
	pos := len(w.jobs)
	for i, queued := range w.jobs {
		if queued.priority < priority {
			pos = i
			break
		}
	}
	w.jobs = append(w.jobs, entry{})
	copy(w.jobs[pos+1:], w.jobs[pos:])
	w.jobs[pos] = entry{job: job, priority: priority}
	w.mu.Unlock()

	w.signal()
	return true
}

// StealJob removes the job this worker would run next
func (w *Worker) StealJob() (Job, bool) {
	e, ok := w.pop()
	return e.job, ok
}

// Stop makes the worker exit once the job it is running, if any, completes.
// Queued jobs are dropped.
func (w *Worker) Stop() {
	if w.stopping.CompareAndSwap(false, true) {
		w.signal()
	}
	<-w.done

	w.mu.Lock()
	dropped := len(w.jobs)
	w.jobs = nil
	w.mu.Unlock()
	if dropped > 0 {
		w.logger.Debugf("Worker %d stopped with %d queued job(s) dropped", w.id, dropped)
	}
}

func (w *Worker) start() {
	go w.run()
}

func (w *Worker) run() {
	defer close(w.done)

	timer := time.NewTimer(w.waitTimeout)
	defer timer.Stop()

	for !w.stopping.Load() {
		if e, ok := w.pop(); ok {
			w.execute(e.job)
			continue
		}

		timer.Reset(w.waitTimeout)
		select {
		case <-w.wake:
		case <-timer.C:
			// no notification within the timeout, look for work elsewhere
			if job, ok := w.steal(); ok && !w.stopping.Load() {
				w.execute(job)
			}
		}
	}
}

func (w *Worker) execute(job Job) {
	defer func() {
		if r := recover(); r != nil {
			var err error
			switch v := r.(type) {
			case error:
				err = v
			default:
				err = fmt.Errorf("%v", v)
			}
			perr := gerrors.NewPanicError(err)
			w.logger.Errorf("Worker %d job failed: %v", w.id, perr)
			w.faults.Handle(perr)
		}
		w.executed.Inc()
	}()
	job()
}

func (w *Worker) peek() (Priority, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.jobs) == 0 {
		return PriorityIgnore, false
	}
	return w.jobs[0].priority, true
}

func (w *Worker) pop() (entry, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.jobs) == 0 {
		return entry{}, false
	}
	e := w.jobs[0]
	w.jobs[0] = entry{}
	w.jobs = w.jobs[1:]
	return e, true
}

// steal takes the highest priority job at the front of a peer's queue.
// The job may be gone by the time it is taken, in which case nothing runs.
func (w *Worker) steal() (Job, bool) {
	var (
		victim  *Worker
		highest = PriorityIgnore
	)
	for _, peer := range w.peers() {
		if peer == w {
			continue
		}
		priority, ok := peer.peek()
		if !ok {
			continue
		}
		if priority == PriorityMax {
			victim = peer
			break
		}
		if priority > highest {
			victim, highest = peer, priority
		}
	}
	if victim == nil {
		return nil, false
	}
	return victim.StealJob()
}

func (w *Worker) signal() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}
