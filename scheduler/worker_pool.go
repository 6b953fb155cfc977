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
	"sync"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
	"github.com/mgukowsky/Omulator-sub000/log"
)

// WorkerStats is a snapshot of the state of a worker
type WorkerStats struct {
	ID       int
	NumJobs  int
	Executed uint64
}

// WorkerPool balances jobs over a fixed set of workers
type WorkerPool struct {
	mu      sync.Mutex
	workers []*Worker
	stopped bool
	logger  log.Logger
}

// NewWorkerPool creates and starts a WorkerPool
func NewWorkerPool(opts ...Option) *WorkerPool {
	config := newConfig(opts...)
	pool := &WorkerPool{
		workers: make([]*Worker, config.numWorkers),
		logger:  config.logger,
	}
	peers := func() []*Worker { return pool.workers }
	for i := range pool.workers {
		pool.workers[i] = newWorker(i, config.waitTimeout, peers, config.faults, config.logger)
	}
	for _, worker := range pool.workers {
		worker.start()
	}
	return pool
}

// AddJob queues job on the first idle worker, or else on the worker with the
// fewest queued jobs. Ties go to the worker with the lowest index.
func (p *WorkerPool) AddJob(job Job, priority Priority) error {
	if job == nil || priority == PriorityIgnore {
		return gerrors.ErrInvalidPriority
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return gerrors.ErrSchedulerStopped
	}

	target := p.workers[0]
	fewest := target.NumJobs()
	for _, worker := range p.workers[1:] {
		if fewest == 0 {
			break
		}
		if n := worker.NumJobs(); n < fewest {
			target, fewest = worker, n
		}
	}
	target.AddJob(job, priority)
	return nil
}

// Stats returns a snapshot of every worker
func (p *WorkerPool) Stats() []WorkerStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	stats := make([]WorkerStats, len(p.workers))
	for i, worker := range p.workers {
		stats[i] = WorkerStats{
			ID:       worker.ID(),
			NumJobs:  worker.NumJobs(),
			Executed: worker.Executed(),
		}
	}
	return stats
}

// Size returns the number of workers
func (p *WorkerPool) Size() int {
	return len(p.workers)
}

// Stop stops every worker. Running jobs complete; queued jobs are dropped.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.mu.Unlock()

	var wg sync.WaitGroup
	for _, worker := range p.workers {
		wg.Add(1)
		go func(worker *Worker) {
			defer wg.Done()
			worker.Stop()
		}(worker)
	}
	wg.Wait()
}
