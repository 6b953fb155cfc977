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
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	quartzjob "github.com/reugn/go-quartz/job"
	quartzlogger "github.com/reugn/go-quartz/logger"
	"github.com/reugn/go-quartz/quartz"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	gerrors "github.com/mgukowsky/Omulator-sub000/errors"
	ometric "github.com/mgukowsky/Omulator-sub000/internal/metric"
	"github.com/mgukowsky/Omulator-sub000/internal/xsync"
	"github.com/mgukowsky/Omulator-sub000/log"
	"github.com/mgukowsky/Omulator-sub000/mailbox"
	"github.com/mgukowsky/Omulator-sub000/msg"
	"github.com/mgukowsky/Omulator-sub000/subsystem"
)

const stopTimeout = 5 * time.Second

// Periodicity tells whether a deferred job runs once or repeatedly
type Periodicity int

const (
	// Once runs the job a single time after its delay
	Once Periodicity = iota
	// Periodic runs the job every delay until it is cancelled
	Periodic
)

// JobHandle identifies a deferred job
type JobHandle string

// Scheduler runs jobs on a pool of workers, either right away or once a delay has
// elapsed. It owns a mailbox processed on its own goroutine; a SchedulerStop
// message ends that loop.
type Scheduler struct {
	mu           sync.Mutex
	pool         *WorkerPool
	subsystem    *subsystem.Subsystem
	quartz       quartz.Scheduler
	deferred     *xsync.Map[JobHandle, *quartz.JobKey]
	started      *atomic.Bool
	stopped      *atomic.Bool
	registration metric.Registration
	logger       log.Logger
}

// New creates a Scheduler and claims its mailbox
func New(router *mailbox.Router, opts ...Option) (*Scheduler, error) {
	cfg := newConfig(opts...)

	// create an instance of quartz scheduler with logger off
	quartzScheduler, err := quartz.NewStdScheduler(quartz.WithLogger(quartzlogger.NewSimpleLogger(nil, quartzlogger.LevelOff)))
	if err != nil {
		return nil, err
	}

	s := &Scheduler{
		quartz:   quartzScheduler,
		deferred: xsync.NewMap[JobHandle, *quartz.JobKey](),
		started:  atomic.NewBool(false),
		stopped:  atomic.NewBool(false),
		logger:   cfg.logger,
	}

	s.subsystem, err = subsystem.New(router, "scheduler",
		subsystem.HandlerFunc(s.messageProc),
		subsystem.WithMailboxID(mailbox.MailboxIDOf[Scheduler]()),
		subsystem.WithLogger(cfg.logger),
		subsystem.WithFaultHandler(cfg.faults),
	)
	if err != nil {
		return nil, err
	}

	s.pool = NewWorkerPool(opts...)
	if err := s.registerMetrics(cfg); err != nil {
		return nil, multierr.Append(err, s.Stop(context.Background()))
	}
	return s, nil
}

// Start starts the deferred job trigger and the mailbox loop
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped.Load() {
		return
	}
	s.logger.Info("starting scheduler...")
	s.quartz.Start(ctx)
	s.started.Store(s.quartz.IsStarted())
	s.subsystem.Start()
	s.logger.Info("scheduler started.:)")
}

// AddJob runs job on the least loaded worker
func (s *Scheduler) AddJob(job Job, priority Priority) error {
	return s.pool.AddJob(job, priority)
}

// AddJobDeferred hands job to the workers once delay has elapsed, and then every delay
// when periodicity is Periodic.
func (s *Scheduler) AddJobDeferred(job Job, delay time.Duration, periodicity Periodicity, priority Priority) (JobHandle, error) {
	if job == nil || priority == PriorityIgnore {
		return "", gerrors.ErrInvalidPriority
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started.Load() {
		return "", gerrors.ErrSchedulerNotStarted
	}

	handle := JobHandle(uuid.NewString())
	trigger := quartz.Trigger(quartz.NewRunOnceTrigger(delay))
	if periodicity == Periodic {
		trigger = quartz.NewSimpleTrigger(delay)
	}

	deferred := quartzjob.NewFunctionJob[bool](
		func(context.Context) (bool, error) {
			if periodicity == Once {
				s.deferred.Delete(handle)
			}
			if err := s.pool.AddJob(job, priority); err != nil {
				return false, err
			}
			return true, nil
		},
	)

	key := quartz.NewJobKey(string(handle))
	s.deferred.Set(handle, key)
	if err := s.quartz.ScheduleJob(quartz.NewJobDetail(deferred, key), trigger); err != nil {
		s.deferred.Delete(handle)
		return "", err
	}
	return handle, nil
}

// CancelJob cancels a deferred job. A job handed to a worker already is not affected.
func (s *Scheduler) CancelJob(handle JobHandle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.deferred.Get(handle)
	if !ok {
		return gerrors.NewErrJobNotFound(string(handle))
	}
	s.deferred.Delete(handle)
	if err := s.quartz.DeleteJob(key); err != nil {
		return multierr.Append(gerrors.NewErrJobNotFound(string(handle)), err)
	}
	return nil
}

// NumDeferred returns the number of deferred jobs waiting for their trigger
func (s *Scheduler) NumDeferred() int {
	return s.deferred.Len()
}

// Stats returns a snapshot of every worker
func (s *Scheduler) Stats() []WorkerStats {
	return s.pool.Stats()
}

// NumWorkers returns the number of workers
func (s *Scheduler) NumWorkers() int {
	return s.pool.Size()
}

// MailboxID returns the id of the mailbox owned by the scheduler
func (s *Scheduler) MailboxID() mailbox.MailboxID {
	return s.subsystem.MailboxID()
}

// Done is closed once the mailbox loop has ended
func (s *Scheduler) Done() <-chan struct{} {
	return s.subsystem.Done()
}

// Stop cancels every deferred job, ends the mailbox loop and stops the workers.
// Running jobs complete; queued jobs are dropped.
func (s *Scheduler) Stop(ctx context.Context) error {
	if !s.stopped.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Info("stopping scheduler...")

	s.mu.Lock()
	if s.started.Load() {
		_ = s.quartz.Clear()
		s.quartz.Stop()
		s.started.Store(false)

		waitCtx, cancel := context.WithTimeout(ctx, stopTimeout)
		s.quartz.Wait(waitCtx)
		cancel()
	}
	s.deferred.Reset()
	s.mu.Unlock()

	err := s.subsystem.Stop(ctx)
	if s.pool != nil {
		s.pool.Stop()
	}
	if s.registration != nil {
		err = multierr.Append(err, s.registration.Unregister())
	}

	s.logger.Info("scheduler stopped...:)")
	return err
}

// Close stops the scheduler within the default stop timeout
func (s *Scheduler) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return s.Stop(ctx)
}

func (s *Scheduler) messageProc(sub *subsystem.Subsystem, m msg.Message) {
	switch m.Type {
	case msg.SchedulerStop:
		sub.RequestStop()
	default:
		subsystem.BaseMessageProc{}.MessageProc(sub, m)
	}
}

func (s *Scheduler) registerMetrics(cfg *config) error {
	meter := ometric.NewProvider(cfg.meterProvider).Meter()
	instruments, err := ometric.NewSchedulerMetric(meter)
	if err != nil {
		return err
	}

	s.registration, err = meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		s.observe(instruments, observer)
		return nil
	}, instruments.QueuedJobs(), instruments.ExecutedJobs(), instruments.DeferredJobs())
	return err
}

func (s *Scheduler) observe(instruments *ometric.SchedulerMetric, observer metric.Observer) {
	for _, stats := range s.pool.Stats() {
		attrs := metric.WithAttributes(attribute.Int("worker", stats.ID))
		observer.ObserveInt64(instruments.QueuedJobs(), int64(stats.NumJobs), attrs)
		observer.ObserveInt64(instruments.ExecutedJobs(), int64(stats.Executed), attrs)
	}
	observer.ObserveInt64(instruments.DeferredJobs(), int64(s.deferred.Len()))
}
