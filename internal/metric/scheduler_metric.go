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

package metric

import "go.opentelemetry.io/otel/metric"

// SchedulerMetric groups the instruments describing the load of the job scheduler.
//
// Instruments:
//   - scheduler.worker.jobs.queued   (Int64ObservableGauge, per worker)
//   - scheduler.worker.jobs.executed (Int64ObservableCounter, per worker)
//   - scheduler.jobs.deferred        (Int64ObservableGauge)
type SchedulerMetric struct {
	queuedJobs   metric.Int64ObservableGauge
	executedJobs metric.Int64ObservableCounter
	deferredJobs metric.Int64ObservableGauge
}

// NewSchedulerMetric creates the scheduler instruments using the provided Meter.
// It returns an error if any instrument cannot be created.
func NewSchedulerMetric(meter metric.Meter) (*SchedulerMetric, error) {
	var instruments SchedulerMetric
	var err error

	if instruments.queuedJobs, err = meter.Int64ObservableGauge(
		"scheduler.worker.jobs.queued",
		metric.WithDescription("Number of jobs waiting in the queue of a worker"),
	); err != nil {
		return nil, err
	}

	if instruments.executedJobs, err = meter.Int64ObservableCounter(
		"scheduler.worker.jobs.executed",
		metric.WithDescription("Total number of jobs run by a worker"),
	); err != nil {
		return nil, err
	}

	if instruments.deferredJobs, err = meter.Int64ObservableGauge(
		"scheduler.jobs.deferred",
		metric.WithDescription("Number of deferred jobs waiting for their trigger"),
	); err != nil {
		return nil, err
	}

	return &instruments, nil
}

// QueuedJobs returns the per worker queue depth gauge
func (x *SchedulerMetric) QueuedJobs() metric.Int64ObservableGauge {
	return x.queuedJobs
}

// ExecutedJobs returns the per worker executed jobs counter
func (x *SchedulerMetric) ExecutedJobs() metric.Int64ObservableCounter {
	return x.executedJobs
}

// DeferredJobs returns the deferred jobs gauge
func (x *SchedulerMetric) DeferredJobs() metric.Int64ObservableGauge {
	return x.deferredJobs
}
