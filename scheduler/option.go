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
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/mgukowsky/Omulator-sub000/fault"
	"github.com/mgukowsky/Omulator-sub000/log"
)

// DefaultWaitTimeout is how long an idle worker sleeps before it looks for work on its peers
const DefaultWaitTimeout = 10 * time.Millisecond

type config struct {
	numWorkers    int
	waitTimeout   time.Duration
	faults        *fault.Handler
	logger        log.Logger
	meterProvider metric.MeterProvider
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		numWorkers:  runtime.NumCPU(),
		waitTimeout: DefaultWaitTimeout,
		faults:      fault.Default(),
		logger:      log.DiscardLogger,
	}
	for _, opt := range opts {
		opt.Apply(cfg)
	}
	return cfg
}

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(cfg *config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(cfg *config)

// Apply applies the options to config
func (f OptionFunc) Apply(cfg *config) {
	f(cfg)
}

// WithNumWorkers sets the number of workers
func WithNumWorkers(n int) Option {
	return OptionFunc(func(cfg *config) {
		if n > 0 {
			cfg.numWorkers = n
		}
	})
}

// WithWaitTimeout sets how long an idle worker waits before trying to steal work
func WithWaitTimeout(timeout time.Duration) Option {
	return OptionFunc(func(cfg *config) {
		if timeout > 0 {
			cfg.waitTimeout = timeout
		}
	})
}

// WithFaultHandler sets the handler receiving panics escaping jobs
func WithFaultHandler(handler *fault.Handler) Option {
	return OptionFunc(func(cfg *config) {
		if handler != nil {
			cfg.faults = handler
		}
	})
}

// WithLogger sets the logger
func WithLogger(logger log.Logger) Option {
	return OptionFunc(func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}

// WithMeterProvider sets the provider the scheduler instruments are registered on
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(cfg *config) {
		cfg.meterProvider = provider
	})
}
