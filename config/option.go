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

package config

import (
	"io"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/mgukowsky/Omulator-sub000/log"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of a config.
	Apply(config *Config)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(*Config)

// Apply applies the options to Config
func (f OptionFunc) Apply(c *Config) {
	f(c)
}

// WithLogLevel sets the log level
func WithLogLevel(level log.Level) Option {
	return OptionFunc(func(config *Config) {
		config.LogLevel = level
	})
}

// WithLogOutput sets where log entries are written
func WithLogOutput(output io.Writer) Option {
	return OptionFunc(func(config *Config) {
		config.LogOutput = output
	})
}

// WithHeadless sets the headless property
func WithHeadless(headless bool) Option {
	return OptionFunc(func(config *Config) {
		config.Headless = headless
	})
}

// WithInteractive sets the interactive property
func WithInteractive(interactive bool) Option {
	return OptionFunc(func(config *Config) {
		config.Interactive = interactive
	})
}

// WithVKDebug sets the vkdebug property
func WithVKDebug(debug bool) Option {
	return OptionFunc(func(config *Config) {
		config.VKDebug = debug
	})
}

// WithNumWorkers sets the number of workers of the scheduler
func WithNumWorkers(n int) Option {
	return OptionFunc(func(config *Config) {
		config.NumWorkers = n
	})
}

// WithWorkerWaitTimeout sets how long an idle worker waits before looking for work
func WithWorkerWaitTimeout(timeout time.Duration) Option {
	return OptionFunc(func(config *Config) {
		config.WorkerWaitTimeout = timeout
	})
}

// WithSubsystemInitRetries sets the maximum of retries of a failing subsystem initialization
func WithSubsystemInitRetries(retries int) Option {
	return OptionFunc(func(config *Config) {
		config.SubsystemInitRetries = retries
	})
}

// WithMeterProvider sets the provider the metrics are registered on
func WithMeterProvider(provider metric.MeterProvider) Option {
	return OptionFunc(func(config *Config) {
		config.MeterProvider = provider
	})
}
