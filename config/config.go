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
	"errors"
	"io"
	"os"
	"runtime"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/mgukowsky/Omulator-sub000/internal/validation"
	"github.com/mgukowsky/Omulator-sub000/log"
	"github.com/mgukowsky/Omulator-sub000/props"
	"github.com/mgukowsky/Omulator-sub000/scheduler"
	"github.com/mgukowsky/Omulator-sub000/subsystem"
)

var (
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidNumWorkers  = errors.New("the number of workers must be positive")
	ErrInvalidWaitTimeout = errors.New("the worker wait timeout must be positive")
)

// Config represents the application configuration
type Config struct {
	// Specifies the minimum level of the entries written by the logger
	LogLevel log.Level
	// Specifies where log entries are written. The default is stdout
	LogOutput io.Writer
	// Specifies whether the application runs without a window
	Headless bool
	// Specifies whether commands are read from stdin
	Interactive bool
	// Specifies whether Vulkan debugging and validation are on
	VKDebug bool
	// Specifies the number of workers of the scheduler.
	// The default value is the number of CPUs
	NumWorkers int
	// Specifies how long an idle worker waits before looking for work on its peers.
	// The default value is 10ms
	WorkerWaitTimeout time.Duration
	// Specifies the maximum of retries to attempt when a subsystem
	// initialization fails. The default value is 5
	SubsystemInitRetries int
	// Specifies the provider the metrics are registered on.
	// The default is the global provider
	MeterProvider metric.MeterProvider
}

// New creates an instance of Config
func New(options ...Option) *Config {
	config := &Config{
		LogLevel:             log.InfoLevel,
		LogOutput:            os.Stdout,
		NumWorkers:           runtime.NumCPU(),
		WorkerWaitTimeout:    scheduler.DefaultWaitTimeout,
		SubsystemInitRetries: subsystem.DefaultInitMaxRetries,
	}
	// apply the various options
	for _, opt := range options {
		opt.Apply(config)
	}
	return config
}

// Validate checks the configuration
func (c *Config) Validate() error {
	return validation.New().
		AddAssertion(c.LogLevel >= log.InfoLevel && c.LogLevel < log.InvalidLevel, ErrInvalidLogLevel).
		AddAssertion(c.NumWorkers > 0, ErrInvalidNumWorkers).
		AddAssertion(c.WorkerWaitTimeout > 0, ErrInvalidWaitTimeout).
		Validate()
}

// Logger creates the logger described by the configuration
func (c *Config) Logger() *log.Zap {
	output := c.LogOutput
	if output == nil {
		output = os.Stdout
	}
	return log.NewZap(c.LogLevel, output)
}

// ApplyTo seeds the well-known properties
func (c *Config) ApplyTo(pm *props.PropertyMap) error {
	for key, value := range map[string]bool{
		props.Headless:    c.Headless,
		props.Interactive: c.Interactive,
		props.VKDebug:     c.VKDebug,
	} {
		prop, err := props.Get[bool](pm, key)
		if err != nil {
			return err
		}
		prop.Set(value)
	}
	return nil
}
