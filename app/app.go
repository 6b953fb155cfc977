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

// Package app wires the whole program together: the injector and its rules,
// the property map, the root System, the Scheduler and the App mailbox.
package app

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/atomic"
	"go.uber.org/multierr"

	"github.com/mgukowsky/Omulator-sub000/cliinput"
	"github.com/mgukowsky/Omulator-sub000/component"
	"github.com/mgukowsky/Omulator-sub000/config"
	"github.com/mgukowsky/Omulator-sub000/di"
	"github.com/mgukowsky/Omulator-sub000/di/rules"
	"github.com/mgukowsky/Omulator-sub000/fault"
	"github.com/mgukowsky/Omulator-sub000/internal/clock"
	ometric "github.com/mgukowsky/Omulator-sub000/internal/metric"
	"github.com/mgukowsky/Omulator-sub000/log"
	"github.com/mgukowsky/Omulator-sub000/mailbox"
	"github.com/mgukowsky/Omulator-sub000/msg"
	"github.com/mgukowsky/Omulator-sub000/props"
	"github.com/mgukowsky/Omulator-sub000/scheduler"
	"github.com/mgukowsky/Omulator-sub000/subsystem"
)

// MailboxName is the name of the mailbox owned by the App
const MailboxName = cliinput.DefaultTarget

const defaultStopTimeout = 5 * time.Second

// App is the main loop of the program. Everything it holds is built by its injector
// and lives until Stop.
type App struct {
	config    *config.Config
	injector  *di.Injector
	logger    *log.Zap
	props     *props.PropertyMap
	system    *component.System
	scheduler *scheduler.Scheduler
	router    *mailbox.Router
	factory   *msg.Factory
	mailbox   *subsystem.Subsystem
	clock     clock.Clock

	input        io.ReadCloser
	stepInterval time.Duration
	stepHandle   scheduler.JobHandle
	registration metric.Registration

	quit     chan struct{}
	quitOnce sync.Once
	stopOnce sync.Once
	stopErr  error
	running  *atomic.Bool
}

// New builds an App from cfg
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{
		config:  cfg,
		quit:    make(chan struct{}),
		running: atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt.Apply(a)
	}

	a.injector = di.New()
	rules.InstallMinimalRules(a.injector, cfg)
	if err := rules.InstallDefaultRules(a.injector); err != nil {
		return nil, err
	}
	if a.clock != nil {
		clk := a.clock
		di.AddRecipe(a.injector, func(*di.Injector) (clock.Clock, error) {
			return clk, nil
		})
	}
	if a.input != nil {
		input := a.input
		di.AddRecipe(a.injector, func(view *di.Injector) (*cliinput.CLIInput, error) {
			router, err := di.Get[*mailbox.Router](view)
			if err != nil {
				return nil, err
			}
			return cliinput.New(router, input, cliinput.WithLogger(a.logger)), nil
		})
	}

	if err := a.resolve(); err != nil {
		return nil, multierr.Append(err, a.injector.Close())
	}
	a.logger.Infof("Created the application with %d worker(s)", a.scheduler.NumWorkers())
	return a, nil
}

// Props returns the property map of the App
func (a *App) Props() *props.PropertyMap {
	return a.props
}

// System returns the root System
func (a *App) System() *component.System {
	return a.system
}

// Scheduler returns the Scheduler
func (a *App) Scheduler() *scheduler.Scheduler {
	return a.scheduler
}

// Router returns the mailbox router
func (a *App) Router() *mailbox.Router {
	return a.router
}

// Logger returns the logger of the App
func (a *App) Logger() log.Logger {
	return a.logger
}

// Running returns true while Run is in its main loop
func (a *App) Running() bool {
	return a.running.Load()
}

// Quit asks the App to leave its main loop by sending it an AppQuit message
func (a *App) Quit() {
	a.router.GetMailbox(a.mailbox.MailboxID()).SendSingle(msg.AppQuit)
}

// Run starts every subsystem and blocks until the App is asked to quit or ctx is
// done. It stops the App before returning.
func (a *App) Run(ctx context.Context) error {
	a.scheduler.Start(ctx)
	if err := a.system.Start(ctx); err != nil {
		return multierr.Append(err, a.stop())
	}

	if interactive, ok := props.Query[bool](a.props, props.Interactive); ok && interactive {
		if _, err := di.Get[*cliinput.CLIInput](a.injector); err != nil {
			return multierr.Append(err, a.stop())
		}
		a.logger.Info("Accepting commands on stdin")
	}

	if a.stepInterval > 0 {
		stepper := newStepper(a.clock, a.system, a.stepInterval, a.logger)
		handle, err := a.scheduler.AddJobDeferred(func() { stepper.tick() }, a.stepInterval, scheduler.Periodic, scheduler.PriorityHigh)
		if err != nil {
			return multierr.Append(err, a.stop())
		}
		a.stepHandle = handle
	}

	a.running.Store(true)
	a.logger.Info("Entering main loop")
	select {
	case <-a.quit:
		a.logger.Info("Leaving main loop")
	case <-ctx.Done():
		a.logger.Infof("Leaving main loop: %v", ctx.Err())
	}
	a.running.Store(false)
	return a.stop()
}

// Stop stops the App and releases everything it holds. It is idempotent.
func (a *App) Stop(ctx context.Context) error {
	a.stopOnce.Do(func() {
		a.requestQuit()
		a.stopErr = a.shutdown(ctx)
	})
	return a.stopErr
}

// MessageProc processes the messages of the App mailbox
func (a *App) MessageProc(s *subsystem.Subsystem, m msg.Message) {
	switch m.Type {
	case msg.StdinString:
		line, err := msg.ManagedPayload[string](m)
		if err != nil {
			a.logger.Errorf("Failed to read input: %v", err)
			return
		}
		a.logger.Infof("Received input: %s", line)
		switch strings.ToLower(line) {
		case "quit", "exit":
			s.Sender().SendSingle(msg.AppQuit)
		}
	case msg.AppQuit:
		a.logger.Info("Quit requested")
		a.requestQuit()
		s.RequestStop()
	default:
		subsystem.BaseMessageProc{}.MessageProc(s, m)
	}
}

func (a *App) stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultStopTimeout)
	defer cancel()
	return a.Stop(ctx)
}

func (a *App) requestQuit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

func (a *App) shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down the application")
	var err error
	if a.stepHandle != "" {
		_ = a.scheduler.CancelJob(a.stepHandle)
	}
	err = multierr.Append(err, a.system.Stop(ctx))
	err = multierr.Append(err, a.scheduler.Stop(ctx))
	if a.registration != nil {
		err = multierr.Append(err, a.registration.Unregister())
	}
	// stops the input reader, then the router and the factory
	err = multierr.Append(err, a.injector.Close())
	if err != nil {
		a.logger.Errorf("Failed to shut down cleanly: %v", err)
	}
	return multierr.Append(err, a.logger.Flush())
}

func (a *App) resolve() error {
	var err error
	if a.logger, err = di.Get[*log.Zap](a.injector); err != nil {
		return err
	}
	if a.props, err = di.Get[*props.PropertyMap](a.injector); err != nil {
		return err
	}
	if a.factory, err = di.Get[*msg.Factory](a.injector); err != nil {
		return err
	}
	if a.router, err = di.Get[*mailbox.Router](a.injector); err != nil {
		return err
	}
	if a.scheduler, err = di.Get[*scheduler.Scheduler](a.injector); err != nil {
		return err
	}
	if a.system, err = di.Get[*component.System](a.injector); err != nil {
		return err
	}
	if a.clock, err = di.Get[clock.Clock](a.injector); err != nil {
		return err
	}
	faults, err := di.Get[*fault.Handler](a.injector)
	if err != nil {
		return err
	}

	a.mailbox, err = subsystem.New(a.router, MailboxName, a,
		subsystem.WithLogger(a.logger),
		subsystem.WithFaultHandler(faults),
		subsystem.WithInitMaxRetries(a.config.SubsystemInitRetries),
	)
	if err != nil {
		return err
	}
	a.system.AddSubsystem(a.mailbox)
	if err := a.registerMetrics(); err != nil {
		return multierr.Append(err, a.mailbox.Stop(context.Background()))
	}
	return nil
}

func (a *App) registerMetrics() error {
	meter := ometric.NewProvider(a.config.MeterProvider).Meter()
	instruments, err := ometric.NewMessagingMetric(meter)
	if err != nil {
		return err
	}
	a.registration, err = meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		observeMessaging(instruments, a.factory.Stats(), observer)
		return nil
	}, instruments.HandedOut(), instruments.Returned(), instruments.Pooled())
	return err
}

func observeMessaging(instruments *ometric.MessagingMetric, stats msg.FactoryStats, observer metric.Observer) {
	observer.ObserveInt64(instruments.HandedOut(), int64(stats.HandedOut))
	observer.ObserveInt64(instruments.Returned(), int64(stats.Returned))
	observer.ObserveInt64(instruments.Pooled(), int64(stats.Pooled))
}
