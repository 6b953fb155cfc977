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

// Package rules holds the recipes the application injector is built from.
// Types that can be default initialized do not need to be listed here.
package rules

import (
	"os"

	"github.com/mgukowsky/Omulator-sub000/cliinput"
	"github.com/mgukowsky/Omulator-sub000/component"
	"github.com/mgukowsky/Omulator-sub000/config"
	"github.com/mgukowsky/Omulator-sub000/di"
	"github.com/mgukowsky/Omulator-sub000/fault"
	"github.com/mgukowsky/Omulator-sub000/internal/clock"
	"github.com/mgukowsky/Omulator-sub000/log"
	"github.com/mgukowsky/Omulator-sub000/mailbox"
	"github.com/mgukowsky/Omulator-sub000/msg"
	"github.com/mgukowsky/Omulator-sub000/props"
	"github.com/mgukowsky/Omulator-sub000/scheduler"
)

// SystemName is the name of the root component.System
const SystemName = "omulator"

// InstallMinimalRules binds what is needed before anything else is built:
// the configuration, the logger and the property map.
func InstallMinimalRules(inj *di.Injector, cfg *config.Config) {
	di.AddRecipe(inj, func(*di.Injector) (*config.Config, error) {
		return cfg, nil
	})
	di.AddRecipe(inj, func(*di.Injector) (*log.Zap, error) {
		return cfg.Logger(), nil
	})
	di.BindImpl[log.Logger, *log.Zap](inj)
	di.AddRecipe(inj, func(view *di.Injector) (*props.PropertyMap, error) {
		logger, err := di.Get[log.Logger](view)
		if err != nil {
			return nil, err
		}
		pm := props.New(logger)
		if err := cfg.ApplyTo(pm); err != nil {
			return nil, err
		}
		return pm, nil
	})
}

// InstallDefaultRules binds the messaging layer, the scheduler and the root system.
// InstallMinimalRules must have been installed first.
func InstallDefaultRules(inj *di.Injector) error {
	di.BindImpl[clock.Clock, *clock.System](inj)
	di.AddRecipe(inj, func(*di.Injector) (*fault.Handler, error) {
		return fault.Default(), nil
	})

	di.AddRecipe(inj, func(view *di.Injector) (*msg.Factory, error) {
		logger, err := di.Get[log.Logger](view)
		if err != nil {
			return nil, err
		}
		return msg.NewFactory(logger), nil
	})
	if err := di.AddCtorRecipe(inj, mailbox.NewRouter); err != nil {
		return err
	}

	di.AddRecipe(inj, func(view *di.Injector) (*scheduler.Scheduler, error) {
		cfg, err := di.Get[*config.Config](view)
		if err != nil {
			return nil, err
		}
		router, err := di.Get[*mailbox.Router](view)
		if err != nil {
			return nil, err
		}
		faults, err := di.Get[*fault.Handler](view)
		if err != nil {
			return nil, err
		}
		logger, err := di.Get[log.Logger](view)
		if err != nil {
			return nil, err
		}
		return scheduler.New(router,
			scheduler.WithNumWorkers(cfg.NumWorkers),
			scheduler.WithWaitTimeout(cfg.WorkerWaitTimeout),
			scheduler.WithLogger(logger),
			scheduler.WithFaultHandler(faults),
			scheduler.WithMeterProvider(cfg.MeterProvider),
		)
	})

	di.AddRecipe(inj, func(view *di.Injector) (*component.System, error) {
		logger, err := di.Get[log.Logger](view)
		if err != nil {
			return nil, err
		}
		return component.NewSystem(logger, SystemName), nil
	})

	di.AddRecipe(inj, func(view *di.Injector) (*cliinput.CLIInput, error) {
		router, err := di.Get[*mailbox.Router](view)
		if err != nil {
			return nil, err
		}
		logger, err := di.Get[log.Logger](view)
		if err != nil {
			return nil, err
		}
		return cliinput.New(router, os.Stdin, cliinput.WithLogger(logger)), nil
	})
	return nil
}
