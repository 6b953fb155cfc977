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

// Package main is the entry point of omulator
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mgukowsky/Omulator-sub000/app"
	"github.com/mgukowsky/Omulator-sub000/config"
	"github.com/mgukowsky/Omulator-sub000/fault"
	"github.com/mgukowsky/Omulator-sub000/internal/osutil"
	"github.com/mgukowsky/Omulator-sub000/log"
)

func main() {
	code := 0
	fault.Default().Guard(func() {
		code = run(os.Args[1:], os.Stdout, os.Stderr)
	})
	os.Exit(code)
}

// run parses args, runs the application until it quits and returns the exit code
func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stdout, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	application, err := app.New(opts.config, app.WithStepInterval(opts.stepInterval))
	if err != nil {
		fmt.Fprintf(stderr, "failed to create the application: %v\n", err)
		return fault.ExitFailure
	}

	stop := osutil.HandleSignals(application.Logger(), func(os.Signal) {
		application.Quit()
	})
	defer stop()

	if err := application.Run(context.Background()); err != nil {
		fmt.Fprintf(stderr, "application stopped with an error: %v\n", err)
		return fault.ExitFailure
	}
	return 0
}

type options struct {
	config       *config.Config
	stepInterval time.Duration
}

func parseArgs(args []string, stdout, stderr io.Writer) (*options, error) {
	var stepInterval time.Duration
	fs := flag.NewFlagSet("omulator", flag.ContinueOnError)
	fs.SetOutput(stderr)

	interactive := fs.Bool("interactive", false, "accept commands on stdin")
	fs.BoolVar(interactive, "i", false, "shorthand for -interactive")
	headless := fs.Bool("headless", false, "do not display a window")
	vkdebug := fs.Bool("vkdebug", false, "turn on Vulkan debugging and validation")
	level := fs.String("log-level", log.InfoLevel.String(), "one of trace, debug, info, warn, error, critical, off")
	workers := fs.Int("workers", 0, "number of scheduler workers (default: number of CPUs)")
	retries := fs.Int("init-retries", 0, "maximum of retries of a failing subsystem initialization")
	fs.DurationVar(&stepInterval, "step", 0, "step the system every interval (e.g. 16ms); off when 0")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	logLevel := log.ParseLevel(*level)
	if logLevel == log.InvalidLevel {
		fmt.Fprintf(stderr, "invalid log level: %s\n", *level)
		fs.Usage()
		return nil, config.ErrInvalidLogLevel
	}

	opts := []config.Option{
		config.WithLogLevel(logLevel),
		config.WithLogOutput(stdout),
		config.WithInteractive(*interactive),
		config.WithHeadless(*headless),
		config.WithVKDebug(*vkdebug),
	}
	if *workers > 0 {
		opts = append(opts, config.WithNumWorkers(*workers))
	}
	if *retries > 0 {
		opts = append(opts, config.WithSubsystemInitRetries(*retries))
	}

	cfg := config.New(opts...)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, err)
		return nil, err
	}
	return &options{config: cfg, stepInterval: stepInterval}, nil
}
