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

package app

import (
	"io"
	"time"

	"github.com/mgukowsky/Omulator-sub000/internal/clock"
)

// Option is the interface that applies a configuration option.
type Option interface {
	// Apply sets the Option value of an App.
	Apply(a *App)
}

var _ Option = OptionFunc(nil)

// OptionFunc implements the Option interface.
type OptionFunc func(a *App)

// Apply applies the options to App
func (f OptionFunc) Apply(a *App) {
	f(a)
}

// WithInput sets the reader commands are read from in interactive mode.
// The default is stdin.
func WithInput(input io.ReadCloser) Option {
	return OptionFunc(func(a *App) {
		a.input = input
	})
}

// WithStepInterval makes the App step its System one cycle every interval.
// Stepping is off by default.
// Each tick steps as many cycles as whole intervals elapsed on the clock of the App.
func WithStepInterval(interval time.Duration) Option {
	return OptionFunc(func(a *App) {
		a.stepInterval = interval
	})
}

// WithClock sets the clock the App paces its stepping with.
// The default is the system clock.
func WithClock(clk clock.Clock) Option {
	return OptionFunc(func(a *App) {
		a.clock = clk
	})
}
