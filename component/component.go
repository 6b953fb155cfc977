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

package component

import "github.com/mgukowsky/Omulator-sub000/log"

// Component is a part of an emulated system stepped synchronously by its System
type Component interface {
	// Name returns the name of the component
	Name() string
	// CanStep reports whether the component takes part in System.Step
	CanStep() bool
	// Step runs the component for the given number of cycles and returns the number
	// of cycles taken. Both numbers are not necessarily correlated.
	Step(cycles uint64) uint64
}

// Base is meant to be embedded by components. Its Step is a no-op.
type Base struct {
	name   string
	logger log.Logger
}

var _ Component = (*Base)(nil)

// NewBase creates a Base and logs the creation of the component
func NewBase(logger log.Logger, name string) Base {
	if logger == nil {
		logger = log.DiscardLogger
	}
	logger.Infof("Creating component: %s", name)
	return Base{name: name, logger: logger}
}

// Name returns the name of the component
func (b *Base) Name() string {
	return b.name
}

// Logger returns the logger of the component
func (b *Base) Logger() log.Logger {
	return b.logger
}

// CanStep returns true
func (b *Base) CanStep() bool {
	return true
}

// Step does nothing
func (b *Base) Step(uint64) uint64 {
	return 0
}
