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
	"sync"
	"time"

	"github.com/mgukowsky/Omulator-sub000/component"
	"github.com/mgukowsky/Omulator-sub000/internal/clock"
	"github.com/mgukowsky/Omulator-sub000/log"
)

// maxCatchUp bounds the cycles stepped by a single tick
const maxCatchUp = 64

// stepper steps a System once per whole interval elapsed on its clock
type stepper struct {
	mu       sync.Mutex
	clock    clock.Clock
	system   *component.System
	interval time.Duration
	logger   log.Logger
	last     time.Time
}

func newStepper(clk clock.Clock, system *component.System, interval time.Duration, logger log.Logger) *stepper {
	return &stepper{
		clock:    clk,
		system:   system,
		interval: interval,
		logger:   logger,
		last:     clk.Now(),
	}
}

// tick steps the cycles owed since the previous tick and returns how many were taken
func (s *stepper) tick() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	cycles := uint64(now.Sub(s.last) / s.interval)
	if cycles == 0 {
		return 0
	}
	if cycles > maxCatchUp {
		s.logger.Warnf("Stepping fell %d cycles behind; skipping %d", cycles, cycles-maxCatchUp)
		s.last = now
		cycles = maxCatchUp
	} else {
		s.last = s.last.Add(time.Duration(cycles) * s.interval)
	}
	return s.system.Step(cycles)
}
