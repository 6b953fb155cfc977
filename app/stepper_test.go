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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/atomic"

	"github.com/mgukowsky/Omulator-sub000/component"
	"github.com/mgukowsky/Omulator-sub000/internal/clock"
	"github.com/mgukowsky/Omulator-sub000/log"
)

func TestStepper(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newSystem := func() (*component.System, *atomic.Uint64) {
		steps := atomic.NewUint64(0)
		system := component.NewSystem(log.DiscardLogger, "root")
		system.AddComponent(&ticker{Base: component.NewBase(log.DiscardLogger, "ticker"), steps: steps})
		return system, steps
	}

	t.Run("With whole intervals stepped", func(t *testing.T) {
		clk := clock.NewManual(start)
		system, steps := newSystem()
		s := newStepper(clk, system, 10*time.Millisecond, log.DiscardLogger)

		assert.Zero(t, s.tick())
		clk.Advance(25 * time.Millisecond)
		assert.EqualValues(t, 2, s.tick())
		clk.Advance(5 * time.Millisecond)
		assert.EqualValues(t, 1, s.tick())
		assert.EqualValues(t, 3, steps.Load())
	})
	t.Run("With catch up bounded", func(t *testing.T) {
		clk := clock.NewManual(start)
		system, steps := newSystem()
		s := newStepper(clk, system, time.Millisecond, log.DiscardLogger)

		clk.Advance(time.Second)
		assert.EqualValues(t, maxCatchUp, s.tick())
		assert.Zero(t, s.tick())
		assert.EqualValues(t, maxCatchUp, steps.Load())
	})
}
