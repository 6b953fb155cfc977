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

package clock

import (
	"context"
	"sync"
	"time"
)

// Clock tells the time and sleeps
type Clock interface {
	// Now returns the current time
	Now() time.Time
	// SleepUntil blocks until then or until ctx is done
	SleepUntil(ctx context.Context, then time.Time) error
}

// System is the Clock backed by the monotonic clock of the host
type System struct{}

var _ Clock = System{}

// Now returns the current time
func (System) Now() time.Time {
	return time.Now()
}

// SleepUntil blocks until then or until ctx is done
func (System) SleepUntil(ctx context.Context, then time.Time) error {
	wait := time.Until(then)
	if wait <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Manual is a Clock that only moves when told to
type Manual struct {
	mu      sync.Mutex
	now     time.Time
	changed chan struct{}
}

var _ Clock = (*Manual)(nil)

// NewManual creates a Manual clock set at start
func NewManual(start time.Time) *Manual {
	return &Manual{now: start, changed: make(chan struct{})}
}

// Now returns the current time
func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Advance moves the clock forward and wakes up the sleepers
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	close(m.changed)
	m.changed = make(chan struct{})
	m.mu.Unlock()
}

// SleepUntil blocks until the clock reaches then or until ctx is done
func (m *Manual) SleepUntil(ctx context.Context, then time.Time) error {
	for {
		m.mu.Lock()
		reached := !m.now.Before(then)
		changed := m.changed
		m.mu.Unlock()
		if reached {
			return nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
