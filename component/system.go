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

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mgukowsky/Omulator-sub000/log"
)

// Subsystem is a part of a System running on its own goroutine
type Subsystem interface {
	Name() string
	Start()
	Stop(ctx context.Context) error
}

// System is an emulated system made of components, stepped synchronously, and of
// subsystems running in parallel.
type System struct {
	Base

	mu         sync.RWMutex
	components []Component
	subsystems []Subsystem
}

var _ Component = (*System)(nil)

// NewSystem creates an empty System
func NewSystem(logger log.Logger, name string) *System {
	return &System{Base: NewBase(logger, name)}
}

// AddComponent appends component to the components stepped by the System
func (s *System) AddComponent(component Component) {
	s.mu.Lock()
	s.components = append(s.components, component)
	s.mu.Unlock()
}

// AddSubsystem appends subsystem to the subsystems started and stopped with the System
func (s *System) AddSubsystem(subsystem Subsystem) {
	s.mu.Lock()
	s.subsystems = append(s.subsystems, subsystem)
	s.mu.Unlock()
}

// Components returns the components in registration order
func (s *System) Components() []Component {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Component(nil), s.components...)
}

// Step steps every component one cycle at a time, in registration order, for the
// given number of cycles. Components that cannot step are skipped.
func (s *System) Step(cycles uint64) uint64 {
	components := s.Components()
	for taken := uint64(0); taken < cycles; taken++ {
		for _, component := range components {
			if component.CanStep() {
				component.Step(1)
			}
		}
	}
	return cycles
}

// Start starts every subsystem concurrently
func (s *System) Start(ctx context.Context) error {
	eg, _ := errgroup.WithContext(ctx)
	for _, subsystem := range s.snapshot() {
		eg.Go(func() error {
			s.logger.Debugf("starting subsystem=(%s)", subsystem.Name())
			subsystem.Start()
			return nil
		})
	}
	return eg.Wait()
}

// Stop stops every subsystem concurrently and returns the first error met.
// A failing subsystem does not cut short the others.
func (s *System) Stop(ctx context.Context) error {
	var eg errgroup.Group
	for _, subsystem := range s.snapshot() {
		eg.Go(func() error {
			if err := subsystem.Stop(ctx); err != nil {
				s.logger.Errorf("failed to stop subsystem=(%s): %v", subsystem.Name(), err)
				return err
			}
			s.logger.Debugf("subsystem=(%s) successfully stopped", subsystem.Name())
			return nil
		})
	}
	return eg.Wait()
}

func (s *System) snapshot() []Subsystem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Subsystem(nil), s.subsystems...)
}
