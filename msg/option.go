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

package msg

// FactoryOption is the interface that applies a Factory option.
type FactoryOption interface {
	// Apply sets the Option value of a Factory.
	Apply(factory *Factory)
}

var _ FactoryOption = FactoryOptionFunc(nil)

// FactoryOptionFunc implements the FactoryOption interface.
type FactoryOptionFunc func(factory *Factory)

// Apply applies the options to Factory
func (f FactoryOptionFunc) Apply(factory *Factory) {
	f(factory)
}

// WithPoolSize sets the number of storages the factory keeps for reuse
func WithPoolSize(size uint64) FactoryOption {
	return FactoryOptionFunc(func(factory *Factory) {
		if size > 0 {
			factory.poolSize = size
		}
	})
}

// WithQueueCapacity sets the initial capacity of newly allocated queues
func WithQueueCapacity(capacity int) FactoryOption {
	return FactoryOptionFunc(func(factory *Factory) {
		if capacity > 0 {
			factory.queueCapacity = capacity
		}
	})
}
