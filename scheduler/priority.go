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

package scheduler

import "fmt"

// Priority orders the jobs of a worker. Higher runs first.
type Priority uint8

const (
	// PriorityIgnore marks a job that must never run
	PriorityIgnore Priority = 0
	// PriorityMin is the lowest runnable priority
	PriorityMin Priority = 1
	// PriorityLow is below normal
	PriorityLow Priority = 63
	// PriorityNormal is the default
	PriorityNormal Priority = 127
	// PriorityHigh is above normal
	PriorityHigh Priority = 191
	// PriorityMax is the highest priority; a worker looking for work steals these first
	PriorityMax Priority = 255
)

// String returns the name of well-known priorities
func (p Priority) String() string {
	switch p {
	case PriorityIgnore:
		return "ignore"
	case PriorityMin:
		return "min"
	case PriorityLow:
		return "low"
	case PriorityNormal:
		return "normal"
	case PriorityHigh:
		return "high"
	case PriorityMax:
		return "max"
	default:
		return fmt.Sprintf("priority(%d)", uint8(p))
	}
}
