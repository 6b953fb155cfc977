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

package log

import (
	"io"
)

var discardOutputs = []io.Writer{io.Discard}

type discardLogger struct{}

func (discardLogger) Critical(v ...any)                 { _ = v }
func (discardLogger) Criticalf(format string, v ...any) { _, _ = format, v }
func (discardLogger) Error(v ...any)                    { _ = v }
func (discardLogger) Errorf(format string, v ...any)    { _, _ = format, v }
func (discardLogger) Warn(v ...any)                     { _ = v }
func (discardLogger) Warnf(format string, v ...any)     { _, _ = format, v }
func (discardLogger) Info(v ...any)                     { _ = v }
func (discardLogger) Infof(format string, v ...any)     { _, _ = format, v }
func (discardLogger) Debug(v ...any)                    { _ = v }
func (discardLogger) Debugf(format string, v ...any)    { _, _ = format, v }
func (discardLogger) Trace(v ...any)                    { _ = v }
func (discardLogger) Tracef(format string, v ...any)    { _, _ = format, v }
func (discardLogger) SetLevel(level Level)              { _ = level }

func (discardLogger) LogLevel() Level {
	return OffLevel
}

// Enabled returns false for every level.
func (discardLogger) Enabled(Level) bool {
	return false
}

// With returns the receiver unchanged; DiscardLogger ignores structured fields.
func (discardLogger) With(...any) Logger {
	return DiscardLogger
}

func (discardLogger) LogOutput() []io.Writer {
	return discardOutputs
}

// Flush is a no-op
func (discardLogger) Flush() error {
	return nil
}
