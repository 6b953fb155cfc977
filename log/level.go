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

// Level specifies the log level
type Level int

const (
	// InfoLevel indicates Info log level.
	InfoLevel Level = iota
	// WarningLevel indicates Warning log level.
	WarningLevel
	// ErrorLevel indicates Error log level.
	ErrorLevel
	// CriticalLevel indicates Critical log level.
	// Critical entries are reported but never stop the program.
	CriticalLevel
	// DebugLevel indicates Debug log level
	DebugLevel
	// TraceLevel indicates Trace log level, the most verbose one
	TraceLevel
	// OffLevel disables every entry
	OffLevel
	// InvalidLevel is returned for a level that cannot be mapped
	InvalidLevel
	numLogLevels = 8
)

// levels holds the names emitted in the level field of each entry
var levels = [numLogLevels]string{
	InfoLevel:     "info",
	WarningLevel:  "warn",
	ErrorLevel:    "error",
	CriticalLevel: "critical",
	DebugLevel:    "debug",
	TraceLevel:    "trace",
	OffLevel:      "off",
	InvalidLevel:  "invalid",
}

// String returns the name of the level
func (l Level) String() string {
	if l < 0 || int(l) >= len(levels) {
		return levels[InvalidLevel]
	}
	return levels[l]
}

// ParseLevel maps a level name to a Level. It returns InvalidLevel when the name is unknown.
func ParseLevel(name string) Level {
	for i, n := range levels {
		if n == name && Level(i) != InvalidLevel {
			return Level(i)
		}
	}
	switch name {
	case "warning":
		return WarningLevel
	case "err":
		return ErrorLevel
	}
	return InvalidLevel
}
