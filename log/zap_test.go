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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLevels(t *testing.T) {
	testCases := []struct {
		name  string
		level Level
		log   func(Logger)
	}{
		{name: "With critical", level: CriticalLevel, log: func(l Logger) { l.Criticalf("test %s", "critical") }},
		{name: "With error", level: ErrorLevel, log: func(l Logger) { l.Error("test error") }},
		{name: "With warn", level: WarningLevel, log: func(l Logger) { l.Warnf("test %s", "warn") }},
		{name: "With info", level: InfoLevel, log: func(l Logger) { l.Info("test info") }},
		{name: "With debug", level: DebugLevel, log: func(l Logger) { l.Debugf("test %s", "debug") }},
		{name: "With trace", level: TraceLevel, log: func(l Logger) { l.Trace("test trace") }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buffer := new(bytes.Buffer)
			logger := NewZap(tc.level, buffer)
			require.Equal(t, tc.level, logger.LogLevel())

			tc.log(logger)
			require.NoError(t, logger.Flush())

			msg, err := extractMessage(buffer.Bytes())
			require.NoError(t, err)
			assert.Equal(t, "test "+tc.level.String(), msg)

			lvl, err := extractLevel(buffer.Bytes())
			require.NoError(t, err)
			assert.Equal(t, tc.level.String(), lvl)
		})
	}
}

func TestZapFiltering(t *testing.T) {
	t.Run("With entries below the level dropped", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(WarningLevel, buffer)
		logger.Info("dropped")
		logger.Debug("dropped")
		logger.Trace("dropped")
		require.Empty(t, buffer.String())

		logger.Warn("kept")
		msg, err := extractMessage(buffer.Bytes())
		require.NoError(t, err)
		require.Equal(t, "kept", msg)
	})
	t.Run("With trace dropped at debug level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(DebugLevel, buffer)
		logger.Tracef("dropped %d", 1)
		require.Empty(t, buffer.String())
		assert.True(t, logger.Enabled(DebugLevel))
		assert.False(t, logger.Enabled(TraceLevel))
	})
	t.Run("With off level", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(OffLevel, buffer)
		logger.Critical("dropped")
		logger.Error("dropped")
		require.Empty(t, buffer.String())
		require.Equal(t, OffLevel, logger.LogLevel())
		require.False(t, logger.Enabled(CriticalLevel))
	})
	t.Run("With level changed at runtime", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(ErrorLevel, buffer)
		child := logger.With("subsystem", "app")
		logger.Info("dropped")
		require.Empty(t, buffer.String())

		logger.SetLevel(InfoLevel)
		require.Equal(t, InfoLevel, child.LogLevel())
		child.Info("kept")

		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		require.Contains(t, m, "subsystem")
	})
	t.Run("With critical not panicking", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.NotPanics(t, func() { logger.Critical("still running") })
	})
}

func TestLogWith(t *testing.T) {
	t.Run("With structured fields", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("mailbox", uint64(7), "name", "scheduler").Info("claimed")

		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		require.Contains(t, m, "mailbox")
		require.Contains(t, m, "name")
	})
	t.Run("With no fields returns the same logger", func(t *testing.T) {
		logger := NewZap(InfoLevel, new(bytes.Buffer))
		assert.Equal(t, logger, logger.With())
	})
	t.Run("With orphan value", func(t *testing.T) {
		buffer := new(bytes.Buffer)
		logger := NewZap(InfoLevel, buffer)
		logger.With("a", 1, "orphan").Info("msg")

		var m map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(buffer.Bytes(), &m))
		require.Contains(t, m, "a")
		require.Contains(t, m, "_")
	})
}

func TestZapFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "omulator.log")
	file, err := os.Create(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = file.Close() })

	logger := NewZap(InfoLevel, file)
	logger.Info("buffered")
	require.NoError(t, logger.Flush())

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	msg, err := extractMessage(bytes.TrimSpace(content))
	require.NoError(t, err)
	require.Equal(t, "buffered", msg)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, TraceLevel, ParseLevel("trace"))
	assert.Equal(t, WarningLevel, ParseLevel("warning"))
	assert.Equal(t, ErrorLevel, ParseLevel("err"))
	assert.Equal(t, OffLevel, ParseLevel("off"))
	assert.Equal(t, InvalidLevel, ParseLevel("loud"))
	assert.Equal(t, "invalid", Level(42).String())
}

func extractMessage(bytes []byte) (string, error) {
	return extractField(bytes, "msg")
}

func extractLevel(bytes []byte) (string, error) {
	return extractField(bytes, "level")
}

func extractField(bytes []byte, key string) (string, error) {
	c := make(map[string]json.RawMessage)
	if err := json.Unmarshal(bytes, &c); err != nil {
		return "", err
	}
	if v, ok := c[key]; ok {
		return strconv.Unquote(string(v))
	}
	return "", nil
}
