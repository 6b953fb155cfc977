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
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// DiscardLogger is a no-op logger that discards all log messages.
	DiscardLogger Logger = discardLogger{}

	// DefaultLogger is configured to output messages at InfoLevel
	// and above to os.Stderr.
	DefaultLogger = NewZap(InfoLevel, os.Stderr)
)

const (
	bufferedWriteSize     = 256 * 1024
	bufferedFlushInterval = 30 * time.Second
	// maxInlineFields is the maximum number of key-value pairs for stack-allocated fields.
	maxInlineFields = 6

	// zap has no trace level, use the slot below debug
	zapTraceLevel = zapcore.DebugLevel - 1
	// above fatal, nothing is ever logged at this level
	zapOffLevel = zapcore.FatalLevel + 1
)

// Zap implements Logger interface with zap as the underlying logging library.
// File outputs are buffered for entries below error level to reduce syscalls.
// Stdout/stderr remain unbuffered for immediate visibility. Call
// Flush during graceful shutdown to drain buffered file output.
type Zap struct {
	logger              *zap.Logger
	sugar               *zap.SugaredLogger
	level               zap.AtomicLevel
	outputs             []io.Writer
	bufferedWriteSyncer *zapcore.BufferedWriteSyncer
}

// enforce compilation and linter error
var _ Logger = &Zap{}

// NewZap creates an instance of Zap writing JSON entries to the given writers.
func NewZap(level Level, writers ...io.Writer) *Zap {
	config := newZapEncoderConfig()
	atom := zap.NewAtomicLevelAt(toZapLevel(level))
	immediateSyncers, bufferedSyncers := splitWriteSyncers(writers...)
	core, bufferedWriteSyncer := newZapCore(config, atom, immediateSyncers, bufferedSyncers)

	zapLogger := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1),
		zap.AddStacktrace(zapcore.DPanicLevel))

	return &Zap{
		logger:              zapLogger,
		sugar:               zapLogger.Sugar(),
		level:               atom,
		outputs:             writers,
		bufferedWriteSyncer: bufferedWriteSyncer,
	}
}

// Critical starts a message with critical level. It never panics.
func (z *Zap) Critical(v ...any) {
	z.sugar.DPanic(v...)
}

// Criticalf starts a message with critical level. It never panics.
func (z *Zap) Criticalf(format string, v ...any) {
	z.sugar.DPanicf(format, v...)
}

// Error starts a new message with error level.
func (z *Zap) Error(v ...any) {
	z.sugar.Error(v...)
}

// Errorf starts a new message with error level.
func (z *Zap) Errorf(format string, v ...any) {
	z.sugar.Errorf(format, v...)
}

// Warn starts a new message with warn level
func (z *Zap) Warn(v ...any) {
	z.sugar.Warn(v...)
}

// Warnf starts a new message with warn level
func (z *Zap) Warnf(format string, v ...any) {
	z.sugar.Warnf(format, v...)
}

// Info starts a message with info level
func (z *Zap) Info(v ...any) {
	z.sugar.Info(v...)
}

// Infof starts a message with info level
func (z *Zap) Infof(format string, v ...any) {
	z.sugar.Infof(format, v...)
}

// Debug starts a message with debug level
func (z *Zap) Debug(v ...any) {
	z.sugar.Debug(v...)
}

// Debugf starts a message with debug level
func (z *Zap) Debugf(format string, v ...any) {
	z.sugar.Debugf(format, v...)
}

// Trace starts a message with trace level
func (z *Zap) Trace(v ...any) {
	if !z.level.Enabled(zapTraceLevel) {
		return
	}
	if ce := z.logger.Check(zapTraceLevel, fmt.Sprint(v...)); ce != nil {
		ce.Write()
	}
}

// Tracef starts a message with trace level
func (z *Zap) Tracef(format string, v ...any) {
	if !z.level.Enabled(zapTraceLevel) {
		return
	}
	if ce := z.logger.Check(zapTraceLevel, fmt.Sprintf(format, v...)); ce != nil {
		ce.Write()
	}
}

// SetLevel changes the minimum level of the logger and of every logger derived from it with With.
func (z *Zap) SetLevel(level Level) {
	z.level.SetLevel(toZapLevel(level))
}

// Enabled reports whether the given level is enabled.
func (z *Zap) Enabled(level Level) bool {
	if level == OffLevel {
		return false
	}
	return z.level.Enabled(toZapLevel(level))
}

// With returns a Logger that includes the given key-value pairs in all subsequent log entries.
func (z *Zap) With(keyValues ...any) Logger {
	n := (len(keyValues) + 1) / 2
	if n == 0 {
		return z
	}

	var buf [maxInlineFields]zap.Field
	var fields []zap.Field
	if n <= maxInlineFields {
		fields = buf[:0:n]
	} else {
		fields = make([]zap.Field, 0, n)
	}

	for i := 0; i < len(keyValues); i += 2 {
		if i+1 >= len(keyValues) {
			fields = append(fields, toZapField("_", keyValues[i]))
			break
		}
		k, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, toZapField(k, keyValues[i+1]))
	}
	if len(fields) == 0 {
		return z
	}

	newLogger := z.logger.With(fields...)
	return &Zap{
		logger:              newLogger,
		sugar:               newLogger.Sugar(),
		level:               z.level,
		outputs:             z.outputs,
		bufferedWriteSyncer: z.bufferedWriteSyncer,
	}
}

// toZapField converts a key-value pair to zap.Field using typed accessors where possible.
func toZapField(key string, val any) zap.Field {
	switch v := val.(type) {
	case string:
		return zap.String(key, v)
	case int:
		return zap.Int(key, v)
	case int64:
		return zap.Int64(key, v)
	case uint32:
		return zap.Uint32(key, v)
	case uint64:
		return zap.Uint64(key, v)
	case bool:
		return zap.Bool(key, v)
	case float64:
		return zap.Float64(key, v)
	case time.Duration:
		return zap.Duration(key, v)
	case error:
		return zap.NamedError(key, v)
	default:
		return zap.Any(key, val)
	}
}

// LogLevel returns the log level that is used
func (z *Zap) LogLevel() Level {
	return fromZapLevel(z.level.Level())
}

// LogOutput returns the log output that is set
func (z *Zap) LogOutput() []io.Writer {
	return z.outputs
}

// Flush flushes buffered log entries. Call this during a graceful shutdown
// when no more log writes are expected.
func (z *Zap) Flush() error {
	if z.bufferedWriteSyncer != nil {
		return z.bufferedWriteSyncer.Stop()
	}

	var err error
	for _, output := range z.outputs {
		file, ok := output.(*os.File)
		if !ok || isStdStream(file) {
			continue
		}
		err = multierr.Append(err, file.Sync())
	}
	return err
}

func newZapEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:       "ts",
		LevelKey:      "level",
		NameKey:       "logger",
		CallerKey:     "caller",
		MessageKey:    "msg",
		StacktraceKey: "stacktrace",
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   encodeLevel,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.Format("2006-01-02T15:04:05.000000Z0700"))
		},
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// encodeLevel emits the names of Level rather than zap's own
func encodeLevel(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(fromZapLevel(level).String())
}

func splitWriteSyncers(writers ...io.Writer) ([]zapcore.WriteSyncer, []zapcore.WriteSyncer) {
	immediate := make([]zapcore.WriteSyncer, 0, len(writers))
	buffered := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, writer := range writers {
		if file, ok := writer.(*os.File); ok && !isStdStream(file) {
			buffered = append(buffered, zapcore.AddSync(writer))
			continue
		}
		immediate = append(immediate, zapcore.AddSync(writer))
	}
	return immediate, buffered
}

func combineWriteSyncers(syncers []zapcore.WriteSyncer) zapcore.WriteSyncer {
	if len(syncers) == 0 {
		return nil
	}
	return zap.CombineWriteSyncers(syncers...)
}

func isStdStream(file *os.File) bool {
	if file == nil {
		return false
	}
	fd := file.Fd()
	return fd == os.Stdout.Fd() || fd == os.Stderr.Fd()
}

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case InfoLevel:
		return zapcore.InfoLevel
	case DebugLevel:
		return zapcore.DebugLevel
	case WarningLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case CriticalLevel:
		return zapcore.DPanicLevel
	case TraceLevel:
		return zapTraceLevel
	case OffLevel:
		return zapOffLevel
	default:
		return zapcore.DebugLevel
	}
}

func fromZapLevel(level zapcore.Level) Level {
	switch level {
	case zapTraceLevel:
		return TraceLevel
	case zapcore.DebugLevel:
		return DebugLevel
	case zapcore.InfoLevel:
		return InfoLevel
	case zapcore.WarnLevel:
		return WarningLevel
	case zapcore.ErrorLevel:
		return ErrorLevel
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return CriticalLevel
	case zapOffLevel:
		return OffLevel
	default:
		return InvalidLevel
	}
}

func newZapCore(cfg zapcore.EncoderConfig, atom zap.AtomicLevel, immediateSyncers, bufferedSyncers []zapcore.WriteSyncer) (zapcore.Core, *zapcore.BufferedWriteSyncer) {
	immediateWriteSyncer := combineWriteSyncers(immediateSyncers)
	fileWriteSyncer := combineWriteSyncers(bufferedSyncers)
	allSyncers := make([]zapcore.WriteSyncer, 0, 2)

	if immediateWriteSyncer != nil {
		allSyncers = append(allSyncers, immediateWriteSyncer)
	}

	if fileWriteSyncer != nil {
		allSyncers = append(allSyncers, fileWriteSyncer)
	}

	allWriteSyncer := zap.CombineWriteSyncers(allSyncers...)
	if fileWriteSyncer == nil {
		return zapcore.NewCore(zapcore.NewJSONEncoder(cfg), allWriteSyncer, atom), nil
	}

	// Buffer lower-severity logs to reduce syscalls; keep errors unbuffered.
	lowPriority := zap.LevelEnablerFunc(func(level zapcore.Level) bool {
		return atom.Enabled(level) && level < zapcore.ErrorLevel
	})

	highPriority := zap.LevelEnablerFunc(func(level zapcore.Level) bool {
		return atom.Enabled(level) && level >= zapcore.ErrorLevel
	})

	bufferedWriteSyncer := &zapcore.BufferedWriteSyncer{
		WS:            fileWriteSyncer,
		Size:          bufferedWriteSize,
		FlushInterval: bufferedFlushInterval,
	}

	cores := make([]zapcore.Core, 0, 3)
	if immediateWriteSyncer != nil {
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(cfg), immediateWriteSyncer, lowPriority))
	}
	cores = append(cores,
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), bufferedWriteSyncer, lowPriority),
		zapcore.NewCore(zapcore.NewJSONEncoder(cfg), allWriteSyncer, highPriority))

	return zapcore.NewTee(cores...), bufferedWriteSyncer
}
