// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bvc

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"
)

// MaxLogValueLength caps the length of a single logged value. Longer values
// are cut and marked with a truncation suffix.
const MaxLogValueLength = 1024

// Logger is the logging hook used by Client, Controller and the device types.
//
// Messages are structured as a constant message plus alternating keys and
// values. The library ships three implementations:
//   - NoOpLogger: discards everything (default)
//   - DefaultLogger: stdlib log with a level threshold
//   - LogrusLogger: forwards to a logrus.FieldLogger
//
// Example:
//
//	ctrl, _ := bvc.NewController("172.22.18.70",
//	    bvc.Username("admin"),
//	    bvc.Password("admin"),
//	    bvc.WithLogger(bvc.NewDefaultLogger(bvc.LogLevelDebug)))
type Logger interface {
	Debug(ctx context.Context, msg string, keysAndValues ...any)
	Info(ctx context.Context, msg string, keysAndValues ...any)
	Warn(ctx context.Context, msg string, keysAndValues ...any)
	Error(ctx context.Context, msg string, keysAndValues ...any)
}

// LogLevel is the minimum severity a DefaultLogger writes
type LogLevel int

const (
	// LogLevelDebug writes everything, including redacted request bodies
	LogLevelDebug LogLevel = iota

	// LogLevelInfo writes Info, Warn and Error
	LogLevelInfo

	// LogLevelWarn writes Warn and Error
	LogLevelWarn

	// LogLevelError writes Error only
	LogLevelError

	// LogLevelNone writes nothing
	LogLevelNone
)

var logLevelNames = map[LogLevel]string{
	LogLevelDebug: "DEBUG",
	LogLevelInfo:  "INFO",
	LogLevelWarn:  "WARN",
	LogLevelError: "ERROR",
	LogLevelNone:  "NONE",
}

// String returns the upper-case name of the level
func (l LogLevel) String() string {
	if name, ok := logLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", l)
}

// ParseLogLevel converts a level name (case-insensitive) to a LogLevel.
func ParseLogLevel(name string) (LogLevel, error) {
	for level, levelName := range logLevelNames {
		if strings.EqualFold(levelName, strings.TrimSpace(name)) {
			return level, nil
		}
	}
	return LogLevelNone, fmt.Errorf("unknown log level: %q", name)
}

// DefaultLogger writes through the standard library log package.
//
// Output format: [LEVEL] message key1=value1 key2=value2
type DefaultLogger struct {
	level LogLevel
}

// NewDefaultLogger returns a DefaultLogger writing messages at or above level
func NewDefaultLogger(level LogLevel) *DefaultLogger {
	return &DefaultLogger{level: level}
}

// Debug logs at debug level
func (l *DefaultLogger) Debug(_ context.Context, msg string, keysAndValues ...any) {
	l.write(LogLevelDebug, msg, keysAndValues)
}

// Info logs at info level
func (l *DefaultLogger) Info(_ context.Context, msg string, keysAndValues ...any) {
	l.write(LogLevelInfo, msg, keysAndValues)
}

// Warn logs at warn level
func (l *DefaultLogger) Warn(_ context.Context, msg string, keysAndValues ...any) {
	l.write(LogLevelWarn, msg, keysAndValues)
}

// Error logs at error level
func (l *DefaultLogger) Error(_ context.Context, msg string, keysAndValues ...any) {
	l.write(LogLevelError, msg, keysAndValues)
}

func (l *DefaultLogger) write(level LogLevel, msg string, keysAndValues []any) {
	if level < l.level || l.level == LogLevelNone {
		return
	}
	log.Println(formatLogLine(level, msg, keysAndValues))
}

// formatLogLine renders one log line. Keys and values are sanitized, the
// message is not: it always comes from library code.
func formatLogLine(level LogLevel, msg string, keysAndValues []any) string {
	var b strings.Builder
	b.Grow(len(msg) + 16 + len(keysAndValues)*24)

	b.WriteString("[")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(msg)

	for i := 0; i < len(keysAndValues); i += 2 {
		b.WriteString(" ")
		b.WriteString(sanitizeLogValue(keysAndValues[i]))
		b.WriteString("=")
		if i+1 < len(keysAndValues) {
			b.WriteString(sanitizeLogValue(keysAndValues[i+1]))
		} else {
			b.WriteString("<MISSING>")
		}
	}
	return b.String()
}

// sanitizeLogValue makes a value safe to embed in a single log line.
//
// Newlines, tabs and form feeds become spaces so a value cannot start a forged
// log entry. Other control characters, ESC included, become '.', zero-width
// characters are dropped and the right-to-left override becomes a space.
// Invalid UTF-8 bytes are replaced with '.'.
func sanitizeLogValue(val any) string {
	str := fmt.Sprintf("%v", val)
	if len(str) > MaxLogValueLength {
		str = str[:MaxLogValueLength] + "...[TRUNCATED]"
	}

	var b strings.Builder
	b.Grow(len(str))

	for i := 0; i < len(str); {
		r, size := utf8.DecodeRuneInString(str[i:])
		if size == 0 {
			size = 1
		}
		i += size

		switch {
		case r == utf8.RuneError && size <= 1:
			b.WriteByte('.')
		case r == '\n' || r == '\r' || r == '\t' || r == '\f':
			b.WriteByte(' ')
		case r == 0x200B || r == 0x200C || r == 0x200D || r == 0xFEFF:
			// zero-width, dropped
		case r == 0x202E:
			b.WriteByte(' ')
		case r < 32 || r == 127:
			b.WriteByte('.')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NoOpLogger discards all messages. It is the default for new clients.
type NoOpLogger struct{}

// Debug discards the message
func (NoOpLogger) Debug(context.Context, string, ...any) {}

// Info discards the message
func (NoOpLogger) Info(context.Context, string, ...any) {}

// Warn discards the message
func (NoOpLogger) Warn(context.Context, string, ...any) {}

// Error discards the message
func (NoOpLogger) Error(context.Context, string, ...any) {}
