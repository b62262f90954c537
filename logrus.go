// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package bvc

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// LogrusLogger adapts a logrus.FieldLogger to the Logger interface.
//
// Key/value pairs become logrus fields; values are sanitized the same way
// DefaultLogger sanitizes them.
//
// Example:
//
//	l := logrus.New()
//	l.SetLevel(logrus.DebugLevel)
//	ctrl, _ := bvc.NewController("172.22.18.70",
//	    bvc.Username("admin"),
//	    bvc.Password("admin"),
//	    bvc.WithLogger(bvc.NewLogrusLogger(l)))
type LogrusLogger struct {
	entry logrus.FieldLogger
}

// NewLogrusLogger wraps l. A nil l uses logrus.StandardLogger().
func NewLogrusLogger(l logrus.FieldLogger) *LogrusLogger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &LogrusLogger{entry: l}
}

// Debug logs at logrus debug level
func (l *LogrusLogger) Debug(_ context.Context, msg string, keysAndValues ...any) {
	l.withFields(keysAndValues).Debug(msg)
}

// Info logs at logrus info level
func (l *LogrusLogger) Info(_ context.Context, msg string, keysAndValues ...any) {
	l.withFields(keysAndValues).Info(msg)
}

// Warn logs at logrus warn level
func (l *LogrusLogger) Warn(_ context.Context, msg string, keysAndValues ...any) {
	l.withFields(keysAndValues).Warn(msg)
}

// Error logs at logrus error level
func (l *LogrusLogger) Error(_ context.Context, msg string, keysAndValues ...any) {
	l.withFields(keysAndValues).Error(msg)
}

func (l *LogrusLogger) withFields(keysAndValues []any) logrus.FieldLogger {
	if len(keysAndValues) == 0 {
		return l.entry
	}
	return l.entry.WithFields(logrusFields(keysAndValues))
}

func logrusFields(keysAndValues []any) logrus.Fields {
	fields := make(logrus.Fields, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		key := sanitizeLogValue(fmt.Sprint(keysAndValues[i]))
		if i+1 < len(keysAndValues) {
			fields[key] = sanitizeLogValue(keysAndValues[i+1])
		} else {
			fields[key] = "<MISSING>"
		}
	}
	return fields
}
