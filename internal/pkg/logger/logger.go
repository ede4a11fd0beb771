// Copyright (c) 2025 Lazycat Apps
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logger provides the printf-style diagnostic logger used across the application.
// Diagnostic logs go to stderr so that stdout carries only progress output.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the logging interface consumed by services.
type Logger interface {
	Debug(format string, args ...interface{})
	Info(format string, args ...interface{})
	Warn(format string, args ...interface{})
	Error(format string, args ...interface{})
}

// logrusLogger adapts a logrus.Logger to the Logger interface.
type logrusLogger struct {
	log *logrus.Logger
}

// Option configures a logger built by NewWithOptions.
type Option func(*logrus.Logger)

// WithRedactor rewrites every entry's message and string fields with redact
// before the entry is formatted.
func WithRedactor(redact func(string) string) Option {
	return func(l *logrus.Logger) {
		if redact != nil {
			l.AddHook(&redactHook{redact: redact})
		}
	}
}

// New creates a logger writing to stderr at info level.
func New() Logger {
	return NewWithOptions(os.Stderr, "info")
}

// NewWithOptions creates a logger writing to out at the given level.
// Unknown levels fall back to info.
func NewWithOptions(out io.Writer, level string, opts ...Option) Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       false,
		FullTimestamp:          true,
		DisableLevelTruncation: true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	for _, opt := range opts {
		opt(l)
	}

	return &logrusLogger{log: l}
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() Logger {
	return NewWithOptions(io.Discard, "panic")
}

func (l *logrusLogger) Debug(format string, args ...interface{}) {
	l.log.Debugf(format, args...)
}

func (l *logrusLogger) Info(format string, args ...interface{}) {
	l.log.Infof(format, args...)
}

func (l *logrusLogger) Warn(format string, args ...interface{}) {
	l.log.Warnf(format, args...)
}

func (l *logrusLogger) Error(format string, args ...interface{}) {
	l.log.Errorf(format, args...)
}

// redactHook scrubs entries in place. logrus fires hooks before formatting.
type redactHook struct {
	redact func(string) string
}

func (h *redactHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *redactHook) Fire(entry *logrus.Entry) error {
	entry.Message = h.redact(entry.Message)
	for k, v := range entry.Data {
		if str, ok := v.(string); ok {
			entry.Data[k] = h.redact(str)
		}
	}
	return nil
}
