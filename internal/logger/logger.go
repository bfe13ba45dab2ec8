// SAGE - Secure Agent Guarantee Engine
// Copyright (C) 2025 SAGE-X-project
//
// This file is part of SAGE.
//
// SAGE is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// SAGE is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with SAGE. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

// Package logger provides the structured logger used by the health
// package. It is never imported by the core
// signature packages (rfc9421, webbotauth, internal/sfvdict), which
// stay free of I/O.
package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Level represents the severity level of a log message.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	FatalLevel
)

// String returns the string representation of a log level.
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Field represents a structured logging field.
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field.
func String(key, value string) Field { return Field{Key: key, Value: value} }

// Int creates an integer field.
func Int(key string, value int) Field { return Field{Key: key, Value: value} }

// Bool creates a boolean field.
func Bool(key string, value bool) Field { return Field{Key: key, Value: value} }

// Error creates an error field.
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Duration creates a field out of anything that renders itself as a
// duration string (time.Duration satisfies this without importing
// "time" here).
func Duration(key string, value interface{ String() string }) Field {
	return Field{Key: key, Value: value.String()}
}

// Any creates a field with any value.
func Any(key string, value interface{}) Field { return Field{Key: key, Value: value} }

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Fatal(msg string, fields ...Field)

	WithContext(ctx context.Context) Logger
	WithFields(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// StructuredLogger implements Logger on top of zerolog's
// zero-allocation JSON event builder, replacing this package's
// previous hand-rolled map-to-JSON encoder.
type StructuredLogger struct {
	zl    zerolog.Logger
	level Level
	ctx   context.Context
}

// NewLogger creates a new structured logger writing to output at the
// given minimum level.
func NewLogger(output io.Writer, level Level) *StructuredLogger {
	zl := zerolog.New(output).With().Timestamp().Caller().Logger().Level(level.zerolog())
	return &StructuredLogger{zl: zl, level: level}
}

// NewDefaultLogger creates a logger with default settings, honoring
// the HTTPSIG_LOG_LEVEL environment variable.
func NewDefaultLogger() *StructuredLogger {
	level := InfoLevel
	if envLevel := os.Getenv("HTTPSIG_LOG_LEVEL"); envLevel != "" {
		switch strings.ToUpper(envLevel) {
		case "DEBUG":
			level = DebugLevel
		case "INFO":
			level = InfoLevel
		case "WARN":
			level = WarnLevel
		case "ERROR":
			level = ErrorLevel
		}
	}
	return NewLogger(os.Stdout, level)
}

// SetPrettyPrint switches the logger to zerolog's human-readable
// console writer instead of raw JSON lines.
func (l *StructuredLogger) SetPrettyPrint(pretty bool) {
	if !pretty {
		return
	}
	l.zl = l.zl.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func (l *StructuredLogger) Debug(msg string, fields ...Field) { l.log(DebugLevel, msg, fields...) }
func (l *StructuredLogger) Info(msg string, fields ...Field)  { l.log(InfoLevel, msg, fields...) }
func (l *StructuredLogger) Warn(msg string, fields ...Field)  { l.log(WarnLevel, msg, fields...) }
func (l *StructuredLogger) Error(msg string, fields ...Field) { l.log(ErrorLevel, msg, fields...) }

func (l *StructuredLogger) Fatal(msg string, fields ...Field) {
	l.log(FatalLevel, msg, fields...)
	os.Exit(1)
}

// WithContext returns a new logger carrying ctx, whose request_id and
// trace_id values (if present) are attached to every subsequent entry.
func (l *StructuredLogger) WithContext(ctx context.Context) Logger {
	next := *l
	next.ctx = ctx
	return &next
}

// WithFields returns a new logger with additional fields attached to
// every subsequent entry.
func (l *StructuredLogger) WithFields(fields ...Field) Logger {
	zctx := l.zl.With()
	for _, f := range fields {
		zctx = zctx.Interface(f.Key, f.Value)
	}
	next := *l
	next.zl = zctx.Logger()
	return &next
}

func (l *StructuredLogger) SetLevel(level Level) {
	l.level = level
	l.zl = l.zl.Level(level.zerolog())
}

func (l *StructuredLogger) GetLevel() Level { return l.level }

func (l *StructuredLogger) log(level Level, msg string, fields ...Field) {
	ev := l.zl.WithLevel(level.zerolog())
	if ev == nil {
		return
	}
	if l.ctx != nil {
		if requestID := l.ctx.Value(contextKeyRequestID); requestID != nil {
			ev = ev.Interface("request_id", requestID)
		}
		if traceID := l.ctx.Value(contextKeyTraceID); traceID != nil {
			ev = ev.Interface("trace_id", traceID)
		}
	}
	for _, f := range fields {
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Msg(msg)
}

type contextKey string

const (
	contextKeyRequestID contextKey = "request_id"
	contextKeyTraceID   contextKey = "trace_id"
)
