// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package log defines the package-level logging interface used throughout
// the verifier. It follows the classic btclog convention: packages hold a
// private var log Logger defaulting to Disabled, and callers wire in a real
// backend via UseLogger.
package log

import (
	"fmt"
	"io"
	"os"
)

// Level is the level at which a logger is configured. All messages sent to
// a particular logger which are below the current level are filtered.
type Level uint32

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff
)

var levelStrs = [...]string{"TRC", "DBG", "INF", "WRN", "ERR", "CRT", "OFF"}

// String returns the tag for the given level.
func (l Level) String() string {
	if l >= LevelOff {
		return "OFF"
	}
	return levelStrs[l]
}

// LevelFromString returns a level based on the input string s. If the input
// can't be interpreted as a valid log level, the info level and false is
// returned.
func LevelFromString(s string) (Level, bool) {
	switch s {
	case "trace", "trc":
		return LevelTrace, true
	case "debug", "dbg":
		return LevelDebug, true
	case "info", "inf":
		return LevelInfo, true
	case "warn", "wrn":
		return LevelWarn, true
	case "error", "err":
		return LevelError, true
	case "critical", "crt":
		return LevelCritical, true
	case "off":
		return LevelOff, true
	default:
		return LevelInfo, false
	}
}

// Logger is the interface package-level loggers throughout the verifier are
// expected to implement. It intentionally mirrors btclog's Logger so the
// ambient logging conventions carried over from the host codebase keep
// working without adaptation.
type Logger interface {
	Tracef(format string, params ...interface{})
	Debugf(format string, params ...interface{})
	Infof(format string, params ...interface{})
	Warnf(format string, params ...interface{})
	Errorf(format string, params ...interface{})
	Criticalf(format string, params ...interface{})

	Trace(args ...interface{})
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Critical(args ...interface{})

	Level() Level
	SetLevel(level Level)
}

// Disabled is a Logger that discards every message sent to it. Packages
// default to this logger until a caller installs a real one with UseLogger.
var Disabled Logger = &backendLogger{out: io.Discard, level: LevelOff, subsystem: "DISABLED"}

// backendLogger is a minimal Logger implementation that writes tagged,
// leveled lines to an io.Writer, e.g. os.Stdout or a rotating file handle.
type backendLogger struct {
	out       io.Writer
	level     Level
	subsystem string
}

func (b *backendLogger) write(level Level, msg string) {
	if level < b.level {
		return
	}
	fmt.Fprintf(b.out, "%s: %s: %s\n", level, b.subsystem, msg)
}

func (b *backendLogger) Tracef(format string, params ...interface{}) {
	b.write(LevelTrace, fmt.Sprintf(format, params...))
}
func (b *backendLogger) Debugf(format string, params ...interface{}) {
	b.write(LevelDebug, fmt.Sprintf(format, params...))
}
func (b *backendLogger) Infof(format string, params ...interface{}) {
	b.write(LevelInfo, fmt.Sprintf(format, params...))
}
func (b *backendLogger) Warnf(format string, params ...interface{}) {
	b.write(LevelWarn, fmt.Sprintf(format, params...))
}
func (b *backendLogger) Errorf(format string, params ...interface{}) {
	b.write(LevelError, fmt.Sprintf(format, params...))
}
func (b *backendLogger) Criticalf(format string, params ...interface{}) {
	b.write(LevelCritical, fmt.Sprintf(format, params...))
}

func (b *backendLogger) Trace(args ...interface{})    { b.write(LevelTrace, fmt.Sprint(args...)) }
func (b *backendLogger) Debug(args ...interface{})    { b.write(LevelDebug, fmt.Sprint(args...)) }
func (b *backendLogger) Info(args ...interface{})     { b.write(LevelInfo, fmt.Sprint(args...)) }
func (b *backendLogger) Warn(args ...interface{})     { b.write(LevelWarn, fmt.Sprint(args...)) }
func (b *backendLogger) Error(args ...interface{})    { b.write(LevelError, fmt.Sprint(args...)) }
func (b *backendLogger) Critical(args ...interface{}) { b.write(LevelCritical, fmt.Sprint(args...)) }

func (b *backendLogger) Level() Level          { return b.level }
func (b *backendLogger) SetLevel(level Level)  { b.level = level }

// Backend wraps an io.Writer and vends subsystem-tagged Loggers over it,
// matching the btclog Backend.Logger(subsystem) pattern.
type Backend struct {
	out io.Writer
}

// NewBackend creates a logging backend that writes to w.
func NewBackend(w io.Writer) *Backend {
	return &Backend{out: w}
}

// Logger returns a new Logger for the given subsystem, writing to the
// backend's output, starting at LevelInfo.
func (b *Backend) Logger(subsystem string) Logger {
	return &backendLogger{out: b.out, level: LevelInfo, subsystem: subsystem}
}

// NewDefaultLogger is a convenience constructor for a Logger that writes to
// stdout, used by tests and example entry points.
func NewDefaultLogger(subsystem string) Logger {
	return NewBackend(os.Stdout).Logger(subsystem)
}
