// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pubgrublog is a minimal leveled wrapper around an io.Writer, in
// the style of the teacher's log/logger.go, generalized with a level so a
// caller running the solver with Trace enabled can separate algorithm
// trace output from ordinary progress messages.
package pubgrublog

import (
	"fmt"
	"io"
)

// Level orders log verbosity, least to most verbose.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelTrace
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarn:
		return "warn"
	case LevelInfo:
		return "info"
	default:
		return "trace"
	}
}

// Logger is a minimal wrapper around an io.Writer that drops any line below
// its configured Level.
type Logger struct {
	io.Writer
	Level Level
}

// New returns a new Logger writing to w at level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{Writer: w, Level: level}
}

func (l *Logger) logln(level Level, prefix string, args ...interface{}) {
	if level > l.Level {
		return
	}
	fmt.Fprint(l, prefix)
	fmt.Fprintln(l, args...)
}

func (l *Logger) logf(level Level, prefix, f string, args ...interface{}) {
	if level > l.Level {
		return
	}
	fmt.Fprint(l, prefix)
	fmt.Fprintf(l, f, args...)
	fmt.Fprintln(l)
}

func (l *Logger) Errorln(args ...interface{})            { l.logln(LevelError, "pubgrub: error: ", args...) }
func (l *Logger) Errorf(f string, args ...interface{})   { l.logf(LevelError, "pubgrub: error: ", f, args...) }
func (l *Logger) Warnln(args ...interface{})             { l.logln(LevelWarn, "pubgrub: warn: ", args...) }
func (l *Logger) Warnf(f string, args ...interface{})    { l.logf(LevelWarn, "pubgrub: warn: ", f, args...) }
func (l *Logger) Infoln(args ...interface{})             { l.logln(LevelInfo, "pubgrub: ", args...) }
func (l *Logger) Infof(f string, args ...interface{})    { l.logf(LevelInfo, "pubgrub: ", f, args...) }
func (l *Logger) Traceln(args ...interface{})            { l.logln(LevelTrace, "pubgrub: trace: ", args...) }
func (l *Logger) Tracef(f string, args ...interface{})   { l.logf(LevelTrace, "pubgrub: trace: ", f, args...) }
