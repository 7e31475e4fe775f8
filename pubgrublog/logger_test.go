// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrublog

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoggerDropsBelowConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)

	l.Tracef("should not appear %d", 1)
	l.Infoln("should not appear either")
	if buf.Len() != 0 {
		t.Fatalf("got %q, want nothing logged below LevelWarn", buf.String())
	}

	l.Warnln("a warning")
	if got := buf.String(); !strings.Contains(got, "a warning") {
		t.Errorf("got %q, want it to contain the warning", got)
	}
}

func TestLoggerErrorAlwaysPasses(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelError)

	l.Errorf("boom: %s", "oops")
	if got := buf.String(); !strings.Contains(got, "boom: oops") {
		t.Errorf("got %q, want the formatted error message", got)
	}
}

func TestLoggerPrefixesByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelTrace)
	l.Traceln("x")
	if got := buf.String(); !strings.Contains(got, "trace") {
		t.Errorf("got %q, want the trace prefix", got)
	}
}

func TestLevelString(t *testing.T) {
	cases := map[Level]string{
		LevelError: "error",
		LevelWarn:  "warn",
		LevelInfo:  "info",
		LevelTrace: "trace",
	}
	for level, want := range cases {
		if got := level.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", level, got, want)
		}
	}
}
