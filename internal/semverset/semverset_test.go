// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package semverset

import (
	"testing"

	"github.com/depgraph/pubgrub"
)

func TestParseVersionRoundTrip(t *testing.T) {
	v, err := ParseVersion("1.2.3")
	if err != nil {
		t.Fatalf("ParseVersion: %v", err)
	}
	if got := v.String(); got != "1.2.3" {
		t.Errorf("String() = %q, want %q", got, "1.2.3")
	}
}

func TestParseVersionRejectsGarbage(t *testing.T) {
	if _, err := ParseVersion("not-a-version"); err == nil {
		t.Error("want error parsing an invalid version")
	}
}

func TestVersionCompare(t *testing.T) {
	a := MustParseVersion("1.0.0")
	b := MustParseVersion("1.1.0")
	if a.Compare(b) >= 0 {
		t.Errorf("1.0.0 should compare less than 1.1.0")
	}
	if b.Compare(a) <= 0 {
		t.Errorf("1.1.0 should compare greater than 1.0.0")
	}
	if a.Compare(a) != 0 {
		t.Errorf("a version should compare equal to itself")
	}
}

func TestVersionComparePanicsOnForeignType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("want a panic comparing against a non-semverset.Version")
		}
	}()
	a := MustParseVersion("1.0.0")
	a.Compare(fakeVersion{})
}

type fakeVersion struct{}

func (fakeVersion) String() string             { return "fake" }
func (fakeVersion) Compare(pubgrub.Version) int { return 0 }

func TestNextMajor(t *testing.T) {
	v := MustParseVersion("1.4.7")
	next := v.NextMajor()
	if got := next.String(); got != "2.0.0" {
		t.Errorf("NextMajor() = %q, want %q", got, "2.0.0")
	}
}

func TestCaretRange(t *testing.T) {
	vs, err := CaretRange("^1.2.0")
	if err != nil {
		t.Fatalf("CaretRange: %v", err)
	}
	if !vs.Contains(MustParseVersion("1.2.0")) {
		t.Error("^1.2.0 should contain 1.2.0")
	}
	if !vs.Contains(MustParseVersion("1.9.9")) {
		t.Error("^1.2.0 should contain 1.9.9")
	}
	if vs.Contains(MustParseVersion("2.0.0")) {
		t.Error("^1.2.0 should not contain 2.0.0")
	}
}

func TestExactRange(t *testing.T) {
	vs, err := ExactRange("1.2.0")
	if err != nil {
		t.Fatalf("ExactRange: %v", err)
	}
	if !vs.Contains(MustParseVersion("1.2.0")) {
		t.Error("ExactRange(1.2.0) should contain 1.2.0")
	}
	if vs.Contains(MustParseVersion("1.2.1")) {
		t.Error("ExactRange(1.2.0) should not contain 1.2.1")
	}
}
