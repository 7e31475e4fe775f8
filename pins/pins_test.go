// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pins

import (
	"strings"
	"testing"
)

func TestParseVersionAndRevisionPins(t *testing.T) {
	doc := `
[[pin]]
name = "example.com/foo"
version = "1.2.3"

[[pin]]
name = "example.com/bar"
revision = "abcdef0"

[[pin]]
name = "example.com/baz"
`
	pins, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(pins) != 3 {
		t.Fatalf("got %d pins, want 3", len(pins))
	}

	if pins[0].Package.String() != "example.com/foo" {
		t.Errorf("pins[0].Package = %s", pins[0].Package)
	}
	if v, ok := pins[0].Bound.Version(); !ok || v.String() != "1.2.3" {
		t.Errorf("pins[0].Bound = %s, want version 1.2.3", pins[0].Bound)
	}

	if rev, ok := pins[1].Bound.Revision(); !ok || rev != "abcdef0" {
		t.Errorf("pins[1].Bound = %s, want revision abcdef0", pins[1].Bound)
	}

	if !pins[2].Bound.IsUnversioned() {
		t.Errorf("pins[2].Bound = %s, want unversioned", pins[2].Bound)
	}
}

func TestParseRejectsMissingName(t *testing.T) {
	doc := `
[[pin]]
version = "1.0.0"
`
	if _, err := Parse(strings.NewReader(doc)); err == nil {
		t.Error("want error for a pin with no name")
	}
}

func TestParseEmptyDocumentHasNoPins(t *testing.T) {
	pins, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(pins) != 0 {
		t.Errorf("got %d pins from an empty document, want 0", len(pins))
	}
}

func TestParseRejectsInvalidTOML(t *testing.T) {
	if _, err := Parse(strings.NewReader("not valid [ toml")); err == nil {
		t.Error("want error for invalid TOML")
	}
}
