// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package manifestfile

import (
	"strings"
	"testing"

	"github.com/depgraph/pubgrub/internal/semverset"
)

func TestParseRootAndDependencies(t *testing.T) {
	doc := `
[root]
name = "example.com/app"

[[dependencies]]
name = "example.com/foo"
constraint = "^1.2.0"

[[dependencies]]
name = "example.com/bar"
constraint = "2.0.0"
`
	m, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Root.String() != "example.com/app" {
		t.Errorf("Root = %s, want example.com/app", m.Root)
	}
	if len(m.Dependencies) != 2 {
		t.Fatalf("got %d dependencies, want 2", len(m.Dependencies))
	}

	foo := m.Dependencies[0]
	if foo.Package.String() != "example.com/foo" {
		t.Errorf("Dependencies[0].Package = %s", foo.Package)
	}
	vs, ok := foo.Requirement.IsVersionSet()
	if !ok {
		t.Fatal("Dependencies[0].Requirement is not a version set")
	}
	if !vs.Contains(semverset.MustParseVersion("1.5.0")) {
		t.Error("^1.2.0 should contain 1.5.0")
	}
	if vs.Contains(semverset.MustParseVersion("2.0.0")) {
		t.Error("^1.2.0 should not contain 2.0.0")
	}

	bar := m.Dependencies[1]
	vs, ok = bar.Requirement.IsVersionSet()
	if !ok {
		t.Fatal("Dependencies[1].Requirement is not a version set")
	}
	if !vs.Contains(semverset.MustParseVersion("2.0.0")) {
		t.Error("exact constraint 2.0.0 should contain 2.0.0")
	}
	if vs.Contains(semverset.MustParseVersion("2.0.1")) {
		t.Error("exact constraint 2.0.0 should not contain 2.0.1")
	}
}

func TestParseRejectsMissingRoot(t *testing.T) {
	doc := `
[[dependencies]]
name = "example.com/foo"
constraint = "1.0.0"
`
	if _, err := Parse(strings.NewReader(doc)); err == nil {
		t.Error("want error when [root] is missing")
	}
}

func TestParseRejectsMissingConstraint(t *testing.T) {
	doc := `
[root]
name = "example.com/app"

[[dependencies]]
name = "example.com/foo"
`
	if _, err := Parse(strings.NewReader(doc)); err == nil {
		t.Error("want error for a dependency with no constraint")
	}
}

func TestParseNoDependenciesIsValid(t *testing.T) {
	doc := `
[root]
name = "example.com/app"
`
	m, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Dependencies) != 0 {
		t.Errorf("got %d dependencies, want 0", len(m.Dependencies))
	}
}
