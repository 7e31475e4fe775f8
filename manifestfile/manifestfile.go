// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package manifestfile parses the TOML manifest that seeds a solve: the
// root package's name and its direct, caller-declared dependency
// constraints, the way the teacher's toml.go/manifest.go parse a
// Gopkg.toml, using the same github.com/pelletier/go-toml query-based
// mapping style as pubgrub/pins.
package manifestfile

import (
	"io"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/depgraph/pubgrub"
	"github.com/depgraph/pubgrub/internal/semverset"
)

// Manifest is the parsed form of a manifest file: the root package's
// identity and its declared dependency constraints.
type Manifest struct {
	Root         pubgrub.PackageRef
	Dependencies []pubgrub.Dependency
}

type rawDependency struct {
	Name       string
	Constraint string
}

type mapper struct {
	Tree  *toml.TomlTree
	Error error
}

// Parse reads a manifest file of the form:
//
//	[root]
//	name = "example.com/app"
//
//	[[dependencies]]
//	name = "example.com/foo"
//	constraint = "^1.2.0"
//
//	[[dependencies]]
//	name = "example.com/bar"
//	constraint = "2.0.0"
func Parse(r io.Reader) (*Manifest, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "manifest: invalid TOML")
	}

	m := &mapper{Tree: tree}
	rootName := readRootName(m)
	if m.Error != nil {
		return nil, m.Error
	}
	if rootName == "" {
		return nil, errors.New("manifest: missing [root] name")
	}

	raws := readDependencies(m)
	if m.Error != nil {
		return nil, m.Error
	}

	deps := make([]pubgrub.Dependency, 0, len(raws))
	for _, rd := range raws {
		dep, err := toDependency(rd)
		if err != nil {
			return nil, errors.Wrapf(err, "manifest: invalid entry for %s", rd.Name)
		}
		deps = append(deps, dep)
	}

	return &Manifest{
		Root:         pubgrub.NewPackageRef(rootName),
		Dependencies: deps,
	}, nil
}

func toDependency(rd rawDependency) (pubgrub.Dependency, error) {
	if rd.Name == "" {
		return pubgrub.Dependency{}, errors.New("missing name")
	}

	req, err := parseConstraint(rd.Constraint)
	if err != nil {
		return pubgrub.Dependency{}, err
	}
	return pubgrub.Dependency{
		Package:     pubgrub.NewPackageRef(rd.Name),
		Requirement: req,
	}, nil
}

// parseConstraint interprets a constraint string: a leading "^" selects a
// caret range (spec.md §8 `^x.y.z`); anything else is an exact version
// match. An empty string is an error.
func parseConstraint(s string) (pubgrub.PackageRequirement, error) {
	var (
		vs  pubgrub.VersionSet
		err error
	)
	switch {
	case s == "":
		return pubgrub.PackageRequirement{}, errors.New("missing constraint")
	case s[0] == '^':
		vs, err = semverset.CaretRange(s)
	default:
		vs, err = semverset.ExactRange(s)
	}
	if err != nil {
		return pubgrub.PackageRequirement{}, errors.Wrap(err, "invalid constraint")
	}
	return pubgrub.VersionSetRequirement(vs), nil
}

func readRootName(m *mapper) string {
	if m.Error != nil {
		return ""
	}
	query, err := m.Tree.Query("$.root.name")
	if err != nil {
		m.Error = errors.Wrap(err, "unable to query for root.name")
		return ""
	}
	matches := query.Values()
	if len(matches) == 0 {
		return ""
	}
	name, ok := matches[0].(string)
	if !ok {
		m.Error = errors.Errorf("invalid type for root.name, should be a string, but it is a %T", matches[0])
		return ""
	}
	return name
}

func readDependencies(m *mapper) []rawDependency {
	if m.Error != nil {
		return nil
	}

	query, err := m.Tree.Query("$.dependencies")
	if err != nil {
		m.Error = errors.Wrap(err, "unable to query for [[dependencies]]")
		return nil
	}

	matches := query.Values()
	if len(matches) == 0 {
		return nil
	}

	tables, ok := matches[0].([]*toml.TomlTree)
	if !ok {
		m.Error = errors.Errorf("invalid query result type for [[dependencies]], should be a TOML array of tables but got %T", matches[0])
		return nil
	}

	deps := make([]rawDependency, len(tables))
	for i, t := range tables {
		sub := &mapper{Tree: t}
		deps[i] = rawDependency{
			Name:       readString(sub, "name"),
			Constraint: readString(sub, "constraint"),
		}
		if sub.Error != nil {
			m.Error = sub.Error
			return nil
		}
	}
	return deps
}

func readString(m *mapper, key string) string {
	if m.Error != nil {
		return ""
	}
	raw := m.Tree.GetDefault(key, "")
	v, ok := raw.(string)
	if !ok {
		m.Error = errors.Errorf("invalid type for %s, should be a string, but it is a %T", key, raw)
		return ""
	}
	return v
}
