// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pins parses a pins file - a TOML document fixing specific
// packages to specific bindings ahead of a solve - the way the teacher's
// toml.go/manifest.go parse a Gopkg.toml, using the same
// github.com/pelletier/go-toml query-based mapping style.
//
// Per spec.md §9 open question 5, the solver accepts pins but does not yet
// consume them; this package only parses the file into []pubgrub.Pin for a
// caller to pass through SolveParameters.Pins.
package pins

import (
	"io"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"

	"github.com/depgraph/pubgrub"
	"github.com/depgraph/pubgrub/internal/semverset"
)

// rawPin mirrors one `[[pin]]` table entry.
type rawPin struct {
	Name     string
	Version  string
	Revision string
}

type mapper struct {
	Tree  *toml.TomlTree
	Error error
}

// Parse reads a pins file of the form:
//
//	[[pin]]
//	name = "example.com/foo"
//	version = "1.2.3"
//
//	[[pin]]
//	name = "example.com/bar"
//	revision = "abcdef0"
func Parse(r io.Reader) ([]pubgrub.Pin, error) {
	tree, err := toml.LoadReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "pins: invalid TOML")
	}

	m := &mapper{Tree: tree}
	raws := readPins(m)
	if m.Error != nil {
		return nil, m.Error
	}

	out := make([]pubgrub.Pin, 0, len(raws))
	for _, rp := range raws {
		pin, err := toPin(rp)
		if err != nil {
			return nil, errors.Wrapf(err, "pins: invalid entry for %s", rp.Name)
		}
		out = append(out, pin)
	}
	return out, nil
}

func toPin(rp rawPin) (pubgrub.Pin, error) {
	if rp.Name == "" {
		return pubgrub.Pin{}, errors.New("missing name")
	}
	pkg := pubgrub.NewPackageRef(rp.Name)

	switch {
	case rp.Revision != "":
		return pubgrub.Pin{Package: pkg, Bound: pubgrub.NewBoundRevision(rp.Revision)}, nil
	case rp.Version != "":
		v, err := semverset.ParseVersion(rp.Version)
		if err != nil {
			return pubgrub.Pin{}, errors.Wrap(err, "invalid version")
		}
		return pubgrub.Pin{Package: pkg, Bound: pubgrub.NewBoundVersion(v)}, nil
	default:
		return pubgrub.Pin{Package: pkg, Bound: pubgrub.UnversionedBound()}, nil
	}
}

func readPins(m *mapper) []rawPin {
	if m.Error != nil {
		return nil
	}

	query, err := m.Tree.Query("$.pin")
	if err != nil {
		m.Error = errors.Wrap(err, "unable to query for [[pin]]")
		return nil
	}

	matches := query.Values()
	if len(matches) == 0 {
		return nil
	}

	tables, ok := matches[0].([]*toml.TomlTree)
	if !ok {
		m.Error = errors.Errorf("invalid query result type for [[pin]], should be a TOML array of tables but got %T", matches[0])
		return nil
	}

	pins := make([]rawPin, len(tables))
	for i, t := range tables {
		sub := &mapper{Tree: t}
		pins[i] = rawPin{
			Name:     readString(sub, "name"),
			Version:  readString(sub, "version"),
			Revision: readString(sub, "revision"),
		}
		if sub.Error != nil {
			m.Error = sub.Error
			return nil
		}
	}
	return pins
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
