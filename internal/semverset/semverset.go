// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package semverset adapts github.com/Masterminds/semver versions and
// constraints onto the pubgrub.Version and pubgrub.VersionSet algebra, the
// way the teacher's constraints.go adapts the same library onto its own
// Constraint interface.
package semverset

import (
	"strconv"
	"strings"

	"github.com/Masterminds/semver"

	"github.com/depgraph/pubgrub"
)

// Version wraps a semver.Version as a pubgrub.Version, additionally
// implementing pubgrub.MajorBounder so decision making can compute the
// `[v, nextMajor(v))` incompatibility bound (spec.md §4.E step 5).
type Version struct {
	v *semver.Version
}

// ParseVersion parses a semantic version string.
func ParseVersion(s string) (Version, error) {
	sv, err := semver.NewVersion(s)
	if err != nil {
		return Version{}, err
	}
	return Version{v: sv}, nil
}

// MustParseVersion is ParseVersion, panicking on error - for tests and
// fixtures built from literal version strings.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (v Version) String() string {
	if v.v == nil {
		return "<nil>"
	}
	return v.v.String()
}

// Compare implements pubgrub.Version. Comparing against a non-Version
// argument is a programmer error, since the solver never mixes version
// universes for a single package.
func (v Version) Compare(other pubgrub.Version) int {
	o, ok := other.(Version)
	if !ok {
		panic("semverset: Compare called against a non-semver Version")
	}
	return v.v.Compare(o.v)
}

// NextMajor implements pubgrub.MajorBounder: the first version of the next
// major release line.
func (v Version) NextMajor() pubgrub.Version {
	next, err := semver.NewVersion(strconv.FormatInt(int64(v.v.Major())+1, 10) + ".0.0")
	if err != nil {
		panic(err)
	}
	return Version{v: next}
}

// CaretRange parses a caret-style constraint `^x.y.z` (spec.md §8: `^x.y.z
// ≡ [x.y.z, (x+1).0.0)`) directly into a pubgrub.VersionSet, bypassing
// semver.Constraint - the engine's term algebra needs an explicit [lo, hi)
// pair, not a predicate.
func CaretRange(s string) (pubgrub.VersionSet, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "^")
	lo, err := ParseVersion(s)
	if err != nil {
		return pubgrub.VersionSet{}, err
	}
	return pubgrub.RangeVersionSet(lo, lo.NextMajor()), nil
}

// ExactRange returns the VersionSet matching exactly the version named by s.
func ExactRange(s string) (pubgrub.VersionSet, error) {
	v, err := ParseVersion(s)
	if err != nil {
		return pubgrub.VersionSet{}, err
	}
	return pubgrub.ExactVersionSet(v), nil
}
