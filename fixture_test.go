// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

import "strconv"

// intVersion is a minimal Version implementation for tests: a single
// integer ordered the obvious way, with NextMajor() reporting the next
// integer so MajorBounder-dependent paths (decision making, range
// construction) exercise without dragging in internal/semverset. Tests
// encode a fictitious "major.minor" version as major*10+minor, so a
// caretRange(major) of [major*10, major*10+10) behaves like spec.md §8's
// `^major.0.0` ranges while still letting several minor versions share a
// major line.
type intVersion int

func iv(n int) intVersion { return intVersion(n) }

func (v intVersion) String() string { return strconv.Itoa(int(v)) }

func (v intVersion) Compare(other Version) int {
	o := other.(intVersion)
	switch {
	case v < o:
		return -1
	case v > o:
		return 1
	default:
		return 0
	}
}

func (v intVersion) NextMajor() Version { return v + 1 }

func pkg(name string) PackageRef { return NewPackageRef(name) }
