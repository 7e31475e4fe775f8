// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

import "fmt"

// PackageRef is the opaque identity of a package, as supplied by the caller.
// Two PackageRefs naming the same package must be equal; PackageRef is used
// directly as a map key throughout the solver, so it must remain comparable.
type PackageRef struct {
	name string
}

// NewPackageRef wraps a caller-supplied package name as a PackageRef.
func NewPackageRef(name string) PackageRef {
	return PackageRef{name: name}
}

// String returns the package's name.
func (p PackageRef) String() string {
	return p.name
}

// Version is an opaque, orderable package version. Concrete implementations
// (semantic versions, revisions, ...) live outside this package; the solver
// only ever compares versions through this interface.
type Version interface {
	fmt.Stringer
	// Compare returns -1, 0, or 1 as this version is less than, equal to, or
	// greater than other. Comparing versions of different concrete types is
	// a programmer error and may panic.
	Compare(other Version) int
}

// MajorBounder is an optional Version capability used by decision making to
// build the `[v, nextMajor(v))` incompatibility of spec.md §4.E step 5.
// Versions that don't implement it (e.g. the root sentinel, which no other
// package ever depends on) fall back to the exact-point range exact(v).
type MajorBounder interface {
	NextMajor() Version
}

// versionsEqual reports whether a and b compare equal, tolerating either being nil.
func versionsEqual(a, b Version) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Compare(b) == 0
}

// BoundVersion is the binding assigned to a package in a solved output: a
// concrete version, an opaque revision, or unversioned.
type BoundVersion struct {
	kind     boundKind
	version  Version
	revision string
}

type boundKind uint8

const (
	boundVersion boundKind = iota
	boundRevision
	boundUnversioned
)

// NewBoundVersion wraps a concrete Version as a BoundVersion.
func NewBoundVersion(v Version) BoundVersion {
	return BoundVersion{kind: boundVersion, version: v}
}

// NewBoundRevision wraps an opaque revision string as a BoundVersion.
func NewBoundRevision(rev string) BoundVersion {
	return BoundVersion{kind: boundRevision, revision: rev}
}

// UnversionedBound is the BoundVersion for a package with no version
// concept at all (e.g. the root package).
func UnversionedBound() BoundVersion {
	return BoundVersion{kind: boundUnversioned}
}

// Version returns the concrete Version and true if this is a version bound.
func (b BoundVersion) Version() (Version, bool) {
	return b.version, b.kind == boundVersion
}

// Revision returns the revision string and true if this is a revision bound.
func (b BoundVersion) Revision() (string, bool) {
	return b.revision, b.kind == boundRevision
}

// IsUnversioned reports whether this bound carries no version information.
func (b BoundVersion) IsUnversioned() bool {
	return b.kind == boundUnversioned
}

func (b BoundVersion) String() string {
	switch b.kind {
	case boundVersion:
		if b.version == nil {
			return "(unknown)"
		}
		return b.version.String()
	case boundRevision:
		return b.revision
	default:
		return "(unversioned)"
	}
}
