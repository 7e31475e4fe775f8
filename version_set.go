// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

// VersionSet is the tagged variant described by the term algebra: any,
// empty, a single exact version, or a half-open range [lo, hi). A nil lo or
// hi bound on a range means "unbounded" in that direction; a range with
// both bounds nil is normalized to `any` by RangeVersionSet, and the Is*
// methods report which variant a set is.
//
// Ranges never collapse to exact, even when a caller could prove
// lo.next() == hi; that collapsing is not assumed anywhere in this package
// (spec invariant: "ranges stay as ranges").
type VersionSet struct {
	kind  vsKind
	lo    Version // nil => unbounded below; meaningful only for kind == vsRange
	hi    Version // nil => unbounded above; meaningful only for kind == vsRange
	exact Version // meaningful only for kind == vsExact
}

type vsKind uint8

const (
	vsAny vsKind = iota
	vsEmpty
	vsExact
	vsRange
)

// AnyVersionSet returns the set containing every version.
func AnyVersionSet() VersionSet { return VersionSet{kind: vsAny} }

// EmptyVersionSet returns the set containing no versions.
func EmptyVersionSet() VersionSet { return VersionSet{kind: vsEmpty} }

// ExactVersionSet returns the set containing exactly v.
func ExactVersionSet(v Version) VersionSet {
	if v == nil {
		return EmptyVersionSet()
	}
	return VersionSet{kind: vsExact, exact: v}
}

// RangeVersionSet returns the half-open set [lo, hi). A nil lo or hi means
// unbounded in that direction. If lo is not strictly less than hi, the
// empty set is returned rather than a degenerate range.
func RangeVersionSet(lo, hi Version) VersionSet {
	if lo != nil && hi != nil && lo.Compare(hi) >= 0 {
		return EmptyVersionSet()
	}
	if lo == nil && hi == nil {
		return AnyVersionSet()
	}
	return VersionSet{kind: vsRange, lo: lo, hi: hi}
}

func (vs VersionSet) IsAny() bool   { return vs.kind == vsAny }
func (vs VersionSet) IsEmpty() bool { return vs.kind == vsEmpty }
func (vs VersionSet) IsExact() bool { return vs.kind == vsExact }
func (vs VersionSet) IsRange() bool { return vs.kind == vsRange }

// ExactVersion returns the pinned version and true, for an exact set.
func (vs VersionSet) ExactVersion() (Version, bool) {
	if vs.kind != vsExact {
		return nil, false
	}
	return vs.exact, true
}

// Bounds returns the effective half-open bounds of vs, treating `any` as
// (nil, nil) and collapsing `exact` to a single-point range. Calling Bounds
// on an empty set is a programmer error.
func (vs VersionSet) Bounds() (lo, hi Version) {
	switch vs.kind {
	case vsAny:
		return nil, nil
	case vsRange:
		return vs.lo, vs.hi
	case vsExact:
		return vs.exact, vs.exact
	default:
		panic("pubgrub: Bounds called on empty VersionSet")
	}
}

// Contains reports whether v is a member of vs.
func (vs VersionSet) Contains(v Version) bool {
	if v == nil {
		return false
	}
	switch vs.kind {
	case vsAny:
		return true
	case vsEmpty:
		return false
	case vsExact:
		return v.Compare(vs.exact) == 0
	case vsRange:
		if vs.lo != nil && v.Compare(vs.lo) < 0 {
			return false
		}
		if vs.hi != nil && v.Compare(vs.hi) >= 0 {
			return false
		}
		return true
	}
	panic("pubgrub: unreachable VersionSet kind")
}

// Equal reports structural equality between two version sets.
func (vs VersionSet) Equal(o VersionSet) bool {
	if vs.kind != o.kind {
		return false
	}
	switch vs.kind {
	case vsAny, vsEmpty:
		return true
	case vsExact:
		return versionsEqual(vs.exact, o.exact)
	case vsRange:
		return versionsEqual(vs.lo, o.lo) && versionsEqual(vs.hi, o.hi)
	}
	return false
}

// lowerLess reports whether lower bound x is strictly less than lower bound
// y, treating nil as negative infinity.
func lowerLess(x, y Version) bool {
	if x == nil {
		return y != nil
	}
	if y == nil {
		return false
	}
	return x.Compare(y) < 0
}

// lowerMax returns the greater (more restrictive) of two lower bounds.
func lowerMax(x, y Version) Version {
	if lowerLess(x, y) {
		return y
	}
	return x
}

// upperLess reports whether upper bound x is strictly less than upper bound
// y, treating nil as positive infinity.
func upperLess(x, y Version) bool {
	if y == nil {
		return x != nil
	}
	if x == nil {
		return false
	}
	return x.Compare(y) < 0
}

// upperMin returns the lesser (more restrictive) of two upper bounds.
func upperMin(x, y Version) Version {
	if upperLess(x, y) {
		return x
	}
	return y
}

// upperMax returns the greater (less restrictive) of two upper bounds.
func upperMax(x, y Version) Version {
	if upperLess(x, y) {
		return y
	}
	return x
}

// lowerMin returns the lesser (less restrictive) of two lower bounds.
func lowerMin(x, y Version) Version {
	if lowerLess(x, y) {
		return x
	}
	return y
}

// Intersection returns the intersection of vs and o (§4.A).
func (vs VersionSet) Intersection(o VersionSet) VersionSet {
	if vs.kind == vsAny {
		return o
	}
	if o.kind == vsAny {
		return vs
	}
	if vs.kind == vsEmpty || o.kind == vsEmpty {
		return EmptyVersionSet()
	}
	if vs.kind == vsExact {
		if o.Contains(vs.exact) {
			return vs
		}
		return EmptyVersionSet()
	}
	if o.kind == vsExact {
		if vs.Contains(o.exact) {
			return o
		}
		return EmptyVersionSet()
	}
	// Both ranges: half-open interval intersection.
	lo := lowerMax(vs.lo, o.lo)
	hi := upperMin(vs.hi, o.hi)
	return RangeVersionSet(lo, hi)
}

// IntersectionWithInverse computes vs ∩ ¬o.
//
// For adjacent/nested ranges this is exact. For the general case it is
// under-specified in the source algorithm this engine follows: the true
// result can require two disjoint intervals, which this tagged
// representation cannot hold. Per the documented approximation (spec.md
// §9, open question 1), a single representative interval is returned: the
// residual below o's lower bound if that bound is strictly greater than
// vs's lower bound, otherwise the residual above o's upper bound. This is
// intentionally preserved, not "fixed" - callers that need an exact
// two-interval complement must decompose the result themselves.
func (vs VersionSet) IntersectionWithInverse(o VersionSet) VersionSet {
	if vs.kind == vsEmpty || o.kind == vsAny {
		return EmptyVersionSet()
	}
	if o.kind == vsEmpty {
		return vs
	}
	if vs.kind == vsExact {
		if o.Contains(vs.exact) {
			return EmptyVersionSet()
		}
		return vs
	}

	vsLo, vsHi := vs.Bounds()
	var oLo, oHi Version
	if o.kind == vsExact {
		oLo, oHi = o.exact, o.exact
	} else {
		oLo, oHi = o.Bounds()
	}

	if lowerLess(vsLo, oLo) {
		// o's lower bound is strictly greater than vs's: left residual.
		return RangeVersionSet(vsLo, oLo)
	}
	// Otherwise take the right residual.
	return RangeVersionSet(oHi, vsHi)
}

// IsSubsetOf reports whether every version in vs is also in o.
func (vs VersionSet) IsSubsetOf(o VersionSet) bool {
	return vs.Intersection(o).Equal(vs)
}

// IsDisjointFrom reports whether vs and o share no versions.
func (vs VersionSet) IsDisjointFrom(o VersionSet) bool {
	return vs.Intersection(o).IsEmpty()
}

func (vs VersionSet) String() string {
	switch vs.kind {
	case vsAny:
		return "*"
	case vsEmpty:
		return "∅"
	case vsExact:
		return vs.exact.String()
	case vsRange:
		switch {
		case vs.lo == nil && vs.hi == nil:
			return "*"
		case vs.lo == nil:
			return "<" + vs.hi.String()
		case vs.hi == nil:
			return ">=" + vs.lo.String()
		default:
			return ">=" + vs.lo.String() + ", <" + vs.hi.String()
		}
	}
	return "?"
}
