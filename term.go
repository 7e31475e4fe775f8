// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

// SetRelation classifies how one Term relates to another that shares its
// package: disjoint (no version can satisfy both), overlap (some versions
// satisfy both, some don't), or subset (self being true implies other is
// true).
type SetRelation uint8

const (
	Disjoint SetRelation = iota
	Overlap
	Subset
)

func (r SetRelation) String() string {
	switch r {
	case Disjoint:
		return "disjoint"
	case Subset:
		return "subset"
	default:
		return "overlap"
	}
}

// Term is a (package, requirement, polarity) literal in the PubGrub
// algebra: positive means "some version of Package satisfying Requirement
// is selected", negative means "no version of Package satisfying
// Requirement is selected".
type Term struct {
	Package     PackageRef
	Requirement PackageRequirement
	Positive    bool
}

// Pos constructs a positive term.
func Pos(pkg PackageRef, req PackageRequirement) Term {
	return Term{Package: pkg, Requirement: req, Positive: true}
}

// Neg constructs a negative term.
func Neg(pkg PackageRef, req PackageRequirement) Term {
	return Term{Package: pkg, Requirement: req, Positive: false}
}

// Inverse flips polarity, leaving package and requirement unchanged.
func (t Term) Inverse() Term {
	return Term{Package: t.Package, Requirement: t.Requirement, Positive: !t.Positive}
}

// Equal is structural equality: same package, requirement, and polarity.
func (t Term) Equal(o Term) bool {
	if t.Package != o.Package || t.Positive != o.Positive {
		return false
	}
	if t.Requirement.kind != o.Requirement.kind {
		return false
	}
	switch t.Requirement.kind {
	case reqVersionSet:
		return t.Requirement.vset.Equal(o.Requirement.vset)
	case reqRevision:
		return t.Requirement.revision == o.Requirement.revision
	default:
		return true
	}
}

// Satisfies reports whether t being true implies other is true: same
// package and Relation(other) == Subset.
func (t Term) Satisfies(other Term) bool {
	return t.Package == other.Package && t.Relation(other) == Subset
}

// Relation computes how t relates to other, per the PubGrub term-relation
// table (spec.md §4.B). Calling Relation on terms for different packages is
// a programmer error.
func (t Term) Relation(other Term) SetRelation {
	if t.Package != other.Package {
		panic("pubgrub: Relation called across different packages: " + t.Package.String() + " vs " + other.Package.String())
	}

	if !intersectable(t.Requirement, other.Requirement) {
		return t.relationOpaque(other)
	}

	a, _ := t.Requirement.IsVersionSet()
	b, _ := other.Requirement.IsVersionSet()

	switch {
	case t.Positive && other.Positive:
		if a.IsSubsetOf(b) {
			return Subset
		}
		if !a.IsDisjointFrom(b) {
			return Overlap
		}
		return Disjoint
	case t.Positive && !other.Positive:
		if a.IsDisjointFrom(b) {
			return Subset
		}
		if a.IsSubsetOf(b) {
			return Disjoint
		}
		return Overlap
	case !t.Positive && other.Positive:
		if b.IsSubsetOf(a) {
			return Disjoint
		}
		return Overlap
	default: // !t.Positive && !other.Positive
		if b.IsSubsetOf(a) {
			return Subset
		}
		return Overlap
	}
}

// relationOpaque handles revision/unversioned requirements, for which no
// version-set algebra applies. Equality of the opaque binding stands in for
// set containment; any mismatch in requirement kind is treated as the safe,
// uninformative "overlap" rather than a false subset/disjoint claim.
func (t Term) relationOpaque(other Term) SetRelation {
	if t.Requirement.kind != other.Requirement.kind {
		return Overlap
	}

	var equalBinding bool
	switch t.Requirement.kind {
	case reqUnversioned:
		equalBinding = true
	case reqRevision:
		equalBinding = t.Requirement.revision == other.Requirement.revision
	default:
		return Overlap
	}

	switch {
	case t.Positive && other.Positive:
		if equalBinding {
			return Subset
		}
		return Disjoint
	case t.Positive && !other.Positive:
		if equalBinding {
			return Disjoint
		}
		return Overlap
	case !t.Positive && other.Positive:
		if !equalBinding {
			return Subset
		}
		return Overlap
	default:
		if equalBinding {
			return Subset
		}
		return Overlap
	}
}

// Intersect combines t with other, which must share t's package. Returns
// false if the result is the empty term (never satisfiable).
func (t Term) Intersect(other Term) (Term, bool) {
	if t.Package != other.Package {
		panic("pubgrub: Intersect called across different packages")
	}
	if !intersectable(t.Requirement, other.Requirement) {
		return Term{}, false
	}

	a, _ := t.Requirement.IsVersionSet()
	b, _ := other.Requirement.IsVersionSet()

	switch {
	case t.Positive && other.Positive:
		result := a.Intersection(b)
		if result.IsEmpty() {
			return Term{}, false
		}
		return Pos(t.Package, VersionSetRequirement(result)), true

	case !t.Positive && !other.Positive:
		// Negatives widen: the true union is not representable as a single
		// tagged value in general, so when both sides are ranges this
		// deliberately returns a conservative superset of the union
		// (spec.md §9, open question 2 - "negatives widen", preserved as-is)
		// rather than the narrower, correct union.
		if a.IsRange() && b.IsRange() {
			aLo, aHi := a.Bounds()
			bLo, bHi := b.Bounds()
			wide := RangeVersionSet(lowerMin(aLo, bLo), upperMax(aHi, bHi))
			return Neg(t.Package, VersionSetRequirement(wide)), true
		}
		result := a.Intersection(b)
		if result.IsEmpty() {
			return Term{}, false
		}
		return Neg(t.Package, VersionSetRequirement(result)), true

	case t.Positive && !other.Positive:
		result := a.IntersectionWithInverse(b)
		if result.IsEmpty() {
			return Term{}, false
		}
		return Pos(t.Package, VersionSetRequirement(result)), true

	default: // !t.Positive && other.Positive
		result := b.IntersectionWithInverse(a)
		if result.IsEmpty() {
			return Term{}, false
		}
		return Pos(t.Package, VersionSetRequirement(result)), true
	}
}

// Difference returns t ∩ other.Inverse().
func (t Term) Difference(other Term) (Term, bool) {
	return t.Intersect(other.Inverse())
}

func (t Term) String() string {
	if t.Positive {
		return t.Package.String() + " " + t.Requirement.String()
	}
	return "not " + t.Package.String() + " " + t.Requirement.String()
}
