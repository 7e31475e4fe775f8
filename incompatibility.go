// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

import (
	"sort"
	"strings"
)

// Cause explains why an Incompatibility exists. It forms a DAG: root,
// dependency, and noAvailableVersion are leaves; conflict nodes are
// internal, each pointing at the two incompatibilities it was derived from.
type Cause interface {
	isCause()
}

// CauseRoot marks the incompatibility introduced by selecting the root
// package itself.
type CauseRoot struct{}

func (CauseRoot) isCause() {}

// CauseDependency marks an incompatibility introduced by a package's
// dependency edge.
type CauseDependency struct {
	Package PackageRef
}

func (CauseDependency) isCause() {}

// CauseNoAvailableVersion marks an incompatibility synthesized because the
// ContainerProvider had no version satisfying a term.
type CauseNoAvailableVersion struct{}

func (CauseNoAvailableVersion) isCause() {}

// CauseConflict marks an incompatibility derived by resolving two
// contradictory incompatibilities during conflict resolution. LHS and RHS
// are shared, immutable nodes: the same *Incompatibility may appear as the
// cause of many descendants, which is what makes the cause graph a DAG
// rather than a tree, and is why the explanation walker numbers nodes with
// more than one incoming edge.
type CauseConflict struct {
	LHS, RHS *Incompatibility
}

func (CauseConflict) isCause() {}

// Incompatibility is an ordered, deduplicated set of terms that cannot all
// hold simultaneously - "at least one term must be false" - plus the Cause
// explaining its derivation.
type Incompatibility struct {
	Terms []Term
	Cause Cause
}

// newIncompatibility normalizes terms (merging all terms on the same package
// by intersection, whatever their polarity, and sorting for determinism)
// and returns the
// resulting Incompatibility. It panics if normalization folds two terms on
// the same package into the empty term: per spec.md §4.C step 2, that can
// only happen if the caller violated the invariant that produced terms are
// jointly satisfiable, which is a solver bug, not user input.
func newIncompatibility(terms []Term, cause Cause) *Incompatibility {
	if len(terms) == 0 {
		panic("pubgrub: Incompatibility must have at least one term")
	}

	byPkg := make(map[PackageRef][]Term, len(terms))
	order := make([]PackageRef, 0, len(terms))
	for _, t := range terms {
		if _, seen := byPkg[t.Package]; !seen {
			order = append(order, t.Package)
		}
		byPkg[t.Package] = append(byPkg[t.Package], t)
	}

	merged := make([]Term, 0, len(order))
	for _, pkg := range order {
		group := byPkg[pkg]
		acc := group[0]
		for _, next := range group[1:] {
			folded, ok := acc.Intersect(next)
			if !ok {
				panic("pubgrub: invariant violated - normalization folded incompatibility terms on " +
					pkg.String() + " into the empty term")
			}
			acc = folded
		}
		merged = append(merged, acc)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Package.String() < merged[j].Package.String()
	})

	return &Incompatibility{Terms: merged, Cause: cause}
}

// dropRootPositive removes a positive term on root from terms, when the
// incompatibility has a conflict cause and more than one term - the root
// package is always selected, so such a term contributes no information
// (spec.md §4.C step 1). Called by the solver, which alone knows the root
// package's identity.
func dropRootPositive(terms []Term, cause Cause, root PackageRef) []Term {
	if _, isConflict := cause.(CauseConflict); !isConflict || len(terms) <= 1 {
		return terms
	}
	out := terms[:0:0]
	for _, t := range terms {
		if t.Positive && t.Package == root {
			continue
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		// Root's contribution was the only term; keep it rather than
		// produce a zero-term incompatibility.
		return terms
	}
	return out
}

// Equal is structural equality over the (sorted, normalized) term list,
// ignoring Cause identity - this is what the IncompatibilityDB uses to
// suppress duplicate entries.
func (ic *Incompatibility) Equal(o *Incompatibility) bool {
	if ic == o {
		return true
	}
	if ic == nil || o == nil || len(ic.Terms) != len(o.Terms) {
		return false
	}
	for i := range ic.Terms {
		if !ic.Terms[i].Equal(o.Terms[i]) {
			return false
		}
	}
	return true
}

// isFailure reports whether ic is a "complete failure" incompatibility per
// conflict resolution's termination check: empty, or containing only a
// single positive term on the root package.
func (ic *Incompatibility) isFailure(root PackageRef) bool {
	if len(ic.Terms) == 0 {
		return true
	}
	if len(ic.Terms) == 1 && ic.Terms[0].Positive && ic.Terms[0].Package == root {
		return true
	}
	return false
}

func (ic *Incompatibility) String() string {
	parts := make([]string, len(ic.Terms))
	for i, t := range ic.Terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
