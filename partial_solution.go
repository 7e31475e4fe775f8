// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

// Assignment records one entry in the partial solution's chronological
// history: either a Decision (an exact version chosen for a package,
// opening a new decision level) or a Derivation (a term forced by unit
// propagation, carrying the incompatibility that forced it).
type Assignment struct {
	Term          Term
	DecisionLevel int
	Cause         *Incompatibility // nil for decisions
	IsDecision    bool
}

// PartialSolution is the solver's working state: the chronological
// assignment history, the currently decided versions, and - for fast
// relation queries - a running per-package summary of everything derived
// so far (spec.md §3/§4.D).
type PartialSolution struct {
	assignments []Assignment
	decisions   map[PackageRef]Version

	// positive[pkg] is the intersection of every positive assignment for
	// pkg, net of any negative assignment (a negative is absorbed into a
	// positive the moment one exists). negative[pkg] is the union (via
	// Term.Intersect's (-,-) widening) of negative assignments for pkg,
	// held only while no positive assignment for pkg exists yet.
	positive map[PackageRef]Term
	negative map[PackageRef]Term

	// positiveOrder preserves first-insertion order of positive, since
	// undecided() must return entries in a deterministic, stable order.
	positiveOrder []PackageRef
}

// NewPartialSolution returns an empty partial solution.
func NewPartialSolution() *PartialSolution {
	return &PartialSolution{
		decisions: make(map[PackageRef]Version),
		positive:  make(map[PackageRef]Term),
		negative:  make(map[PackageRef]Term),
	}
}

// DecisionLevel is decisions.size - 1; the root decision is level 0.
func (ps *PartialSolution) DecisionLevel() int {
	return len(ps.decisions) - 1
}

// Assignments returns the chronological assignment history. Callers must
// not mutate the returned slice.
func (ps *PartialSolution) Assignments() []Assignment {
	return ps.assignments
}

// Decision returns the version decided for pkg, if any.
func (ps *PartialSolution) Decision(pkg PackageRef) (Version, bool) {
	v, ok := ps.decisions[pkg]
	return v, ok
}

// register folds a new assignment's term into the positive/negative
// per-package summaries (spec.md §4.D register).
func (ps *PartialSolution) register(term Term) {
	pkg := term.Package
	if existing, ok := ps.positive[pkg]; ok {
		folded, ok := existing.Intersect(term)
		if !ok {
			panic("pubgrub: invariant violated - positive assignment intersection on " +
				pkg.String() + " produced the empty term")
		}
		ps.positive[pkg] = folded
		return
	}

	newTerm := term
	if neg, ok := ps.negative[pkg]; ok {
		folded, ok := neg.Intersect(term)
		if !ok {
			// Folding against the accumulated negative produced nothing
			// satisfiable; there is, vacuously, no positive term to store.
			delete(ps.negative, pkg)
			return
		}
		newTerm = folded
	}

	if newTerm.Positive {
		delete(ps.negative, pkg)
		if _, already := ps.positive[pkg]; !already {
			ps.positiveOrder = append(ps.positiveOrder, pkg)
		}
		ps.positive[pkg] = newTerm
	} else {
		ps.negative[pkg] = newTerm
	}
}

// Derive appends a derivation assignment at the current decision level and
// registers its term.
func (ps *PartialSolution) Derive(term Term, cause *Incompatibility) {
	ps.assignments = append(ps.assignments, Assignment{
		Term:          term,
		DecisionLevel: ps.DecisionLevel(),
		Cause:         cause,
		IsDecision:    false,
	})
	ps.register(term)
}

// Decide records pkg as decided at version v, opening a new decision
// level, and registers the corresponding exact, positive term. v must be
// non-nil; decisions always carry an exact requirement (spec.md invariant
// 5).
func (ps *PartialSolution) Decide(pkg PackageRef, v Version) {
	if v == nil {
		panic("pubgrub: Decide requires a concrete version")
	}
	ps.decisions[pkg] = v
	term := Pos(pkg, VersionSetRequirement(ExactVersionSet(v)))
	ps.assignments = append(ps.assignments, Assignment{
		Term:          term,
		DecisionLevel: ps.DecisionLevel(),
		IsDecision:    true,
	})
	ps.register(term)
}

// Undecided returns the packages with a positive term that have not yet
// been decided, in first-derivation order.
func (ps *PartialSolution) Undecided() []PackageRef {
	var out []PackageRef
	for _, pkg := range ps.positiveOrder {
		if _, ok := ps.positive[pkg]; !ok {
			continue
		}
		if _, decided := ps.decisions[pkg]; !decided {
			out = append(out, pkg)
		}
	}
	return out
}

// PositiveTerm returns the accumulated positive term for pkg, if any.
func (ps *PartialSolution) PositiveTerm(pkg PackageRef) (Term, bool) {
	t, ok := ps.positive[pkg]
	return t, ok
}

// Relation reports how term relates to everything known about its package
// so far: the accumulated positive term if one exists, else the
// accumulated negative term, else Overlap (nothing known).
func (ps *PartialSolution) Relation(term Term) SetRelation {
	if pos, ok := ps.positive[term.Package]; ok {
		return pos.Relation(term)
	}
	if neg, ok := ps.negative[term.Package]; ok {
		return neg.Relation(term)
	}
	return Overlap
}

// Satisfies reports whether term is implied by the partial solution.
func (ps *PartialSolution) Satisfies(term Term) bool {
	return ps.Relation(term) == Subset
}

// Satisfier returns the earliest assignment after which the accumulated
// constraint on term's package implies term. Per spec.md §4.D, a satisfier
// must exist whenever this is called from conflict resolution; its
// absence is a programmer error.
func (ps *PartialSolution) Satisfier(term Term) Assignment {
	a, _ := ps.SatisfierIndexed(term)
	return a
}

// SatisfierIndexed is Satisfier, additionally returning the satisfier's
// position in Assignments() - conflict resolution needs the index to find
// the most recent satisfier among several terms.
func (ps *PartialSolution) SatisfierIndexed(term Term) (Assignment, int) {
	var acc Term
	have := false
	for i, a := range ps.assignments {
		if a.Term.Package != term.Package {
			continue
		}
		if !have {
			acc = a.Term
			have = true
		} else {
			folded, ok := acc.Intersect(a.Term)
			if !ok {
				// The accumulation itself became unsatisfiable; as an
				// intersection it trivially implies any term, including
				// the one sought, by ex falso. Fall through using the
				// most recent fact alone, which still dominates in
				// practice because register() would have flagged this.
				acc = a.Term
			} else {
				acc = folded
			}
		}
		if acc.Satisfies(term) {
			return a, i
		}
	}
	panic("pubgrub: no satisfier found for term " + term.String() + " - invariant violated")
}

// Backtrack discards every assignment with decision level greater than
// toLevel, drops the corresponding decisions, and rebuilds the
// positive/negative summaries by replaying what remains (spec.md §4.D).
func (ps *PartialSolution) Backtrack(toLevel int) {
	cut := len(ps.assignments)
	for cut > 0 && ps.assignments[cut-1].DecisionLevel > toLevel {
		cut--
	}
	kept := ps.assignments[:cut]

	ps.assignments = nil
	ps.decisions = make(map[PackageRef]Version, len(ps.decisions))
	ps.positive = make(map[PackageRef]Term)
	ps.negative = make(map[PackageRef]Term)
	ps.positiveOrder = nil

	for _, a := range kept {
		if a.IsDecision {
			v, _ := a.Term.Requirement.IsVersionSet()
			ver, _ := v.ExactVersion()
			ps.decisions[a.Term.Package] = ver
		}
		ps.assignments = append(ps.assignments, a)
		ps.register(a.Term)
	}
}
