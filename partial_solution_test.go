// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

import "testing"

func TestPartialSolutionDecideOpensNewLevel(t *testing.T) {
	ps := NewPartialSolution()
	if ps.DecisionLevel() != -1 {
		t.Fatalf("empty solution's decision level = %d, want -1", ps.DecisionLevel())
	}
	ps.Decide(pkg("a"), iv(1))
	if ps.DecisionLevel() != 0 {
		t.Errorf("decision level after first Decide = %d, want 0", ps.DecisionLevel())
	}
	ps.Decide(pkg("b"), iv(1))
	if ps.DecisionLevel() != 1 {
		t.Errorf("decision level after second Decide = %d, want 1", ps.DecisionLevel())
	}
}

func TestPartialSolutionUndecidedTracksPositiveOnly(t *testing.T) {
	ps := NewPartialSolution()
	ps.Derive(rangeTerm(true, 1, 5), nil)
	ps.Derive(Neg(pkg("b"), VersionSetRequirement(RangeVersionSet(iv(1), iv(5)))), nil)

	undecided := ps.Undecided()
	if len(undecided) != 1 || undecided[0] != pkg("a") {
		t.Errorf("Undecided() = %v, want only [a]", undecided)
	}

	ps.Decide(pkg("a"), iv(2))
	if got := ps.Undecided(); len(got) != 0 {
		t.Errorf("Undecided() after deciding a = %v, want empty", got)
	}
}

func TestPartialSolutionSatisfiesAfterDecision(t *testing.T) {
	ps := NewPartialSolution()
	ps.Decide(pkg("a"), iv(3))

	inRange := Pos(pkg("a"), VersionSetRequirement(RangeVersionSet(iv(1), iv(5))))
	if !ps.Satisfies(inRange) {
		t.Error("deciding a=3 should satisfy a positive term covering [1,5)")
	}

	outOfRange := Pos(pkg("a"), VersionSetRequirement(RangeVersionSet(iv(10), iv(20))))
	if ps.Satisfies(outOfRange) {
		t.Error("deciding a=3 should not satisfy a positive term covering [10,20)")
	}
}

func TestPartialSolutionBacktrackDropsHigherLevels(t *testing.T) {
	ps := NewPartialSolution()
	ps.Decide(pkg("a"), iv(1)) // level 0
	ps.Decide(pkg("b"), iv(1)) // level 1
	ps.Decide(pkg("c"), iv(1)) // level 2

	ps.Backtrack(0)

	if ps.DecisionLevel() != 0 {
		t.Errorf("decision level after Backtrack(0) = %d, want 0", ps.DecisionLevel())
	}
	if _, ok := ps.Decision(pkg("a")); !ok {
		t.Error("a's decision should survive Backtrack(0)")
	}
	if _, ok := ps.Decision(pkg("b")); ok {
		t.Error("b's decision should not survive Backtrack(0)")
	}
	if _, ok := ps.Decision(pkg("c")); ok {
		t.Error("c's decision should not survive Backtrack(0)")
	}
}

func TestPartialSolutionSatisfierIndexedFindsEarliest(t *testing.T) {
	ps := NewPartialSolution()
	ps.Decide(pkg("a"), iv(5))

	narrow := Pos(pkg("a"), VersionSetRequirement(RangeVersionSet(iv(1), iv(10))))
	assignment, idx := ps.SatisfierIndexed(narrow)
	if idx != 0 {
		t.Errorf("satisfier index = %d, want 0 (the only assignment)", idx)
	}
	if !assignment.IsDecision {
		t.Error("satisfier should be the decision assignment")
	}
}
