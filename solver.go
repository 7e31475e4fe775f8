// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"

	"github.com/pkg/errors"
)

// Pin is a pre-seeded, fixed binding for a package - typically loaded from a
// pins file (pubgrub/pins). Per spec.md §9 open question 5, pins are
// accepted by Solve but not consumed by the algorithm below; that
// limitation of the source algorithm this engine follows is preserved
// rather than silently fixed (see DESIGN.md).
type Pin struct {
	Package PackageRef
	Bound   BoundVersion
}

// SolveParameters holds every input to a solver run. Only Root is
// required; the ContainerProvider is passed to Prepare or Solve separately.
type SolveParameters struct {
	// Root is the identity of the package whose dependencies seed the
	// solve. It is never itself present in the solved output.
	Root PackageRef

	// Pins is an optional, pre-seeded list of fixed bindings (spec.md §9,
	// open question 5: accepted, not yet consumed by the algorithm).
	Pins []Pin

	// Trace, if true, causes Delegate to receive the solver's TraceStep
	// stream. Delegate must be non-nil when Trace is true.
	Trace    bool
	Delegate Delegate
}

// Solver is the prepared, ready-to-run PubGrub solve.
type Solver interface {
	// Solve runs the algorithm to completion, returning either the
	// resolved bindings (root excluded) or a SolverError.
	Solve(ctx context.Context) ([]Binding, error)

	// Attempts returns the number of backjumps performed by the most
	// recent Solve call.
	Attempts() int

	// InputHash digests this solve's Root and Pins, so a caller can key a
	// memoized Solution the way the teacher keys its lockfile against a
	// hash of its own solve inputs.
	InputHash() []byte
}

// Binding is one entry of a successful solve: a package and the version
// bound to it.
type Binding struct {
	Package PackageRef
	Bound   BoundVersion
}

type solver struct {
	params   SolveParameters
	provider ContainerProvider
	delegate Delegate

	sol *PartialSolution
	db  *IncompatibilityDB

	attempts int
}

// Prepare validates params and readies a Solver for use.
func Prepare(params SolveParameters, provider ContainerProvider) (Solver, error) {
	if provider == nil {
		return nil, badOpts("pubgrub: must provide a non-nil ContainerProvider")
	}
	if params.Root.String() == "" {
		return nil, badOpts("pubgrub: SolveParameters must name a non-empty Root package")
	}
	if params.Trace && params.Delegate == nil {
		return nil, badOpts("pubgrub: Trace requested but no Delegate provided")
	}

	delegate := params.Delegate
	if delegate == nil || !params.Trace {
		delegate = NopDelegate{}
	}

	return &solver{
		params:   params,
		provider: provider,
		delegate: delegate,
		sol:      NewPartialSolution(),
		db:       NewIncompatibilityDB(),
	}, nil
}

func (s *solver) Attempts() int { return s.attempts }

// InputHash hashes the root package name and every pin's package+bound,
// sorted for determinism regardless of the order SolveParameters.Pins was
// built in.
func (s *solver) InputHash() []byte {
	lines := make([]string, 0, len(s.params.Pins)+1)
	lines = append(lines, "root:"+s.params.Root.String())
	for _, p := range s.params.Pins {
		lines = append(lines, fmt.Sprintf("pin:%s=%s", p.Package, p.Bound))
	}
	sort.Strings(lines[1:])

	h := sha256.New()
	for _, l := range lines {
		fmt.Fprintln(h, l)
	}
	return h.Sum(nil)
}

// Solve is the package's top-level entry point (spec.md §6): prepare and run
// a solve in one call. Equivalent to Prepare followed by (*Solver).Solve.
func Solve(ctx context.Context, params SolveParameters, provider ContainerProvider) ([]Binding, error) {
	s, err := Prepare(params, provider)
	if err != nil {
		return nil, err
	}
	return s.Solve(ctx)
}

// Solve runs the top-level loop described in spec.md §4.E:
//
//	next := root
//	while next is some pkg:
//	    propagate(pkg)
//	    next := makeDecision()
func (s *solver) Solve(ctx context.Context) ([]Binding, error) {
	if err := s.bootstrapRoot(ctx); err != nil {
		return nil, err
	}

	next := s.params.Root
	for {
		if err := s.propagate(ctx, next); err != nil {
			return nil, err
		}

		pkg, ok, err := s.makeDecision(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		next = pkg
	}

	return s.bindings(), nil
}

func (s *solver) bindings() []Binding {
	out := make([]Binding, 0, len(s.sol.decisions))
	for pkg, v := range s.sol.decisions {
		if pkg == s.params.Root {
			continue
		}
		out = append(out, Binding{Package: pkg, Bound: NewBoundVersion(v)})
	}
	return out
}

// bootstrapRoot seeds the database with one incompatibility per root
// dependency (cause: root) and decides root at the sentinel version, per
// spec.md §4.E "Root bootstrap".
func (s *solver) bootstrapRoot(ctx context.Context) error {
	container, err := s.provider.GetContainer(ctx, s.params.Root, true)
	if err != nil {
		return &ProviderError{Package: s.params.Root, Err: err}
	}

	deps, err := container.UnversionedDependencies()
	if err != nil {
		return &ProviderError{Package: s.params.Root, Err: errors.Wrap(err, "root dependencies")}
	}

	rootSentinel := ExactVersionSet(rootSentinelVersion{})
	for _, dep := range deps {
		terms := []Term{
			Pos(s.params.Root, VersionSetRequirement(rootSentinel)),
			Neg(dep.Package, dep.Requirement),
		}
		s.addIncompatibility(newIncompatibilityWithRoot(terms, CauseRoot{}, s.params.Root), TopLevel)
	}

	s.sol.Decide(s.params.Root, rootSentinelVersion{})
	s.emitDecision(s.params.Root, rootSentinelVersion{}, TopLevel)
	return nil
}

// rootSentinelVersion is the version decided for the root package. Per
// spec.md §4.E, it is a sentinel: the root package is never itself part of
// the solved output, so its "version" carries no meaning beyond letting
// PartialSolution.Decide record an exact term for it.
type rootSentinelVersion struct{}

func (rootSentinelVersion) Compare(other Version) int {
	if _, ok := other.(rootSentinelVersion); ok {
		return 0
	}
	// Never meant to be compared against anything else; treat as
	// incomparable-but-stable rather than panicking, since VersionSet
	// equality checks may still reach here defensively.
	return -1
}

func (rootSentinelVersion) String() string { return "(root)" }

func newIncompatibilityWithRoot(terms []Term, cause Cause, root PackageRef) *Incompatibility {
	return newIncompatibility(dropRootPositive(terms, cause, root), cause)
}

func (s *solver) addIncompatibility(ic *Incompatibility, loc TraceLocation) {
	s.db.Add(ic)
	s.delegate.Trace(TraceStep{Type: StepIncompatibility, Location: loc, Incompatibility: ic})
}

func (s *solver) emitDecision(pkg PackageRef, v Version, loc TraceLocation) {
	s.delegate.Trace(TraceStep{
		Type:          StepDecision,
		Location:      loc,
		Term:          Pos(pkg, VersionSetRequirement(ExactVersionSet(v))),
		DecisionLevel: s.sol.DecisionLevel(),
	})
}

func (s *solver) emitDerivation(term Term, cause *Incompatibility, loc TraceLocation) {
	s.delegate.Trace(TraceStep{
		Type:          StepDerivation,
		Location:      loc,
		Term:          term,
		Incompatibility: cause,
		DecisionLevel: s.sol.DecisionLevel(),
	})
}

// propagationResult classifies what propagateOne found for a single
// incompatibility against the current partial solution.
type propagationResult uint8

const (
	propNone propagationResult = iota
	propAlmostSatisfied
	propConflict
)

// propagateOne implements spec.md §4.E's "propagate(inc) semantics".
func (s *solver) propagateOne(ic *Incompatibility) (propagationResult, Term) {
	unknownCount := 0
	var unknownTerm Term

	for _, t := range ic.Terms {
		switch s.sol.Relation(t) {
		case Disjoint:
			return propNone, Term{}
		case Overlap:
			unknownCount++
			unknownTerm = t
		}
	}

	switch unknownCount {
	case 0:
		return propConflict, Term{}
	case 1:
		return propAlmostSatisfied, unknownTerm
	default:
		return propNone, Term{}
	}
}

// propagate implements spec.md §4.E's "propagate(pkg)": a FIFO worklist of
// packages to revisit, each checked against its positive incompatibilities
// in reverse registration order (newer, more general first).
func (s *solver) propagate(ctx context.Context, start PackageRef) error {
	queue := []PackageRef{start}
	queued := map[PackageRef]bool{start: true}

outer:
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		delete(queued, cur)

		incs := s.db.ForPackage(cur)
		for i := len(incs) - 1; i >= 0; i-- {
			ic := incs[i]
			result, unknownTerm := s.propagateOne(ic)

			switch result {
			case propNone:
				continue
			case propAlmostSatisfied:
				s.sol.Derive(unknownTerm.Inverse(), ic)
				s.emitDerivation(unknownTerm.Inverse(), ic, UnitPropagation)
				if !queued[unknownTerm.Package] {
					queued[unknownTerm.Package] = true
					queue = append(queue, unknownTerm.Package)
				}
			case propConflict:
				rootCause, err := s.resolve(ic)
				if err != nil {
					return err
				}
				result2, unknownTerm2 := s.propagateOne(rootCause)
				if result2 != propAlmostSatisfied {
					panic("pubgrub: conflict resolution's root cause did not propagate to almost-satisfied")
				}
				s.sol.Derive(unknownTerm2.Inverse(), rootCause)
				s.emitDerivation(unknownTerm2.Inverse(), rootCause, UnitPropagation)

				queue = queue[:0]
				queued = map[PackageRef]bool{unknownTerm2.Package: true}
				queue = append(queue, unknownTerm2.Package)
				continue outer
			}
		}

		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}

// resolve implements spec.md §4.E's conflict-driven backjump ("resolve").
func (s *solver) resolve(conflict *Incompatibility) (*Incompatibility, error) {
	ic := conflict
	createdNew := false

	for !ic.isFailure(s.params.Root) {
		type satInfo struct {
			term  Term
			assn  Assignment
			index int
		}
		sats := make([]satInfo, len(ic.Terms))
		for i, t := range ic.Terms {
			a, idx := s.sol.SatisfierIndexed(t)
			sats[i] = satInfo{term: t, assn: a, index: idx}
		}

		mostIdx := 0
		for i := 1; i < len(sats); i++ {
			if sats[i].index > sats[mostIdx].index {
				mostIdx = i
			}
		}
		mostRecent := sats[mostIdx]

		previousLevel := 0
		for i, si := range sats {
			if i == mostIdx {
				continue
			}
			if si.assn.DecisionLevel > previousLevel {
				previousLevel = si.assn.DecisionLevel
			}
		}

		diffTerm, hasDiff := mostRecent.assn.Term.Difference(mostRecent.term)
		if hasDiff {
			diffSat := s.sol.Satisfier(diffTerm.Inverse())
			s.delegate.TraceConflictResolution(ConflictResolutionStep{
				Incompatibility: ic, Term: diffTerm, Satisfier: diffSat,
			})
			if diffSat.DecisionLevel > previousLevel {
				previousLevel = diffSat.DecisionLevel
			}
		}

		s.delegate.TraceConflictResolution(ConflictResolutionStep{
			Incompatibility: ic, Term: mostRecent.term, Satisfier: mostRecent.assn,
		})

		if previousLevel < mostRecent.assn.DecisionLevel || mostRecent.assn.IsDecision {
			s.sol.Backtrack(previousLevel)
			if createdNew {
				s.addIncompatibility(ic, ConflictResolution)
			}
			s.attempts++
			return ic, nil
		}

		prior := mostRecent.assn.Cause
		if prior == nil {
			panic("pubgrub: resolve needs a derivation's cause but the satisfier was undiagnosed")
		}

		merged := make([]Term, 0, len(ic.Terms)+len(prior.Terms))
		for _, t := range ic.Terms {
			if t.Package == mostRecent.term.Package {
				continue
			}
			merged = append(merged, t)
		}
		for _, t := range prior.Terms {
			if t.Package == mostRecent.assn.Term.Package {
				continue
			}
			merged = append(merged, t)
		}
		if hasDiff {
			merged = append(merged, diffTerm.Inverse())
		}

		ic = newIncompatibilityWithRoot(merged, CauseConflict{LHS: ic, RHS: prior}, s.params.Root)
		createdNew = true
	}

	return nil, &UnresolvableError{Incompatibility: ic}
}

// makeDecision implements spec.md §4.E's "makeDecision()": pick the first
// undecided package (deterministic insertion-order baseline heuristic),
// fetch its highest acceptable version, and either fail it forward as
// noAvailableVersion or decide it and add its dependency incompatibilities.
func (s *solver) makeDecision(ctx context.Context) (PackageRef, bool, error) {
	undecided := s.sol.Undecided()
	if len(undecided) == 0 {
		return PackageRef{}, false, nil
	}
	pkg := undecided[0]

	term, ok := s.sol.PositiveTerm(pkg)
	if !ok {
		panic("pubgrub: undecided package has no positive term - invariant violated")
	}
	vset, isVset := term.Requirement.IsVersionSet()
	if !isVset {
		// A revision or unversioned requirement carries no candidate
		// enumeration; the provider resolves it directly to a container
		// with exactly one effective version.
		vset = AnyVersionSet()
	}

	container, err := s.provider.GetContainer(ctx, pkg, false)
	if err != nil {
		return PackageRef{}, false, &ProviderError{Package: pkg, Err: err}
	}

	candidates := container.Versions(vset.Contains)
	if len(candidates) == 0 {
		s.addIncompatibility(newIncompatibilityWithRoot(
			[]Term{term}, CauseNoAvailableVersion{}, s.params.Root), DecisionMaking)
		return pkg, true, nil
	}
	v := candidates[0]

	deps, err := container.Dependencies(v)
	if err != nil {
		return PackageRef{}, false, &ProviderError{Package: pkg, Err: err}
	}

	pkgVset := versionBoundSet(v)
	anyAlreadyConflicting := false
	for _, dep := range deps {
		terms := []Term{
			Pos(pkg, VersionSetRequirement(pkgVset)),
			Neg(dep.Package, dep.Requirement),
		}
		ic := newIncompatibilityWithRoot(terms, CauseDependency{Package: pkg}, s.params.Root)
		s.addIncompatibility(ic, DecisionMaking)

		if s.allOtherTermsSatisfied(ic, pkg) {
			anyAlreadyConflicting = true
		}
	}

	if !anyAlreadyConflicting {
		s.sol.Decide(pkg, v)
		s.emitDecision(pkg, v, DecisionMaking)
	}
	return pkg, true, nil
}

// allOtherTermsSatisfied reports whether every term of ic other than the one
// on self is already implied by the partial solution - i.e. deciding self
// would immediately make ic conflict-satisfying.
func (s *solver) allOtherTermsSatisfied(ic *Incompatibility, self PackageRef) bool {
	for _, t := range ic.Terms {
		if t.Package == self {
			continue
		}
		if !s.sol.Satisfies(t) {
			return false
		}
	}
	return true
}

// versionBoundSet builds the decision step's bound on the deciding package
// itself: the half-open range [v, nextMajor(v)) when v implements
// MajorBounder, per spec.md §4.E step 5 (preserving the documented
// over-constraining behavior of spec.md §9 open question 4 verbatim), or the
// single-point exact(v) when it doesn't.
func versionBoundSet(v Version) VersionSet {
	if mb, ok := v.(MajorBounder); ok {
		return RangeVersionSet(v, mb.NextMajor())
	}
	return ExactVersionSet(v)
}
