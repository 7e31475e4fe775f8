// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

import (
	"fmt"
	"strings"
)

// Report walks the cause DAG of a terminal, unresolvable incompatibility and
// renders it as a human-readable derivation tree (spec.md §4.F). The walk is
// iterative (an explicit stack, not native recursion) so its depth is bound
// by heap rather than goroutine stack, since conflict chains can be deep.
func Report(ic *Incompatibility) string {
	if ic == nil {
		return "no solution found"
	}

	w := &reportWalker{
		counts:  countConflictReferences(ic),
		numbers: make(map[*Incompatibility]int),
		texts:   make(map[*Incompatibility]string),
	}
	final := w.run(ic)

	var b strings.Builder
	for _, line := range w.lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(final)
	return b.String()
}

// countConflictReferences counts, for every incompatibility reachable from
// root via CauseConflict edges, how many times it is referenced as an
// antecedent. A count greater than one means the node is shared by more
// than one descendant and must be printed once, numbered, and thereafter
// referenced by that number (spec.md §4.F step 1).
func countConflictReferences(root *Incompatibility) map[*Incompatibility]int {
	counts := make(map[*Incompatibility]int)
	seen := map[*Incompatibility]bool{root: true}
	stack := []*Incompatibility{root}

	for len(stack) > 0 {
		n := len(stack) - 1
		cur := stack[n]
		stack = stack[:n]

		cc, ok := cur.Cause.(CauseConflict)
		if !ok {
			continue
		}
		counts[cc.LHS]++
		counts[cc.RHS]++
		if !seen[cc.LHS] {
			seen[cc.LHS] = true
			stack = append(stack, cc.LHS)
		}
		if !seen[cc.RHS] {
			seen[cc.RHS] = true
			stack = append(stack, cc.RHS)
		}
	}
	return counts
}

type reportWalker struct {
	counts  map[*Incompatibility]int
	numbers map[*Incompatibility]int
	texts   map[*Incompatibility]string // antecedent text, once resolved
	lines   []string
	next    int
}

type walkFrame struct {
	ic       *Incompatibility
	expanded bool
}

// run resolves ic's antecedent text via an explicit-stack post-order walk:
// both causes of a conflict node are fully resolved before the node's own
// sentence is built, so backreferences always point at an already-printed
// line number.
func (w *reportWalker) run(root *Incompatibility) string {
	stack := []*walkFrame{{ic: root}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if _, done := w.texts[top.ic]; done {
			stack = stack[:len(stack)-1]
			continue
		}

		cc, isConflict := top.ic.Cause.(CauseConflict)
		if !isConflict {
			w.texts[top.ic] = describeLeafCause(top.ic)
			stack = stack[:len(stack)-1]
			continue
		}

		if !top.expanded {
			top.expanded = true
			if _, done := w.texts[cc.RHS]; !done {
				stack = append(stack, &walkFrame{ic: cc.RHS})
			}
			if _, done := w.texts[cc.LHS]; !done {
				stack = append(stack, &walkFrame{ic: cc.LHS})
			}
			continue
		}

		w.finish(top.ic, cc)
		stack = stack[:len(stack)-1]
	}

	return w.texts[root]
}

// finish builds the "Because lhs and rhs, conclusion." sentence for a
// conflict node whose antecedents are already resolved, numbering and
// appending it as its own line if referenced more than once elsewhere.
func (w *reportWalker) finish(ic *Incompatibility, cc CauseConflict) {
	lhsText, _, _ := w.isSingleLine(cc.LHS)
	rhsText, _, _ := w.isSingleLine(cc.RHS)

	sentence := fmt.Sprintf("Because %s and %s, %s.", lhsText, rhsText, conclusion(ic))

	if w.counts[ic] > 1 {
		w.next++
		w.numbers[ic] = w.next
		w.lines = append(w.lines, fmt.Sprintf("(%d) %s", w.next, sentence))
		w.texts[ic] = fmt.Sprintf("(%d)", w.next)
		return
	}
	w.texts[ic] = sentence
}

// isSingleLine decides what text to splice into a parent sentence for
// antecedent ic: a backreference if ic was already numbered, its resolved
// text otherwise. It distinguishes an antecedent that was itself derived by
// conflict resolution from one that is a purely external (leaf) cause.
//
// TODO: collapsedDerived and collapsedExternal are meant to differ - a
// derived antecedent should collapse to a "thus" clause referencing its own
// just-built sentence, an external one to its leaf description verbatim -
// but as written both arms compute the same text. Replicated faithfully
// rather than silently fixed.
func (w *reportWalker) isSingleLine(ic *Incompatibility) (text string, collapsedDerived, collapsedExternal string) {
	if n, numbered := w.numbers[ic]; numbered {
		ref := fmt.Sprintf("(%d)", n)
		return ref, ref, ref
	}
	resolved := w.texts[ic]
	collapsedDerived = resolved
	collapsedExternal = resolved
	return resolved, collapsedDerived, collapsedExternal
}

// describeLeafCause renders a non-conflict incompatibility's cause as a
// single clause, read off its (already-normalized, sorted) terms directly.
func describeLeafCause(ic *Incompatibility) string {
	switch c := ic.Cause.(type) {
	case CauseRoot:
		dep := findNegative(ic.Terms)
		if dep == nil {
			return "the root package has an unsatisfiable requirement"
		}
		return fmt.Sprintf("%s is required", dep.Inverse().String())

	case CauseDependency:
		pos := findPositiveOn(ic.Terms, c.Package)
		dep := findNegative(ic.Terms)
		if pos == nil || dep == nil {
			return fmt.Sprintf("%s has an unsatisfiable dependency", c.Package)
		}
		return fmt.Sprintf("%s %s depends on %s", c.Package, pos.Requirement, dep.Inverse())

	case CauseNoAvailableVersion:
		if len(ic.Terms) == 0 {
			return "no versions are available"
		}
		return fmt.Sprintf("no versions of %s match %s", ic.Terms[0].Package, ic.Terms[0].Requirement)

	default:
		return ic.String()
	}
}

// conclusion renders the "at least one term must be false" consequence of
// ic itself, independent of how its antecedents are described.
func conclusion(ic *Incompatibility) string {
	switch len(ic.Terms) {
	case 0:
		return "version solving has failed"
	case 1:
		return fmt.Sprintf("%s is forbidden", ic.Terms[0])
	default:
		parts := make([]string, len(ic.Terms))
		for i, t := range ic.Terms {
			parts[i] = t.String()
		}
		return "these constraints conflict: " + strings.Join(parts, " and ")
	}
}

func findNegative(terms []Term) *Term {
	for i := range terms {
		if !terms[i].Positive {
			return &terms[i]
		}
	}
	return nil
}

func findPositiveOn(terms []Term, pkg PackageRef) *Term {
	for i := range terms {
		if terms[i].Positive && terms[i].Package == pkg {
			return &terms[i]
		}
	}
	return nil
}
