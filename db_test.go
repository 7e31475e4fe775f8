// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

import "testing"

func TestIncompatibilityDBDeduplicates(t *testing.T) {
	db := NewIncompatibilityDB()
	ic1 := newIncompatibility([]Term{rangeTerm(true, 1, 5), Neg(pkg("b"), VersionSetRequirement(RangeVersionSet(iv(1), iv(5))))}, CauseRoot{})
	ic2 := newIncompatibility([]Term{rangeTerm(true, 1, 5), Neg(pkg("b"), VersionSetRequirement(RangeVersionSet(iv(1), iv(5))))}, CauseRoot{})

	db.Add(ic1)
	db.Add(ic2)

	if got := db.ForPackage(pkg("a")); len(got) != 1 {
		t.Errorf("ForPackage(a) = %d entries, want 1 (structurally equal ics deduped)", len(got))
	}
}

func TestIncompatibilityDBIndexesEveryMentionedPackage(t *testing.T) {
	db := NewIncompatibilityDB()
	ic := newIncompatibility([]Term{
		Pos(pkg("a"), VersionSetRequirement(RangeVersionSet(iv(1), iv(5)))),
		Neg(pkg("b"), VersionSetRequirement(RangeVersionSet(iv(1), iv(5)))),
	}, CauseRoot{})
	db.Add(ic)

	if got := db.ForPackage(pkg("a")); len(got) != 1 {
		t.Errorf("ForPackage(a) = %d, want 1", len(got))
	}
	if got := db.ForPackage(pkg("b")); len(got) != 1 {
		t.Errorf("ForPackage(b) = %d, want 1", len(got))
	}
	if got := db.ForPackage(pkg("c")); len(got) != 0 {
		t.Errorf("ForPackage(c) = %d, want 0", len(got))
	}
}
