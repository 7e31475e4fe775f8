// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

// IncompatibilityDB indexes every incompatibility discovered so far by each
// of the packages it mentions, so the solver can cheaply find every
// incompatibility relevant to a given package during propagation. It is
// append-only over the course of a solve.
type IncompatibilityDB struct {
	byPackage map[PackageRef][]*Incompatibility
}

// NewIncompatibilityDB returns an empty database.
func NewIncompatibilityDB() *IncompatibilityDB {
	return &IncompatibilityDB{byPackage: make(map[PackageRef][]*Incompatibility)}
}

// Add inserts ic under every package its terms mention, unless a
// structurally-equal incompatibility is already indexed for that package.
func (db *IncompatibilityDB) Add(ic *Incompatibility) {
	seen := make(map[PackageRef]bool, len(ic.Terms))
	for _, t := range ic.Terms {
		if seen[t.Package] {
			continue
		}
		seen[t.Package] = true

		list := db.byPackage[t.Package]
		dup := false
		for _, existing := range list {
			if existing.Equal(ic) {
				dup = true
				break
			}
		}
		if !dup {
			db.byPackage[t.Package] = append(list, ic)
		}
	}
}

// ForPackage returns every incompatibility indexed under pkg, in
// registration order (oldest first).
func (db *IncompatibilityDB) ForPackage(pkg PackageRef) []*Incompatibility {
	return db.byPackage[pkg]
}
