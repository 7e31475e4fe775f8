// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registrycache

import "github.com/armon/go-radix"

// prefixIndex tracks every package name this provider has ever resolved, the
// way the teacher's typed_radix.go wraps armon/go-radix for its deduction
// trie. Prefetch uses LongestPrefix to find sibling packages already known
// to share a source root (e.g. "example.com/foo/v2" alongside
// "example.com/foo"), so a caller requesting one can have its likely
// siblings queued for background fetch too.
type prefixIndex struct {
	t *radix.Tree
}

func newPrefixIndex() *prefixIndex {
	return &prefixIndex{t: radix.New()}
}

func (idx *prefixIndex) insert(name string) {
	idx.t.Insert(name, struct{}{})
}

// siblings returns every previously-seen package name sharing name's longest
// known prefix, excluding name itself.
func (idx *prefixIndex) siblings(name string) []string {
	prefix, _, ok := idx.t.LongestPrefix(name)
	if !ok {
		return nil
	}
	var out []string
	idx.t.WalkPrefix(prefix, func(s string, _ interface{}) bool {
		if s != name {
			out = append(out, s)
		}
		return false
	})
	return out
}
