// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registrycache

import "github.com/theckman/go-flock"

// processLock guards the durable BoltDB file against concurrent processes -
// BoltDB itself only arbitrates within one process, so a second dep-solving
// process pointed at the same cache directory needs an independent,
// OS-level exclusion mechanism.
type processLock struct {
	f *flock.Flock
}

func newProcessLock(path string) *processLock {
	return &processLock{f: flock.NewFlock(path)}
}

func (l *processLock) Lock() error {
	return l.f.Lock()
}

func (l *processLock) Unlock() error {
	return l.f.Unlock()
}
