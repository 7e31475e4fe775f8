// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registrycache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/depgraph/pubgrub"
	"github.com/depgraph/pubgrub/internal/semverset"
)

type fakeUpstream struct {
	mu        sync.Mutex
	fetches   int32
	versions  map[string][]pubgrub.Version
	deps      map[string][]pubgrub.Dependency
	failEvery string
}

func newFakeUpstream() *fakeUpstream {
	return &fakeUpstream{
		versions: make(map[string][]pubgrub.Version),
		deps:     make(map[string][]pubgrub.Dependency),
	}
}

func (u *fakeUpstream) Versions(ctx context.Context, pkg pubgrub.PackageRef) ([]pubgrub.Version, error) {
	atomic.AddInt32(&u.fetches, 1)
	if pkg.String() == u.failEvery {
		return nil, errTestUpstream
	}
	return u.versions[pkg.String()], nil
}

func (u *fakeUpstream) Dependencies(ctx context.Context, pkg pubgrub.PackageRef, at pubgrub.Version) ([]pubgrub.Dependency, error) {
	return u.deps[pkg.String()], nil
}

func (u *fakeUpstream) RootDependencies(ctx context.Context, root pubgrub.PackageRef) ([]pubgrub.Dependency, error) {
	return u.deps[root.String()], nil
}

var errTestUpstream = &testError{"upstream failure"}

type testError struct{ s string }

func (e *testError) Error() string { return e.s }

func TestGetContainerFetchesOnceAndCaches(t *testing.T) {
	up := newFakeUpstream()
	pkg := pubgrub.NewPackageRef("a")
	up.versions["a"] = []pubgrub.Version{semverset.MustParseVersion("1.0.0"), semverset.MustParseVersion("2.0.0")}

	p := NewProvider(up)
	defer p.Close()

	c1, err := p.GetContainer(context.Background(), pkg, false)
	if err != nil {
		t.Fatalf("GetContainer: %v", err)
	}
	c2, err := p.GetContainer(context.Background(), pkg, false)
	if err != nil {
		t.Fatalf("GetContainer (2nd): %v", err)
	}
	if c1 != c2 {
		t.Error("second GetContainer should return the cached container, not refetch")
	}
	if got := atomic.LoadInt32(&up.fetches); got != 1 {
		t.Errorf("upstream.Versions called %d times, want 1", got)
	}

	versions := c1.Versions(nil)
	if len(versions) != 2 || versions[0].String() != "2.0.0" {
		t.Errorf("Versions() = %v, want sorted descending starting with 2.0.0", versions)
	}
}

func TestGetContainerCachesFailure(t *testing.T) {
	up := newFakeUpstream()
	up.failEvery = "bad"
	p := NewProvider(up)
	defer p.Close()

	pkg := pubgrub.NewPackageRef("bad")
	if _, err := p.GetContainer(context.Background(), pkg, false); err == nil {
		t.Fatal("want an error from a failing upstream")
	}
	if _, err := p.GetContainer(context.Background(), pkg, false); err == nil {
		t.Fatal("want the cached failure to be returned on retry")
	}
	if got := atomic.LoadInt32(&up.fetches); got != 1 {
		t.Errorf("upstream.Versions called %d times, want 1 (failure cached)", got)
	}
}

func TestGetContainerConcurrentCallersShareOneFetch(t *testing.T) {
	up := newFakeUpstream()
	pkg := pubgrub.NewPackageRef("a")
	up.versions["a"] = []pubgrub.Version{semverset.MustParseVersion("1.0.0")}

	p := NewProvider(up)
	defer p.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := p.GetContainer(context.Background(), pkg, false); err != nil {
				t.Errorf("GetContainer: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&up.fetches); got != 1 {
		t.Errorf("upstream.Versions called %d times across concurrent callers, want 1", got)
	}
}

func TestContainerDependenciesMemoizes(t *testing.T) {
	up := newFakeUpstream()
	pkg := pubgrub.NewPackageRef("a")
	v := semverset.MustParseVersion("1.0.0")
	up.versions["a"] = []pubgrub.Version{v}
	up.deps["a"] = []pubgrub.Dependency{{Package: pubgrub.NewPackageRef("b")}}

	p := NewProvider(up)
	defer p.Close()

	c, err := p.GetContainer(context.Background(), pkg, false)
	if err != nil {
		t.Fatalf("GetContainer: %v", err)
	}

	deps1, err := c.Dependencies(v)
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	deps2, err := c.Dependencies(v)
	if err != nil {
		t.Fatalf("Dependencies (2nd): %v", err)
	}
	if len(deps1) != 1 || len(deps2) != 1 {
		t.Fatalf("Dependencies() = %v / %v, want one dependency each", deps1, deps2)
	}
}

func TestPrefetchWithoutWorkersIsANoop(t *testing.T) {
	up := newFakeUpstream()
	p := NewProvider(up)
	defer p.Close()

	p.Prefetch([]pubgrub.PackageRef{pubgrub.NewPackageRef("a")})
	if got := atomic.LoadInt32(&up.fetches); got != 0 {
		t.Errorf("upstream.Versions called %d times, want 0 (no prefetch workers configured)", got)
	}
}
