// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package registrycache is a reference pubgrub.ContainerProvider: a
// mutex+condvar in-memory cache of Containers in front of a durable BoltDB
// store, with optional background prefetch, the way the teacher's
// internal/gps/source_cache_bolt.go backs SourceMgr's source cache (spec.md
// §5 "Concurrency & Resource Model").
package registrycache

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/depgraph/pubgrub"
)

// Upstream is the actual network/registry collaborator: it knows how to list
// a package's versions and fetch a version's dependencies. registrycache
// owns only caching and concurrency; Upstream owns I/O.
type Upstream interface {
	Versions(ctx context.Context, pkg pubgrub.PackageRef) ([]pubgrub.Version, error)
	Dependencies(ctx context.Context, pkg pubgrub.PackageRef, at pubgrub.Version) ([]pubgrub.Dependency, error)
	RootDependencies(ctx context.Context, root pubgrub.PackageRef) ([]pubgrub.Dependency, error)
}

// entryState tracks one package's position in the fetch lifecycle.
type entryState uint8

const (
	statePending entryState = iota
	stateReady
	stateFailed
)

type cacheEntry struct {
	state     entryState
	container *container
	err       error
}

// Provider is a pubgrub.ContainerProvider backed by an in-memory cache, a
// durable store, and a background prefetch worker pool. Safe for concurrent
// use; the solver itself is single-threaded, but Prefetch runs workers
// concurrently with the solve.
type Provider struct {
	upstream Upstream
	store    *boltStore // nil if no durable cache directory was configured

	mu      sync.Mutex
	cond    *sync.Cond
	entries map[pubgrub.PackageRef]*cacheEntry
	index   *prefixIndex

	pool *workerPool
}

// Option configures a Provider.
type Option func(*Provider)

// WithDurableStore backs the provider with a BoltDB file under dir,
// persisting each fetched package's version list across process restarts;
// dependency lists are not persisted and are fetched from upstream again.
func WithDurableStore(dir string) Option {
	return func(p *Provider) {
		store, err := openBoltStore(dir)
		if err != nil {
			// A durable cache is an optimization; its absence never blocks
			// correctness, only cold-start latency.
			return
		}
		p.store = store
	}
}

// WithPrefetchWorkers starts n background workers servicing Prefetch
// requests. n <= 0 disables background prefetch; GetContainer always falls
// back to a synchronous fetch regardless.
func WithPrefetchWorkers(n int) Option {
	return func(p *Provider) {
		if n > 0 {
			p.pool = newWorkerPool(n, func(ctx context.Context, pkg pubgrub.PackageRef) (*container, error) {
				// Mark the package pending first so a concurrent GetContainer
				// waits on this fetch; skip packages already known.
				p.mu.Lock()
				if _, ok := p.entries[pkg]; ok {
					p.mu.Unlock()
					return nil, nil
				}
				p.entries[pkg] = &cacheEntry{state: statePending}
				p.mu.Unlock()
				return p.fetchAndStore(ctx, pkg)
			})
		}
	}
}

// NewProvider returns a Provider that fetches through upstream.
func NewProvider(upstream Upstream, opts ...Option) *Provider {
	p := &Provider{
		upstream: upstream,
		entries:  make(map[pubgrub.PackageRef]*cacheEntry),
		index:    newPrefixIndex(),
	}
	p.cond = sync.NewCond(&p.mu)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Close releases the durable store and stops any prefetch workers.
func (p *Provider) Close() error {
	if p.pool != nil {
		p.pool.stop()
	}
	if p.store != nil {
		return p.store.close()
	}
	return nil
}

// Prefetch submits pkgs to the background worker pool, a no-op hint with no
// semantic effect on the eventual solve (spec.md §5). If no pool was
// configured, it does nothing.
func (p *Provider) Prefetch(pkgs []pubgrub.PackageRef) {
	if p.pool == nil {
		return
	}

	p.mu.Lock()
	queue := append([]pubgrub.PackageRef(nil), pkgs...)
	for _, pkg := range pkgs {
		for _, sib := range p.index.siblings(pkg.String()) {
			queue = append(queue, pubgrub.NewPackageRef(sib))
		}
	}
	p.mu.Unlock()

	for _, pkg := range queue {
		p.pool.submit(pkg)
	}
}

// GetContainer implements pubgrub.ContainerProvider (spec.md §5): it returns
// the cached container, awaits an in-flight prefetch via the condition
// variable, or performs a synchronous fetch - exactly one of the three.
func (p *Provider) GetContainer(ctx context.Context, pkg pubgrub.PackageRef, skipUpdate bool) (pubgrub.Container, error) {
	p.mu.Lock()
	for {
		e, ok := p.entries[pkg]
		if !ok {
			p.entries[pkg] = &cacheEntry{state: statePending}
			p.mu.Unlock()
			return p.fetchAndStore(ctx, pkg)
		}
		switch e.state {
		case stateReady:
			p.mu.Unlock()
			return e.container, nil
		case stateFailed:
			p.mu.Unlock()
			return nil, e.err
		default: // statePending: a prefetch or another caller's fetch is in flight
			p.cond.Wait()
		}
	}
}

// fetchAndStore performs the synchronous upstream fetch, consulting the
// durable store first, and signals every goroutine waiting on the condition
// variable once the result lands.
func (p *Provider) fetchAndStore(ctx context.Context, pkg pubgrub.PackageRef) (*container, error) {
	c, err := p.loadDurable(pkg)
	if err != nil {
		c, err = p.fetchFromUpstream(ctx, pkg)
	} else {
		c.upstream = p.upstream
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	defer p.cond.Broadcast()

	if err != nil {
		p.entries[pkg] = &cacheEntry{state: stateFailed, err: err}
		return nil, err
	}
	p.entries[pkg] = &cacheEntry{state: stateReady, container: c}
	p.index.insert(pkg.String())
	return c, nil
}

func (p *Provider) loadDurable(pkg pubgrub.PackageRef) (*container, error) {
	if p.store == nil {
		return nil, errors.New("no durable store configured")
	}
	return p.store.load(pkg)
}

func (p *Provider) fetchFromUpstream(ctx context.Context, pkg pubgrub.PackageRef) (*container, error) {
	versions, err := p.upstream.Versions(ctx, pkg)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching versions for %s", pkg)
	}
	sorted := append([]pubgrub.Version(nil), versions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Compare(sorted[j]) > 0 })

	c := &container{
		pkg:      pkg,
		upstream: p.upstream,
		versions: sorted,
	}

	if p.store != nil {
		if err := p.store.save(pkg, c); err != nil {
			// Durable persistence is best-effort; the in-memory result is
			// still valid for this process.
			_ = err
		}
	}
	return c, nil
}

// container is the reference pubgrub.Container: a package's version list,
// with dependencies fetched lazily and memoized per version.
type container struct {
	pkg      pubgrub.PackageRef
	upstream Upstream

	mu       sync.Mutex
	versions []pubgrub.Version
	deps     map[pubgrub.Version][]pubgrub.Dependency
	rootDeps []pubgrub.Dependency
}

func (c *container) Identifier() pubgrub.PackageRef { return c.pkg }

func (c *container) Versions(filter func(pubgrub.Version) bool) []pubgrub.Version {
	out := make([]pubgrub.Version, 0, len(c.versions))
	for _, v := range c.versions {
		if filter == nil || filter(v) {
			out = append(out, v)
		}
	}
	return out
}

func (c *container) Dependencies(at pubgrub.Version) ([]pubgrub.Dependency, error) {
	c.mu.Lock()
	if deps, ok := c.deps[at]; ok {
		c.mu.Unlock()
		return deps, nil
	}
	c.mu.Unlock()

	deps, err := c.upstream.Dependencies(context.Background(), c.pkg, at)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching dependencies for %s@%s", c.pkg, at)
	}

	c.mu.Lock()
	if c.deps == nil {
		c.deps = make(map[pubgrub.Version][]pubgrub.Dependency)
	}
	c.deps[at] = deps
	c.mu.Unlock()
	return deps, nil
}

func (c *container) UnversionedDependencies() ([]pubgrub.Dependency, error) {
	c.mu.Lock()
	if c.rootDeps != nil {
		defer c.mu.Unlock()
		return c.rootDeps, nil
	}
	c.mu.Unlock()

	deps, err := c.upstream.RootDependencies(context.Background(), c.pkg)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching root dependencies for %s", c.pkg)
	}

	c.mu.Lock()
	c.rootDeps = deps
	c.mu.Unlock()
	return deps, nil
}

var _ pubgrub.ContainerProvider = (*Provider)(nil)
var _ pubgrub.Container = (*container)(nil)
