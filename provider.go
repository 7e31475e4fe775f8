// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

import "context"

// Container exposes one package's available versions and their
// dependencies. Implementations are expected to be safe for concurrent use;
// the reference implementation in pubgrub/registrycache backs this with a
// mutex+condvar cache in front of a durable store (spec.md §5/§6).
type Container interface {
	Identifier() PackageRef

	// Versions returns every version accepted by filter, in descending
	// order (latest first) - the engine's only version-scoring policy.
	Versions(filter func(Version) bool) []Version

	// Dependencies returns the direct dependencies of this package at the
	// given version.
	Dependencies(at Version) ([]Dependency, error)

	// UnversionedDependencies returns the root package's dependencies.
	// Only meaningful for the root container.
	UnversionedDependencies() ([]Dependency, error)
}

// Dependency is one outgoing dependency edge: a package and the
// requirement placed on it.
type Dependency struct {
	Package     PackageRef
	Requirement PackageRequirement
}

// ContainerProvider is the solver's sole external collaborator: given a
// package identity, it discovers (asynchronously, per spec.md §5) the
// Container describing that package's candidate versions and dependencies.
// Fetching, caching, and network I/O are entirely its concern; the solver
// only ever blocks on GetContainer.
type ContainerProvider interface {
	// GetContainer fetches (or returns a cached) Container for pkg.
	// skipUpdate is a hint that a cached result, even if due for
	// refresh, is acceptable.
	GetContainer(ctx context.Context, pkg PackageRef, skipUpdate bool) (Container, error)

	// Prefetch is an optional hint: the solver may ask the provider to
	// start fetching these packages in the background before it is ready
	// to consult them. It has no semantic effect on the solve - only on
	// its wall-clock latency - and implementations may ignore it.
	Prefetch(pkgs []PackageRef)
}
