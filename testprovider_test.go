// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

import "context"

// fakePackage is one entry of a fakeProvider's catalog: a package's
// versions (descending) and each version's dependencies.
type fakePackage struct {
	versions []Version
	deps     map[Version][]Dependency
}

// fakeContainer adapts a fakePackage into a Container.
type fakeContainer struct {
	pkg      PackageRef
	versions []Version
	deps     map[Version][]Dependency
	rootDeps []Dependency
}

func (c *fakeContainer) Identifier() PackageRef { return c.pkg }

func (c *fakeContainer) Versions(filter func(Version) bool) []Version {
	var out []Version
	for _, v := range c.versions {
		if filter == nil || filter(v) {
			out = append(out, v)
		}
	}
	return out
}

func (c *fakeContainer) Dependencies(at Version) ([]Dependency, error) {
	return c.deps[at], nil
}

func (c *fakeContainer) UnversionedDependencies() ([]Dependency, error) {
	return c.rootDeps, nil
}

// fakeProvider is a deterministic, in-memory ContainerProvider for tests:
// no caching, no concurrency, just a catalog keyed by package name.
type fakeProvider struct {
	root     PackageRef
	rootDeps []Dependency
	catalog  map[PackageRef]fakePackage
}

func newFakeProvider(root PackageRef, rootDeps []Dependency) *fakeProvider {
	return &fakeProvider{root: root, rootDeps: rootDeps, catalog: make(map[PackageRef]fakePackage)}
}

func (p *fakeProvider) add(name string, versions []Version, deps map[Version][]Dependency) {
	p.catalog[pkg(name)] = fakePackage{versions: versions, deps: deps}
}

func (p *fakeProvider) GetContainer(ctx context.Context, ref PackageRef, skipUpdate bool) (Container, error) {
	if ref == p.root {
		return &fakeContainer{pkg: ref, rootDeps: p.rootDeps}, nil
	}
	fp, ok := p.catalog[ref]
	if !ok {
		return &fakeContainer{pkg: ref}, nil
	}
	return &fakeContainer{pkg: ref, versions: fp.versions, deps: fp.deps}, nil
}

func (p *fakeProvider) Prefetch(pkgs []PackageRef) {}

var _ ContainerProvider = (*fakeProvider)(nil)

func dep(name string, vs VersionSet) Dependency {
	return Dependency{Package: pkg(name), Requirement: VersionSetRequirement(vs)}
}
