// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/depgraph/pubgrub"
	"github.com/depgraph/pubgrub/internal/semverset"
	"github.com/depgraph/pubgrub/manifestfile"
)

// dirUpstream is a registrycache.Upstream backed by a directory of one JSON
// file per package, a standin for the network registry a real deployment
// would fetch from (spec.md §5 leaves the registry transport unspecified).
type dirUpstream struct {
	dir  string
	root pubgrub.PackageRef
	deps []pubgrub.Dependency
}

func newDirUpstream(dir string, m *manifestfile.Manifest) *dirUpstream {
	return &dirUpstream{dir: dir, root: m.Root, deps: m.Dependencies}
}

// packageFile describes one package's available versions and, per version,
// its dependencies.
type packageFile struct {
	Versions     []string                      `json:"versions"`
	Dependencies map[string][]dependencyRecord `json:"dependencies"`
}

type dependencyRecord struct {
	Name       string `json:"name"`
	Constraint string `json:"constraint"`
}

func (u *dirUpstream) load(pkg pubgrub.PackageRef) (packageFile, error) {
	path := filepath.Join(u.dir, sanitize(pkg.String())+".json")
	f, err := os.Open(path)
	if err != nil {
		return packageFile{}, errors.Wrapf(err, "opening registry entry for %s", pkg)
	}
	defer f.Close()

	var pf packageFile
	if err := json.NewDecoder(f).Decode(&pf); err != nil {
		return packageFile{}, errors.Wrapf(err, "decoding registry entry for %s", pkg)
	}
	return pf, nil
}

func (u *dirUpstream) Versions(ctx context.Context, pkg pubgrub.PackageRef) ([]pubgrub.Version, error) {
	pf, err := u.load(pkg)
	if err != nil {
		return nil, err
	}

	out := make([]pubgrub.Version, 0, len(pf.Versions))
	for _, s := range pf.Versions {
		v, err := semverset.ParseVersion(s)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing version %q for %s", s, pkg)
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Compare(out[j]) < 0 })
	return out, nil
}

func (u *dirUpstream) Dependencies(ctx context.Context, pkg pubgrub.PackageRef, at pubgrub.Version) ([]pubgrub.Dependency, error) {
	pf, err := u.load(pkg)
	if err != nil {
		return nil, err
	}

	records, ok := pf.Dependencies[at.String()]
	if !ok {
		return nil, nil
	}
	return toDependencies(records)
}

func (u *dirUpstream) RootDependencies(ctx context.Context, root pubgrub.PackageRef) ([]pubgrub.Dependency, error) {
	return u.deps, nil
}

func toDependencies(records []dependencyRecord) ([]pubgrub.Dependency, error) {
	out := make([]pubgrub.Dependency, 0, len(records))
	for _, r := range records {
		var (
			vs  pubgrub.VersionSet
			err error
		)
		if strings.HasPrefix(r.Constraint, "^") {
			vs, err = semverset.CaretRange(r.Constraint)
		} else {
			vs, err = semverset.ExactRange(r.Constraint)
		}
		if err != nil {
			return nil, errors.Wrapf(err, "parsing constraint %q for %s", r.Constraint, r.Name)
		}
		out = append(out, pubgrub.Dependency{
			Package:     pubgrub.NewPackageRef(r.Name),
			Requirement: pubgrub.VersionSetRequirement(vs),
		})
	}
	return out, nil
}

// sanitize turns a package name into a filesystem-safe file stem.
func sanitize(name string) string {
	r := strings.NewReplacer("/", "_", ":", "_")
	return r.Replace(name)
}
