// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

import "github.com/pkg/errors"

// SolverError is returned by Solve when no consistent assignment exists or
// an external collaborator failed. Callers that only care about "did it
// work" can treat any non-nil error as unresolvable; callers that want the
// derivation tree should type-assert to *UnresolvableError and pass its
// Incompatibility to Report.
type SolverError interface {
	error
	isSolverError()
}

// UnresolvableError wraps the terminal incompatibility produced by conflict
// resolution (spec.md §7 kind 1). Its Cause graph, walked by Report, is the
// human-readable explanation of why no solution exists.
type UnresolvableError struct {
	Incompatibility *Incompatibility
}

func (e *UnresolvableError) Error() string {
	return "no solution found: " + Report(e.Incompatibility)
}

func (e *UnresolvableError) isSolverError() {}

// ProviderError wraps an error returned by a ContainerProvider unchanged
// (spec.md §7 kind 2): the solve aborts without attempting an explanation,
// since the failure isn't a property of the constraint graph.
type ProviderError struct {
	Package PackageRef
	Err     error
}

func (e *ProviderError) Error() string {
	return errors.Wrapf(e.Err, "fetching %s", e.Package).Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) isSolverError() {}

// badOptsError reports invalid SolveParameters, checked in Prepare before
// any solving work begins.
type badOptsError string

func (e badOptsError) Error() string { return string(e) }

func badOpts(msg string) error { return badOptsError(msg) }

var (
	_ SolverError = (*UnresolvableError)(nil)
	_ SolverError = (*ProviderError)(nil)
)
