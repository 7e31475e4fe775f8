// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrub

import "strings"

const (
	successChar   = "✓"
	successCharSp = successChar + " "
	failChar      = "✗"
	backChar      = "←"
)

// TraceLocation names the solving phase a TraceStep was emitted from.
type TraceLocation uint8

const (
	TopLevel TraceLocation = iota
	UnitPropagation
	DecisionMaking
	ConflictResolution
)

func (l TraceLocation) String() string {
	switch l {
	case UnitPropagation:
		return "unit propagation"
	case DecisionMaking:
		return "decision making"
	case ConflictResolution:
		return "conflict resolution"
	default:
		return "top level"
	}
}

// StepType classifies a TraceStep's payload.
type StepType uint8

const (
	StepIncompatibility StepType = iota
	StepDecision
	StepDerivation
)

// TraceStep is one entry in the optional trace stream a Delegate receives
// while the solver runs (spec.md §6).
type TraceStep struct {
	Type            StepType
	Location        TraceLocation
	Incompatibility *Incompatibility
	Term            Term
	Cause           string
	DecisionLevel   int
}

// ConflictResolutionStep is emitted once per satisfier lookup during
// conflict resolution.
type ConflictResolutionStep struct {
	Incompatibility *Incompatibility
	Term            Term
	Satisfier       Assignment
}

// Delegate receives the solver's optional trace stream. The solver never
// calls a Delegate from more than one goroutine.
type Delegate interface {
	Trace(TraceStep)
	TraceConflictResolution(ConflictResolutionStep)
}

// NopDelegate discards every trace step; it is used when a
// SolveParameters doesn't set a Delegate or leaves Trace false.
type NopDelegate struct{}

func (NopDelegate) Trace(TraceStep)                                {}
func (NopDelegate) TraceConflictResolution(ConflictResolutionStep) {}

// tracePrefix prefixes the first line of msg with fsep and every following
// line with sep, dropping one trailing newline.
func tracePrefix(msg, sep, fsep string) string {
	parts := strings.Split(strings.TrimSuffix(msg, "\n"), "\n")
	for k, str := range parts {
		if k == 0 {
			parts[k] = fsep + str
		} else {
			parts[k] = sep + str
		}
	}
	return strings.Join(parts, "\n")
}
