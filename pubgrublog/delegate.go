// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package pubgrublog

import "github.com/depgraph/pubgrub"

// TraceDelegate adapts a Logger into a pubgrub.Delegate, rendering every
// TraceStep at LevelTrace in the indented style of the teacher's
// trace.go / tracePrefix.
type TraceDelegate struct {
	Log *Logger
}

func (d TraceDelegate) Trace(step pubgrub.TraceStep) {
	indent := ""
	for i := 0; i < step.DecisionLevel; i++ {
		indent += "| "
	}

	switch step.Type {
	case pubgrub.StepDecision:
		d.Log.Tracef("%s%s", indent, step.Term)
	case pubgrub.StepDerivation:
		d.Log.Tracef("%sderived %s (%s)", indent, step.Term, step.Location)
	default:
		d.Log.Tracef("%sfact %s (%s)", indent, step.Incompatibility, step.Location)
	}
}

func (d TraceDelegate) TraceConflictResolution(step pubgrub.ConflictResolutionStep) {
	d.Log.Tracef("conflict resolution: %s satisfied by %s", step.Term, step.Satisfier.Term)
}

var _ pubgrub.Delegate = TraceDelegate{}
