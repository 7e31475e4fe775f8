// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registrycache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/depgraph/pubgrub"
)

func TestWorkerPoolRunsSubmittedJobs(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[string]bool)
	done := make(chan struct{}, 4)

	fetch := func(ctx context.Context, pkg pubgrub.PackageRef) (*container, error) {
		mu.Lock()
		seen[pkg.String()] = true
		mu.Unlock()
		done <- struct{}{}
		return nil, nil
	}

	pool := newWorkerPool(2, fetch)
	defer pool.stop()

	pool.submit(pubgrub.NewPackageRef("a"))
	pool.submit(pubgrub.NewPackageRef("b"))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for worker pool to process jobs")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if !seen["a"] || !seen["b"] {
		t.Errorf("seen = %v, want both a and b processed", seen)
	}
}

func TestWorkerPoolStopReturnsAfterWorkersExit(t *testing.T) {
	fetch := func(ctx context.Context, pkg pubgrub.PackageRef) (*container, error) {
		return nil, nil
	}
	pool := newWorkerPool(1, fetch)
	pool.stop()
}
