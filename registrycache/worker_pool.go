// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package registrycache

import (
	"context"
	"sync"

	"github.com/depgraph/pubgrub"
)

// workerPool services background Prefetch requests with a fixed number of
// goroutines, the asynchronous-fetch-behind-a-worker-pool model spec.md §9
// describes for the ContainerProvider collaborator.
type workerPool struct {
	jobs   chan pubgrub.PackageRef
	fetch  func(ctx context.Context, pkg pubgrub.PackageRef) (*container, error)
	wg     sync.WaitGroup
	stopCh chan struct{}
}

func newWorkerPool(n int, fetch func(ctx context.Context, pkg pubgrub.PackageRef) (*container, error)) *workerPool {
	p := &workerPool{
		jobs:   make(chan pubgrub.PackageRef, n*4),
		fetch:  fetch,
		stopCh: make(chan struct{}),
	}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.run()
	}
	return p
}

func (p *workerPool) run() {
	defer p.wg.Done()
	for {
		select {
		case pkg, ok := <-p.jobs:
			if !ok {
				return
			}
			// Errors are swallowed here: a failed fetch is cached like any
			// other, and the eventual GetContainer call surfaces that
			// cached error to the solver.
			_, _ = p.fetch(context.Background(), pkg)
		case <-p.stopCh:
			return
		}
	}
}

// submit enqueues pkg for background fetch, dropping it silently if the
// pool is saturated - Prefetch is a latency hint, never a correctness
// requirement.
func (p *workerPool) submit(pkg pubgrub.PackageRef) {
	select {
	case p.jobs <- pkg:
	default:
	}
}

func (p *workerPool) stop() {
	close(p.stopCh)
	p.wg.Wait()
}
