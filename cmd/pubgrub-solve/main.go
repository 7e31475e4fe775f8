// Copyright 2016 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command pubgrub-solve runs the engine against a manifest and a local
// directory registry, printing the resolved version set or the failure
// explanation, in the style of the teacher's cmd/dep Config/Run entry
// point.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/depgraph/pubgrub"
	"github.com/depgraph/pubgrub/manifestfile"
	"github.com/depgraph/pubgrub/pins"
	"github.com/depgraph/pubgrub/pubgrublog"
	"github.com/depgraph/pubgrub/registrycache"
)

func main() {
	c := &Config{
		Args:   os.Args,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(c.Run())
}

// Config specifies a full configuration for a pubgrub-solve execution.
type Config struct {
	Args           []string
	Stdout, Stderr io.Writer
}

// Run executes a configuration and returns an exit code.
func (c *Config) Run() (exitCode int) {
	fs := flag.NewFlagSet("pubgrub-solve", flag.ContinueOnError)
	fs.SetOutput(c.Stderr)

	manifestPath := fs.String("manifest", "", "path to the manifest TOML file (required)")
	registryDir := fs.String("registry", "", "path to the directory registry (required)")
	pinsPath := fs.String("pins", "", "path to an optional pins TOML file")
	cacheDir := fs.String("cache", "", "path to an optional durable BoltDB cache directory")
	workers := fs.Int("workers", 0, "number of background prefetch workers (0 disables prefetch)")
	verbose := fs.Bool("v", false, "trace the solver's decisions to stderr")

	if err := fs.Parse(c.Args[1:]); err != nil {
		return 1
	}

	errLogger := log.New(c.Stderr, "", 0)

	if *manifestPath == "" || *registryDir == "" {
		errLogger.Println("pubgrub-solve: -manifest and -registry are required")
		fs.Usage()
		return 1
	}

	mf, err := os.Open(*manifestPath)
	if err != nil {
		errLogger.Println("pubgrub-solve:", err)
		return 1
	}
	defer mf.Close()

	manifest, err := manifestfile.Parse(mf)
	if err != nil {
		errLogger.Println("pubgrub-solve:", err)
		return 1
	}

	var loadedPins []pubgrub.Pin
	if *pinsPath != "" {
		pf, err := os.Open(*pinsPath)
		if err != nil {
			errLogger.Println("pubgrub-solve:", err)
			return 1
		}
		loadedPins, err = pins.Parse(pf)
		pf.Close()
		if err != nil {
			errLogger.Println("pubgrub-solve:", err)
			return 1
		}
	}

	upstream := newDirUpstream(*registryDir, manifest)

	var opts []registrycache.Option
	if *cacheDir != "" {
		opts = append(opts, registrycache.WithDurableStore(*cacheDir))
	}
	if *workers > 0 {
		opts = append(opts, registrycache.WithPrefetchWorkers(*workers))
	}
	provider := registrycache.NewProvider(upstream, opts...)
	defer provider.Close()

	level := pubgrublog.LevelInfo
	if *verbose {
		level = pubgrublog.LevelTrace
	}
	logger := pubgrublog.New(c.Stderr, level)
	delegate := pubgrublog.TraceDelegate{Log: logger}

	params := pubgrub.SolveParameters{
		Root:     manifest.Root,
		Pins:     loadedPins,
		Trace:    *verbose,
		Delegate: delegate,
	}

	bindings, err := pubgrub.Solve(context.Background(), params, provider)
	if err != nil {
		errLogger.Println("pubgrub-solve: solve failed:")
		errLogger.Println(err)
		return 1
	}

	printBindings(c.Stdout, bindings)
	return 0
}

func printBindings(w io.Writer, bindings []pubgrub.Binding) {
	sorted := append([]pubgrub.Binding(nil), bindings...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Package.String() < sorted[j].Package.String() })

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PACKAGE\tVERSION")
	for _, b := range sorted {
		fmt.Fprintf(tw, "%s\t%s\n", b.Package, b.Bound)
	}
	tw.Flush()
}
