// Package pkg provides the core libraries for pyimporttime, a visualizer for
// the import time traces CPython prints with -X importtime.
//
// # Overview
//
// Every line of such a trace reports one imported module: its self time, its
// cumulative time and, through indentation, its nesting depth. Modules are
// printed after the imports they trigger. pyimporttime rebuilds the import
// hierarchy from that post-order listing and draws it as an icicle chart
// (width proportional to cumulative time) or as a Graphviz node-link graph.
//
// The pkg directory is organized into these areas:
//
//  1. [core] - Domain logic (trace parsing, import tree, layout, rendering)
//  2. [pipeline] - Orchestration (parse → layout → render) with caching
//  3. [graph] - Serialization types for traces, trees and layouts
//  4. [capture] - Running a Python interpreter with import profiling enabled
//  5. [config], [cache], [errors], [observability], [buildinfo] - Supporting layers
//
// # Architecture
//
// The typical data flow:
//
//	python -X importtime (stderr)
//	         ↓
//	    [core/importtime] package (parse lines into records)
//	         ↓
//	    [core/tree] package (rebuild the import hierarchy)
//	         ↓
//	    [core/render] packages (icicle layout or DOT graph)
//	         ↓
//	    HTML/SVG/PNG/PDF/JSON/DOT output
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/pyimporttime/pkg/core/importtime"
//	    "github.com/matzehuels/pyimporttime/pkg/core/tree"
//	    "github.com/matzehuels/pyimporttime/pkg/core/render/icicle/layout"
//	    "github.com/matzehuels/pyimporttime/pkg/core/render/icicle/sink"
//	)
//
//	// 1. Parse the trace
//	records, _ := importtime.Parse(trace)
//
//	// 2. Rebuild the import tree
//	t, _ := tree.Build(records)
//
//	// 3. Compute layout
//	l := layout.Build(t, 1200, 20)
//
//	// 4. Render to SVG
//	svg := sink.RenderSVG(l, t)
//
// Most callers go through [pipeline] instead, which validates options,
// caches layouts and artifacts, and emits observability hooks:
//
//	runner := pipeline.NewRunner(c, cache.NewDefaultKeyer(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Trace:   trace,
//	    Formats: []string{"html", "svg"},
//	})
//
// # Main Packages
//
// [core/importtime] - Line parser for the trace format. Header lines and
// unrelated stderr output are skipped; malformed trace lines are reported
// with their line number.
//
// [core/tree] - Arena-backed import tree with pre-order node IDs, built from
// the post-order trace by walking it backwards.
//
// [render/icicle] - Icicle layout, colour styles and sinks (SVG, HTML, PNG, PDF).
//
// [render/nodelink] - Directed graph diagrams using Graphviz.
//
// [graph] - JSON shapes for traces, nested modules and layouts.
//
// [pipeline] - Complete visualization pipeline (parse → layout → render) used
// by every CLI command.
//
// [capture] - Runs an interpreter with PYTHONPROFILEIMPORTTIME set and
// collects its stderr.
//
// [cache] - Content-addressed file cache for layouts and rendered artifacts.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/tree/...          # Specific package
//
// [core]: https://pkg.go.dev/github.com/matzehuels/pyimporttime/pkg/core
// [core/importtime]: https://pkg.go.dev/github.com/matzehuels/pyimporttime/pkg/core/importtime
// [core/tree]: https://pkg.go.dev/github.com/matzehuels/pyimporttime/pkg/core/tree
// [render/icicle]: https://pkg.go.dev/github.com/matzehuels/pyimporttime/pkg/core/render/icicle
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/pyimporttime/pkg/core/render/nodelink
// [graph]: https://pkg.go.dev/github.com/matzehuels/pyimporttime/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/pyimporttime/pkg/pipeline
// [capture]: https://pkg.go.dev/github.com/matzehuels/pyimporttime/pkg/capture
// [config]: https://pkg.go.dev/github.com/matzehuels/pyimporttime/pkg/config
// [cache]: https://pkg.go.dev/github.com/matzehuels/pyimporttime/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/pyimporttime/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/pyimporttime/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/pyimporttime/pkg/buildinfo
package pkg
