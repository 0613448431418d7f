// Package graph provides serialization types for import traces and layouts.
//
// This package defines the JSON formats written by the CLI and stored in the
// cache, and sits at the boundary between internal representations and
// external files:
//
//   - [Trace], [Modules], [Layout]: Serialization types (this package)
//   - pkg/core/importtime.Record: Parsed trace lines
//   - pkg/core/tree.Tree: Import hierarchy
//   - pkg/core/render/icicle/layout.Layout: Internal box geometry
//
// # Constants
//
// This package is the single source of truth for visualization constants:
//
//	graph.VizTypeIcicle     // "icicle"
//	graph.VizTypeNodelink   // "nodelink"
//	graph.StylePackage      // "package"
//	graph.StyleHeat         // "heat"
//
// # Trace Serialization
//
// Parsed records are written as a flat list in input order, with times in
// microseconds:
//
//	{
//	  "total_us": 280,
//	  "records": [{"name": "a", "self_us": 100, "cumulative_us": 100, "depth": 0}]
//	}
//
// [FromTree] produces the nested form instead, one object per module with its
// imports inline.
//
// # Layout Serialization
//
// Icicle layouts carry every box with its timings, so a layout file is
// enough to render all output formats without the original trace:
//
//	l, _ := graph.ReadLayoutFile("layout.json")
//	t, _ := graph.ToTree(l)
package graph
