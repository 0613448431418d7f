// Package nodelink provides node-and-edge visualization of import trees
// using Graphviz.
//
// Each module becomes a box labelled with its name and cumulative time, and
// each import becomes a directed edge from importer to imported module.
//
// # Architecture
//
// Unlike the icicle visualization which separates layout computation from
// rendering, nodelink uses Graphviz which handles both in a single step:
//
//	Icicle:   Tree → layout.Build() → Layout → sink.RenderSVG() → SVG
//	Nodelink: Tree → ToDOT() → DOT → RenderSVG() → SVG
//
// The DOT string serves as the intermediate representation and is stored in
// the serialized layout, so it can be re-rendered without the trace.
//
// # Pruning
//
// Real traces hold hundreds of modules. [Options.MinPercent] drops every
// module (and its imports) whose cumulative time is below the given share of
// the total, keeping the graph readable.
//
// # Rendering
//
// [RenderSVG] and [RenderPNG] run Graphviz in-process through
// github.com/goccy/go-graphviz. [RenderPDF] converts the SVG with
// rsvg-convert.
package nodelink
