// Package sink renders icicle layouts to output formats.
//
// Every renderer takes the computed [layout.Layout] together with the
// [tree.Tree] it was built from; the tree supplies names and timings, the
// layout supplies geometry. Output is a pure function of both inputs plus
// options, so identical input always produces identical bytes.
//
// # Formats
//
//   - [RenderSVG]: standalone SVG with tooltips and optional hover highlighting
//   - [RenderHTML]: self-contained page embedding the SVG with a details panel
//   - [RenderPNG]: raster image drawn directly, no external tools
//   - [RenderPDF]: vector PDF via rsvg-convert (must be installed)
//
// JSON output is the serialized layout itself; see graph.MarshalLayout.
//
// [layout.Layout]: github.com/matzehuels/pyimporttime/pkg/core/render/icicle/layout.Layout
// [tree.Tree]: github.com/matzehuels/pyimporttime/pkg/core/tree.Tree
package sink
