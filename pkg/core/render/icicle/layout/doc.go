// Package layout computes box positions for icicle visualizations.
//
// # Overview
//
// An icicle diagram draws every imported module as a rectangle. The
// horizontal extent encodes cumulative import time, the vertical tier
// encodes nesting depth, and every module sits directly beneath the module
// that imported it. [Build] turns an import tree into a flat list of [Box]
// values, one per module, in pre-order.
//
// # Width Allocation
//
// Top-level imports share the full canvas width in proportion to their
// cumulative time. Inside a box of width w, children are packed left to
// right in trace order, each receiving w * child / parent. Child offsets
// come from prefix sums over the integer durations, so adjacent boxes meet
// exactly after rounding.
//
// Whatever part of a parent's time its children do not cover (its own self
// time plus any unattributed remainder) is left as slack at the right edge.
//
// # Zero Durations
//
// A module with zero cumulative time cannot be divided. Its descendants all
// receive zero-size boxes at the parent's left edge, and the layout never
// produces NaN or infinite coordinates.
//
// # Precision
//
// Coordinates are rounded to a fixed number of decimal places (3 by
// default, see [WithPrecision]) so identical input always serializes to
// identical output.
//
//	l := layout.Build(t, 1200, 20)
//	for _, b := range l.Boxes {
//	    fmt.Println(b.Node, b.X, b.W)
//	}
//
// Use [Layout.Export] and [Parse] to convert to and from the serialized
// [graph.Layout] format.
//
// [graph.Layout]: github.com/matzehuels/pyimporttime/pkg/graph.Layout
package layout
