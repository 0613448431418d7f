// Package styles defines the visual appearance of icicle diagrams.
//
// A [Style] decides the colours of each box and writes its SVG elements.
// Two styles are provided:
//
//   - [Package]: one hue per top-level package, so a package and all of
//     its submodules share a colour family
//   - [Heat]: boxes shade from yellow to red as the share of time spent in
//     the module's own body grows
//
// The text helpers ([FontSize], [TruncateLabel], [ShouldLabel]) are shared
// by the SVG and PNG sinks so both place labels identically.
package styles
