package styles

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/matzehuels/pyimporttime/pkg/graph"
)

// Style defines the visual appearance for icicle rendering.
type Style interface {
	// Name returns the identifier used in options and layout metadata.
	Name() string
	// Fill returns the box fill colour as #rrggbb.
	Fill(b Box) string
	// RenderDefs writes SVG <defs> and <style> content.
	RenderDefs(buf *bytes.Buffer)
	// RenderBox writes the SVG rectangle for a single box.
	RenderBox(buf *bytes.Buffer, b Box)
	// RenderText writes the SVG label for a single box.
	RenderText(buf *bytes.Buffer, b Box)
}

// Box contains all data needed to render a single module.
type Box struct {
	ID         int
	Name       string
	Depth      int
	X, Y, W, H float64
	Self       time.Duration
	Cumulative time.Duration
	Percent    float64 // share of the trace total, 0-100
	SelfShare  float64 // Self / Cumulative, 0-1
}

// Label returns the text drawn inside the box.
func (b Box) Label() string {
	return fmt.Sprintf("%s: %s ms", b.Name, Millis(b.Cumulative))
}

// Tooltip returns the hover text for the box.
func (b Box) Tooltip() string {
	return fmt.Sprintf("%s: self %s ms, cumulative %s ms (%.2f%%)",
		b.Name, Millis(b.Self), Millis(b.Cumulative), b.Percent)
}

// Millis formats a duration as milliseconds with microsecond precision.
func Millis(d time.Duration) string {
	return strconv.FormatFloat(float64(d.Microseconds())/1000, 'f', 3, 64)
}

// Num formats a coordinate with the fewest digits that round-trip.
func Num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ByName returns the style registered under name, or nil if unknown.
func ByName(name string) Style {
	switch name {
	case graph.StylePackage, "":
		return Package{}
	case graph.StyleHeat:
		return Heat{}
	default:
		return nil
	}
}

const (
	// Background is the canvas colour behind all boxes.
	Background = "#333333"
	// TextColor is the label colour.
	TextColor = "#ffffff"
	// Stroke outlines every box.
	Stroke = "#ffffff"
)

const sharedCSS = `
    .box rect { stroke: ` + Stroke + `; stroke-width: 0.5; }
    .box text { fill: ` + TextColor + `; font-family: sans-serif; pointer-events: none; }`

func renderDefs(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", sharedCSS)
}

func renderRect(buf *bytes.Buffer, b Box, fill string) {
	fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`+"\n",
		Num(b.X), Num(b.Y), Num(b.W), Num(b.H), fill)
}

func renderText(buf *bytes.Buffer, b Box) {
	size := FontSize(b)
	label := TruncateLabel(b.Label(), b.W, size)
	if label == "" {
		return
	}
	fmt.Fprintf(buf, `    <text x="%s" y="%s" font-size="%s">%s</text>`+"\n",
		Num(b.X+labelPadding), Num(b.CenterY()+size*0.35), Num(size), EscapeXML(label))
}

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return b.Y + b.H/2 }

// Package colours boxes by top-level package.
type Package struct{}

func (Package) Name() string                         { return graph.StylePackage }
func (Package) Fill(b Box) string                    { return PackageColor(b.Name) }
func (Package) RenderDefs(buf *bytes.Buffer)         { renderDefs(buf) }
func (p Package) RenderBox(buf *bytes.Buffer, b Box) { renderRect(buf, b, p.Fill(b)) }
func (Package) RenderText(buf *bytes.Buffer, b Box)  { renderText(buf, b) }

// Heat colours boxes by the share of time spent in the module itself.
type Heat struct{}

func (Heat) Name() string                         { return graph.StyleHeat }
func (Heat) Fill(b Box) string                    { return HeatColor(b.SelfShare) }
func (Heat) RenderDefs(buf *bytes.Buffer)         { renderDefs(buf) }
func (h Heat) RenderBox(buf *bytes.Buffer, b Box) { renderRect(buf, b, h.Fill(b)) }
func (Heat) RenderText(buf *bytes.Buffer, b Box)  { renderText(buf, b) }
