package layout

import (
	"math"
	"sort"
	"time"

	"github.com/matzehuels/pyimporttime/pkg/core/tree"
	"github.com/matzehuels/pyimporttime/pkg/errors"
)

const (
	// DefaultWidth is the canvas width used when none is given.
	DefaultWidth = 1200.0
	// DefaultRowHeight is the height of one depth tier.
	DefaultRowHeight = 20.0
	// DefaultPrecision is the number of decimal places kept in coordinates.
	DefaultPrecision = 3
)

// Layout is the computed geometry of an icicle diagram.
type Layout struct {
	Width     float64
	Height    float64
	RowHeight float64
	Precision int
	Style     string
	Title     string
	Boxes     []Box // pre-order, sorted by node ID
}

// BoxFor returns the box assigned to node id.
func (l Layout) BoxFor(id tree.NodeID) (Box, bool) {
	i := sort.Search(len(l.Boxes), func(i int) bool { return l.Boxes[i].Node >= id })
	if i < len(l.Boxes) && l.Boxes[i].Node == id {
		return l.Boxes[i], true
	}
	return Box{}, false
}

// Option configures layout computation.
type Option func(*config)

type config struct {
	precision int
	style     string
	title     string
}

// WithPrecision sets the number of decimal places kept in coordinates.
// Values are clamped to [0, errors.MaxPrecision]; beyond that the rounding
// scale overflows float64.
func WithPrecision(digits int) Option {
	return func(c *config) { c.precision = min(max(0, digits), errors.MaxPrecision) }
}

// WithStyle records the visual style in the layout metadata.
func WithStyle(style string) Option { return func(c *config) { c.style = style } }

// WithTitle records a document title in the layout metadata.
func WithTitle(title string) Option { return func(c *config) { c.title = title } }

// Build lays out every non-root node of t on a canvas of the given width,
// one row of rowHeight per depth. Non-finite or non-positive canvas
// parameters are treated as 0.
func Build(t *tree.Tree, width, rowHeight float64, opts ...Option) Layout {
	cfg := config{precision: DefaultPrecision}
	for _, opt := range opts {
		opt(&cfg)
	}

	width, rowHeight = sanitize(width), sanitize(rowHeight)
	b := builder{
		tree:  t,
		row:   rowHeight,
		scale: math.Pow(10, float64(cfg.precision)),
		boxes: make([]Box, 0, t.Len()),
	}

	root := t.Root()
	b.place(root.Children, 0, width, root.Cumulative)

	l := Layout{
		Width:     b.round(width),
		Height:    b.round(float64(t.MaxDepth()+1) * rowHeight),
		RowHeight: b.round(rowHeight),
		Precision: cfg.precision,
		Style:     cfg.style,
		Title:     cfg.title,
		Boxes:     b.boxes,
	}
	sort.SliceStable(l.Boxes, func(i, j int) bool { return l.Boxes[i].Node < l.Boxes[j].Node })
	return l
}

type builder struct {
	tree  *tree.Tree
	row   float64
	scale float64
	boxes []Box
}

// place packs children left to right inside [x0, x0+w] in proportion to
// their share of total.
func (b *builder) place(children []tree.NodeID, x0, w float64, total time.Duration) {
	if total <= 0 {
		for _, id := range children {
			b.collapse(id, x0)
		}
		return
	}

	var before time.Duration
	for _, id := range children {
		n, _ := b.tree.Node(id)
		start := x0 + w*float64(before)/float64(total)
		before += n.Cumulative
		end := x0 + w*float64(before)/float64(total)

		x := b.round(start)
		b.boxes = append(b.boxes, Box{
			Node:  id,
			Depth: n.Depth,
			X:     x,
			Y:     b.round(float64(n.Depth) * b.row),
			W:     b.round(b.round(end) - x),
			H:     b.round(b.row),
		})
		b.place(n.Children, start, end-start, n.Cumulative)
	}
}

// collapse gives id and all of its descendants empty boxes at x.
func (b *builder) collapse(id tree.NodeID, x float64) {
	n, _ := b.tree.Node(id)
	b.boxes = append(b.boxes, Box{
		Node:  id,
		Depth: n.Depth,
		X:     b.round(x),
		Y:     b.round(float64(n.Depth) * b.row),
	})
	for _, c := range n.Children {
		b.collapse(c, x)
	}
}

func (b *builder) round(v float64) float64 {
	r := math.Round(v*b.scale) / b.scale
	if r == 0 {
		return 0 // no negative zero
	}
	return r
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}
