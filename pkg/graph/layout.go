package graph

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/pyimporttime/pkg/core/importtime"
	"github.com/matzehuels/pyimporttime/pkg/core/tree"
)

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the unified serialization format for all visualizations.
//
// This is a discriminated union type - check VizType to determine which
// fields are populated:
//
//	Icicle ("icicle"):
//	  - Boxes: positioned boxes with coordinates and timings
//	  - RowHeight, Precision: geometry parameters
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string for rendering
//	  - Engine: Graphviz layout engine (e.g., "dot")
//
// Shared fields: Title, Width, Height, Style, TotalUS, Count.
//
// For icicle layouts there is also an internal representation
// (pkg/core/render/icicle/layout.Layout) optimized for computation.
// Use its Export()/Parse() functions to convert between them.
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type"`

	// Common dimensions and style
	Title   string  `json:"title,omitempty"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Style   string  `json:"style,omitempty"`
	TotalUS int64   `json:"total_us"`
	Count   int     `json:"count"`

	// Icicle-specific
	RowHeight float64 `json:"row_height,omitempty"`
	Precision int     `json:"precision,omitempty"`
	Boxes     []Box   `json:"boxes,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty"`
	Engine string `json:"engine,omitempty"`
}

// IsIcicle returns true if this is an icicle layout.
func (l *Layout) IsIcicle() bool { return l.VizType == VizTypeIcicle }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// =============================================================================
// Box - Icicle Visualization Element
// =============================================================================

// Box is a positioned module in an icicle layout. Boxes are listed in
// pre-order; Parent is 0 for top-level imports.
type Box struct {
	ID           int     `json:"id"`
	Parent       int     `json:"parent"`
	Name         string  `json:"name"`
	Depth        int     `json:"depth"`
	SelfUS       int64   `json:"self_us"`
	CumulativeUS int64   `json:"cumulative_us"`
	Line         int     `json:"line,omitempty"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
}

// ToTree rebuilds the import tree described by an icicle layout's boxes.
// Boxes must list every parent before its children.
func ToTree(l Layout) (*tree.Tree, error) {
	t := tree.New()
	ids := make(map[int]tree.NodeID, len(l.Boxes)+1)
	ids[int(tree.RootID)] = tree.RootID

	for _, b := range l.Boxes {
		parent, ok := ids[b.Parent]
		if !ok {
			return nil, fmt.Errorf("box %d (%s): unknown parent %d", b.ID, b.Name, b.Parent)
		}
		if _, dup := ids[b.ID]; dup {
			return nil, fmt.Errorf("box %d (%s): duplicate id", b.ID, b.Name)
		}
		id, err := t.AddNode(parent, importtime.Record{
			Name:       b.Name,
			Self:       fromMicros(b.SelfUS),
			Cumulative: fromMicros(b.CumulativeUS),
			Line:       b.Line,
		})
		if err != nil {
			return nil, fmt.Errorf("box %d (%s): %w", b.ID, b.Name, err)
		}
		ids[b.ID] = id
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	if l.VizType == "" {
		l.VizType = VizTypeIcicle
	}

	switch {
	case l.IsIcicle():
		if l.Count > 0 && len(l.Boxes) == 0 {
			return Layout{}, fmt.Errorf("icicle layout must contain boxes")
		}
	case l.IsNodelink():
		if l.DOT == "" {
			return Layout{}, fmt.Errorf("nodelink layout must contain DOT string")
		}
	default:
		return Layout{}, fmt.Errorf("unknown viz_type %q", l.VizType)
	}

	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
