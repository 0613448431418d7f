package layout

import "github.com/matzehuels/pyimporttime/pkg/core/tree"

// Box is the rectangle assigned to one module.
// Coordinates are in canvas units with the origin at the top left.
type Box struct {
	Node  tree.NodeID
	Depth int
	X, Y  float64
	W, H  float64
}

// Right returns the right edge of the box.
func (b Box) Right() float64 { return b.X + b.W }

// Bottom returns the bottom edge of the box.
func (b Box) Bottom() float64 { return b.Y + b.H }

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return b.X + b.W/2 }

// CenterY returns the vertical center of the box.
func (b Box) CenterY() float64 { return b.Y + b.H/2 }

// Visible reports whether the box has a drawable area.
func (b Box) Visible() bool { return b.W > 0 && b.H > 0 }
