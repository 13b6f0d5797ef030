// Package layout computes per-node 2D coordinates for a phylogenetic tree
// under multiple independent layout algorithms.
//
// Each algorithm is a pure function from a tree (topology plus the geometry
// attributes derived by tree.UpdateGeometry) to a freshly allocated
// [Placement] indexed by node ID. Nothing is mutated on the tree itself, so
// algorithms can be re-run freely and executed independently of each other.
//
// [Compute] runs every algorithm against one tree, normalizes each result so
// the root sits at the origin, and derives the vertical child extents the
// rectangular renderer needs for connector segments. Clients hold all
// placements simultaneously and toggle between them without recomputation.
package layout

// Kind identifies one layout algorithm. It doubles as the selector for a
// node's coordinate namespace: clients store each placement's coordinates
// under the attribute suffix reported by [Kind.Suffix].
type Kind int

const (
	// KindRectangular is the cladogram-style layout: tips stacked at integer
	// y positions, internal nodes centered over their children, x
	// proportional to cumulative branch length.
	KindRectangular Kind = iota

	// KindUnrooted is the equal-angle layout: each subtree receives an
	// angular sector proportional to its leaf count, radiating from the root.
	KindUnrooted
)

// Kinds lists all layout algorithms in the order [Compute] runs them.
// The first entry is the default layout.
var Kinds = []Kind{KindRectangular, KindUnrooted}

// String returns the layout's display name as shown to rendering clients.
func (k Kind) String() string {
	switch k {
	case KindRectangular:
		return "Rectangular"
	case KindUnrooted:
		return "Unrooted"
	}
	return "Unknown"
}

// Suffix returns the coordinate-attribute suffix for this layout. The
// rectangular layout's coordinates live at xr/yr, the unrooted layout's at
// x2/y2. The suffixes are part of the client contract and never change.
func (k Kind) Suffix() string {
	switch k {
	case KindRectangular:
		return "r"
	case KindUnrooted:
		return "2"
	}
	return ""
}

// Placement holds one layout's coordinates, indexed by node ID.
// Angle is populated only by the unrooted layout (the angular direction of
// the edge leading into each node); it is nil for other layouts.
type Placement struct {
	X     []float64
	Y     []float64
	Angle []float64
}

func newPlacement(n int, withAngle bool) *Placement {
	p := &Placement{
		X: make([]float64, n),
		Y: make([]float64, n),
	}
	if withAngle {
		p.Angle = make([]float64, n)
	}
	return p
}

// centerOnRoot shifts all coordinates so the root (node 0) lands exactly at
// the origin. Every layout is normalized this way before being handed to a
// client, independently per coordinate namespace.
func (p *Placement) centerOnRoot(root int) {
	cx, cy := p.X[root], p.Y[root]
	for i := range p.X {
		p.X[i] -= cx
		p.Y[i] -= cy
	}
}
