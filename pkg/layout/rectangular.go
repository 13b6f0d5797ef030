package layout

import (
	"errors"

	"github.com/matzehuels/phyloscope/pkg/tree"
)

// ErrNoHorizontalSpan is returned by [Rectangular] when every branch length
// in the tree is zero. With no horizontal extent there is no sensible x
// scale, so the layout is rejected rather than silently flattened.
var ErrNoHorizontalSpan = errors.New("all branch lengths are zero")

// Rectangular computes the cladogram-style layout.
//
// Tips receive consecutive integer y positions (0, 1, 2, ...) in postorder
// visitation order, and each internal node's y is the arithmetic mean of its
// direct children's y - direct children, not descendant tips, which biases
// internal positions toward subtree structure rather than raw tip count.
// x accumulates branch length down from the root (root x = 0). Both axes are
// then scaled to the requested canvas.
//
// A tree whose y extent collapses to zero (a single unbranched chain) is
// still valid: the y scale is substituted with 1 and every y stays at 0.
// A tree whose x extent is zero is rejected with [ErrNoHorizontalSpan].
//
// The tree's geometry attributes must be up to date (tree.UpdateGeometry).
func Rectangular(t *tree.Tree, width, height float64) (*Placement, error) {
	p := newPlacement(t.Len(), false)

	maxHeight := 0.0
	nextY := 0.0
	for _, id := range t.Postorder() {
		if t.IsTip(id) {
			p.Y[id] = nextY
			nextY++
			if p.Y[id] > maxHeight {
				maxHeight = p.Y[id]
			}
			continue
		}
		children := t.Node(id).Children
		sum := 0.0
		for _, c := range children {
			sum += p.Y[c]
		}
		p.Y[id] = sum / float64(len(children))
	}

	maxWidth := 0.0
	p.X[t.Root()] = 0
	for _, id := range t.Preorder(false) {
		n := t.Node(id)
		p.X[id] = p.X[n.Parent] + n.Length
		if p.X[id] > maxWidth {
			maxWidth = p.X[id]
		}
	}

	if maxWidth == 0 {
		return nil, ErrNoHorizontalSpan
	}
	xScale := width / maxWidth

	// maxHeight is 0 when the whole tree is a straight chain and every node
	// sits at y = 0. The substituted scale of 1 multiplies those zeros, so
	// the choice of constant is immaterial.
	yScale := 1.0
	if maxHeight > 0 {
		yScale = height / maxHeight
	}

	for i := range p.X {
		p.X[i] *= xScale
		p.Y[i] *= yScale
	}
	return p, nil
}
