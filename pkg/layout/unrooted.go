package layout

import (
	"math"

	"github.com/matzehuels/phyloscope/pkg/tree"
)

// directionSamples is the number of candidate starting directions tried over
// the half circle [0, pi). Half the circle is sufficient: the layout is
// symmetric under rotation by pi up to reflection of the bounding box.
const directionSamples = 60

// boundingBoxMargin leaves room for labels around the fitted tree.
const boundingBoxMargin = 0.95

// Unrooted computes the equal-angle layout.
//
// The angular budget 2*pi is split across subtrees proportionally to leaf
// count: each of the root's leafcount tips ultimately owns one slot of
// 2*pi/leafcount radians, and every subtree's sector is centered within its
// parent's sector. Since there is no closed form for the orientation that
// uses the canvas best, Unrooted samples 60 starting directions over
// [0, pi), lays the tree out at trial scale 1 for each, and keeps the
// direction whose bounding box admits the largest canvas-fitting scale.
// Ties prefer the later-evaluated direction; the search is deterministic, so
// identical inputs always produce identical placements.
//
// The tree's geometry attributes must be up to date (tree.UpdateGeometry).
func Unrooted(t *tree.Tree, width, height float64) *Placement {
	angleUnit := 2 * math.Pi / float64(t.Node(t.Root()).LeafCount)

	var (
		bestScale          = 0.0
		bestDir            = 0.0
		bestMidX, bestMidY = 0.0, 0.0
	)
	trial := newPlacement(t.Len(), true)
	for i := 0; i < directionSamples; i++ {
		direction := float64(i) / directionSamples * math.Pi

		minX, maxX, minY, maxY := assignAngular(t, trial, 1.0, 0, 0, direction, angleUnit)

		// A collapsed span on one axis imposes no constraint on the scale.
		wScale := math.Inf(1)
		if d := maxX - minX; d != 0 {
			wScale = width / d
		}
		hScale := math.Inf(1)
		if d := maxY - minY; d != 0 {
			hScale = height / d
		}
		scale := math.Min(wScale, hScale) * boundingBoxMargin

		// >= keeps the later direction on ties; the tie-break is arbitrary
		// but deliberate, and stable output depends on it.
		if scale >= bestScale {
			bestScale = scale
			bestDir = direction
			bestMidX = width/2 - (maxX+minX)/2*scale
			bestMidY = height/2 - (maxY+minY)/2*scale
		}
	}

	// Both spans are zero only when every branch length is zero; all points
	// coincide, so any finite scale yields the same (single-point) layout.
	if math.IsInf(bestScale, 1) {
		bestScale = 1
		bestMidX, bestMidY = width/2, height/2
	}

	p := newPlacement(t.Len(), true)
	assignAngular(t, p, bestScale, bestMidX, bestMidY, bestDir, angleUnit)
	return p
}

// assignAngular runs one coordinate-assignment pass: scale s, translation
// (x0, y0), starting angle a0, per-leaf angular slot da. It writes endpoint
// coordinates and incoming angles into p and returns the bounding box over
// all non-root endpoints.
func assignAngular(t *tree.Tree, p *Placement, s, x0, y0, a0, da float64) (minX, maxX, minY, maxY float64) {
	root := t.Root()
	p.X[root], p.Y[root] = x0, y0
	p.Angle[root] = a0

	minX, maxX = math.Inf(1), math.Inf(-1)
	minY, maxY = math.Inf(1), math.Inf(-1)

	for _, id := range t.Preorder(false) {
		n := t.Node(id)
		parent := t.Node(n.Parent)
		x1, y1 := p.X[n.Parent], p.Y[n.Parent]

		// Center this node's sector within the parent's: start at the left
		// edge of the parent's total width, walk past the full widths of
		// preceding siblings, then advance half of this node's own width.
		a := p.Angle[n.Parent] - float64(parent.LeafCount)*da/2
		for _, sib := range parent.Children {
			if sib != id {
				a += float64(t.Node(sib).LeafCount) * da
				continue
			}
			a += float64(n.LeafCount) * da / 2
			break
		}

		x2 := x1 + n.Length*s*math.Sin(a)
		y2 := y1 + n.Length*s*math.Cos(a)
		p.X[id], p.Y[id] = x2, y2
		p.Angle[id] = a

		minX, maxX = math.Min(minX, x2), math.Max(maxX, x2)
		minY, maxY = math.Min(minY, y2), math.Max(maxY, y2)
	}
	return minX, maxX, minY, maxY
}
