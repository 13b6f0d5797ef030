package layout

import (
	"github.com/matzehuels/phyloscope/pkg/tree"
)

// Layouts is the combined result of running every layout algorithm against
// one tree. All placements are root-centered: node 0's coordinate is exactly
// (0, 0) in every layout's namespace.
type Layouts struct {
	// Placements maps each completed layout to its coordinates. A layout
	// that rejected the tree has no entry.
	Placements map[Kind]*Placement

	// Default is the layout a client should show first. It is always the
	// first algorithm in Kinds, regardless of which layouts completed.
	Default Kind

	// HighestChildY and LowestChildY give, for each internal node, the
	// max/min rectangular-layout y among its direct children. Renderers use
	// them to draw the vertical connector segment of the rectangular layout.
	// For tips both are 0. Nil when the rectangular layout was rejected.
	//
	// A single-child internal node has HighestChildY == LowestChildY; the
	// degenerate connector is harmless and is not special-cased away.
	HighestChildY []float64
	LowestChildY  []float64
}

// Suffixes returns the display-name to coordinate-suffix mapping for the
// layouts present in the result, e.g. {"Rectangular": "r", "Unrooted": "2"}.
func (l *Layouts) Suffixes() map[string]string {
	m := make(map[string]string, len(l.Placements))
	for k := range l.Placements {
		m[k.String()] = k.Suffix()
	}
	return m
}

// DefaultName returns the display name of the default layout.
func (l *Layouts) DefaultName() string { return l.Default.String() }

// Compute runs all layout algorithms against t for the given canvas and
// root-centers each result.
//
// A structural rejection from an algorithm (currently only the rectangular
// layout's ErrNoHorizontalSpan) is propagated unchanged as the returned
// error. The returned Layouts is still populated with every placement that
// did complete, so a caller may keep the surviving layouts; a rejected
// layout simply produces no coordinates.
//
// Compute validates the tree and refreshes nothing: the caller must have run
// tree.UpdateGeometry first. Calling Compute twice on an unmodified tree
// yields identical results.
func Compute(t *tree.Tree, width, height float64) (*Layouts, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	out := &Layouts{
		Placements: make(map[Kind]*Placement, len(Kinds)),
		Default:    Kinds[0],
	}

	var firstErr error
	for _, k := range Kinds {
		var (
			p   *Placement
			err error
		)
		switch k {
		case KindRectangular:
			p, err = Rectangular(t, width, height)
		case KindUnrooted:
			p = Unrooted(t, width, height)
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		p.centerOnRoot(t.Root())
		out.Placements[k] = p
	}

	if rect, ok := out.Placements[KindRectangular]; ok {
		out.HighestChildY = make([]float64, t.Len())
		out.LowestChildY = make([]float64, t.Len())
		for _, id := range t.Preorder(true) {
			children := t.Node(id).Children
			if len(children) == 0 {
				continue
			}
			hi, lo := rect.Y[children[0]], rect.Y[children[0]]
			for _, c := range children[1:] {
				if rect.Y[c] > hi {
					hi = rect.Y[c]
				}
				if rect.Y[c] < lo {
					lo = rect.Y[c]
				}
			}
			out.HighestChildY[id] = hi
			out.LowestChildY[id] = lo
		}
	}

	return out, firstErr
}
