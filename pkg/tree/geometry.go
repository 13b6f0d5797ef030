package tree

// UpdateGeometry derives the per-node scalar attributes every layout
// algorithm reads: Length, Depth, Height, and LeafCount.
//
// When useLengths is true, input branch lengths are kept and missing lengths
// are treated as 0. When useLengths is false, every length is overwritten -
// tips get 5 and internal nodes get 1, so a length-agnostic cladogram still
// has visually distinct tip and internal edges.
//
// Depth accumulates down each root-to-node path (the root's depth is its own
// length). Height is computed bottom-up: a tip's height is its own length,
// and an internal node's height is its length plus the maximum child height.
// LeafCount is 1 at tips and the sum over children otherwise.
//
// UpdateGeometry visits every node exactly once per pass and never fails;
// malformed trees are rejected earlier by [Tree.Validate]. Calling it again
// recomputes the same values.
func (t *Tree) UpdateGeometry(useLengths bool) {
	for _, id := range t.Postorder() {
		n := &t.nodes[id]
		if !useLengths {
			if t.IsTip(id) {
				n.Length = 5
			} else {
				n.Length = 1
			}
			n.HasLength = true
		} else if !n.HasLength {
			n.Length = 0
		}

		if t.IsTip(id) {
			n.Height = n.Length
			n.LeafCount = 1
			continue
		}
		n.Height = 0
		n.LeafCount = 0
		for _, c := range n.Children {
			if h := t.nodes[c].Height + n.Length; h > n.Height {
				n.Height = h
			}
			n.LeafCount += t.nodes[c].LeafCount
		}
	}

	for _, id := range t.Preorder(true) {
		n := &t.nodes[id]
		if n.Parent == NoParent {
			n.Depth = n.Length
			continue
		}
		n.Depth = t.nodes[n.Parent].Depth + n.Length
	}
}
