// Package transport converts a laid-out tree and its associated tabular data
// into the compact encoding shipped to the rendering client.
//
// The encoding is independent of which layout was chosen: it covers topology
// (a balanced-parenthesis string), node names and branch lengths keyed by
// postorder position, and index-compressed feature-table and metadata
// payloads. The client reconstructs everything it needs from integer indices
// into shared ID lists, which keeps the wire payload small for large trees.
package transport

import "github.com/matzehuels/phyloscope/pkg/tree"

// TreeEncoding is the compact topology representation of a tree.
//
// Topology is a balanced-parenthesis string: one '(' when a node is entered
// and one ')' when it is left, in a depth-first walk honoring child order.
// Names and Lengths are keyed by postorder position - entry i describes the
// i-th node visited in postorder - which is also how table and metadata
// payloads refer back to tree nodes.
type TreeEncoding struct {
	Topology string    `json:"topology"`
	Names    []string  `json:"names"`
	Lengths  []float64 `json:"lengths"`
}

// EncodeTree produces the transport encoding of t. The tree's coordinates
// are deliberately not part of the encoding; layouts travel separately so
// the client can toggle between them.
func EncodeTree(t *tree.Tree) TreeEncoding {
	post := t.Postorder()
	enc := TreeEncoding{
		Names:   make([]string, len(post)),
		Lengths: make([]float64, len(post)),
	}
	for i, id := range post {
		enc.Names[i] = t.Node(id).Name
		enc.Lengths[i] = t.Node(id).Length
	}

	buf := make([]byte, 0, 2*t.Len())
	var walk func(id int)
	walk = func(id int) {
		buf = append(buf, '(')
		for _, c := range t.Node(id).Children {
			walk(c)
		}
		buf = append(buf, ')')
	}
	walk(t.Root())
	enc.Topology = string(buf)
	return enc
}
