// Package tree provides the rooted, ordered, arbitrary-arity tree that the
// layout engine operates on.
//
// Trees are stored as an arena of nodes indexed by stable integer IDs. Each
// node records its parent ID and an ordered list of child IDs, so parent
// access is a plain index lookup and the structure carries no pointer cycles.
// Child order is fixed at construction time and determines the order of all
// traversals, which in turn determines layout output.
package tree

import (
	"errors"
	"slices"
)

var (
	// ErrTooFewNodes is returned by [Tree.Validate] when the tree has fewer
	// than two nodes. A lone root cannot be laid out.
	ErrTooFewNodes = errors.New("tree must contain at least 2 nodes")

	// ErrUnknownNode is returned by [Tree.AddChild] when the parent ID does
	// not refer to an existing node.
	ErrUnknownNode = errors.New("unknown node ID")
)

// NoParent is the parent ID of the root node.
const NoParent = -1

// Node is a single tree node. Name and Length come from the input; the
// geometry fields (Depth, Height, LeafCount) are derived by
// [Tree.UpdateGeometry] and are zero until that runs.
type Node struct {
	Name      string  // display name, may be empty for internal nodes
	Parent    int     // parent node ID, NoParent for the root
	Children  []int   // child IDs in input order
	Length    float64 // branch length to the parent
	HasLength bool    // whether Length was present in the input

	// Derived geometry, populated by UpdateGeometry.
	Depth     float64 // cumulative length from the root down to this node
	Height    float64 // max cumulative length from this node to any tip, including its own
	LeafCount int     // number of tip descendants (1 for a tip)
}

// Tree is an arena of nodes rooted at ID 0.
//
// The zero value is not usable - use [New] to create a tree. Tree is not safe
// for concurrent use without external synchronization.
type Tree struct {
	nodes []Node
}

// New creates a tree containing only the root node (ID 0) with the given name.
func New(rootName string) *Tree {
	return &Tree{nodes: []Node{{Name: rootName, Parent: NoParent}}}
}

// Root returns the root node's ID. The root is always node 0.
func (t *Tree) Root() int { return 0 }

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// Node returns a pointer to the node with the given ID.
// The pointer refers to the actual arena slot, so modifications affect the
// tree. Panics if the ID is out of range.
func (t *Tree) Node(id int) *Node { return &t.nodes[id] }

// AddChild appends a new child under parent and returns its ID.
// The child is ordered after any existing children of parent.
// Returns ErrUnknownNode if parent is not a valid node ID.
func (t *Tree) AddChild(parent int, name string) (int, error) {
	if parent < 0 || parent >= len(t.nodes) {
		return 0, ErrUnknownNode
	}
	id := len(t.nodes)
	t.nodes = append(t.nodes, Node{Name: name, Parent: parent})
	t.nodes[parent].Children = append(t.nodes[parent].Children, id)
	return id, nil
}

// SetLength records the branch length from node id to its parent.
func (t *Tree) SetLength(id int, length float64) {
	t.nodes[id].Length = length
	t.nodes[id].HasLength = true
}

// IsTip reports whether the node has no children.
func (t *Tree) IsTip(id int) bool { return len(t.nodes[id].Children) == 0 }

// Validate checks that the tree is suitable for layout.
// Returns ErrTooFewNodes if the tree consists of the root alone.
func (t *Tree) Validate() error {
	if len(t.nodes) < 2 {
		return ErrTooFewNodes
	}
	return nil
}

// Tips returns the IDs of all tip nodes in postorder visitation order.
func (t *Tree) Tips() []int {
	var tips []int
	for _, id := range t.Postorder() {
		if t.IsTip(id) {
			tips = append(tips, id)
		}
	}
	return tips
}

// Postorder returns all node IDs with every child visited before its parent.
// The order is deterministic given the tree's fixed child order.
func (t *Tree) Postorder() []int {
	order := make([]int, 0, len(t.nodes))
	// Two-stack postorder: pop order is root-last with children reversed,
	// then the whole sequence is flipped.
	stack := []int{t.Root()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)
		stack = append(stack, t.nodes[id].Children...)
	}
	slices.Reverse(order)
	return order
}

// Preorder returns all node IDs with every parent visited before its
// children. When includeRoot is false the root is omitted and the order
// starts at its first child.
func (t *Tree) Preorder(includeRoot bool) []int {
	order := make([]int, 0, len(t.nodes))
	stack := []int{t.Root()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, id)
		// Push children reversed so the first child is visited first.
		children := t.nodes[id].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}
	if !includeRoot {
		return order[1:]
	}
	return order
}
