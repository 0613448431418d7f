package tree

import (
	"strings"
	"time"

	"github.com/matzehuels/pyimporttime/pkg/core/importtime"
	"github.com/matzehuels/pyimporttime/pkg/errors"
)

// NodeID indexes a node in its tree's node table.
type NodeID int

const (
	// RootID is the synthetic root owning all top-level imports.
	RootID NodeID = 0
	// NoParent is the parent of the root.
	NoParent NodeID = -1
)

// Node is one imported module. Nodes are owned by their [Tree]; the pointers
// returned by tree accessors stay valid until the next [Tree.AddNode].
type Node struct {
	ID         NodeID
	Name       string
	Self       time.Duration
	Cumulative time.Duration
	Depth      int // -1 for the root
	Line       int // source line of the record, 0 for the root
	Parent     NodeID
	Children   []NodeID
}

// IsRoot reports whether n is the synthetic root.
func (n *Node) IsRoot() bool { return n.Parent == NoParent }

// IsLeaf reports whether n imported nothing.
func (n *Node) IsLeaf() bool { return len(n.Children) == 0 }

// Record converts the node back to the trace record it came from.
func (n *Node) Record() importtime.Record {
	return importtime.Record{
		Name:       n.Name,
		Self:       n.Self,
		Cumulative: n.Cumulative,
		Depth:      n.Depth,
		Line:       n.Line,
	}
}

// Tree is an arena of import nodes rooted at a synthetic root.
//
// The zero value is not usable; use [New] or [Build].
// Tree is not safe for concurrent mutation, but a finished tree may be
// read from multiple goroutines.
type Tree struct {
	nodes []Node
}

// New returns a tree holding only the synthetic root.
func New() *Tree {
	return &Tree{nodes: []Node{{ID: RootID, Depth: -1, Parent: NoParent}}}
}

// AddNode appends a child to parent, after any existing children.
// The node's depth is derived from its parent. The root's cumulative time is
// kept equal to the sum of its children.
func (t *Tree) AddNode(parent NodeID, rec importtime.Record) (NodeID, error) {
	p, ok := t.Node(parent)
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidInput, "unknown parent node %d", parent)
	}
	if err := checkRecord(rec, 0); err != nil {
		return 0, err
	}

	id := NodeID(len(t.nodes))
	depth := p.Depth + 1
	p.Children = append(p.Children, id)
	if parent == RootID {
		p.Cumulative += rec.Cumulative
	}
	t.nodes = append(t.nodes, Node{
		ID:         id,
		Name:       rec.Name,
		Self:       rec.Self,
		Cumulative: rec.Cumulative,
		Depth:      depth,
		Line:       rec.Line,
		Parent:     parent,
	})
	return id, nil
}

// Root returns the synthetic root.
func (t *Tree) Root() *Node { return &t.nodes[RootID] }

// Node returns the node with the given ID.
func (t *Tree) Node(id NodeID) (*Node, bool) {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil, false
	}
	return &t.nodes[id], true
}

// Len returns the number of imported modules, excluding the root.
func (t *Tree) Len() int { return len(t.nodes) - 1 }

// Nodes returns all non-root nodes in ID (pre-order) order.
func (t *Tree) Nodes() []*Node {
	out := make([]*Node, 0, t.Len())
	for i := 1; i < len(t.nodes); i++ {
		out = append(out, &t.nodes[i])
	}
	return out
}

// Children returns the child nodes of id in stored order.
func (t *Tree) Children(id NodeID) []*Node {
	n, ok := t.Node(id)
	if !ok {
		return nil
	}
	out := make([]*Node, len(n.Children))
	for i, c := range n.Children {
		out[i] = &t.nodes[c]
	}
	return out
}

// Total returns the cumulative time of all top-level imports.
func (t *Tree) Total() time.Duration { return t.nodes[RootID].Cumulative }

// ChildSum returns the summed cumulative time of id's children.
func (t *Tree) ChildSum(id NodeID) time.Duration {
	n, ok := t.Node(id)
	if !ok {
		return 0
	}
	var sum time.Duration
	for _, c := range n.Children {
		sum += t.nodes[c].Cumulative
	}
	return sum
}

// Slack returns the part of id's cumulative time not covered by its
// children. It includes the node's self time and is drawn as trailing space.
func (t *Tree) Slack(id NodeID) time.Duration {
	n, ok := t.Node(id)
	if !ok {
		return 0
	}
	return n.Cumulative - t.ChildSum(id)
}

// Unattributed returns the cumulative time explained neither by self time
// nor by children, floored at zero.
func (t *Tree) Unattributed(id NodeID) time.Duration {
	n, ok := t.Node(id)
	if !ok {
		return 0
	}
	return max(0, n.Cumulative-n.Self-t.ChildSum(id))
}

// Percent returns id's cumulative time as a percentage of the trace total.
func (t *Tree) Percent(id NodeID) float64 {
	n, ok := t.Node(id)
	total := t.Total()
	if !ok || total <= 0 {
		return 0
	}
	return 100 * float64(n.Cumulative) / float64(total)
}

// SelfShare returns the fraction of id's cumulative time spent in its own body.
func (t *Tree) SelfShare(id NodeID) float64 {
	n, ok := t.Node(id)
	if !ok || n.Cumulative <= 0 {
		return 0
	}
	return float64(n.Self) / float64(n.Cumulative)
}

// MaxDepth returns the deepest node depth, or -1 for an empty tree.
func (t *Tree) MaxDepth() int {
	depth := -1
	for i := 1; i < len(t.nodes); i++ {
		depth = max(depth, t.nodes[i].Depth)
	}
	return depth
}

// Path returns the names from the top-level import down to id.
func (t *Tree) Path(id NodeID) []string {
	var path []string
	for n, ok := t.Node(id); ok && !n.IsRoot(); n, ok = t.Node(n.Parent) {
		path = append(path, n.Name)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// TopLevel returns the top-level package of a dotted module name.
func TopLevel(name string) string {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

// Walk visits nodes in pre-order, children in stored order, starting with the
// root's children. Returning false from fn skips the node's subtree.
func (t *Tree) Walk(fn func(n *Node) bool) {
	stack := make([]NodeID, 0, 64)
	root := t.Root()
	for i := len(root.Children) - 1; i >= 0; i-- {
		stack = append(stack, root.Children[i])
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := &t.nodes[id]
		if !fn(n) {
			continue
		}
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}

// Records returns the tree as trace records, each node after its children.
// For a tree produced by [Build] this is the original input order.
func (t *Tree) Records() []importtime.Record {
	out := make([]importtime.Record, 0, t.Len())
	type frame struct {
		id   NodeID
		next int
	}
	stack := []frame{{id: RootID}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := &t.nodes[top.id]
		if top.next < len(n.Children) {
			child := n.Children[top.next]
			top.next++
			stack = append(stack, frame{id: child})
			continue
		}
		if top.id != RootID {
			out = append(out, n.Record())
		}
		stack = stack[:len(stack)-1]
	}
	return out
}

// Validate re-derives the timing invariants for every node.
func (t *Tree) Validate() error {
	for i := 1; i < len(t.nodes); i++ {
		n := &t.nodes[i]
		if n.Cumulative < n.Self {
			return errors.AtLine(errors.ErrCodeInconsistentRecord, n.Line, n.Record().String(),
				"%s: cumulative time %v is less than self time %v", n.Name, n.Cumulative, n.Self)
		}
		if sum := t.ChildSum(n.ID); sum > n.Cumulative {
			return errors.AtLine(errors.ErrCodeInconsistentRecord, n.Line, n.Record().String(),
				"%s: imports take %v, more than its cumulative time %v", n.Name, sum, n.Cumulative)
		}
		if n.Depth != t.nodes[n.Parent].Depth+1 {
			return errors.New(errors.ErrCodeInternal, "%s: depth %d under parent at depth %d",
				n.Name, n.Depth, t.nodes[n.Parent].Depth)
		}
	}
	if sum := t.ChildSum(RootID); sum != t.Total() {
		return errors.New(errors.ErrCodeInternal, "root total %v does not match top-level sum %v", t.Total(), sum)
	}
	return nil
}
