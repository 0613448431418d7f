package tree

import (
	"slices"

	"github.com/matzehuels/pyimporttime/pkg/core/importtime"
	"github.com/matzehuels/pyimporttime/pkg/errors"
)

// Build reconstructs the import hierarchy from records in trace order.
// Only the depth field decides nesting. The first inconsistency aborts the
// build and no partial tree is returned.
func Build(records []importtime.Record) (*Tree, error) {
	for i, rec := range records {
		if err := checkRecord(rec, i); err != nil {
			return nil, err
		}
	}

	b := &builder{nodes: []Node{{ID: RootID, Depth: -1, Parent: NoParent}}}

	// Parents are printed after their imports, so walk backwards.
	type open struct {
		id    NodeID
		depth int
	}
	stack := make([]open, 0, 32)
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		for len(stack) > 0 && stack[len(stack)-1].depth >= rec.Depth {
			stack = stack[:len(stack)-1]
		}

		parent, want := RootID, 0
		if len(stack) > 0 {
			parent = stack[len(stack)-1].id
			want = stack[len(stack)-1].depth + 1
		}
		if rec.Depth != want {
			return nil, errors.AtLine(errors.ErrCodeDepthSkip, lineOf(rec, i), rec.String(),
				"%s at depth %d has no enclosing import at depth %d", rec.Name, rec.Depth, rec.Depth-1)
		}

		id := b.add(parent, rec)
		stack = append(stack, open{id: id, depth: rec.Depth})
	}

	for i := range b.nodes {
		slices.Reverse(b.nodes[i].Children)
	}

	t := b.renumber()
	for _, c := range t.nodes[RootID].Children {
		t.nodes[RootID].Cumulative += t.nodes[c].Cumulative
	}
	for i := 1; i < len(t.nodes); i++ {
		n := &t.nodes[i]
		if sum := t.ChildSum(n.ID); sum > n.Cumulative {
			return nil, errors.AtLine(errors.ErrCodeInconsistentRecord, n.Line, n.Record().String(),
				"imports of %s take %dus, more than its cumulative time %dus",
				n.Name, sum.Microseconds(), n.Cumulative.Microseconds())
		}
	}
	return t, nil
}

type builder struct {
	nodes []Node
}

func (b *builder) add(parent NodeID, rec importtime.Record) NodeID {
	id := NodeID(len(b.nodes))
	b.nodes = append(b.nodes, Node{
		ID:         id,
		Name:       rec.Name,
		Self:       rec.Self,
		Cumulative: rec.Cumulative,
		Depth:      rec.Depth,
		Line:       rec.Line,
		Parent:     parent,
	})
	b.nodes[parent].Children = append(b.nodes[parent].Children, id)
	return id
}

// renumber copies the nodes into a new tree with IDs assigned in pre-order.
func (b *builder) renumber() *Tree {
	remap := make([]NodeID, len(b.nodes))
	order := make([]NodeID, 0, len(b.nodes))

	stack := []NodeID{RootID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		remap[id] = NodeID(len(order))
		order = append(order, id)
		children := b.nodes[id].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, children[i])
		}
	}

	t := &Tree{nodes: make([]Node, len(order))}
	for newID, oldID := range order {
		n := b.nodes[oldID]
		n.ID = NodeID(newID)
		if n.Parent != NoParent {
			n.Parent = remap[n.Parent]
		}
		children := make([]NodeID, len(n.Children))
		for i, c := range n.Children {
			children[i] = remap[c]
		}
		n.Children = children
		t.nodes[newID] = n
	}
	return t
}

func checkRecord(rec importtime.Record, index int) error {
	if rec.Name == "" {
		return errors.AtLine(errors.ErrCodeMalformedLine, lineOf(rec, index), rec.String(), "empty module name")
	}
	if rec.Self < 0 || rec.Cumulative < 0 {
		return errors.AtLine(errors.ErrCodeMalformedLine, lineOf(rec, index), rec.String(),
			"%s has a negative duration", rec.Name)
	}
	if rec.Cumulative < rec.Self {
		return errors.AtLine(errors.ErrCodeInconsistentRecord, lineOf(rec, index), rec.String(),
			"cumulative time %dus is less than self time %dus for %s",
			rec.Cumulative.Microseconds(), rec.Self.Microseconds(), rec.Name)
	}
	return nil
}

// lineOf returns the record's source line, or its 1-based position for
// synthetic records.
func lineOf(rec importtime.Record, index int) int {
	if rec.Line > 0 {
		return rec.Line
	}
	return index + 1
}
