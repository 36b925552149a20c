package models

import "strings"

// Operator is the kind of an inner process-tree node.
type Operator string

const (
	OpSequence  Operator = "seq"
	OpExclusive Operator = "xor"
	OpParallel  Operator = "par"
	OpLoop      Operator = "loop"
)

// ProcessTree is one node of a discovered process model: an activity
// leaf, the silent step (tau), or an operator over ordered children.
// For loop nodes the first child is the do part and the remaining
// children are redo parts. Trees are assembled bottom-up and never
// mutated after construction.
type ProcessTree struct {
	Operator Operator       `json:"operator,omitempty"`
	Activity string         `json:"activity,omitempty"`
	Silent   bool           `json:"silent,omitempty"`
	Children []*ProcessTree `json:"children,omitempty"`
}

// NewLeaf returns an activity leaf.
func NewLeaf(activity string) *ProcessTree {
	return &ProcessTree{Activity: activity}
}

// NewSilent returns the tau leaf.
func NewSilent() *ProcessTree {
	return &ProcessTree{Silent: true}
}

// NewOperatorNode returns an operator node owning the given children in
// order.
func NewOperatorNode(op Operator, children ...*ProcessTree) *ProcessTree {
	return &ProcessTree{Operator: op, Children: children}
}

// IsLeaf reports whether the node is an activity leaf.
func (t *ProcessTree) IsLeaf() bool {
	return t.Operator == "" && !t.Silent
}

// IsSilent reports whether the node is the tau leaf.
func (t *ProcessTree) IsSilent() bool {
	return t.Silent
}

// IsOperator reports whether the node is an inner operator node.
func (t *ProcessTree) IsOperator() bool {
	return t.Operator != ""
}

// Walk visits the node and its subtree in preorder, children in their
// stored order.
func (t *ProcessTree) Walk(fn func(*ProcessTree)) {
	if t == nil {
		return
	}
	fn(t)
	for _, c := range t.Children {
		c.Walk(fn)
	}
}

// Leaves returns the activity labels of all leaves in preorder, tau
// excluded.
func (t *ProcessTree) Leaves() []string {
	var out []string
	t.Walk(func(n *ProcessTree) {
		if n.IsLeaf() {
			out = append(out, n.Activity)
		}
	})
	return out
}

// Equal reports structural equality: same kinds, same labels, same
// child order.
func (t *ProcessTree) Equal(o *ProcessTree) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Operator != o.Operator || t.Activity != o.Activity || t.Silent != o.Silent {
		return false
	}
	if len(t.Children) != len(o.Children) {
		return false
	}
	for i := range t.Children {
		if !t.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// String renders the tree in compact operator notation, for example
// seq(a, xor(b, tau)).
func (t *ProcessTree) String() string {
	if t == nil {
		return ""
	}
	if t.Silent {
		return "tau"
	}
	if t.Operator == "" {
		return t.Activity
	}
	parts := make([]string, 0, len(t.Children))
	for _, c := range t.Children {
		parts = append(parts, c.String())
	}
	return string(t.Operator) + "(" + strings.Join(parts, ", ") + ")"
}
