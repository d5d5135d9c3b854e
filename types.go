package vdom

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// NodePath represents the traversal steps from the root to a target node.
// Example: [0, 1, 3] means root -> child[0] -> child[1] -> child[3]
type NodePath []int

func (p NodePath) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, "/")
}

// ParseNodePath parses the "0/1/3" form produced by NodePath.String. The
// empty string is the root.
func ParseNodePath(s string) (NodePath, error) {
	if s == "" {
		return NodePath{}, nil
	}
	parts := strings.Split(s, "/")
	path := make(NodePath, len(parts))
	for i, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("invalid node path %q: bad step %q", s, part)
		}
		path[i] = idx
	}
	return path, nil
}

type Kind string

const (
	ElementKind Kind = "element"
	TextKind    Kind = "text"
)

// Node is an immutable snapshot of a live tree node. Text leaves are nodes
// of TextKind with no children.
//
// Count is the number of nodes strictly inside the subtree, text leaves
// included. It is what lets the differ and the patcher skip a whole subtree
// of preorder positions in one step.
type Node struct {
	Kind     Kind    `json:"kind" yaml:"kind"`
	Tag      string  `json:"tag,omitempty" yaml:"tag,omitempty"`
	Props    Props   `json:"props,omitempty" yaml:"props,omitempty"`
	Key      string  `json:"key,omitempty" yaml:"key,omitempty"` // Not consulted by the positional matcher
	Text     string  `json:"text,omitempty" yaml:"text,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
	Count    int     `json:"count" yaml:"count"`
}

// IsText reports whether n is a text leaf.
func (n *Node) IsText() bool {
	return n != nil && n.Kind == TextKind
}

// Equal reports whether n and o describe the same tree. Count is derived
// from the children and is not compared separately.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Kind != o.Kind || n.Tag != o.Tag || n.Text != o.Text {
		return false
	}
	if !n.Props.Equal(o.Props) {
		return false
	}
	if len(n.Children) != len(o.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Props maps attribute names to values.
type Props map[string]Value

// Attrs builds Props from alternating name/value strings. A trailing name
// without a value is ignored.
func Attrs(kv ...string) Props {
	p := make(Props, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		p[kv[i]] = String(kv[i+1])
	}
	return p
}

func (p Props) Equal(o Props) bool {
	if len(p) != len(o) {
		return false
	}
	for k, v := range p {
		ov, ok := o[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Keys returns the attribute names in sorted order.
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

type OpType string

const (
	OpText    OpType = "TEXT"    // Replace a text leaf's content
	OpProps   OpType = "PROPS"   // Set or remove attributes
	OpReplace OpType = "REPLACE" // Replace the whole subtree
	OpInsert  OpType = "INSERT"  // Append a new child
	OpRemove  OpType = "REMOVE"  // Remove the child at Index
)

// Operation is a single edit at one preorder position.
type Operation struct {
	Type  OpType            `json:"type" yaml:"type"`
	Text  string            `json:"text,omitempty" yaml:"text,omitempty"`   // For Text
	Props map[string]*Value `json:"props,omitempty" yaml:"props,omitempty"` // For Props. A nil value removes the attribute.
	Node  *Node             `json:"node,omitempty" yaml:"node,omitempty"`   // For Replace and Insert
	Index int               `json:"index,omitempty" yaml:"index,omitempty"` // For Remove: child index in the old tree
}

// PatchSet maps preorder positions of the old tree to the operations to
// apply there, in order.
type PatchSet map[int][]Operation

// Positions returns the patched positions in ascending order.
func (ps PatchSet) Positions() []int {
	positions := make([]int, 0, len(ps))
	for pos := range ps {
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	return positions
}

// Len returns the total number of operations.
func (ps PatchSet) Len() int {
	n := 0
	for _, ops := range ps {
		n += len(ops)
	}
	return n
}

// Delta wraps a PatchSet with the identity of the base it was computed against.
type Delta struct {
	ID        string   `json:"id" yaml:"id"`               // UUIDv7
	BaseHash  string   `json:"base_hash" yaml:"base_hash"` // Hash of the old snapshot
	Patches   PatchSet `json:"patches" yaml:"patches"`
	Timestamp int64    `json:"timestamp" yaml:"timestamp"`
	Author    string   `json:"author" yaml:"author"`
}

// Conflict represents a detected conflict between two patch sets.
type Conflict struct {
	Type        string      `json:"type" yaml:"type"`
	Description string      `json:"description" yaml:"description"`
	Position    int         `json:"position" yaml:"position"`
	Ops         []Operation `json:"ops" yaml:"ops"`
}
