package vdom

import (
	"fmt"
	"maps"
)

// Text returns a text leaf.
func Text(s string) *Node {
	return &Node{Kind: TextKind, Text: s}
}

// Element returns an element snapshot holding a copy of props. Children
// that are not *Node are coerced to text leaves with fmt.Sprint; nil
// children are skipped.
func Element(tag string, props Props, children ...any) *Node {
	if props == nil {
		props = Props{}
	} else {
		props = maps.Clone(props)
	}
	n := &Node{
		Kind:  ElementKind,
		Tag:   tag,
		Props: props,
		Key:   props["key"].Str,
	}
	for _, c := range children {
		switch c := c.(type) {
		case nil:
			continue
		case *Node:
			if c == nil {
				continue
			}
			n.Children = append(n.Children, c)
		default:
			n.Children = append(n.Children, Text(fmt.Sprint(c)))
		}
	}
	n.Count = countChildren(n.Children)
	return n
}

func countChildren(children []*Node) int {
	count := 0
	for _, c := range children {
		count += c.Count + 1
	}
	return count
}

// BuildSnapshot captures the subtree rooted at n. Errors from the adapter are
// returned unchanged.
func BuildSnapshot[N any](a Adapter[N], n N) (*Node, error) {
	if text, ok := a.Text(n); ok {
		return Text(text), nil
	}

	attrs, err := a.Attributes(n)
	if err != nil {
		return nil, err
	}
	props := make(Props, len(attrs))
	for _, attr := range attrs {
		props[attr.Name] = attr.Value
	}

	liveChildren, err := a.Children(n)
	if err != nil {
		return nil, err
	}
	children := make([]*Node, 0, len(liveChildren))
	for _, c := range liveChildren {
		child, err := BuildSnapshot(a, c)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	return &Node{
		Kind:     ElementKind,
		Tag:      a.Tag(n),
		Props:    props,
		Key:      props["key"].Str,
		Children: children,
		Count:    countChildren(children),
	}, nil
}

// Entry is one node of a snapshot in preorder.
type Entry struct {
	Node     *Node
	Position int
	Parent   int // Position of the parent, -1 for the root
	Path     NodePath
}

// Preorder lists every node of root in preorder. The index of an entry is
// its position, the same addressing Diff uses for the old tree.
func Preorder(root *Node) []Entry {
	if root == nil {
		return nil
	}
	entries := make([]Entry, 0, root.Count+1)
	var visit func(n *Node, parent int, path NodePath)
	visit = func(n *Node, parent int, path NodePath) {
		pos := len(entries)
		entries = append(entries, Entry{Node: n, Position: pos, Parent: parent, Path: path})
		for i, c := range n.Children {
			childPath := append(append(NodePath(nil), path...), i)
			visit(c, pos, childPath)
		}
	}
	visit(root, -1, NodePath{})
	return entries
}
