package vdom

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// liveNode is an in-memory mutable tree used as the live side in tests.
type liveNode struct {
	tag      string
	text     string
	isText   bool
	attrs    map[string]Value
	children []*liveNode
	parent   *liveNode
}

type fakeTree struct {
	writes int // Number of mutations performed
}

var _ LiveTree[*liveNode] = (*fakeTree)(nil)

func (f *fakeTree) Tag(n *liveNode) string { return n.tag }

func (f *fakeTree) Text(n *liveNode) (string, bool) { return n.text, n.isText }

func (f *fakeTree) Attributes(n *liveNode) ([]Attribute, error) {
	attrs := make([]Attribute, 0, len(n.attrs))
	for k, v := range n.attrs {
		attrs = append(attrs, Attribute{Name: k, Value: v})
	}
	return attrs, nil
}

func (f *fakeTree) Children(n *liveNode) ([]*liveNode, error) {
	return n.children, nil
}

func (f *fakeTree) Materialize(n *Node) (*liveNode, error) {
	if n.IsText() {
		return &liveNode{text: n.Text, isText: true}, nil
	}
	live := &liveNode{tag: n.Tag, attrs: map[string]Value{}}
	for k, v := range n.Props {
		live.attrs[k] = v
	}
	for _, c := range n.Children {
		child, err := f.Materialize(c)
		if err != nil {
			return nil, err
		}
		child.parent = live
		live.children = append(live.children, child)
	}
	return live, nil
}

func (f *fakeTree) WriteAttribute(n *liveNode, name string, v Value) error {
	f.writes++
	n.attrs[name] = v
	return nil
}

func (f *fakeTree) RemoveAttribute(n *liveNode, name string) error {
	f.writes++
	delete(n.attrs, name)
	return nil
}

func (f *fakeTree) WriteText(n *liveNode, text string) error {
	f.writes++
	if !n.isText {
		return errors.New("not a text node")
	}
	n.text = text
	return nil
}

func (f *fakeTree) ReplaceChild(old, replacement *liveNode) error {
	f.writes++
	parent := old.parent
	if parent == nil {
		return errors.New("detached")
	}
	for i, c := range parent.children {
		if c == old {
			parent.children[i] = replacement
			replacement.parent = parent
			old.parent = nil
			return nil
		}
	}
	return errors.New("child not found in parent")
}

func (f *fakeTree) AppendChild(parent, child *liveNode) error {
	f.writes++
	child.parent = parent
	parent.children = append(parent.children, child)
	return nil
}

func (f *fakeTree) RemoveChildAt(parent *liveNode, index int) error {
	f.writes++
	if index < 0 || index >= len(parent.children) {
		return fmt.Errorf("remove index %d out of range (%d children)", index, len(parent.children))
	}
	parent.children[index].parent = nil
	parent.children = append(parent.children[:index], parent.children[index+1:]...)
	return nil
}

func mustLive(n *Node) *liveNode {
	live, err := (&fakeTree{}).Materialize(n)
	if err != nil {
		panic(err)
	}
	return live
}

var (
	tags     = []string{"div", "span", "p", "ul", "li"}
	attrKeys = []string{"class", "id", "title", "style", "key"}
	words    = []string{"hi", "bye", "alpha", "beta", "gamma"}
)

// randomTree generates a tree of at most depth levels below the root.
func randomTree(r *rand.Rand, depth int) *Node {
	props := Props{}
	for _, k := range attrKeys {
		if r.IntN(3) == 0 {
			if k == "style" && r.IntN(2) == 0 {
				props[k] = Style(map[string]string{"color": words[r.IntN(len(words))]})
				continue
			}
			props[k] = String(words[r.IntN(len(words))])
		}
	}
	var children []any
	if depth > 0 {
		for range r.IntN(4) {
			if r.IntN(3) == 0 {
				children = append(children, words[r.IntN(len(words))])
			} else {
				children = append(children, randomTree(r, depth-1))
			}
		}
	}
	return Element(tags[r.IntN(len(tags))], props, children...)
}

// mutate returns a copy of n with random edits applied. The root keeps its
// tag.
func mutate(r *rand.Rand, n *Node, depth int) *Node {
	if n.IsText() {
		if r.IntN(3) == 0 {
			return Text(words[r.IntN(len(words))])
		}
		return n
	}

	props := Props{}
	for k, v := range n.Props {
		if r.IntN(5) != 0 {
			props[k] = v
		}
	}
	if r.IntN(4) == 0 {
		props[attrKeys[r.IntN(len(attrKeys))]] = String(words[r.IntN(len(words))])
	}

	var children []any
	for _, c := range n.Children {
		switch r.IntN(8) {
		case 0:
			// dropped
		case 1:
			children = append(children, randomTree(r, depth))
		case 2:
			children = append(children, words[r.IntN(len(words))])
		default:
			children = append(children, mutate(r, c, depth))
		}
	}
	if r.IntN(4) == 0 {
		children = append(children, randomTree(r, depth))
	}
	return Element(n.Tag, props, children...)
}
