package htmltree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dannyswat/vdom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	ErrDetached   = errors.New("node has no parent")
	ErrNoChild    = errors.New("child index out of range")
	ErrNotElement = errors.New("node is not an element")
)

// DocumentTag is the tag reported for the document node.
const DocumentTag = "#document"

// Tree reads and writes *html.Node trees. The child list it exposes holds
// element and text nodes only; comments and doctypes are skipped, and so are
// whitespace-only text nodes unless KeepWhitespace is set.
type Tree struct {
	keepWhitespace bool
}

type Option func(*Tree)

// KeepWhitespace keeps whitespace-only text nodes in the child list.
func KeepWhitespace(keep bool) Option {
	return func(t *Tree) {
		t.keepWhitespace = keep
	}
}

func New(opts ...Option) *Tree {
	t := &Tree{}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var _ vdom.LiveTree[*html.Node] = (*Tree)(nil)

// Snapshot builds a snapshot of n.
func (t *Tree) Snapshot(n *html.Node) (*vdom.Node, error) {
	return vdom.BuildSnapshot[*html.Node](t, n)
}

func (t *Tree) Tag(n *html.Node) string {
	switch n.Type {
	case html.DocumentNode:
		return DocumentTag
	case html.ElementNode:
		if n.Namespace != "" {
			return n.Namespace + ":" + n.Data
		}
		return n.Data
	}
	return ""
}

// splitTag separates a foreign-content prefix ("svg:circle") from the local
// name. Only the namespaces the HTML parser produces are recognized.
func splitTag(tag string) (namespace, name string) {
	if ns, local, ok := strings.Cut(tag, ":"); ok && (ns == "svg" || ns == "math") {
		return ns, local
	}
	return "", tag
}

func (t *Tree) Text(n *html.Node) (string, bool) {
	if n.Type == html.TextNode {
		return n.Data, true
	}
	return "", false
}

func (t *Tree) Attributes(n *html.Node) ([]vdom.Attribute, error) {
	attrs := make([]vdom.Attribute, 0, len(n.Attr))
	for _, a := range n.Attr {
		attrs = append(attrs, vdom.Attribute{Name: attrName(a), Value: vdom.String(a.Val)})
	}
	return attrs, nil
}

func (t *Tree) Children(n *html.Node) ([]*html.Node, error) {
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t.visible(c) {
			children = append(children, c)
		}
	}
	return children, nil
}

func (t *Tree) visible(n *html.Node) bool {
	switch n.Type {
	case html.ElementNode:
		return true
	case html.TextNode:
		return t.keepWhitespace || strings.TrimSpace(n.Data) != ""
	}
	return false
}

func attrName(a html.Attribute) string {
	if a.Namespace != "" {
		return a.Namespace + ":" + a.Key
	}
	return a.Key
}

// Materialize builds a detached html.Node tree from a snapshot.
func (t *Tree) Materialize(n *vdom.Node) (*html.Node, error) {
	if n.IsText() {
		return &html.Node{Type: html.TextNode, Data: n.Text}, nil
	}
	if n.Tag == "" || n.Tag == DocumentTag {
		return nil, fmt.Errorf("cannot materialize element with tag %q", n.Tag)
	}

	namespace, name := splitTag(n.Tag)
	el := &html.Node{
		Type:      html.ElementNode,
		Data:      name,
		DataAtom:  atom.Lookup([]byte(name)),
		Namespace: namespace,
	}
	for _, k := range n.Props.Keys() {
		el.Attr = append(el.Attr, html.Attribute{Key: k, Val: n.Props[k].String()})
	}
	for _, c := range n.Children {
		child, err := t.Materialize(c)
		if err != nil {
			return nil, err
		}
		el.AppendChild(child)
	}
	return el, nil
}

func (t *Tree) WriteAttribute(n *html.Node, name string, v vdom.Value) error {
	if n.Type != html.ElementNode {
		return fmt.Errorf("%w: cannot set attribute %q", ErrNotElement, name)
	}
	val := v.String()
	for i, a := range n.Attr {
		if attrName(a) == name {
			n.Attr[i].Val = val
			return nil
		}
	}
	// Add if not found
	n.Attr = append(n.Attr, html.Attribute{Key: name, Val: val})
	return nil
}

func (t *Tree) RemoveAttribute(n *html.Node, name string) error {
	if n.Type != html.ElementNode {
		return fmt.Errorf("%w: cannot remove attribute %q", ErrNotElement, name)
	}
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		if attrName(a) != name {
			kept = append(kept, a)
		}
	}
	n.Attr = kept
	return nil
}

// WriteText sets the content of a text node. On an element it replaces all
// children with a single text node.
func (t *Tree) WriteText(n *html.Node, text string) error {
	if n.Type == html.TextNode {
		n.Data = text
		return nil
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return nil
}

func (t *Tree) ReplaceChild(old, replacement *html.Node) error {
	parent := old.Parent
	if parent == nil {
		return fmt.Errorf("%w: cannot replace <%s>", ErrDetached, t.Tag(old))
	}
	parent.InsertBefore(replacement, old)
	parent.RemoveChild(old)
	return nil
}

func (t *Tree) AppendChild(parent, child *html.Node) error {
	parent.AppendChild(child)
	return nil
}

func (t *Tree) RemoveChildAt(parent *html.Node, index int) error {
	children, err := t.Children(parent)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(children) {
		return fmt.Errorf("%w: index %d, %d children", ErrNoChild, index, len(children))
	}
	parent.RemoveChild(children[index])
	return nil
}
