// Package htmltree adapts golang.org/x/net/html trees to the vdom
// snapshot, diff and patch pipeline.
package htmltree

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/dannyswat/vdom"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type parseConfig struct {
	policy *bluemonday.Policy
}

// ParseOption configures Parse and ParseFragment.
type ParseOption func(*parseConfig)

// WithSanitizer runs content through policy before parsing. Use it for
// markup from untrusted sources.
func WithSanitizer(policy *bluemonday.Policy) ParseOption {
	return func(c *parseConfig) {
		c.policy = policy
	}
}

func prepare(content string, opts []ParseOption) string {
	cfg := &parseConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.policy != nil {
		return cfg.policy.Sanitize(content)
	}
	return content
}

// Parse parses a full document. The parser normalizes the tree, wrapping
// partial input in html/head/body.
func Parse(content string, opts ...ParseOption) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(prepare(content, opts)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

// ParseFragment parses content in a body context and returns a detached
// <body> element holding the parsed nodes.
func ParseFragment(content string, opts ...ParseOption) (*html.Node, error) {
	container := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(prepare(content, opts)), container)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML fragment: %w", err)
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	return container, nil
}

// Render converts a node tree back to a string.
func Render(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderChildren renders the children of n without n itself.
func RenderChildren(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// NodeAt follows path from root through the child lists returned by
// Children, so whitespace and comments never count as steps. It is the
// live-tree side of vdom.Entry.Path: the entry for a snapshot built from
// root locates its live node here. A step past the end of a child list
// returns ErrNoChild.
func (t *Tree) NodeAt(root *html.Node, path vdom.NodePath) (*html.Node, error) {
	current := root
	for step, index := range path {
		children, err := t.Children(current)
		if err != nil {
			return nil, err
		}
		if index < 0 || index >= len(children) {
			return nil, fmt.Errorf("%w: path %s step %d wants child %d of %d",
				ErrNoChild, path, step, index, len(children))
		}
		current = children[index]
	}
	return current, nil
}

// PathOf is the inverse of NodeAt: NodeAt(root, PathOf(root, target))
// is target. It fails with ErrDetached when target is not below root and
// with ErrNoChild when target, or one of its ancestors, is a node the child
// lists hide.
func (t *Tree) PathOf(root, target *html.Node) (vdom.NodePath, error) {
	var path vdom.NodePath
	for current := target; current != root; current = current.Parent {
		if current.Parent == nil {
			return nil, fmt.Errorf("%w: <%s> is not below the root", ErrDetached, t.Tag(target))
		}
		index, err := t.childIndex(current.Parent, current)
		if err != nil {
			return nil, err
		}
		path = append(path, index)
	}
	slices.Reverse(path)
	return path, nil
}

func (t *Tree) childIndex(parent, child *html.Node) (int, error) {
	children, err := t.Children(parent)
	if err != nil {
		return 0, err
	}
	if i := slices.Index(children, child); i >= 0 {
		return i, nil
	}
	return 0, fmt.Errorf("%w: node is hidden from the child list", ErrNoChild)
}
