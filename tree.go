package vdom

import (
	"io"
	"log/slog"
)

// Attribute is a single name/value pair read off a live node.
type Attribute struct {
	Name  string
	Value Value
}

// Adapter reads a live tree. It must be deterministic and free of side
// effects: two calls on the same unmodified node return the same data.
//
// Children returns element and text children only, in document order. The
// same list is used to build snapshots and to walk the tree while patching,
// so any node the adapter chooses to hide (comments, whitespace) stays
// hidden from both.
type Adapter[N any] interface {
	Tag(n N) string
	Text(n N) (string, bool)
	Attributes(n N) ([]Attribute, error)
	Children(n N) ([]N, error)
}

// Renderer writes to a live tree.
type Renderer[N any] interface {
	// Materialize builds a new live node (or text node) from a snapshot.
	Materialize(n *Node) (N, error)
	WriteAttribute(n N, name string, v Value) error
	RemoveAttribute(n N, name string) error
	WriteText(n N, text string) error
	// ReplaceChild substitutes replacement for old in old's parent.
	ReplaceChild(old, replacement N) error
	AppendChild(parent, child N) error
	// RemoveChildAt removes the child at index of the list returned by
	// Adapter.Children.
	RemoveChildAt(parent N, index int) error
}

// LiveTree is both sides of a live tree representation.
type LiveTree[N any] interface {
	Adapter[N]
	Renderer[N]
}

type options struct {
	matcher ChildMatcher
	logger  *slog.Logger
}

// Option configures Diff and Patch.
type Option func(*options)

// WithChildMatcher sets the strategy that pairs old and new children.
// The default is Positional.
func WithChildMatcher(m ChildMatcher) Option {
	return func(o *options) {
		o.matcher = m
	}
}

// WithLogger enables debug logging of diff and patch activity.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		matcher: Positional,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.matcher == nil {
		o.matcher = Positional
	}
	return o
}
