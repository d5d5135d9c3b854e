// Package report renders patch sets for people.
package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/dannyswat/vdom"
	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

type Options struct {
	Color bool
}

type palette struct {
	header, insert, remove, op func(a ...any) string
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return palette{
		header: mk(color.Bold),
		insert: mk(color.FgGreen),
		remove: mk(color.FgRed),
		op:     mk(color.FgCyan),
	}
}

// Write describes every operation in ps, grouped by position, using base
// (the old snapshot) to name nodes and show previous values.
func Write(w io.Writer, base *vdom.Node, ps vdom.PatchSet, opts Options) error {
	entries := vdom.Preorder(base)
	labels := nodeLabels(entries)
	p := newPalette(opts.Color)

	var b strings.Builder
	for _, pos := range ps.Positions() {
		var old *vdom.Node
		label := "?"
		if pos < len(entries) {
			old = entries[pos].Node
			label = labels[pos]
		}
		fmt.Fprintf(&b, "%s\n", p.header(fmt.Sprintf("@%d %s", pos, label)))
		for _, op := range ps[pos] {
			b.WriteString("  ")
			b.WriteString(p.op(string(op.Type)))
			b.WriteByte(' ')
			b.WriteString(describe(p, old, op))
			b.WriteByte('\n')
		}
	}
	fmt.Fprintf(&b, "%d operations at %d positions\n", ps.Len(), len(ps))

	_, err := io.WriteString(w, b.String())
	return err
}

func describe(p palette, old *vdom.Node, op vdom.Operation) string {
	switch op.Type {
	case vdom.OpText:
		prev := ""
		if old != nil {
			prev = old.Text
		}
		return textDiff(p, prev, op.Text)

	case vdom.OpProps:
		var parts []string
		for _, k := range slices.Sorted(maps.Keys(op.Props)) {
			prev := "(unset)"
			if old != nil {
				if v, ok := old.Props[k]; ok {
					prev = strconv.Quote(v.String())
				}
			}
			v := op.Props[k]
			if v == nil {
				parts = append(parts, fmt.Sprintf("%s: %s removed", k, p.remove(prev)))
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s -> %s", k, p.remove(prev), p.insert(strconv.Quote(v.String()))))
		}
		return strings.Join(parts, ", ")

	case vdom.OpReplace:
		return fmt.Sprintf("%s with %s", p.remove(summary(old)), p.insert(summary(op.Node)))

	case vdom.OpInsert:
		return p.insert(summary(op.Node))

	case vdom.OpRemove:
		var child *vdom.Node
		if old != nil && op.Index < len(old.Children) {
			child = old.Children[op.Index]
		}
		return fmt.Sprintf("child %d %s", op.Index, p.remove(summary(child)))
	}
	return string(op.Type)
}

// textDiff marks deletions as [-x-] and insertions as {+x+}.
func textDiff(p palette, from, to string) string {
	dmp := diffpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(from, to, false))

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffpatch.DiffInsert:
			b.WriteString(p.insert("{+" + d.Text + "+}"))
		case diffpatch.DiffDelete:
			b.WriteString(p.remove("[-" + d.Text + "-]"))
		case diffpatch.DiffEqual:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

func summary(n *vdom.Node) string {
	switch {
	case n == nil:
		return "(none)"
	case n.IsText():
		return strconv.Quote(n.Text)
	case n.Count == 0:
		return "<" + n.Tag + ">"
	}
	return fmt.Sprintf("<%s> (%d nodes)", n.Tag, n.Count+1)
}

// nodeLabels names each position by its path of tags and child indices,
// e.g. div/ul[1]/li[0].
func nodeLabels(entries []vdom.Entry) []string {
	labels := make([]string, len(entries))
	for i, e := range entries {
		name := e.Node.Tag
		if e.Node.IsText() {
			name = "#text"
		}
		if e.Parent < 0 {
			labels[i] = name
			continue
		}
		labels[i] = fmt.Sprintf("%s/%s[%d]", labels[e.Parent], name, e.Path[len(e.Path)-1])
	}
	return labels
}
