package vdom

// ChildMatcher pairs the children of two matched elements. It returns one
// entry per old child: the index of its partner in newChildren, or -1 when
// the old child has no partner and must be removed. New children that no
// old child points at are appended as inserts, in order.
//
// The patcher never moves nodes, so a matcher must keep paired children in
// the same relative order.
type ChildMatcher interface {
	Match(oldChildren, newChildren []*Node) []int
}

type ChildMatcherFunc func(oldChildren, newChildren []*Node) []int

func (f ChildMatcherFunc) Match(oldChildren, newChildren []*Node) []int {
	return f(oldChildren, newChildren)
}

// Positional pairs old child i with new child i. Keys are ignored, so an
// insertion or removal in the middle of a list shows up as edits to every
// following sibling.
var Positional ChildMatcher = ChildMatcherFunc(func(oldChildren, newChildren []*Node) []int {
	pairs := make([]int, len(oldChildren))
	for i := range oldChildren {
		if i < len(newChildren) {
			pairs[i] = i
		} else {
			pairs[i] = -1
		}
	}
	return pairs
})

type differ struct {
	opts    *options
	patches PatchSet
}

// Diff calculates the patches needed to transform oldNode into newNode. Positions
// are preorder positions in oldNode; position 0 is the root.
func Diff(oldNode, newNode *Node, opts ...Option) PatchSet {
	d := &differ{
		opts:    newOptions(opts),
		patches: PatchSet{},
	}
	if oldNode != nil {
		d.walk(oldNode, newNode, 0)
	}
	d.opts.logger.Debug("diff computed", "positions", len(d.patches), "ops", d.patches.Len())
	return d.patches
}

// walk compares two nodes that occupy the same position.
func (d *differ) walk(oldNode, newNode *Node, pos int) {
	// A missing new node is removed by its parent.
	if newNode == nil {
		return
	}

	var ops []Operation
	switch {
	case oldNode.IsText() && newNode.IsText():
		if oldNode.Text != newNode.Text {
			ops = append(ops, Operation{Type: OpText, Text: newNode.Text})
		}
	case !oldNode.IsText() && !newNode.IsText() && oldNode.Tag == newNode.Tag:
		if props := diffProps(oldNode.Props, newNode.Props); props != nil {
			ops = append(ops, Operation{Type: OpProps, Props: props})
		}
		ops = d.diffChildren(oldNode.Children, newNode.Children, pos, ops)
	default:
		// The old subtree is superseded; none of its positions are visited.
		ops = append(ops, Operation{Type: OpReplace, Node: newNode})
	}

	if len(ops) > 0 {
		d.patches[pos] = ops
	}
}

// diffChildren walks paired children and appends removals and inserts to
// the parent's operations.
func (d *differ) diffChildren(oldChildren, newChildren []*Node, parentPos int, ops []Operation) []Operation {
	pairs := d.opts.matcher.Match(oldChildren, newChildren)
	paired := make([]bool, len(newChildren))

	childPos := parentPos
	for i, child := range oldChildren {
		// Own slot plus every slot of the previous sibling's subtree.
		if i == 0 {
			childPos++
		} else {
			childPos += oldChildren[i-1].Count + 1
		}

		j := -1
		if i < len(pairs) {
			j = pairs[i]
		}
		if j < 0 || j >= len(newChildren) {
			ops = append(ops, Operation{Type: OpRemove, Index: i})
			continue
		}
		paired[j] = true
		d.walk(child, newChildren[j], childPos)
	}

	for j, child := range newChildren {
		if !paired[j] {
			ops = append(ops, Operation{Type: OpInsert, Node: child})
		}
	}
	return ops
}

// diffProps returns the changed attributes, or nil when nothing changed.
// Keys missing from newProps map to nil.
func diffProps(oldProps, newProps Props) map[string]*Value {
	var changed map[string]*Value
	record := func(k string, v *Value) {
		if changed == nil {
			changed = make(map[string]*Value)
		}
		changed[k] = v
	}

	for k, ov := range oldProps {
		nv, ok := newProps[k]
		if !ok {
			record(k, nil)
			continue
		}
		if !ov.Equal(nv) {
			record(k, &nv)
		}
	}
	for k, nv := range newProps {
		if _, ok := oldProps[k]; !ok {
			record(k, &nv)
		}
	}
	return changed
}
