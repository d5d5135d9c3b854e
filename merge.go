package vdom

import (
	"fmt"
	"slices"
)

// Merge combines two patch sets computed against the same base. When the
// sets conflict no merged set is returned.
func Merge(base *Node, a, b PatchSet) (PatchSet, []Conflict) {
	return MergeAll(base, a, b)
}

// MergeAll folds sets into one patch set in order. Each set is checked
// against everything merged before it.
func MergeAll(base *Node, sets ...PatchSet) (PatchSet, []Conflict) {
	entries := Preorder(base)
	merged := PatchSet{}
	var conflicts []Conflict
	for _, ps := range sets {
		found := detectConflicts(entries, merged, ps)
		if len(found) > 0 {
			conflicts = append(conflicts, found...)
			continue
		}
		merged = mergeInto(merged, ps)
	}
	if len(conflicts) > 0 {
		return nil, conflicts
	}
	return merged, nil
}

func detectConflicts(entries []Entry, a, b PatchSet) []Conflict {
	var conflicts []Conflict

	// Direct conflicts: both sides edit the same node.
	for _, pos := range b.Positions() {
		for _, opA := range a[pos] {
			for _, opB := range b[pos] {
				if isConflict(opA, opB) {
					conflicts = append(conflicts, Conflict{
						Type:        "Direct",
						Description: fmt.Sprintf("Conflict on position %d: %s vs %s", pos, opA.Type, opB.Type),
						Position:    pos,
						Ops:         []Operation{opA, opB},
					})
				}
			}
		}
	}

	// Structure conflicts: one side edits inside a subtree the other side
	// replaced or removed.
	conflicts = append(conflicts, supersededEdits(entries, a, b)...)
	conflicts = append(conflicts, supersededEdits(entries, b, a)...)
	return conflicts
}

// supersededEdits reports operations in edits that fall inside a subtree
// removed or replaced by owner.
func supersededEdits(entries []Entry, owner, edits PatchSet) []Conflict {
	var conflicts []Conflict
	for _, pos := range owner.Positions() {
		for _, op := range owner[pos] {
			var from, to int
			switch op.Type {
			case OpReplace:
				if pos >= len(entries) {
					continue
				}
				from, to = pos+1, pos+entries[pos].Node.Count
			case OpRemove:
				child, ok := childPosition(entries, pos, op.Index)
				if !ok {
					continue
				}
				from, to = child, child+entries[child].Node.Count
			default:
				continue
			}
			for _, editPos := range edits.Positions() {
				if editPos < from || editPos > to {
					continue
				}
				for _, edit := range edits[editPos] {
					conflicts = append(conflicts, Conflict{
						Type:        "Structure",
						Description: fmt.Sprintf("Modification of position %d inside %s at position %d", editPos, op.Type, pos),
						Position:    editPos,
						Ops:         []Operation{op, edit},
					})
				}
			}
		}
	}
	return conflicts
}

// childPosition returns the preorder position of child index of the node at
// parent.
func childPosition(entries []Entry, parent, index int) (int, bool) {
	if parent < 0 || parent >= len(entries) {
		return 0, false
	}
	children := entries[parent].Node.Children
	if index < 0 || index >= len(children) {
		return 0, false
	}
	pos := parent + 1
	for _, c := range children[:index] {
		pos += c.Count + 1
	}
	return pos, true
}

func isConflict(a, b Operation) bool {
	if a.Type == OpReplace || b.Type == OpReplace {
		// Identical replacements are idempotent.
		if a.Type == OpReplace && b.Type == OpReplace {
			return !a.Node.Equal(b.Node)
		}
		return true
	}
	if a.Type == OpText && b.Type == OpText {
		return a.Text != b.Text
	}
	if a.Type == OpProps && b.Type == OpProps {
		for k, va := range a.Props {
			vb, ok := b.Props[k]
			if !ok {
				continue
			}
			if (va == nil) != (vb == nil) {
				return true
			}
			if va != nil && !va.Equal(*vb) {
				return true
			}
		}
		return false
	}
	// Removes of the same index and matching inserts collapse when merged.
	return false
}

func mergeInto(merged, ps PatchSet) PatchSet {
	out := make(PatchSet, len(merged)+len(ps))
	for pos, ops := range merged {
		out[pos] = ops
	}
	for pos, ops := range ps {
		out[pos] = combineOps(out[pos], ops)
	}
	return out
}

// combineOps merges two operation lists for one position into the order
// props, text, replace, removes (ascending), inserts.
func combineOps(a, b []Operation) []Operation {
	inserts := combineInserts(filterOps(a, OpInsert), filterOps(b, OpInsert))
	var (
		props    map[string]*Value
		text     *Operation
		replace  *Operation
		removes  []int
		combined []Operation
	)
	for _, op := range slices.Concat(a, b) {
		switch op.Type {
		case OpProps:
			if props == nil {
				props = make(map[string]*Value, len(op.Props))
			}
			for k, v := range op.Props {
				props[k] = v
			}
		case OpText:
			if text == nil {
				text = &op
			}
		case OpReplace:
			if replace == nil {
				replace = &op
			}
		case OpRemove:
			if !slices.Contains(removes, op.Index) {
				removes = append(removes, op.Index)
			}
		}
	}

	if props != nil {
		combined = append(combined, Operation{Type: OpProps, Props: props})
	}
	if text != nil {
		combined = append(combined, *text)
	}
	if replace != nil {
		combined = append(combined, *replace)
	}
	slices.Sort(removes)
	for _, idx := range removes {
		combined = append(combined, Operation{Type: OpRemove, Index: idx})
	}
	return append(combined, inserts...)
}

func filterOps(ops []Operation, t OpType) []Operation {
	var out []Operation
	for _, op := range ops {
		if op.Type == t {
			out = append(out, op)
		}
	}
	return out
}

// combineInserts keeps the longer list when one side's appends are a prefix
// of the other's, so the same insert made on both sides lands once.
// Otherwise a's inserts come before b's.
func combineInserts(a, b []Operation) []Operation {
	short, long := a, b
	if len(short) > len(long) {
		short, long = long, short
	}
	for i, op := range short {
		if !op.Node.Equal(long[i].Node) {
			return slices.Concat(a, b)
		}
	}
	return long
}
