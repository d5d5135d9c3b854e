package vdom

import "slices"

type patcher[N any] struct {
	tree    LiveTree[N]
	patches PatchSet
	last    int // Largest patched position
	opts    *options
}

// Patch applies patches to the live tree rooted at root. The tree must be
// the one the old snapshot was built from; positions are matched by walking
// it in the same preorder the differ used. Errors from the live tree are
// returned unchanged and leave it partially patched.
func Patch[N any](root N, patches PatchSet, t LiveTree[N], opts ...Option) error {
	if len(patches) == 0 {
		return nil
	}
	p := &patcher[N]{
		tree:    t,
		patches: patches,
		last:    slices.Max(patches.Positions()),
		opts:    newOptions(opts),
	}
	cursor := 0
	return p.walk(root, &cursor)
}

// walk visits n at the cursor's position, then every child, and applies
// n's own operations only after its children are done.
func (p *patcher[N]) walk(n N, cursor *int) error {
	pos := *cursor
	// Every later position is larger still.
	if pos > p.last {
		return nil
	}

	if _, isText := p.tree.Text(n); !isText {
		children, err := p.tree.Children(n)
		if err != nil {
			return err
		}
		for _, c := range children {
			*cursor++
			if err := p.walk(c, cursor); err != nil {
				return err
			}
		}
	}

	if ops, ok := p.patches[pos]; ok {
		return p.apply(n, pos, ops)
	}
	return nil
}

func (p *patcher[N]) apply(n N, pos int, ops []Operation) error {
	removed := 0
	for _, op := range ops {
		p.opts.logger.Debug("apply patch", "position", pos, "op", op.Type)

		switch op.Type {
		case OpText:
			if err := p.tree.WriteText(n, op.Text); err != nil {
				return err
			}

		case OpReplace:
			replacement, err := p.tree.Materialize(op.Node)
			if err != nil {
				return err
			}
			if err := p.tree.ReplaceChild(n, replacement); err != nil {
				return err
			}

		case OpInsert:
			child, err := p.tree.Materialize(op.Node)
			if err != nil {
				return err
			}
			if err := p.tree.AppendChild(n, child); err != nil {
				return err
			}

		case OpProps:
			if err := p.setProps(n, op.Props); err != nil {
				return err
			}

		case OpRemove:
			// Indices refer to the old child list; earlier removals in this
			// list have shifted the rest down.
			if err := p.tree.RemoveChildAt(n, op.Index-removed); err != nil {
				return err
			}
			removed++
		}
	}
	return nil
}

func (p *patcher[N]) setProps(n N, props map[string]*Value) error {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		v := props[k]
		if v == nil {
			if err := p.tree.RemoveAttribute(n, k); err != nil {
				return err
			}
			continue
		}
		if err := p.tree.WriteAttribute(n, k, *v); err != nil {
			return err
		}
	}
	return nil
}

// PatchDelta snapshots the live root, checks it against the delta's base
// hash and applies the delta's patches.
func PatchDelta[N any](root N, d *Delta, t LiveTree[N], opts ...Option) error {
	base, err := BuildSnapshot[N](t, root)
	if err != nil {
		return err
	}
	if err := d.Verify(base); err != nil {
		return err
	}
	return Patch(root, d.Patches, t, opts...)
}
