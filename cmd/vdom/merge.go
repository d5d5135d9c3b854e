package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dannyswat/vdom"
	"github.com/google/uuid"
	"github.com/scott-cotton/cli"
)

var errConflict = errors.New("deltas conflict")

func merge(cfg *MergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Merge.Parse(cc, args)
	if err != nil {
		cfg.Merge.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) < 2 {
		return fmt.Errorf("%w: merge requires a base file and at least one delta", cli.ErrUsage)
	}
	err = writeMerged(cc.Out, cfg, args[0], args[1:])
	if errors.Is(err, errConflict) {
		return cli.ExitCodeErr(1)
	}
	return err
}

// writeMerged prints the merged delta, or the conflicts when the deltas
// cannot be combined, in which case errConflict is returned.
func writeMerged(w io.Writer, cfg *MergeConfig, basePath string, deltaPaths []string) error {
	f, err := cfg.format()
	if err != nil {
		return err
	}
	base, err := cfg.loadSnapshot(basePath, cfg.Fragment)
	if err != nil {
		return err
	}
	sets := make([]vdom.PatchSet, 0, len(deltaPaths))
	for _, path := range deltaPaths {
		d, err := loadDelta(path)
		if err != nil {
			return err
		}
		if err := d.Verify(base); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		sets = append(sets, d.Patches)
	}

	merged, conflicts := vdom.MergeAll(base, sets...)
	if len(conflicts) > 0 {
		for _, c := range conflicts {
			fmt.Fprintf(w, "%s conflict at %d: %s\n", c.Type, c.Position, c.Description)
		}
		return fmt.Errorf("%w: %d conflicts", errConflict, len(conflicts))
	}
	cfg.Logger.Debug("deltas merged", "count", len(sets), "positions", len(merged))

	baseHash, err := vdom.HashSnapshot(base)
	if err != nil {
		return err
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	author := cfg.Author
	if author == "" {
		author = cfg.Settings.Author
	}
	data, err := vdom.MarshalDelta(&vdom.Delta{
		ID:        id.String(),
		BaseHash:  baseHash,
		Patches:   merged,
		Timestamp: time.Now().UnixMilli(),
		Author:    author,
	}, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
