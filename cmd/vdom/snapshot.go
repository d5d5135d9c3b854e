package main

import (
	"fmt"
	"io"

	"github.com/dannyswat/vdom"
	"github.com/scott-cotton/cli"
)

func snapshot(cfg *SnapshotConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Snapshot.Parse(cc, args)
	if err != nil {
		cfg.Snapshot.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: snapshot requires one file", cli.ErrUsage)
	}
	return writeSnapshot(cc.Out, cfg, args[0])
}

func writeSnapshot(w io.Writer, cfg *SnapshotConfig, path string) error {
	f, err := cfg.format()
	if err != nil {
		return err
	}
	nodePath, err := vdom.ParseNodePath(cfg.Path)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	doc, err := cfg.loadHTML(path, cfg.Fragment)
	if err != nil {
		return err
	}
	tree := cfg.tree()
	n, err := tree.NodeAt(doc, nodePath)
	if err != nil {
		return err
	}
	snap, err := tree.Snapshot(n)
	if err != nil {
		return fmt.Errorf("error snapshotting %s: %w", path, err)
	}
	data, err := vdom.MarshalSnapshot(snap, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
