package main

import (
	"fmt"
	"io"

	"github.com/dannyswat/vdom"
	"github.com/dannyswat/vdom/internal/report"
	"github.com/scott-cotton/cli"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires two files", cli.ErrUsage)
	}
	return writeDiff(cc.Out, cfg, args[0], args[1], cfg.colorize(cc))
}

func writeDiff(w io.Writer, cfg *DiffConfig, oldPath, newPath string, color bool) error {
	oldSnap, err := cfg.loadSnapshot(oldPath, cfg.Fragment)
	if err != nil {
		return err
	}
	newSnap, err := cfg.loadSnapshot(newPath, cfg.Fragment)
	if err != nil {
		return err
	}
	if cfg.Report {
		ps := vdom.Diff(oldSnap, newSnap, cfg.vdomOpts()...)
		return report.Write(w, oldSnap, ps, report.Options{Color: color})
	}

	f, err := cfg.format()
	if err != nil {
		return err
	}
	author := cfg.Author
	if author == "" {
		author = cfg.Settings.Author
	}
	d, err := vdom.NewDelta(oldSnap, newSnap, author, cfg.vdomOpts()...)
	if err != nil {
		return err
	}
	data, err := vdom.MarshalDelta(d, f)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
