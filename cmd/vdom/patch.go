package main

import (
	"fmt"
	"io"

	"github.com/dannyswat/vdom"
	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: patch requires a base file and a delta", cli.ErrUsage)
	}
	return writePatched(cc.Out, cfg, args[0], args[1])
}

func writePatched(w io.Writer, cfg *PatchConfig, basePath, deltaPath string) error {
	doc, err := cfg.loadHTML(basePath, cfg.Fragment)
	if err != nil {
		return err
	}
	d, err := loadDelta(deltaPath)
	if err != nil {
		return err
	}
	if err := vdom.PatchDelta(doc, d, cfg.tree(), cfg.vdomOpts()...); err != nil {
		return fmt.Errorf("error applying %s: %w", deltaPath, err)
	}
	out, err := render(doc, cfg.Fragment)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
