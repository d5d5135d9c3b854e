package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dannyswat/vdom"
	"github.com/dannyswat/vdom/htmltree"
	"github.com/scott-cotton/cli"
	"golang.org/x/net/html"
)

func vdomMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if err := cfg.setup(); err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// loadHTML parses the file at path. Fragments come back wrapped in a
// detached <body> so that every top level node has a parent.
func (cfg *MainConfig) loadHTML(path string, fragment bool) (*html.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if fragment {
		return htmltree.ParseFragment(string(data), cfg.parseOpts()...)
	}
	return htmltree.Parse(string(data), cfg.parseOpts()...)
}

func (cfg *MainConfig) loadSnapshot(path string, fragment bool) (*vdom.Node, error) {
	doc, err := cfg.loadHTML(path, fragment)
	if err != nil {
		return nil, err
	}
	snap, err := cfg.tree().Snapshot(doc)
	if err != nil {
		return nil, fmt.Errorf("error snapshotting %s: %w", path, err)
	}
	return snap, nil
}

func loadDelta(path string) (*vdom.Delta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := vdom.UnmarshalDelta(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", path, err)
	}
	return d, nil
}

// formatOf guesses a file's encoding from its extension, defaulting to json.
func formatOf(path string) vdom.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return vdom.FormatYAML
	}
	return vdom.FormatJSON
}

func render(n *html.Node, fragment bool) (string, error) {
	if fragment {
		return htmltree.RenderChildren(n)
	}
	return htmltree.Render(n)
}
