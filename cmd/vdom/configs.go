package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dannyswat/vdom"
	"github.com/dannyswat/vdom/htmltree"
	"github.com/dannyswat/vdom/internal/config"
	"github.com/mattn/go-isatty"
	"github.com/microcosm-cc/bluemonday"
	"github.com/scott-cotton/cli"
)

type MainConfig struct {
	ConfigPath string `cli:"name=config desc='configuration file (toml)'"`
	J          bool   `cli:"name=j aliases=json desc='encode output in json'"`
	Y          bool   `cli:"name=y aliases=yaml desc='encode output in yaml'"`
	Color      bool   `cli:"name=color desc='force colored reports'"`
	Verbose    bool   `cli:"name=v desc='log each applied operation'"`

	Settings *config.Config
	Logger   *slog.Logger

	Main *cli.Command
}

// setup loads settings once the main options are parsed.
func (cfg *MainConfig) setup() error {
	if cfg.J && cfg.Y {
		return fmt.Errorf("%w: must specify at most one of -j[son] -y[aml]", cli.ErrUsage)
	}
	var err error
	if cfg.ConfigPath != "" {
		cfg.Settings, err = config.LoadFromFile(cfg.ConfigPath)
	} else {
		cfg.Settings, err = config.Load()
	}
	if err != nil {
		return err
	}
	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return nil
}

func (cfg *MainConfig) format() (vdom.Format, error) {
	switch {
	case cfg.J:
		return vdom.FormatJSON, nil
	case cfg.Y:
		return vdom.FormatYAML, nil
	}
	return vdom.ParseFormat(cfg.Settings.Format)
}

func (cfg *MainConfig) colorize(cc *cli.Context) bool {
	if cfg.Color {
		return true
	}
	switch cfg.Settings.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	f, ok := cc.Out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) tree() *htmltree.Tree {
	return htmltree.New(htmltree.KeepWhitespace(cfg.Settings.KeepWhitespace))
}

func (cfg *MainConfig) parseOpts() []htmltree.ParseOption {
	if cfg.Settings.Sanitize {
		return []htmltree.ParseOption{htmltree.WithSanitizer(bluemonday.UGCPolicy())}
	}
	return nil
}

func (cfg *MainConfig) vdomOpts() []vdom.Option {
	return []vdom.Option{vdom.WithLogger(cfg.Logger)}
}

type SnapshotConfig struct {
	*MainConfig
	Fragment bool   `cli:"name=f aliases=fragment desc='parse input as a body fragment'"`
	Path     string `cli:"name=path desc='snapshot only the node at this child path, e.g. 0/1/3'"`

	Snapshot *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Fragment bool   `cli:"name=f aliases=fragment desc='parse inputs as body fragments'"`
	Report   bool   `cli:"name=r aliases=report desc='print a readable report instead of a delta'"`
	Author   string `cli:"name=author desc='delta author (default from config)'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Fragment bool `cli:"name=f aliases=fragment desc='parse base as a body fragment'"`

	Patch *cli.Command
}

type MergeConfig struct {
	*MainConfig
	Fragment bool   `cli:"name=f aliases=fragment desc='parse base as a body fragment'"`
	Author   string `cli:"name=author desc='merged delta author (default from config)'"`

	Merge *cli.Command
}
