package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"shiftboard/internal/config"
	"shiftboard/internal/schedule"
	"shiftboard/internal/source"
)

// parseFlags are shared by every command that reads a schedule
type parseFlags struct {
	columns   string
	driver    string
	run       string
	retention string
	sheet     string
	timeout   time.Duration
}

func newRootCmd() *cobra.Command {
	flags := &parseFlags{}
	defaults := config.Default()

	root := &cobra.Command{
		Use:           "shiftctl",
		Short:         "Inspect shift schedules from the command line",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.columns, "columns", defaults.Parser.Columns, "column preset: compact or depot")
	pf.StringVar(&flags.driver, "driver", defaults.Parser.Driver, "driver names: full or first")
	pf.StringVar(&flags.run, "run", defaults.Parser.Run, "run values: verbatim or cleaned")
	pf.StringVar(&flags.retention, "retention", defaults.Parser.Retention, "row retention: lenient or strict")
	pf.StringVar(&flags.sheet, "sheet", "", "worksheet to read from .xlsx files (default: first)")
	pf.DurationVar(&flags.timeout, "timeout", defaults.Source.Timeout, "fetch timeout for URLs")

	root.AddCommand(newDatesCmd(flags), newShowCmd(flags))
	return root
}

// options validates the policy flags the same way the server validates its
// parser section
func (f *parseFlags) options() (schedule.Options, error) {
	return config.ParserConfig{
		Columns:   f.columns,
		Driver:    f.driver,
		Run:       f.run,
		Retention: f.retention,
	}.Options()
}

// sourceFor picks the source kind from the shape of target
func (f *parseFlags) sourceFor(target string) (source.Source, error) {
	cfg := config.Default().Source
	cfg.Timeout = f.timeout
	switch {
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		cfg.Kind = config.SourceHTTP
		cfg.URL = target
	case strings.EqualFold(filepath.Ext(target), ".xlsx"):
		cfg.Kind = config.SourceXLSX
		cfg.Path = target
		cfg.Sheet = f.sheet
	default:
		cfg.Kind = config.SourceFile
		cfg.Path = target
	}
	return source.New(cfg, slog.New(slog.DiscardHandler))
}

// load fetches and parses target
func (f *parseFlags) load(ctx context.Context, target string) (*schedule.Collection, error) {
	opts, err := f.options()
	if err != nil {
		return nil, err
	}
	src, err := f.sourceFor(target)
	if err != nil {
		return nil, err
	}
	doc, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Parse(opts)
}
