package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"svfmt/internal/config"
	"svfmt/internal/driver"
)

var (
	flagInPlace        bool
	flagCheck          bool
	flagConfig         string
	flagJobs           int
	flagQuiet          bool
	flagMaxDiagnostics int
	flagColor          string
)

var pathColor = color.New(color.FgCyan)

func run(cmd *cobra.Command, args []string) error {
	configureColor(flagColor)

	if flagCheck && flagInPlace {
		return errors.New("--check cannot be used with '--in-place'")
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return err
	}

	files, err := driver.CollectSourceFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return driver.ErrNoFiles
	}
	if !flagCheck && !flagInPlace && len(files) > 1 {
		return errors.New("formatting multiple files requires --in-place or --check")
	}

	results, err := driver.FormatPaths(context.Background(), files, driver.Options{
		Check:          flagCheck,
		InPlace:        flagInPlace,
		Jobs:           flagJobs,
		MaxDiagnostics: flagMaxDiagnostics,
		Config:         cfg,
	})
	if err != nil {
		return err
	}

	broken := 0
	unformatted := 0
	violations := 0

	for _, res := range results {
		if res.Err != nil {
			broken++
			if res.Rendered != "" {
				fmt.Fprintln(os.Stderr, res.Rendered)
			}
			fmt.Fprintln(os.Stderr, res.Err)
			continue
		}
		if !flagQuiet && res.Rendered != "" {
			fmt.Fprintln(os.Stderr, res.Rendered)
		}

		switch {
		case flagCheck:
			if res.Changed {
				unformatted++
				fmt.Fprintf(os.Stderr, "needs formatting: %s\n", pathColor.Sprint(res.Path))
			}
			for _, v := range res.Violations {
				violations++
				fmt.Fprintf(os.Stderr, "line %d has %d columns (max %d) in %s\n",
					v.Line, v.Columns, cfg.MaxLineLength, res.Path)
			}
		case flagInPlace:
			// Rewrites happen inside the driver; nothing to report.
		default:
			if _, err := os.Stdout.Write(res.Formatted); err != nil {
				return err
			}
		}
	}

	switch {
	case broken > 0:
		return fmt.Errorf("%d file(s) could not be formatted", broken)
	case unformatted > 0 || violations > 0:
		return errors.New("check failed")
	}
	return nil
}

// loadConfig resolves the configuration: an explicit --config path wins,
// otherwise the nearest sv-fmt.toml above the first argument applies.
func loadConfig(args []string) (config.Config, error) {
	if flagConfig != "" {
		return config.Load(flagConfig)
	}
	base := args[0]
	if info, err := os.Stat(base); err == nil && !info.IsDir() {
		base = filepath.Dir(base)
	}
	cfg, _, err := config.Discover(base)
	return cfg, err
}
