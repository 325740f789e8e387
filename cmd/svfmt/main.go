package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"svfmt/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "svfmt [flags] FILES...",
	Short: "SystemVerilog source formatter",
	Long: `svfmt rewrites SystemVerilog sources into a canonical layout:
indentation, token spacing, begin/end insertion for multi-line bodies,
case colon alignment, and preprocessor placement. Directories recurse
over .sv, .svh, .v, and .vh files.`,
	Args:          cobra.MinimumNArgs(1),
	RunE:          run,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.Flags().BoolVarP(&flagInPlace, "in-place", "i", false, "overwrite files in place")
	rootCmd.Flags().BoolVar(&flagCheck, "check", false, "only check if files are already formatted")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to a sv-fmt.toml configuration file")
	rootCmd.Flags().IntVarP(&flagJobs, "jobs", "j", 0, "number of files formatted in parallel (0 = one per CPU)")
	rootCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.Flags().IntVar(&flagMaxDiagnostics, "max-diagnostics", 100, "maximum number of diagnostics to show per file")
	rootCmd.Flags().StringVar(&flagColor, "color", "auto", "colorize output (auto|on|off)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func configureColor(mode string) {
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	default:
		color.NoColor = !isTerminal(os.Stderr)
	}
}
