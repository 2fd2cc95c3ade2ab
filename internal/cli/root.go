// Package cli provides the Cobra command structure for gorblint.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gorblint/internal/logging"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gorblint command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var debug bool
	var configPath string
	var color string

	rootCmd := &cobra.Command{
		Use:   "gorblint",
		Short: "A self-fixing linter for Ruby conventions",
		Long: `gorblint checks Ruby code for team conventions that general-purpose
linters leave alone: FactoryBot traits kept in alphabetical order and service
objects exposing a single .call entry point.

Offenses that have a safe correction can be fixed in place with --fix. Fixes
are checked for conflicts, re-parsed before writing, and backed up next to the
original file.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				logging.SetLevel("debug")
			}
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (.yml, .yaml or .toml)")
	rootCmd.PersistentFlags().StringVar(&color, "color", "auto", "colorize output: auto, always, never")

	rootCmd.AddCommand(newLintCommand(info))
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
