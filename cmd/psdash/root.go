// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for psdash.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"psdash-cli/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables verbose output
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "psdash",
		Short: "A catalog-driven PowerShell maintenance runner",
		Long: TitleStyle.Render("psdash") + SubtitleStyle.Render(" - A catalog-driven PowerShell maintenance runner") + `

psdash catalogs parameterized PowerShell commands in versioned packs
and runs them in batches, either headless with captured output or
inside an interactive terminal session.

Built-in packs ship with the binary; custom packs layered on top of
them override built-ins by id (last wins).

` + SubtitleStyle.Render("Quick Start:") + `
  1. Run 'psdash list' to browse the built-in commands
  2. Inspect one with 'psdash show <command-id>'
  3. Execute it with 'psdash run <command-id>'

` + SubtitleStyle.Render("Examples:") + `
  psdash list --category Networking   List networking commands
  psdash run flush-dns                Run a single command headless
  psdash run os-info disk-usage       Run a batch in order
  psdash validate ./my-pack.json      Validate a custom pack
  psdash shells                       Show detected PowerShell installs`,
	}
)

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <config-dir>/psdash/config.cue)")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(shellsCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// formatErrorForDisplay formats an error for user display.
// ActionableErrors use their Format method; verbose mode shows the full chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
