// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for dirimport.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"dirimport/internal/config"
	"dirimport/internal/issue"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging
	verbose bool
	// cfgFile allows specifying a custom config file
	cfgFile string

	// cfg is the loaded configuration, available to all subcommands.
	cfg *config.Config

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "dirimport",
		Short: "An esbuild-powered bundler with directory imports",
		Long: TitleStyle.Render("dirimport") + SubtitleStyle.Render(" - an esbuild-powered bundler with directory imports") + `

dirimport bundles JavaScript and TypeScript with esbuild, extending the
import syntax with directory imports: a specifier ending in /* pulls in
every matching file of a directory, /** descends into subdirectories, and
an optional {.ext|.ext} clause overrides the default .js/.ts filter.

A directory containing an index file is represented solely by that file,
so a subdirectory can present a single public surface.

` + SubtitleStyle.Render("Examples:") + `
  dirimport build               Bundle the configured entry points
  dirimport build --watch       Rebuild on every source change
  dirimport config init         Create a dirimport.cue config file
  dirimport config show         Show the effective configuration`,
	}
)

func init() {
	cobra.OnInitialize(initRootConfig)

	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./dirimport.cue)")

	// Add subcommands
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(configCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	// fang.Execute wraps Cobra with enhanced styling; version goes through
	// fang.WithVersion since fang overrides rootCmd.Version.
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// initRootConfig loads the config file and applies global settings.
func initRootConfig() {
	var err error
	if cfgFile != "" {
		cfg, _, err = config.LoadFile(cfgFile)
	} else {
		cfg, _, err = config.Load()
	}
	if err != nil {
		// Surface config errors immediately; commands fall back to defaults.
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, verbose))
		explainIssue(os.Stderr, issue.ConfigLoadFailedId)
		cfg = config.DefaultConfig()
	}

	if cfg.UI.Verbose {
		verbose = true
	}
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

// formatErrorForDisplay renders an error for terminal output, using the
// richer ActionableError formatting when available.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
