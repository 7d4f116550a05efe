// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"dirimport/internal/config"
	"dirimport/internal/issue"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage dirimport configuration",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as CUE",
		RunE:  runConfigShow,
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a dirimport.cue with the default configuration",
		RunE:  runConfigInit,
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the config file search locations",
		RunE:  runConfigPath,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	var (
		loaded *config.Config
		path   string
		err    error
	)
	if cfgFile != "" {
		loaded, path, err = config.LoadFile(cfgFile)
	} else {
		loaded, path, err = config.Load()
	}
	if err != nil {
		return &ExitError{Code: 1, Err: issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(path).
			WithSuggestion("Run 'dirimport config init' to create a valid config file").
			Wrap(err).
			BuildError()}
	}

	if path == "" {
		fmt.Fprintln(os.Stdout, SubtitleStyle.Render("// built-in defaults (no config file found)"))
	} else {
		fmt.Fprintln(os.Stdout, SubtitleStyle.Render("// loaded from ")+PathStyle.Render(path))
	}
	fmt.Fprint(os.Stdout, config.GenerateCUE(loaded))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.CreateDefault()
	if err != nil {
		return &ExitError{Code: 1, Err: issue.WrapWithOperation(err, "create config file")}
	}
	fmt.Fprintf(os.Stdout, "%s created %s\n", SuccessStyle.Render("✓"), PathStyle.Render(path))
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	fmt.Fprintln(os.Stdout, "Config file search order:")
	fmt.Fprintf(os.Stdout, "  1. %s (project-local)\n", PathStyle.Render(config.ConfigFileName+".cue"))

	dir, err := config.ConfigDir()
	if err != nil {
		return issue.WrapWithOperation(err, "determine config directory")
	}
	fmt.Fprintf(os.Stdout, "  2. %s (user)\n", PathStyle.Render(dir+string(os.PathSeparator)+config.ConfigFileName+".cue"))
	return nil
}
