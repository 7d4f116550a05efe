// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/spf13/cobra"

	"dirimport/internal/banner"
	"dirimport/internal/config"
	"dirimport/internal/define"
	"dirimport/internal/issue"
	"dirimport/internal/watch"
	"dirimport/pkg/plugin"
)

var (
	watchMode   bool
	outdirFlag  string
	minifyFlag  bool
	productionF bool

	buildCmd = &cobra.Command{
		Use:   "build [entry points...]",
		Short: "Bundle the configured entry points",
		Long: `Bundle the configured entry points with esbuild, resolving directory
imports along the way. Entry points given as arguments override the
configured ones.`,
		RunE: runBuildCmd,
	}
)

func init() {
	buildCmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "rebuild on file changes")
	buildCmd.Flags().StringVar(&outdirFlag, "outdir", "", "output directory (overrides config)")
	buildCmd.Flags().BoolVar(&minifyFlag, "minify", false, "minify output (overrides config)")
	buildCmd.Flags().BoolVar(&productionF, "production", false, "build with mode production")
}

func runBuildCmd(cmd *cobra.Command, args []string) error {
	buildCfg := *cfg
	if len(args) > 0 {
		buildCfg.EntryPoints = args
	}
	if outdirFlag != "" {
		buildCfg.Outdir = outdirFlag
	}
	if minifyFlag {
		buildCfg.Minify = true
	}
	if productionF {
		buildCfg.Define.Mode = config.ModeProduction
	}

	for _, ep := range buildCfg.EntryPoints {
		if _, err := os.Stat(ep); err != nil {
			explainIssue(os.Stderr, issue.EntryPointNotFoundId)
			return &ExitError{Code: 1, Err: issue.NewErrorContext().
				WithOperation("run build").
				WithResource(ep).
				WithSuggestion("Check entry_points in dirimport.cue").
				Wrap(err).
				BuildError()}
		}
	}

	if !watchMode {
		if ok := runBuild(&buildCfg); !ok {
			// runBuild already printed the diagnostics and the failure
			// summary; only the exit code remains to signal.
			return &ExitError{Code: 1}
		}
		return nil
	}

	return runWatchMode(cmd.Context(), &buildCfg)
}

// runBuild performs a single esbuild pass and renders its diagnostics.
// It reports whether the build succeeded.
func runBuild(buildCfg *config.Config) bool {
	start := time.Now()

	bannerMap, err := banner.Build(buildCfg.Banner, time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, verbose))
		return false
	}

	opts := api.BuildOptions{
		EntryPoints: buildCfg.EntryPoints,
		Outdir:      buildCfg.Outdir,
		Bundle:      true,
		Write:       true,
		Banner:      bannerMap,
		Define:      define.Build(buildCfg.Define, os.Environ()),
		LogLevel:    api.LogLevelSilent,
		Plugins: []api.Plugin{plugin.New(plugin.Options{
			Extensions: buildCfg.Imports.Extensions,
			IndexName:  buildCfg.Imports.IndexName,
			MaxDepth:   buildCfg.Imports.MaxDepth,
		})},
	}
	if buildCfg.Minify {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	}
	if buildCfg.Sourcemap {
		opts.Sourcemap = api.SourceMapLinked
	}

	log.Debug("starting build",
		"entryPoints", buildCfg.EntryPoints,
		"outdir", buildCfg.Outdir,
		"mode", buildCfg.Define.Mode)

	result := api.Build(opts)

	printMessages(result.Warnings, api.WarningMessage)
	if len(result.Errors) > 0 {
		printMessages(result.Errors, api.ErrorMessage)
		explainIssue(os.Stderr, buildFailureIssue(result.Errors))
		fmt.Fprintf(os.Stderr, "%s build failed with %d error(s)\n",
			ErrorStyle.Render("✗"), len(result.Errors))
		return false
	}

	fmt.Fprintf(os.Stdout, "%s built %d entry point(s) to %s in %s\n",
		SuccessStyle.Render("✓"),
		len(buildCfg.EntryPoints),
		PathStyle.Render(buildCfg.Outdir),
		time.Since(start).Round(time.Millisecond))
	return true
}

// printMessages renders esbuild diagnostics with terminal colors, keeping
// the file/line attribution esbuild computed.
func printMessages(msgs []api.Message, kind api.MessageKind) {
	formatted := api.FormatMessages(msgs, api.FormatMessagesOptions{
		Kind:  kind,
		Color: true,
	})
	for _, text := range formatted {
		fmt.Fprint(os.Stderr, text)
	}
}

// runWatchMode builds once immediately, then rebuilds on every relevant
// file change until the context is cancelled (Ctrl+C).
func runWatchMode(ctx context.Context, buildCfg *config.Config) error {
	fmt.Fprintf(os.Stdout, "%s Watch mode: initial build\n", PathStyle.Render("→"))
	runBuild(buildCfg)
	fmt.Fprintf(os.Stdout, "\n%s Watching for changes (Ctrl+C to stop)...\n\n", PathStyle.Render("→"))

	var debounce time.Duration
	if buildCfg.Watch.Debounce != "" {
		d, err := time.ParseDuration(buildCfg.Watch.Debounce)
		if err != nil {
			return fmt.Errorf("invalid watch debounce %q: %w", buildCfg.Watch.Debounce, err)
		}
		debounce = d
	}

	// The output directory must never retrigger its own build.
	ignore := append([]string{buildCfg.Outdir + "/**"}, buildCfg.Watch.Ignore...)

	w, err := watch.New(watch.Config{
		Patterns:    buildCfg.Watch.Patterns,
		Ignore:      ignore,
		Debounce:    debounce,
		ClearScreen: buildCfg.Watch.ClearScreen,
		OnRebuild: func(ctx context.Context, changed []string) error {
			fmt.Fprintf(os.Stdout, "%s Detected %d change(s), rebuilding...\n",
				PathStyle.Render("→"), len(changed))
			runBuild(buildCfg)
			fmt.Fprintf(os.Stdout, "\n%s Watching for changes...\n\n", PathStyle.Render("→"))
			return nil
		},
	})
	if err != nil {
		explainIssue(os.Stderr, issue.WatcherStartFailedId)
		return issue.WrapWithOperation(err, "start file watcher")
	}
	return w.Run(ctx)
}

// buildFailureIssue picks the guidance page for a failed build: when any
// diagnostic came from the directory-import plugin the specific page wins
// over the generic one.
func buildFailureIssue(errs []api.Message) issue.Id {
	for _, msg := range errs {
		if msg.PluginName == plugin.Name {
			return issue.InvalidImportTargetId
		}
	}
	return issue.BuildFailedId
}

// explainIssue renders the guidance page for id to w when verbose mode is
// on. Rendering failures are ignored; guidance is best-effort.
func explainIssue(w io.Writer, id issue.Id) {
	if !verbose {
		return
	}
	if is := issue.Get(id); is != nil {
		if page, err := is.Render("dark"); err == nil {
			fmt.Fprintln(w, page)
		}
	}
}
