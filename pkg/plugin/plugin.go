// SPDX-License-Identifier: MPL-2.0

// Package plugin adapts the directory-import core to esbuild's plugin API.
//
// The hooks themselves contain no traversal logic: OnResolve delegates to
// dirspec for grammar parsing and target validation, OnLoad delegates to
// scan for enumeration and module synthesis. This keeps the hard logic
// bundler-agnostic and unit-testable without a running bundler.
package plugin

import (
	"github.com/evanw/esbuild/pkg/api"

	"dirimport/internal/scan"
	"dirimport/pkg/dirspec"
)

const (
	// Name is the plugin name reported to esbuild.
	Name = "import-folder"

	// Namespace marks modules resolved by this plugin so the load hook
	// receives them instead of esbuild's default file loader.
	Namespace = "import-folder"
)

// resolveFilter pre-selects specifiers that could be directory imports. The
// definitive check is dirspec.Parse; the filter only keeps obvious
// non-matches out of the callback.
const resolveFilter = `/\*\*?(\{[^{}]*\})?$`

type (
	// Options configures the plugin. The zero value uses the scan package
	// defaults ({.js,.ts} filter, index.ts short-circuit, depth bound 200).
	Options struct {
		// Extensions is the default extension filter, applied when a
		// specifier has no brace clause. A brace clause replaces this list
		// entirely.
		Extensions []string
		// IndexName is the file name that short-circuits a subtree.
		IndexName string
		// MaxDepth bounds recursive descent.
		MaxDepth int
	}

	// resolveData is the pluginData handed from the resolve hook to the
	// load hook.
	resolveData struct {
		specifier  string
		importer   string
		recursive  bool
		extensions []string
	}
)

// New builds the directory-import plugin.
func New(opts Options) api.Plugin {
	return api.Plugin{
		Name: Name,
		Setup: func(build api.PluginBuild) {
			build.OnResolve(
				api.OnResolveOptions{Filter: resolveFilter, Namespace: "file"},
				func(args api.OnResolveArgs) (api.OnResolveResult, error) {
					return resolve(args)
				},
			)
			build.OnLoad(
				api.OnLoadOptions{Filter: `.*`, Namespace: Namespace},
				func(args api.OnLoadArgs) (api.OnLoadResult, error) {
					return load(args, opts)
				},
			)
		},
	}
}

// resolve recognizes directory-import specifiers and validates their target.
// Unrecognized specifiers return an empty result so esbuild's normal
// resolution pipeline takes over. An invalid target is a build-halting
// diagnostic attributed to the importing file.
func resolve(args api.OnResolveArgs) (api.OnResolveResult, error) {
	req, ok := dirspec.Parse(args.Path)
	if !ok {
		return api.OnResolveResult{}, nil
	}

	dir, err := req.Resolve(args.ResolveDir, args.Path)
	if err != nil {
		return api.OnResolveResult{
			Errors: []api.Message{{
				PluginName: Name,
				Text:       err.Error(),
				Location:   &api.Location{File: args.Importer},
			}},
		}, nil
	}

	return api.OnResolveResult{
		Path:      dir,
		Namespace: Namespace,
		PluginData: resolveData{
			specifier:  args.Path,
			importer:   args.Importer,
			recursive:  req.Recursive,
			extensions: req.Extensions,
		},
	}, nil
}

// load scans the resolved directory and synthesizes the virtual module.
// Every load re-walks the filesystem; nothing is cached across builds.
func load(args api.OnLoadArgs, opts Options) (api.OnLoadResult, error) {
	data, _ := args.PluginData.(resolveData)

	scanOpts := scan.Options{
		Extensions: opts.Extensions,
		IndexName:  opts.IndexName,
		MaxDepth:   opts.MaxDepth,
	}
	// A brace clause on the specifier overrides the plugin-wide default.
	if data.extensions != nil {
		scanOpts.Extensions = data.extensions
	}

	res, err := scan.Scan(args.Path, data.recursive, scanOpts)
	if err != nil {
		return api.OnLoadResult{
			Errors: []api.Message{{
				PluginName: Name,
				Text:       err.Error(),
				Location:   &api.Location{File: data.importer},
			}},
		}, nil
	}

	contents := res.Synthesize()
	return api.OnLoadResult{
		Contents:   &contents,
		Loader:     api.LoaderJS,
		ResolveDir: args.Path,
		WatchFiles: res.WatchFiles(),
		WatchDirs:  res.Dirs,
	}, nil
}
