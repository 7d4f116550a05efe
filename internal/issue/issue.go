// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	EntryPointNotFoundId
	InvalidImportTargetId
	BuildFailedId
	WatcherStartFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to look up the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // documentation links shown under "See also"
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 {
		extraMd += "\n\n## See also:\n"
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]\n"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the dirimport configuration file.

## Configuration file locations (in order of precedence):
1. ` + "`./dirimport.cue`" + ` in the current directory
2. Linux: ~/.config/dirimport/dirimport.cue
3. macOS: ~/Library/Application Support/dirimport/dirimport.cue
4. Windows: %APPDATA%\dirimport\dirimport.cue

## Things you can try:
- Create a default configuration:
~~~
$ dirimport config init
~~~

- Check the CUE syntax of your config file
- Remove the config file to use defaults

## Example configuration:
~~~cue
entry_points: ["src/main.ts"]
outdir: "dist"

imports: {
	extensions: [".js", ".ts"]
	index_name: "index.ts"
}

define: {
	mode: "production"
	env_prefix: "APP_"
}
~~~`,
	}

	entryPointNotFoundIssue = &Issue{
		id: EntryPointNotFoundId,
		mdMsg: `
# Entry point not found!

One of the configured entry points does not exist on disk.

## Things you can try:
- Check ` + "`entry_points`" + ` in your dirimport.cue for typos
- Verify the file exists:
~~~
$ ls src/main.ts
~~~

- Pass an explicit entry point:
~~~
$ dirimport build src/app.ts
~~~`,
	}

	invalidImportTargetIssue = &Issue{
		id: InvalidImportTargetId,
		mdMsg: `
# Invalid directory import target!

A directory import (a specifier ending in ` + "`/*`" + ` or ` + "`/**`" + `)
points at a path that does not exist or is not a directory.

## Directory import syntax:
~~~
import "./components/*"            // immediate children only
import "./components/**"           // recursive
import "./icons/*{.svg|.png}"      // explicit extension filter
~~~

## Things you can try:
- Check the specifier path for typos; it resolves relative to the
  importing file's directory
- Make sure the target is a directory, not a file
- Remember that without a brace clause only ` + "`.js`" + ` and ` + "`.ts`" + `
  files are picked up`,
	}

	buildFailedIssue = &Issue{
		id: BuildFailedId,
		mdMsg: `
# Build failed!

esbuild reported errors while bundling.

## Things you can try:
- Read the error messages above: each carries the file and location that
  caused it
- Run with verbose mode for more details:
~~~
$ dirimport --verbose build
~~~

- Check that all imported files exist and parse`,
	}

	watcherStartFailedIssue = &Issue{
		id: WatcherStartFailedId,
		mdMsg: `
# Could not start the file watcher!

Watch mode needs filesystem notifications for the whole project tree.

## Common causes:
- The inotify watch limit is exhausted (Linux):
~~~
$ sudo sysctl fs.inotify.max_user_watches=524288
~~~

- A watch or ignore pattern is not a valid glob
- The project tree contains directories you cannot read

## Things you can try:
- Narrow the watch with ` + "`watch.patterns`" + ` in dirimport.cue
- Add noisy directories to ` + "`watch.ignore`" + ``,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		entryPointNotFoundIssue.Id():  entryPointNotFoundIssue,
		invalidImportTargetIssue.Id(): invalidImportTargetIssue,
		buildFailedIssue.Id():         buildFailedIssue,
		watcherStartFailedIssue.Id():  watcherStartFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
