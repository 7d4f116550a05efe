// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"fmt"
	"strings"
)

// Synthesize renders the virtual module body: one side-effecting import per
// discovered entry, in scan order, each referencing the entry's
// root-relative path with a leading "./". An empty result yields an empty
// body, which is a valid module.
func (r *Result) Synthesize() string {
	var sb strings.Builder
	for _, e := range r.Entries {
		fmt.Fprintf(&sb, "import %q;\n", "./"+e.RelPath)
	}
	return sb.String()
}

// WatchFiles returns the absolute paths of every selected file. Together
// with Dirs these form the watch list: the host rebuilds when any of them
// changes, including the "directory is now non-empty" case the generated
// module's own dependency list would miss.
func (r *Result) WatchFiles() []string {
	files := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		files[i] = e.AbsPath
	}
	return files
}
