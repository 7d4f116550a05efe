// SPDX-License-Identifier: MPL-2.0

package scan

import "path/filepath"

const (
	// DefaultIndexName is the file name that short-circuits a subtree: a
	// directory containing it is represented solely by that file.
	DefaultIndexName = "index.ts"

	// DefaultMaxDepth bounds recursive descent. Directory trees are acyclic
	// in the traversal sense, so in practice this only guards against
	// symlinked directory cycles.
	DefaultMaxDepth = 200
)

// DefaultExtensions is the extension filter applied when a specifier carries
// no brace clause.
var DefaultExtensions = []string{".js", ".ts"}

type (
	// Entry is one file discovered by a scan.
	Entry struct {
		// Name is the file name including extension.
		Name string
		// Ext is the file's extension including the leading dot, or empty.
		Ext string
		// AbsPath is the fully resolved filesystem path.
		AbsPath string
		// ParentAbsPath is the absolute path of the containing directory.
		ParentAbsPath string
		// RelPath is the path relative to the scan root. It always uses
		// forward slashes regardless of the host platform, so generated
		// import specifiers are portable.
		RelPath string
	}

	// Options configures a scan. The zero value is usable: each field falls
	// back to its package default. Configuration is passed explicitly rather
	// than read from ambient state so the scanner stays pure and testable.
	Options struct {
		// Extensions is the set of allowed file extensions, each including
		// the leading dot. nil means DefaultExtensions.
		Extensions []string
		// IndexName is the file name that triggers the index short-circuit.
		// Empty means DefaultIndexName.
		IndexName string
		// MaxDepth bounds recursive descent; subdirectories beyond it are
		// silently skipped. Zero means DefaultMaxDepth.
		MaxDepth int
	}

	// Result is the outcome of one scan: the discovered entries in traversal
	// order plus every directory actually visited. Visited directories must
	// be watched even though they are not themselves imported, so that
	// adding or removing files triggers a rescan.
	Result struct {
		Entries []Entry
		Dirs    []string
	}
)

// withDefaults fills unset fields with package defaults.
func (o Options) withDefaults() Options {
	if o.Extensions == nil {
		o.Extensions = DefaultExtensions
	}
	if o.IndexName == "" {
		o.IndexName = DefaultIndexName
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	return o
}

// newEntry builds an Entry from an absolute path and its path relative to
// the scan root (in host separators).
func newEntry(abs, rel string) Entry {
	name := filepath.Base(abs)
	return Entry{
		Name:          name,
		Ext:           filepath.Ext(name),
		AbsPath:       abs,
		ParentAbsPath: filepath.Dir(abs),
		RelPath:       filepath.ToSlash(rel),
	}
}
