// SPDX-License-Identifier: MPL-2.0

// Package scan enumerates the files of a directory import and synthesizes
// the virtual module that re-exports them.
//
// Traversal is depth-first, one directory at a time, in the filesystem's
// native listing order; no sorting or deduplication is performed. A
// directory containing the index file is represented solely by that file,
// ignoring siblings and subdirectories. Results are never cached: every
// resolution re-walks the filesystem so the generated module always
// reflects current on-disk state.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

// Scan enumerates the files under root according to opts. root must already
// be validated as an existing directory (see dirspec.Request.Resolve); a
// listing failure during traversal is propagated unmodified, never silently
// treated as "no files found". An empty match set is not an error.
//
// When recursive is false only root's direct children are considered, but
// the index short-circuit at root still applies.
func Scan(root string, recursive bool, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root %q: %w", root, err)
	}

	res := &Result{}
	if err := scanDir(absRoot, absRoot, 0, recursive, opts, res); err != nil {
		return nil, err
	}
	return res, nil
}

// scanDir visits a single directory at the given depth, appending to res.
func scanDir(root, dir string, depth int, recursive bool, opts Options, res *Result) error {
	res.Dirs = append(res.Dirs, dir)

	// Index short-circuit: the index file is the sole result for the entire
	// subtree rooted here, regardless of siblings and subdirectories. This
	// lets a subdirectory present a single public surface.
	indexPath := filepath.Join(dir, opts.IndexName)
	if info, err := os.Stat(indexPath); err == nil && !info.IsDir() {
		rel, relErr := filepath.Rel(root, indexPath)
		if relErr != nil {
			return fmt.Errorf("relativize %s against %s: %w", indexPath, root, relErr)
		}
		res.Entries = append(res.Entries, newEntry(indexPath, rel))
		return nil
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("list directory %s: %w", dir, err)
	}

	for _, child := range children {
		path := filepath.Join(dir, child.Name())

		if child.IsDir() {
			// Skipped subdirectories (recursion disabled or depth bound
			// exceeded) are silently excluded, not an error.
			if !recursive || depth >= opts.MaxDepth {
				continue
			}
			if err := scanDir(root, path, depth+1, recursive, opts, res); err != nil {
				return err
			}
			continue
		}

		if !slices.Contains(opts.Extensions, filepath.Ext(child.Name())) {
			continue
		}

		// RelPath is computed against the original scan root, not the
		// immediate parent, so nested files carry multi-segment paths.
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return fmt.Errorf("relativize %s against %s: %w", path, root, relErr)
		}
		res.Entries = append(res.Entries, newEntry(path, rel))
	}

	return nil
}
