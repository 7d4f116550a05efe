// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"path/filepath"
	"sort"
	"testing"

	"dirimport/internal/testutil"
)

// writeTree creates the given relative file paths under root with trivial
// contents, creating parent directories as needed.
func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		abs := filepath.Join(root, filepath.FromSlash(p))
		testutil.MustWriteFile(t, abs, "export {};\n")
	}
}

// relPaths extracts the RelPath of every entry, sorted for comparison since
// the filesystem's native listing order is not guaranteed across platforms.
func relPaths(res *Result) []string {
	out := make([]string, len(res.Entries))
	for i, e := range res.Entries {
		out[i] = e.RelPath
	}
	sort.Strings(out)
	return out
}

func assertRelPaths(t *testing.T, res *Result, want ...string) {
	t.Helper()
	got := relPaths(res)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("entries = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("entries = %v, want %v", got, want)
		}
	}
}

func TestScanShallow(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a.ts",
		"b.js",
		"notes.md",
		"sub/c.ts",
	)

	res, err := Scan(root, false, Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	// Only direct children pass; sub/c.ts needs a recursive scan and
	// notes.md fails the default extension filter.
	assertRelPaths(t, res, "a.ts", "b.js")

	for _, e := range res.Entries {
		if filepath.ToSlash(e.RelPath) != e.RelPath {
			t.Errorf("RelPath %q contains host separators", e.RelPath)
		}
	}
}

func TestScanRecursive(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a.ts",
		"sub/b.ts",
		"sub/deep/c.js",
		"sub/deep/skip.css",
	)

	res, err := Scan(root, true, Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	assertRelPaths(t, res, "a.ts", "sub/b.ts", "sub/deep/c.js")
}

func TestScanIndexShortCircuitAtRoot(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"index.ts",
		"a.ts",
		"sub/b.ts",
	)

	for _, recursive := range []bool{false, true} {
		res, err := Scan(root, recursive, Options{})
		if err != nil {
			t.Fatalf("Scan(recursive=%v) error = %v", recursive, err)
		}
		// The index file is the sole result for the whole subtree.
		assertRelPaths(t, res, "index.ts")
		if len(res.Dirs) != 1 || res.Dirs[0] != root {
			t.Errorf("Dirs = %v, want just the root", res.Dirs)
		}
	}
}

func TestScanIndexShortCircuitInSubdirectory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a.ts",
		"widget/index.ts",
		"widget/internal.ts",
		"widget/parts/helper.ts",
	)

	res, err := Scan(root, true, Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	// widget/ collapses to its index; internal.ts and parts/ are hidden.
	assertRelPaths(t, res, "a.ts", "widget/index.ts")
}

func TestScanExtensionOverride(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a.svg",
		"b.ts",
		"sub/c.svg",
	)

	res, err := Scan(root, true, Options{Extensions: []string{".svg"}})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	// An explicit filter replaces the default entirely: b.ts is excluded
	// even though .ts is in the default set.
	assertRelPaths(t, res, "a.svg", "sub/c.svg")
}

func TestScanCustomIndexName(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"index.ts",
		"mod.ts",
		"other.ts",
	)

	res, err := Scan(root, false, Options{IndexName: "mod.ts"})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	// With a custom index name, index.ts is an ordinary entry.
	assertRelPaths(t, res, "mod.ts")
}

func TestScanEmptyMatchIsNotAnError(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "readme.md")

	res, err := Scan(root, true, Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(res.Entries) != 0 {
		t.Errorf("Entries = %v, want none", res.Entries)
	}
	if len(res.Dirs) != 1 {
		t.Errorf("Dirs = %v, want just the root", res.Dirs)
	}
}

func TestScanMissingRootFails(t *testing.T) {
	root := filepath.Join(t.TempDir(), "missing")

	if _, err := Scan(root, false, Options{}); err == nil {
		t.Fatal("expected listing error for missing root")
	}
}

func TestScanDepthBound(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a.ts",
		"l1/b.ts",
		"l1/l2/c.ts",
		"l1/l2/l3/d.ts",
	)

	res, err := Scan(root, true, Options{MaxDepth: 2})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	// l3 sits at depth 3 and is silently skipped.
	assertRelPaths(t, res, "a.ts", "l1/b.ts", "l1/l2/c.ts")
}

func TestScanRecordsVisitedDirs(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"a.ts",
		"sub/b.ts",
		"empty/.keep",
	)

	res, err := Scan(root, true, Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	got := append([]string(nil), res.Dirs...)
	sort.Strings(got)
	want := []string{root, filepath.Join(root, "empty"), filepath.Join(root, "sub")}
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("Dirs = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("Dirs = %v, want %v", got, want)
		}
	}
}

func TestScanEntryFields(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "sub/c.ts")

	res, err := Scan(root, true, Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("Entries = %v, want exactly one", res.Entries)
	}

	e := res.Entries[0]
	if e.Name != "c.ts" {
		t.Errorf("Name = %q, want %q", e.Name, "c.ts")
	}
	if e.Ext != ".ts" {
		t.Errorf("Ext = %q, want %q", e.Ext, ".ts")
	}
	if want := filepath.Join(root, "sub", "c.ts"); e.AbsPath != want {
		t.Errorf("AbsPath = %q, want %q", e.AbsPath, want)
	}
	if want := filepath.Join(root, "sub"); e.ParentAbsPath != want {
		t.Errorf("ParentAbsPath = %q, want %q", e.ParentAbsPath, want)
	}
	if e.RelPath != "sub/c.ts" {
		t.Errorf("RelPath = %q, want %q", e.RelPath, "sub/c.ts")
	}
}
