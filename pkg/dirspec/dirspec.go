// SPDX-License-Identifier: MPL-2.0

// Package dirspec parses directory-import specifiers.
//
// A directory import is an import specifier whose tail requests every file in
// a directory instead of a single module:
//
//	./components/*              all matching files directly in components/
//	./components/**             all matching files, descending into subdirectories
//	./icons/*{.svg|.png}        shallow, with an explicit extension whitelist
//
// Specifiers that do not match the grammar are not an error; they belong to
// the host bundler's normal resolution pipeline and are passed through
// untouched.
package dirspec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// specifierRE recognizes the directory-import grammar at the end of a
// specifier. Capture groups:
//
//	1: the directory path prefix (everything before the marker)
//	2: the second '*' of the recursive marker, empty for shallow imports
//	3: the brace clause body, a '|'-separated list of dot-prefixed extensions
//
// The recursive marker is consumed before the optional brace clause, so
// "./a/**{.ts}" parses as recursive-with-filter rather than a path named
// "./a/*" followed by garbage.
var specifierRE = regexp.MustCompile(`^(.*)/\*(\*)?(?:\{(\.[^{}|]+(?:\|\.[^{}|]+)*)\})?$`)

// ErrInvalidTarget is the sentinel error wrapped by InvalidTargetError.
var ErrInvalidTarget = errors.New("invalid directory import target")

type (
	// Request is a parsed directory-import specifier.
	Request struct {
		// Dir is the directory path as written in the specifier, before
		// resolution against the importing file's directory.
		Dir string
		// Recursive reports whether subdirectories are descended into.
		Recursive bool
		// Extensions is the explicit extension whitelist from the brace
		// clause, each including the leading dot. nil when the specifier has
		// no brace clause; callers then apply their default filter. A
		// non-nil list replaces the default entirely.
		Extensions []string
	}

	// InvalidTargetError is returned when a directory-import path resolves to
	// something that does not exist or is not a directory. It wraps
	// ErrInvalidTarget for errors.Is() compatibility.
	InvalidTargetError struct {
		// Specifier is the original import specifier.
		Specifier string
		// Path is the resolved absolute path that failed validation.
		Path string
		// Reason describes the failure ("does not exist", "is not a directory").
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("directory import %q: %s %s", e.Specifier, e.Path, e.Reason)
}

// Unwrap returns ErrInvalidTarget so callers can match with errors.Is.
func (e *InvalidTargetError) Unwrap() error {
	return ErrInvalidTarget
}

// Parse reports whether specifier denotes a directory import, and if so
// returns the parsed request. Non-matching specifiers return ok == false and
// must be left to normal resolution.
func Parse(specifier string) (req Request, ok bool) {
	m := specifierRE.FindStringSubmatch(specifier)
	if m == nil {
		return Request{}, false
	}

	// A bare "/*" with no path prefix is not a directory import.
	if m[1] == "" {
		return Request{}, false
	}

	req = Request{
		Dir:       m[1],
		Recursive: m[2] == "*",
	}
	if m[3] != "" {
		req.Extensions = strings.Split(m[3], "|")
	}
	return req, true
}

// Resolve turns the request's directory into an absolute filesystem path,
// resolving relative paths against resolveDir (the importing file's
// directory). It verifies the path exists and is a directory; otherwise it
// returns an *InvalidTargetError and no scan must take place.
//
// The specifier argument is the original import text, carried for error
// messages only.
func (r Request) Resolve(resolveDir, specifier string) (string, error) {
	dir := filepath.FromSlash(r.Dir)
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(resolveDir, dir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve directory import %q: %w", specifier, err)
	}

	info, err := os.Stat(abs)
	if os.IsNotExist(err) {
		return "", &InvalidTargetError{Specifier: specifier, Path: abs, Reason: "does not exist"}
	}
	if err != nil {
		return "", fmt.Errorf("stat directory import target %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", &InvalidTargetError{Specifier: specifier, Path: abs, Reason: "is not a directory"}
	}

	return abs, nil
}
