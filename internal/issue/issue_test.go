// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	for _, id := range []Id{
		ConfigLoadFailedId,
		EntryPointNotFoundId,
		InvalidImportTargetId,
		BuildFailedId,
		WatcherStartFailedId,
	} {
		is := Get(id)
		if is == nil {
			t.Errorf("Get(%d) = nil", id)
			continue
		}
		if is.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, is.Id())
		}
		if is.MarkdownMsg() == "" {
			t.Errorf("issue %d has no message", id)
		}
	}
}

func TestGetUnknownId(t *testing.T) {
	if is := Get(Id(9999)); is != nil {
		t.Errorf("Get(9999) = %v, want nil", is)
	}
}

func TestValuesCoversCatalog(t *testing.T) {
	if got := len(Values()); got != 5 {
		t.Errorf("len(Values()) = %d, want 5", got)
	}
}

func TestRender(t *testing.T) {
	// Swap the glamour renderer for a passthrough so the test asserts on
	// composition, not terminal styling.
	original := render
	render = func(in string, stylePath string) (string, error) {
		return in, nil
	}
	defer func() { render = original }()

	is := Get(InvalidImportTargetId)
	out, err := is.Render("dark")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, "Invalid directory import target") {
		t.Errorf("Render() = %q, missing issue body", out)
	}
}
