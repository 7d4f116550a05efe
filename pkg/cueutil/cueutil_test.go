// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"errors"
	"strings"
	"testing"

	"cuelang.org/go/cue/cuecontext"
)

func TestCheckFileSize(t *testing.T) {
	data := []byte("0123456789")

	if err := CheckFileSize(data, 10, "ok.cue"); err != nil {
		t.Errorf("CheckFileSize at limit = %v, want nil", err)
	}
	if err := CheckFileSize(data, 9, "big.cue"); err == nil {
		t.Error("CheckFileSize over limit = nil, want error")
	} else if !strings.Contains(err.Error(), "big.cue") {
		t.Errorf("error %q missing file name", err)
	}
}

func TestFormatError(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		if got := FormatError(nil, "x.cue"); got != nil {
			t.Errorf("FormatError(nil) = %v, want nil", got)
		}
	})

	t.Run("non-CUE error keeps file prefix", func(t *testing.T) {
		got := FormatError(errors.New("boom"), "x.cue")
		if got == nil || !strings.Contains(got.Error(), "x.cue") {
			t.Errorf("FormatError() = %v, want file prefix", got)
		}
	})

	t.Run("CUE conflict carries path context", func(t *testing.T) {
		ctx := cuecontext.New()
		v := ctx.CompileString(`a: b: int
a: b: "nope"`)
		err := v.Validate()
		if err == nil {
			t.Fatal("expected CUE validation error")
		}

		got := FormatError(err, "conf.cue")
		if got == nil {
			t.Fatal("FormatError() = nil")
		}
		if !strings.Contains(got.Error(), "conf.cue") {
			t.Errorf("FormatError() = %q, missing file name", got)
		}
	})
}

func TestFormatPath(t *testing.T) {
	tests := []struct {
		name string
		path []string
		want string
	}{
		{"empty", nil, ""},
		{"single field", []string{"outdir"}, "outdir"},
		{"nested fields", []string{"imports", "max_depth"}, "imports.max_depth"},
		{"array index", []string{"entry_points", "0"}, "entry_points[0]"},
		{"index then field", []string{"a", "1", "b"}, "a[1].b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
