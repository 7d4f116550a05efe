// SPDX-License-Identifier: MPL-2.0

package dirspec

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		specifier string
		want      Request
		wantOk    bool
	}{
		{
			name:      "shallow import",
			specifier: "./components/*",
			want:      Request{Dir: "./components"},
			wantOk:    true,
		},
		{
			name:      "recursive import",
			specifier: "./components/**",
			want:      Request{Dir: "./components", Recursive: true},
			wantOk:    true,
		},
		{
			name:      "shallow with single extension",
			specifier: "./icons/*{.svg}",
			want:      Request{Dir: "./icons", Extensions: []string{".svg"}},
			wantOk:    true,
		},
		{
			name:      "recursive with multiple extensions",
			specifier: "./assets/**{.svg|.png|.gif}",
			want:      Request{Dir: "./assets", Recursive: true, Extensions: []string{".svg", ".png", ".gif"}},
			wantOk:    true,
		},
		{
			name:      "parent-relative path",
			specifier: "../shared/*",
			want:      Request{Dir: "../shared"},
			wantOk:    true,
		},
		{
			name:      "multi-segment path",
			specifier: "./src/features/auth/**",
			want:      Request{Dir: "./src/features/auth", Recursive: true},
			wantOk:    true,
		},
		{
			name:      "absolute path",
			specifier: "/opt/app/modules/*",
			want:      Request{Dir: "/opt/app/modules"},
			wantOk:    true,
		},
		{
			name:      "plain module specifier does not match",
			specifier: "./components/button",
			wantOk:    false,
		},
		{
			name:      "bare package name does not match",
			specifier: "lodash",
			wantOk:    false,
		},
		{
			name:      "bare marker without path does not match",
			specifier: "/*",
			wantOk:    false,
		},
		{
			name:      "bare recursive marker without path does not match",
			specifier: "/**",
			wantOk:    false,
		},
		{
			name:      "empty brace clause does not match",
			specifier: "./icons/*{}",
			wantOk:    false,
		},
		{
			name:      "extension without dot does not match",
			specifier: "./icons/*{svg}",
			wantOk:    false,
		},
		{
			name:      "trailing text after marker does not match",
			specifier: "./icons/*foo",
			wantOk:    false,
		},
		{
			name:      "marker in the middle does not match",
			specifier: "./icons/*/deep",
			wantOk:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.specifier)
			if ok != tt.wantOk {
				t.Fatalf("Parse(%q) ok = %v, want %v", tt.specifier, ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.specifier, got, tt.want)
			}
		})
	}
}

func TestParseNoBraceClauseLeavesExtensionsNil(t *testing.T) {
	req, ok := Parse("./components/*")
	if !ok {
		t.Fatal("expected specifier to parse")
	}
	if req.Extensions != nil {
		t.Errorf("Extensions = %v, want nil so the caller default applies", req.Extensions)
	}
}

func TestResolve(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(tmpDir, "src", "components"), 0o755); err != nil {
		t.Fatalf("failed to create test directories: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "src", "notdir.ts"), []byte("export {};\n"), 0o644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	t.Run("existing directory resolves", func(t *testing.T) {
		req, _ := Parse("./components/*")
		abs, err := req.Resolve(filepath.Join(tmpDir, "src"), "./components/*")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		want := filepath.Join(tmpDir, "src", "components")
		if abs != want {
			t.Errorf("Resolve() = %q, want %q", abs, want)
		}
	})

	t.Run("parent-relative path resolves against resolve dir", func(t *testing.T) {
		req, _ := Parse("../src/*")
		abs, err := req.Resolve(filepath.Join(tmpDir, "src", "components"), "../src/*")
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		want := filepath.Join(tmpDir, "src")
		if abs != want {
			t.Errorf("Resolve() = %q, want %q", abs, want)
		}
	})

	t.Run("nonexistent target", func(t *testing.T) {
		req, _ := Parse("./missing/*")
		_, err := req.Resolve(filepath.Join(tmpDir, "src"), "./missing/*")
		if err == nil {
			t.Fatal("expected error for nonexistent target")
		}
		if !errors.Is(err, ErrInvalidTarget) {
			t.Errorf("errors.Is(err, ErrInvalidTarget) = false, err = %v", err)
		}

		var ite *InvalidTargetError
		if !errors.As(err, &ite) {
			t.Fatalf("error is %T, want *InvalidTargetError", err)
		}
		if ite.Specifier != "./missing/*" {
			t.Errorf("Specifier = %q, want %q", ite.Specifier, "./missing/*")
		}
		if ite.Reason != "does not exist" {
			t.Errorf("Reason = %q, want %q", ite.Reason, "does not exist")
		}
	})

	t.Run("target is a file", func(t *testing.T) {
		req, _ := Parse("./notdir.ts/*")
		_, err := req.Resolve(filepath.Join(tmpDir, "src"), "./notdir.ts/*")
		if !errors.Is(err, ErrInvalidTarget) {
			t.Fatalf("errors.Is(err, ErrInvalidTarget) = false, err = %v", err)
		}

		var ite *InvalidTargetError
		if !errors.As(err, &ite) {
			t.Fatalf("error is %T, want *InvalidTargetError", err)
		}
		if ite.Reason != "is not a directory" {
			t.Errorf("Reason = %q, want %q", ite.Reason, "is not a directory")
		}
	})
}
