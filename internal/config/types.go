// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ModeDevelopment injects process.env.NODE_ENV = "development".
	ModeDevelopment Mode = "development"
	// ModeProduction injects process.env.NODE_ENV = "production".
	ModeProduction Mode = "production"
)

var (
	// ErrInvalidMode is returned when a Mode value is not recognized.
	ErrInvalidMode = errors.New("invalid build mode")
	// ErrInvalidExtension is the sentinel error wrapped by InvalidExtensionError.
	ErrInvalidExtension = errors.New("invalid extension")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// Mode selects the value injected as process.env.NODE_ENV.
	Mode string

	// InvalidModeError is returned when a Mode value is not recognized.
	// It wraps ErrInvalidMode for errors.Is() compatibility.
	InvalidModeError struct {
		Value Mode
	}

	// InvalidExtensionError is returned when an extension filter entry does
	// not start with a dot. It wraps ErrInvalidExtension.
	InvalidExtensionError struct {
		Field string
		Value string
	}

	// InvalidConfigError wraps any field-level validation failure with the
	// offending field name. It wraps ErrInvalidConfig.
	InvalidConfigError struct {
		Field string
		Cause error
	}

	// ImportsConfig configures directory-import resolution.
	ImportsConfig struct {
		// Extensions is the default extension filter for specifiers without
		// a brace clause.
		Extensions []string `mapstructure:"extensions"`
		// IndexName is the file name that short-circuits a subtree.
		IndexName string `mapstructure:"index_name"`
		// MaxDepth bounds recursive descent.
		MaxDepth int `mapstructure:"max_depth"`
	}

	// BannerConfig configures the comment prepended to every output file.
	BannerConfig struct {
		// Text is a literal banner line; "{year}" is replaced with the
		// current year.
		Text string `mapstructure:"text"`
		// File is a path to a license file whose contents become the banner.
		// Takes precedence over Text when both are set.
		File string `mapstructure:"file"`
	}

	// DefineConfig configures compile-time constant injection.
	DefineConfig struct {
		// EnvPrefix selects which environment variables are injected: every
		// PREFIX_NAME=value becomes process.env.NAME. Empty disables
		// environment injection.
		EnvPrefix string `mapstructure:"env_prefix"`
		// Mode is injected as process.env.NODE_ENV.
		Mode Mode `mapstructure:"mode"`
	}

	// WatchConfig configures watch-mode rebuilds.
	WatchConfig struct {
		// Patterns are doublestar globs selecting files that trigger a
		// rebuild. Empty watches all non-ignored files.
		Patterns []string `mapstructure:"patterns"`
		// Ignore are additional globs that never trigger a rebuild.
		Ignore []string `mapstructure:"ignore"`
		// Debounce is the quiet period before a rebuild, as a Go duration
		// string. Empty uses the watcher default.
		Debounce string `mapstructure:"debounce"`
		// ClearScreen clears the terminal before each rebuild.
		ClearScreen bool `mapstructure:"clear_screen"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// Verbose enables debug logging.
		Verbose bool `mapstructure:"verbose"`
	}

	// Config is the full tool configuration.
	Config struct {
		EntryPoints []string      `mapstructure:"entry_points"`
		Outdir      string        `mapstructure:"outdir"`
		Minify      bool          `mapstructure:"minify"`
		Sourcemap   bool          `mapstructure:"sourcemap"`
		Imports     ImportsConfig `mapstructure:"imports"`
		Banner      BannerConfig  `mapstructure:"banner"`
		Define      DefineConfig  `mapstructure:"define"`
		Watch       WatchConfig   `mapstructure:"watch"`
		UI          UIConfig      `mapstructure:"ui"`
	}
)

// Error implements the error interface.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid build mode %q (expected %q or %q)", e.Value, ModeDevelopment, ModeProduction)
}

// Unwrap returns ErrInvalidMode for errors.Is() matching.
func (e *InvalidModeError) Unwrap() error { return ErrInvalidMode }

// Error implements the error interface.
func (e *InvalidExtensionError) Error() string {
	return fmt.Sprintf("%s: extension %q must start with a dot", e.Field, e.Value)
}

// Unwrap returns ErrInvalidExtension for errors.Is() matching.
func (e *InvalidExtensionError) Unwrap() error { return ErrInvalidExtension }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config field %s: %v", e.Field, e.Cause)
}

// Unwrap returns the wrapped cause so errors.Is() can match both
// ErrInvalidConfig and the field-level sentinel.
func (e *InvalidConfigError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrInvalidConfig.
func (e *InvalidConfigError) Is(target error) bool { return target == ErrInvalidConfig }

// IsValid reports whether the mode is one of the recognized values.
func (m Mode) IsValid() bool {
	return m == ModeDevelopment || m == ModeProduction
}

// Validate checks constraints the CUE schema cannot express or that must
// also hold for programmatically constructed configs.
func (c *Config) Validate() error {
	if !c.Define.Mode.IsValid() {
		return &InvalidConfigError{Field: "define.mode", Cause: &InvalidModeError{Value: c.Define.Mode}}
	}
	// Zero is rejected rather than accepted, because the scanner treats a
	// zero depth bound as unset and would substitute its default.
	if c.Imports.MaxDepth < 1 {
		return &InvalidConfigError{Field: "imports.max_depth", Cause: fmt.Errorf("must be positive, got %d", c.Imports.MaxDepth)}
	}
	for _, ext := range c.Imports.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return &InvalidConfigError{
				Field: "imports.extensions",
				Cause: &InvalidExtensionError{Field: "imports.extensions", Value: ext},
			}
		}
	}
	return nil
}

// DefaultConfig returns the built-in defaults used when no config file
// exists.
func DefaultConfig() *Config {
	return &Config{
		EntryPoints: []string{"src/main.ts"},
		Outdir:      "dist",
		Imports: ImportsConfig{
			Extensions: []string{".js", ".ts"},
			IndexName:  "index.ts",
			MaxDepth:   200,
		},
		Define: DefineConfig{
			Mode: ModeDevelopment,
		},
	}
}
