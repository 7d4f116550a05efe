// SPDX-License-Identifier: MPL-2.0

// Package config loads the dirimport configuration.
//
// Configuration lives in a CUE file validated against an embedded schema and
// merged into Viper over the built-in defaults, so partial config files work
// and unknown fields fail loudly at load time.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"dirimport/pkg/cueutil"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "dirimport"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "dirimport"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the dirimport configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads the configuration, looking for a project-local dirimport.cue
// first and the user config directory second. A missing file is not an
// error; defaults apply. path is the resolved config file, or "" when
// defaults were used.
func Load() (cfg *Config, path string, err error) {
	return load("")
}

// LoadFile reads the configuration from an explicit file path, bypassing
// the search order. The file must exist.
func LoadFile(file string) (cfg *Config, path string, err error) {
	if !fileExists(file) {
		return nil, "", fmt.Errorf("config file not found: %s", file)
	}
	return load(file)
}

func load(explicit string) (*Config, string, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("entry_points", defaults.EntryPoints)
	v.SetDefault("outdir", defaults.Outdir)
	v.SetDefault("minify", defaults.Minify)
	v.SetDefault("sourcemap", defaults.Sourcemap)
	v.SetDefault("imports.extensions", defaults.Imports.Extensions)
	v.SetDefault("imports.index_name", defaults.Imports.IndexName)
	v.SetDefault("imports.max_depth", defaults.Imports.MaxDepth)
	v.SetDefault("define.mode", string(defaults.Define.Mode))
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	resolvedPath := ""

	switch {
	case explicit != "":
		if err := loadCUEIntoViper(v, explicit); err != nil {
			return nil, "", err
		}
		resolvedPath = explicit

	default:
		// Project-local config takes precedence over the user config dir.
		localPath := ConfigFileName + "." + ConfigFileExt
		if fileExists(localPath) {
			if err := loadCUEIntoViper(v, localPath); err != nil {
				return nil, "", err
			}
			resolvedPath = localPath
			break
		}

		cfgDir, err := ConfigDir()
		if err != nil {
			return nil, "", err
		}
		userPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(userPath) {
			if err := loadCUEIntoViper(v, userPath); err != nil {
				return nil, "", err
			}
			resolvedPath = userPath
		}
		// No config file found: defaults apply, not an error.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}

	return &cfg, resolvedPath, nil
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into Viper.
//
// Config decodes to map[string]any rather than a struct so Viper can layer
// it over defaults, and validation uses Concrete(false) because every
// config field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// GenerateCUE renders cfg as a CUE file, used by "dirimport config init".
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// dirimport configuration file.\n\n")

	sb.WriteString("entry_points: [")
	for i, ep := range cfg.EntryPoints {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", ep)
	}
	sb.WriteString("]\n")
	fmt.Fprintf(&sb, "outdir: %q\n", cfg.Outdir)
	fmt.Fprintf(&sb, "minify: %v\n", cfg.Minify)
	fmt.Fprintf(&sb, "sourcemap: %v\n", cfg.Sourcemap)

	sb.WriteString("\nimports: {\n")
	sb.WriteString("\textensions: [")
	for i, ext := range cfg.Imports.Extensions {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", ext)
	}
	sb.WriteString("]\n")
	fmt.Fprintf(&sb, "\tindex_name: %q\n", cfg.Imports.IndexName)
	fmt.Fprintf(&sb, "\tmax_depth:  %d\n", cfg.Imports.MaxDepth)
	sb.WriteString("}\n")

	sb.WriteString("\ndefine: {\n")
	fmt.Fprintf(&sb, "\tmode: %q\n", cfg.Define.Mode)
	if cfg.Define.EnvPrefix != "" {
		fmt.Fprintf(&sb, "\tenv_prefix: %q\n", cfg.Define.EnvPrefix)
	}
	sb.WriteString("}\n")

	return sb.String()
}

// CreateDefault writes a default project-local config file if none exists
// and returns its path.
func CreateDefault() (string, error) {
	path := ConfigFileName + "." + ConfigFileExt
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(DefaultConfig())), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
