// SPDX-License-Identifier: MPL-2.0

// Package define builds esbuild's compile-time constant map from the
// process environment and the configured build mode.
package define

import (
	"strconv"
	"strings"

	"dirimport/internal/config"
)

// Build returns the esbuild Define map for cfg. process.env.NODE_ENV is
// always injected from the build mode; additionally every environment
// variable PREFIX_NAME=value (for a non-empty EnvPrefix "PREFIX_") becomes
// process.env.NAME with a JSON string literal value.
//
// environ takes os.Environ() form ("KEY=value") so callers control the
// snapshot and tests need no real environment.
func Build(cfg config.DefineConfig, environ []string) map[string]string {
	defines := map[string]string{
		"process.env.NODE_ENV": strconv.Quote(string(cfg.Mode)),
	}

	if cfg.EnvPrefix == "" {
		return defines
	}

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		name, found := strings.CutPrefix(key, cfg.EnvPrefix)
		if !found || name == "" {
			continue
		}
		defines["process.env."+name] = strconv.Quote(value)
	}

	return defines
}
