// SPDX-License-Identifier: MPL-2.0

// Package banner builds the comment block prepended to every bundled output
// file, either from literal config text or from a license file.
package banner

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dirimport/internal/config"
)

// yearPlaceholder in banner text is replaced with the current year.
const yearPlaceholder = "{year}"

// Build renders the esbuild Banner map ("js" and "css" file types) from
// cfg. A banner file takes precedence over literal text; when neither is
// set the map is empty and esbuild emits no banner.
func Build(cfg config.BannerConfig, now time.Time) (map[string]string, error) {
	text := cfg.Text

	if cfg.File != "" {
		data, err := os.ReadFile(cfg.File)
		if err != nil {
			return nil, fmt.Errorf("read banner file %s: %w", cfg.File, err)
		}
		text = strings.TrimRight(string(data), "\n")
	}

	if text == "" {
		return map[string]string{}, nil
	}

	text = strings.ReplaceAll(text, yearPlaceholder, strconv.Itoa(now.Year()))

	comment := Comment(text)
	return map[string]string{
		"js":  comment,
		"css": comment,
	}, nil
}

// Comment wraps text in a /*! ... */ block. The "!" marks the comment as a
// license comment so minifiers preserve it. Multi-line text becomes one
// " * " continuation line per input line.
func Comment(text string) string {
	lines := strings.Split(text, "\n")
	if len(lines) == 1 {
		return "/*! " + lines[0] + " */"
	}

	var sb strings.Builder
	sb.WriteString("/*!\n")
	for _, line := range lines {
		sb.WriteString(" * ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString(" */")
	return sb.String()
}
