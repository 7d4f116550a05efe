// SPDX-License-Identifier: MPL-2.0

package define

import (
	"testing"

	"dirimport/internal/config"
)

func TestBuild(t *testing.T) {
	t.Run("mode always injected", func(t *testing.T) {
		got := Build(config.DefineConfig{Mode: config.ModeProduction}, nil)
		if got["process.env.NODE_ENV"] != `"production"` {
			t.Errorf("NODE_ENV = %q, want %q", got["process.env.NODE_ENV"], `"production"`)
		}
		if len(got) != 1 {
			t.Errorf("Build() = %v, want only NODE_ENV without a prefix", got)
		}
	})

	t.Run("prefixed variables injected", func(t *testing.T) {
		environ := []string{
			"APP_API_URL=https://api.example.com",
			"APP_FLAG=on",
			"HOME=/home/user",
		}
		got := Build(config.DefineConfig{Mode: config.ModeDevelopment, EnvPrefix: "APP_"}, environ)

		if got["process.env.API_URL"] != `"https://api.example.com"` {
			t.Errorf("API_URL = %q", got["process.env.API_URL"])
		}
		if got["process.env.FLAG"] != `"on"` {
			t.Errorf("FLAG = %q", got["process.env.FLAG"])
		}
		// HOME lacks the prefix and must not leak into the bundle.
		if _, ok := got["process.env.HOME"]; ok {
			t.Error("unprefixed variable HOME was injected")
		}
	})

	t.Run("values are JSON string literals", func(t *testing.T) {
		environ := []string{`APP_MSG=say "hi"`}
		got := Build(config.DefineConfig{Mode: config.ModeDevelopment, EnvPrefix: "APP_"}, environ)
		if got["process.env.MSG"] != `"say \"hi\""` {
			t.Errorf("MSG = %q, want quoted literal", got["process.env.MSG"])
		}
	})

	t.Run("degenerate entries skipped", func(t *testing.T) {
		environ := []string{
			"APP_=empty name",
			"malformed",
			"APP_OK=1",
		}
		got := Build(config.DefineConfig{Mode: config.ModeDevelopment, EnvPrefix: "APP_"}, environ)
		if len(got) != 2 {
			t.Errorf("Build() = %v, want NODE_ENV and OK only", got)
		}
		if got["process.env.OK"] != `"1"` {
			t.Errorf("OK = %q", got["process.env.OK"])
		}
	})
}
