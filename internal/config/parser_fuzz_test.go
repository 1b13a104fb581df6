//go:build go1.18

package config

import (
	"context"
	"testing"
)

func FuzzParser_ParseString(f *testing.F) {
	f.Add(`bootstrap = { mirror = "https://mirror.example.com" }`)
	f.Add(`bootstrap = { timeout = 30, progress = false }`)
	f.Add(`bootstrap = { verify = { sha256 = { linux = "00" } } }`)

	parser := NewParser(nil)

	f.Fuzz(func(t *testing.T, luaCode string) {
		cfg, err := parser.ParseString(context.Background(), luaCode)
		if err == nil && cfg.Validate() != nil {
			t.Errorf("ParseString(%q) returned a config that fails validation", luaCode)
		}
	})
}
