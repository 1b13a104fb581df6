// Package testutil provides utilities for testing the bootstrapper in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// Env describes the isolated directories created by SetupTestEnv.
type Env struct {
	Root      string
	Home      string
	ConfigDir string // what os.UserConfigDir now returns
}

// bootstrapVars are cleared so a developer's own settings never leak into tests.
var bootstrapVars = []string{
	"GHGRAB_BOOTSTRAP_CONFIG",
	"GHGRAB_BOOTSTRAP_LOG",
}

// SetupTestEnv points HOME and the user config directory at a fresh temp
// directory and clears the GHGRAB_BOOTSTRAP_* variables.
//
// The cleanup function is automatically handled by t.TempDir() and
// t.Setenv(), so callers don't need to manually clean up.
func SetupTestEnv(t *testing.T) Env {
	t.Helper()

	tmpDir := t.TempDir()
	env := Env{
		Root: tmpDir,
		Home: filepath.Join(tmpDir, "home"),
	}

	t.Setenv("HOME", env.Home)
	t.Setenv("USERPROFILE", env.Home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "config"))
	t.Setenv("AppData", filepath.Join(tmpDir, "config"))

	for _, name := range bootstrapVars {
		// Setenv first so the original value is restored on cleanup.
		t.Setenv(name, "")
		if err := os.Unsetenv(name); err != nil {
			t.Fatalf("unset %s: %v", name, err)
		}
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		t.Fatalf("resolve user config dir: %v", err)
	}
	env.ConfigDir = configDir

	for _, dir := range []string{env.Home, env.ConfigDir} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}
	return env
}
