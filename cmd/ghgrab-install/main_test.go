package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhixdd/ghgrab-bootstrap/internal/binary"
	"github.com/abhixdd/ghgrab-bootstrap/internal/platform"
	"github.com/abhixdd/ghgrab-bootstrap/internal/testutil"
)

var stubBinary = []byte("#!/bin/sh\necho ghgrab stub\n")

type cliTestEnv struct {
	installDir string
	configDir  string
	server     *httptest.Server
	requests   atomic.Int32
	assets     map[string][]byte
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	home := testutil.SetupTestEnv(t)

	env := &cliTestEnv{
		installDir: filepath.Join(home.Root, "bin", "libexec"),
		configDir:  home.Root,
		assets:     map[string][]byte{},
	}
	env.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.requests.Add(1)
		body, ok := env.assets[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(body)
	}))
	t.Cleanup(env.server.Close)
	return env
}

func releasePath(tag string) string {
	return fmt.Sprintf("/v%s/ghgrab-%s", binary.MustParseReleaseVersion(binary.Version), tag)
}

// writeConfig writes a bootstrap config pointing at the test server.
func (e *cliTestEnv) writeConfig(t *testing.T, extra string) string {
	t.Helper()
	path := filepath.Join(e.configDir, "bootstrap.lua")
	code := fmt.Sprintf("bootstrap = {\n  mirror = %q,\n  progress = false,\n%s}\n", e.server.URL, extra)
	require.NoError(t, os.WriteFile(path, []byte(code), 0o644))
	return path
}

func (e *cliTestEnv) app(goos, arch string) *app {
	return &app{
		installDir: func() (string, error) { return e.installDir, nil },
		detector:   platform.StaticDetector{Info: platform.Info{OS: goos, Arch: arch, ArchRaw: arch}},
	}
}

func runCLI(t *testing.T, a *app, args ...string) (string, string, int) {
	t.Helper()
	cmd := newRootCommand(a)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	code := execute(context.Background(), cmd, args, &stderr)
	return stdout.String(), stderr.String(), code
}

func TestProvisionInstallsBinary(t *testing.T) {
	env := setupCLITestEnv(t)
	env.assets[releasePath("linux")] = stubBinary
	cfg := env.writeConfig(t, "")

	stdout, stderr, code := runCLI(t, env.app("linux", "amd64"), "--config", cfg, "provision")

	require.Equal(t, exitOK, code, "stderr: %s", stderr)
	want := filepath.Join(env.installDir, "ghgrab")
	assert.Equal(t, fmt.Sprintf("installed ghgrab %s (linux) to %s\n", binary.MustParseReleaseVersion(binary.Version), want), stdout)

	got, err := os.ReadFile(want)
	require.NoError(t, err)
	assert.Equal(t, stubBinary, got)
	assert.EqualValues(t, 1, env.requests.Load())
}

func TestProvisionPicksAppleSiliconAsset(t *testing.T) {
	env := setupCLITestEnv(t)
	env.assets[releasePath("darwin-arm64")] = stubBinary
	cfg := env.writeConfig(t, "")

	stdout, stderr, code := runCLI(t, env.app("darwin", "arm64"), "--config", cfg, "provision", "--no-progress")

	require.Equal(t, exitOK, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "(darwin-arm64)")
}

func TestProvisionUnsupportedPlatform(t *testing.T) {
	env := setupCLITestEnv(t)
	cfg := env.writeConfig(t, "")

	stdout, stderr, code := runCLI(t, env.app("freebsd", "amd64"), "--config", cfg, "provision")

	assert.Equal(t, exitUnsupported, code)
	assert.Empty(t, stdout)
	assert.Equal(t, "ghgrab-install: unsupported platform: freebsd-amd64\n", stderr)
	assert.EqualValues(t, 0, env.requests.Load())
	_, err := os.Stat(env.installDir)
	assert.True(t, os.IsNotExist(err), "install dir must not be created")
}

func TestProvisionMissingAsset(t *testing.T) {
	env := setupCLITestEnv(t)
	cfg := env.writeConfig(t, "")

	_, stderr, code := runCLI(t, env.app("windows", "amd64"), "--config", cfg, "provision")

	assert.Equal(t, exitFailure, code)
	lines := strings.Split(strings.TrimRight(stderr, "\n"), "\n")
	last := lines[len(lines)-1]
	assert.True(t, strings.HasPrefix(last, "ghgrab-install: provision ghgrab: download:"), last)
	assert.Contains(t, last, "ghgrab-win32")
}

func TestProvisionChecksumMismatch(t *testing.T) {
	env := setupCLITestEnv(t)
	env.assets[releasePath("linux")] = stubBinary
	cfg := env.writeConfig(t, fmt.Sprintf("  verify = { sha256 = { linux = %q } },\n", strings.Repeat("0", 64)))

	_, stderr, code := runCLI(t, env.app("linux", "arm64"), "--config", cfg, "provision")

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "verify: checksum mismatch")
	_, err := os.Stat(filepath.Join(env.installDir, "ghgrab"))
	assert.True(t, os.IsNotExist(err))
}

func TestProvisionInvalidConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.configDir, "broken.lua")
	require.NoError(t, os.WriteFile(path, []byte("bootstrap = {"), 0o644))

	_, stderr, code := runCLI(t, env.app("linux", "amd64"), "--config", path, "provision")

	assert.Equal(t, exitFailure, code)
	assert.True(t, strings.HasPrefix(stderr, "ghgrab-install: "+path+": Lua error"), stderr)
	assert.EqualValues(t, 0, env.requests.Load())
}

func TestProvisionVerboseLogging(t *testing.T) {
	env := setupCLITestEnv(t)
	env.assets[releasePath("linux")] = stubBinary
	cfg := env.writeConfig(t, "")

	_, stderr, code := runCLI(t, env.app("linux", "amd64"), "--config", cfg, "--verbose", "provision")

	require.Equal(t, exitOK, code)
	assert.Contains(t, stderr, "downloading ghgrab")
	assert.Contains(t, stderr, "download complete")
}

func TestProvisionLogLevelFromConfig(t *testing.T) {
	env := setupCLITestEnv(t)
	env.assets[releasePath("linux")] = stubBinary
	cfg := env.writeConfig(t, "  log_level = \"error\",\n")

	_, stderr, code := runCLI(t, env.app("linux", "amd64"), "--config", cfg, "provision")

	require.Equal(t, exitOK, code)
	assert.NotContains(t, stderr, "downloading ghgrab")
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.assets[releasePath("linux")] = stubBinary
	cfg := env.writeConfig(t, "")
	a := env.app("linux", "amd64")

	stdout, stderr, code := runCLI(t, a, "--config", cfg, "status")
	require.Equal(t, exitOK, code, "stderr: %s", stderr)
	assert.Contains(t, stdout, "Installed version")
	assert.Contains(t, stdout, env.server.URL+releasePath("linux"))
	assert.Contains(t, stdout, cfg)
	assert.EqualValues(t, 0, env.requests.Load(), "status must not download")

	_, _, code = runCLI(t, a, "--config", cfg, "provision")
	require.Equal(t, exitOK, code)

	stdout, _, code = runCLI(t, a, "--config", cfg, "status")
	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, binary.MustParseReleaseVersion(binary.Version).String())
	assert.NotContains(t, stdout, "│ no")
}

func TestStatusUnsupportedPlatform(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, code := runCLI(t, env.app("plan9", "386"), "status")

	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "plan9-386 (unsupported)")
	assert.Contains(t, stdout, "(defaults)")
}

func TestPathCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, code := runCLI(t, env.app("windows", "arm64"), "path")

	require.Equal(t, exitOK, code)
	assert.Equal(t, filepath.Join(env.installDir, "ghgrab.exe")+"\n", stdout)
}

func TestVersionCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, code := runCLI(t, env.app("linux", "amd64"), "version")

	require.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "ghgrab-install "+Version)
	assert.Contains(t, stdout, "ghgrab release "+binary.Version)
}

func TestUnknownCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	_, stderr, code := runCLI(t, env.app("linux", "amd64"), "frobnicate")

	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, exitOK},
		{"unsupported", &binary.UnsupportedPlatformError{Platform: "aix-ppc64"}, exitUnsupported},
		{"wrapped unsupported", fmt.Errorf("provision: %w", &binary.UnsupportedPlatformError{Platform: "aix"}), exitUnsupported},
		{"provision", &binary.ProvisionError{Stage: binary.StageDownload, Err: errors.New("boom")}, exitFailure},
		{"other", errors.New("config"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}
