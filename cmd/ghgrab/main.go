// Command ghgrab runs the provisioned ghgrab binary with this process's
// arguments and standard streams, and exits with the binary's exit status.
//
// It accepts no flags of its own. When the binary cannot be run it prints a
// single "ghgrab: ..." line and exits 127 (not provisioned), 126 (cannot be
// started) or 125 (any other bootstrap fault).
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/abhixdd/ghgrab-bootstrap/internal/binary"
	"github.com/abhixdd/ghgrab-bootstrap/internal/launcher"
	"github.com/abhixdd/ghgrab-bootstrap/internal/logging"
	"github.com/abhixdd/ghgrab-bootstrap/internal/platform"
)

func main() {
	os.Exit(run(context.Background(), defaultEnv(), os.Args[1:]))
}

// env is the process state run depends on.
type env struct {
	installDir func() (string, error)
	target     platform.Target
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

func defaultEnv() env {
	return env{
		installDir: binary.DefaultInstallDir,
		target:     platform.HostTarget(),
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
	}
}

func run(ctx context.Context, e env, args []string) int {
	logger := newLogger(e.stderr)
	defer logger.Sync()

	fail := func(err error) int {
		fmt.Fprintf(e.stderr, "ghgrab: %v\n", err)
		return launcher.ExitCode(err)
	}

	if !e.target.Supported() {
		return fail(&binary.UnsupportedPlatformError{Platform: e.target.String()})
	}

	installDir, err := e.installDir()
	if err != nil {
		return fail(err)
	}

	l, err := launcher.New(launcher.Config{
		InstallDir: installDir,
		Target:     e.target,
		Stdin:      e.stdin,
		Stdout:     e.stdout,
		Stderr:     e.stderr,
		Logger:     logger,
	})
	if err != nil {
		return fail(err)
	}

	result, err := l.Launch(ctx, args)
	if err != nil {
		return fail(err)
	}
	return result.ExitCode
}

// newLogger honours GHGRAB_BOOTSTRAP_LOG and stays silent otherwise; the
// launcher only logs at debug level.
func newLogger(stderr io.Writer) *logging.ZapLogger {
	level := os.Getenv(logging.EnvLevel)
	logger, err := logging.New(logging.Options{Level: level, Output: stderr, Name: "ghgrab"})
	if err != nil {
		logger, _ = logging.New(logging.Options{Output: stderr, Name: "ghgrab"})
	}
	return logger
}
