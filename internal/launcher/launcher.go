package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/abhixdd/ghgrab-bootstrap/internal/binary"
	"github.com/abhixdd/ghgrab-bootstrap/internal/logging"
	"github.com/abhixdd/ghgrab-bootstrap/internal/platform"
)

// Config holds configuration for the launcher.
type Config struct {
	// InstallDir is the directory the provisioner installed into. Required.
	InstallDir string
	Target     platform.Target

	// Nil streams default to the process's own stdin, stdout and stderr.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	Logger logging.Logger
}

// Result is the outcome of one launch.
type Result struct {
	ExitCode int
}

// Launcher executes the provisioned binary.
type Launcher struct {
	path   string
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	logger logging.Logger
}

// New creates a launcher for the binary of cfg.Target under cfg.InstallDir.
func New(cfg Config) (*Launcher, error) {
	if cfg.InstallDir == "" {
		return nil, fmt.Errorf("InstallDir is required")
	}
	installDir, err := filepath.Abs(cfg.InstallDir)
	if err != nil {
		return nil, fmt.Errorf("resolve install dir: %w", err)
	}

	l := &Launcher{
		path:   binary.InstallPath(installDir, cfg.Target),
		stdin:  cfg.Stdin,
		stdout: cfg.Stdout,
		stderr: cfg.Stderr,
		logger: logging.OrNop(cfg.Logger),
	}
	if l.stdin == nil {
		l.stdin = os.Stdin
	}
	if l.stdout == nil {
		l.stdout = os.Stdout
	}
	if l.stderr == nil {
		l.stderr = os.Stderr
	}
	return l, nil
}

// Path returns the binary the launcher executes.
func (l *Launcher) Path() string {
	return l.path
}

// Launch runs the binary with argv, waits for it to exit and returns its exit
// status. argv excludes the program name and is passed through untouched.
//
// A non-nil error means the child never ran: *BinaryNotFoundError or
// *LaunchError. Cancelling ctx kills the child.
func (l *Launcher) Launch(ctx context.Context, argv []string) (*Result, error) {
	info, err := os.Stat(l.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, &BinaryNotFoundError{ExpectedPath: l.path}
	case err != nil:
		return nil, &LaunchError{Path: l.path, Err: err}
	case info.IsDir():
		return nil, &BinaryNotFoundError{ExpectedPath: l.path}
	}

	cmd := exec.CommandContext(ctx, l.path, argv...)
	cmd.Stdin = l.stdin
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	l.logger.Debug("launching ghgrab", "path", l.path, "args", len(argv))

	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Path: l.path, Err: err}
	}

	sigCh, stopNotify := notifySignals()
	done := make(chan struct{})
	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		relaySignals(sigCh, done, cmd.Process, l.logger)
	}()

	waitErr := cmd.Wait()
	stopNotify()
	close(done)
	<-relayDone

	if cmd.ProcessState == nil {
		return nil, &LaunchError{Path: l.path, Err: waitErr}
	}

	code := exitStatus(cmd.ProcessState)
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			// Stream copy failures do not change what the child reported.
			l.logger.Debug("wait for ghgrab", "error", waitErr)
		}
	}
	l.logger.Debug("ghgrab exited", "code", code)
	return &Result{ExitCode: code}, nil
}

// signaler is the part of *os.Process the relay needs.
type signaler interface {
	Signal(os.Signal) error
}

// relaySignals forwards signals that only reached this process to the child
// until done is closed.
func relaySignals(sigCh <-chan os.Signal, done <-chan struct{}, child signaler, logger logging.Logger) {
	for {
		select {
		case <-done:
			return
		case sig := <-sigCh:
			if !shouldForward(sig) {
				// The terminal already delivered it to the whole process group.
				logger.Debug("ignoring signal while ghgrab runs", "signal", sig.String())
				continue
			}
			logger.Debug("forwarding signal to ghgrab", "signal", sig.String())
			if err := child.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
				logger.Warn("forward signal failed", "signal", sig.String(), "error", err)
			}
		}
	}
}
