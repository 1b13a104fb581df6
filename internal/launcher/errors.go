package launcher

import (
	"errors"
	"fmt"
)

// Exit codes reported by the ghgrab command when the child never ran.
const (
	ExitBinaryNotFound = 127
	ExitLaunchFailure  = 126
	ExitBootstrapFault = 125
)

// BinaryNotFoundError means nothing runnable exists at the install path.
type BinaryNotFoundError struct {
	ExpectedPath string
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("binary not found at %s (run ghgrab-install provision)", e.ExpectedPath)
}

// LaunchError means the binary exists but the OS refused to start it.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ExitCode maps a Launch error to the process exit code for the ghgrab
// command. A nil error maps to 0.
func ExitCode(err error) int {
	var notFound *BinaryNotFoundError
	var launchErr *LaunchError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &notFound):
		return ExitBinaryNotFound
	case errors.As(err, &launchErr):
		return ExitLaunchFailure
	default:
		return ExitBootstrapFault
	}
}
