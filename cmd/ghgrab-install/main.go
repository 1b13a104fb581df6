// Command ghgrab-install provisions the ghgrab release binary for the
// current platform into the libexec directory next to this executable.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhixdd/ghgrab-bootstrap/internal/binary"
	"github.com/abhixdd/ghgrab-bootstrap/internal/config"
)

// Version will be set at build time via -ldflags
var Version = "dev"

const (
	exitOK          = 0
	exitFailure     = 1
	exitUnsupported = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, newRootCommand(defaultApp()), os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs cmd and turns its error into one diagnostic line and an exit code.
func execute(ctx context.Context, cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "ghgrab-install: %s\n", config.FormatError(err, false))
	}
	return exitCode(err)
}

func exitCode(err error) int {
	var unsupported *binary.UnsupportedPlatformError
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, &unsupported):
		return exitUnsupported
	default:
		return exitFailure
	}
}
