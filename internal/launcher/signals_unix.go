//go:build !windows

package launcher

import (
	"os"
	"os/signal"
	"syscall"
)

// notifySignals intercepts the signals that would otherwise kill the
// launcher before its child.
func notifySignals() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM, syscall.SIGHUP)
	return ch, func() { signal.Stop(ch) }
}

// shouldForward reports whether sig targets only this process. SIGINT and
// SIGQUIT come from the terminal and reach the child directly.
func shouldForward(sig os.Signal) bool {
	return sig == syscall.SIGTERM || sig == syscall.SIGHUP
}

func exitStatus(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}
