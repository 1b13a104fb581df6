//go:build windows

package launcher

import (
	"os"
	"os/signal"
)

// notifySignals keeps Ctrl-C from killing the launcher; the console delivers
// it to the child as well.
func notifySignals() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return ch, func() { signal.Stop(ch) }
}

func shouldForward(os.Signal) bool {
	return false
}

func exitStatus(state *os.ProcessState) int {
	return state.ExitCode()
}
