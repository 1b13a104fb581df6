package binary

import (
	"fmt"
	"os"
	"runtime"
)

// SetExecutable sets 0755 on path. Windows has no executable bit, so it is a no-op there.
func SetExecutable(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}

// IsExecutable reports whether info describes a regular file a user could run.
// On Windows every regular file counts.
func IsExecutable(info os.FileInfo) bool {
	if !info.Mode().IsRegular() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0111 != 0
}
