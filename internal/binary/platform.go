package binary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhixdd/ghgrab-bootstrap/internal/platform"
)

// DownloadURL builds the release asset address for a version and target.
// Pattern: {base}/v{version}/ghgrab-{tag}
func DownloadURL(baseURL string, version ReleaseVersion, target platform.Target) (string, error) {
	if !target.Supported() {
		return "", &UnsupportedPlatformError{Platform: target.String()}
	}
	if version.IsZero() {
		return "", fmt.Errorf("release version is required")
	}
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return "", fmt.Errorf("base URL is required")
	}
	return fmt.Sprintf("%s/v%s/%s-%s", base, version, ArtifactPrefix, target.Tag()), nil
}

// SignatureURL returns the detached signature address for an asset URL.
func SignatureURL(assetURL string) string {
	return assetURL + ".sig"
}

// InstallPath returns where the executable for target lives under installDir.
// Both provisioning and launching resolve the binary through this function.
func InstallPath(installDir string, target platform.Target) string {
	return filepath.Join(installDir, target.BinaryFileName())
}

// InstallDirName is the directory next to the bootstrap executables that
// holds the provisioned binary.
const InstallDirName = "libexec"

// InstallDirFor returns the install directory for the executable at exePath.
func InstallDirFor(exePath string) string {
	return filepath.Join(filepath.Dir(exePath), InstallDirName)
}

// DefaultInstallDir resolves the install directory from the running
// executable, following symlinks so a linked ghgrab finds its real libexec.
func DefaultInstallDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return InstallDirFor(exe), nil
}
