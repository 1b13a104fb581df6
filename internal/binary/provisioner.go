package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/abhixdd/ghgrab-bootstrap/internal/logging"
	"github.com/abhixdd/ghgrab-bootstrap/internal/platform"
)

const (
	// LockFileName serialises provisioning runs that share an install directory.
	LockFileName = ".ghgrab.lock"

	lockRetryDelay = 200 * time.Millisecond
)

// ProvisionerConfig holds configuration for the provisioner.
type ProvisionerConfig struct {
	// InstallDir is the fixed directory the binary is installed into. Required.
	InstallDir string
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// Client defaults to NewHTTPClient(0).
	Client *http.Client
	// Progress receives a progress bar during the download; nil disables it.
	Progress io.Writer
	// Verify enables optional integrity checks.
	Verify VerifyOptions
	Logger logging.Logger
	// Now defaults to time.Now; used for the receipt timestamp.
	Now func() time.Time
}

// Provisioner downloads and installs the ghgrab binary. It owns the write
// path to the install directory.
type Provisioner struct {
	installDir string
	baseURL    string
	downloader *Downloader
	verifier   *Verifier
	logger     logging.Logger
	now        func() time.Time
}

// NewProvisioner creates a provisioner.
func NewProvisioner(cfg ProvisionerConfig) (*Provisioner, error) {
	if cfg.InstallDir == "" {
		return nil, fmt.Errorf("InstallDir is required")
	}
	installDir, err := filepath.Abs(cfg.InstallDir)
	if err != nil {
		return nil, fmt.Errorf("resolve install dir: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	downloader := NewDownloader(cfg.Client, cfg.Progress)
	return &Provisioner{
		installDir: installDir,
		baseURL:    baseURL,
		downloader: downloader,
		verifier:   NewVerifier(cfg.Verify, downloader),
		logger:     logging.OrNop(cfg.Logger),
		now:        now,
	}, nil
}

// InstallDir returns the absolute install directory.
func (p *Provisioner) InstallDir() string {
	return p.installDir
}

// Provision fetches the release asset for target and version and installs it
// at InstallPath(installDir, target).
//
// Unsupported targets fail with *UnsupportedPlatformError before any I/O.
// Every later failure is a *ProvisionError and leaves the previous install,
// if any, untouched. There are no retries; calling Provision again with the
// same arguments replaces the binary with an identical one.
func (p *Provisioner) Provision(ctx context.Context, target platform.Target, version ReleaseVersion) (*InstalledBinary, error) {
	if !target.Supported() {
		return nil, &UnsupportedPlatformError{Platform: target.String()}
	}

	url, err := DownloadURL(p.baseURL, version, target)
	if err != nil {
		return nil, provisionErr(StageResolve, err)
	}
	dest := InstallPath(p.installDir, target)

	if err := os.MkdirAll(p.installDir, 0755); err != nil {
		return nil, provisionErr(StageWrite, fmt.Errorf("create install dir: %w", err))
	}

	lock := flock.New(filepath.Join(p.installDir, LockFileName))
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, provisionErr(StageLock, fmt.Errorf("acquire install lock: %w", err))
	}
	if !locked {
		return nil, provisionErr(StageLock, fmt.Errorf("install lock %s is held by another process", lock.Path()))
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			p.logger.Warn("release install lock", "path", lock.Path(), "error", err)
		}
	}()

	p.logger.Info("downloading ghgrab", "version", version.String(), "platform", target.Tag(), "url", url)
	start := p.now()

	tmp, err := p.downloader.DownloadToTemp(ctx, url, p.installDir)
	if err != nil {
		return nil, provisionErr(StageDownload, err)
	}
	defer tmp.Remove()

	verified, err := p.verifier.Verify(ctx, tmp, url, target.Tag())
	if err != nil {
		return nil, provisionErr(StageVerify, err)
	}

	// Mark executable before the rename so the install path is never
	// observed without the bit.
	if err := SetExecutable(tmp.Path); err != nil {
		return nil, provisionErr(StagePermissions, err)
	}

	if err := os.Rename(tmp.Path, dest); err != nil {
		return nil, provisionErr(StageWrite, fmt.Errorf("move into place: %w", err))
	}

	installedAt := p.now().UTC()
	p.logger.Debug("download complete",
		"path", dest,
		"bytes", tmp.Size,
		"sha256", tmp.SHA256,
		"verified", verified.String(),
		"elapsed", installedAt.Sub(start.UTC()).String(),
	)

	receipt := Receipt{
		Version:     version.String(),
		Platform:    target.Tag(),
		URL:         url,
		SHA256:      tmp.SHA256,
		Verified:    verified.String(),
		InstalledAt: installedAt,
	}
	if err := WriteReceipt(p.installDir, receipt); err != nil {
		// The binary is already in place; a missing receipt only degrades status output.
		p.logger.Warn("write install receipt", "error", err)
	}

	installed, err := p.Inspect(target)
	if err != nil {
		return nil, provisionErr(StageWrite, err)
	}
	installed.Verified = verified
	return installed, nil
}

// Inspect reports the current state of the binary for target without
// modifying anything. Receipt fields are filled in when a receipt exists.
func (p *Provisioner) Inspect(target platform.Target) (*InstalledBinary, error) {
	return Inspect(p.installDir, target)
}

// Inspect reports the state of the binary for target under installDir.
func Inspect(installDir string, target platform.Target) (*InstalledBinary, error) {
	installed := &InstalledBinary{
		Path: InstallPath(installDir, target),
		Tag:  target.Tag(),
	}

	info, err := os.Stat(installed.Path)
	switch {
	case err == nil:
		installed.Exists = info.Mode().IsRegular()
		installed.Executable = IsExecutable(info)
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("stat binary: %w", err)
	}

	receipt, err := ReadReceipt(installDir)
	switch {
	case err == nil:
		if receipt.Platform == target.Tag() {
			installed.Version = receipt.Version
			installed.URL = receipt.URL
			installed.SHA256 = receipt.SHA256
			installed.InstalledAt = receipt.InstalledAt
			installed.Verified = ParseVerificationMethod(receipt.Verified)
		}
	case errors.Is(err, ErrNoReceipt):
	default:
		return nil, err
	}

	return installed, nil
}
