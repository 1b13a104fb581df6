package platform

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
)

// RealDetector implements Detector using actual platform detection.
type RealDetector struct{}

// NewDetector creates a new platform detector.
func NewDetector() Detector {
	return &RealDetector{}
}

// Detect performs platform detection and returns platform information.
//
// The OS comes from runtime.GOOS. The architecture prefers the kernel's view
// (uname machine via gopsutil) so a bootstrapper built for amd64 still picks
// the arm64 artifact on Apple Silicon hardware; it falls back to runtime.GOARCH
// when the kernel cannot be queried. Linux distribution details are best
// effort and never fail detection unless ctx is cancelled.
func (d *RealDetector) Detect(ctx context.Context) (*Info, error) {
	info := &Info{
		OS:      runtime.GOOS,
		ArchRaw: runtime.GOARCH,
	}

	if ctx.Err() != nil {
		return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
	}
	if kernelArch, err := host.KernelArch(); err == nil && kernelArch != "" {
		info.ArchRaw = kernelArch
	}
	info.Arch = normalizeArch(info.ArchRaw)

	if runtime.GOOS == "linux" {
		platform, family, version, err := host.PlatformInformationWithContext(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("platform detection cancelled: %w", ctx.Err())
			}
			return info, nil
		}

		platform = normalizePlatform(platform)
		if platform != "" {
			info.Platform = platform
			info.Family = mapFamily(family)
			info.Version = normalizePlatform(version)
		}
	}

	return info, nil
}

// HostTarget returns the target for the running binary's GOOS and GOARCH
// without querying the kernel. The binary file name depends only on the OS
// family, so this resolves the same install path as a detected target.
func HostTarget() Target {
	return NewTarget(runtime.GOOS, runtime.GOARCH)
}
