// Package platform identifies the host environment and maps it onto the
// release targets ghgrab publishes.
//
// Detection uses runtime.GOOS plus gopsutil for the kernel architecture and,
// on Linux, distribution details. The detected Info is reduced to a Target,
// whose platform tag and binary file name are pure functions of the OS family
// and architecture hint.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyGentoo  = "gentoo"  // Gentoo
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// OSFamily is the operating system family a release artifact is built for.
type OSFamily int

const (
	// Unsupported covers every OS ghgrab does not publish a binary for.
	Unsupported OSFamily = iota
	Windows
	Darwin
	Linux
)

// String returns the GOOS-style name of the family.
func (f OSFamily) String() string {
	switch f {
	case Windows:
		return "windows"
	case Darwin:
		return "darwin"
	case Linux:
		return "linux"
	default:
		return "unsupported"
	}
}

// ParseOSFamily maps a GOOS value (or a platform.system()-style name) to an OSFamily.
func ParseOSFamily(goos string) OSFamily {
	switch normalizePlatform(goos) {
	case "windows", "win32":
		return Windows
	case "darwin", "macos":
		return Darwin
	case "linux":
		return Linux
	default:
		return Unsupported
	}
}

// Target identifies the release artifact to install for a host.
type Target struct {
	OS   OSFamily
	Arch string // normalized architecture hint, e.g. "arm64"; may be empty

	// raw is the identifier reported to the user when the target is unsupported.
	raw string
}

// NewTarget builds a Target from GOOS/GOARCH-style strings.
func NewTarget(goos, arch string) Target {
	return Target{
		OS:   ParseOSFamily(goos),
		Arch: normalizeArch(arch),
		raw:  joinRaw(goos, arch),
	}
}

// Supported reports whether ghgrab publishes an artifact for the target.
func (t Target) Supported() bool {
	return t.OS != Unsupported
}

// Tag returns the canonical platform tag used in download addresses:
// win32, darwin, darwin-arm64 or linux. It is empty for unsupported targets.
func (t Target) Tag() string {
	switch t.OS {
	case Windows:
		return "win32"
	case Darwin:
		if t.Arch == "arm64" {
			return "darwin-arm64"
		}
		return "darwin"
	case Linux:
		return "linux"
	default:
		return ""
	}
}

// Tags returns every platform tag a release publishes, in a stable order.
func Tags() []string {
	return []string{"win32", "darwin", "darwin-arm64", "linux"}
}

// IsTag reports whether s is a published platform tag.
func IsTag(s string) bool {
	for _, tag := range Tags() {
		if s == tag {
			return true
		}
	}
	return false
}

// BinaryFileName returns the local executable name for the target.
func (t Target) BinaryFileName() string {
	if t.OS == Windows {
		return "ghgrab.exe"
	}
	return "ghgrab"
}

// String returns the platform tag, or the raw detected identifier for
// unsupported targets.
func (t Target) String() string {
	if tag := t.Tag(); tag != "" {
		return tag
	}
	if t.raw != "" {
		return t.raw
	}
	return t.OS.String()
}

// Info contains platform detection information.
type Info struct {
	OS       string // "linux", "darwin", "windows", ...
	Arch     string // normalized ("amd64", "arm64", ...)
	ArchRaw  string // as reported by the kernel (e.g. "x86_64", "aarch64")
	Platform string // distro ID (Linux only, e.g. "ubuntu")
	Family   string // canonical family (e.g. "debian")
	Version  string // distro version (Linux only, e.g. "22.04")
}

// Target reduces detected host information to a release Target.
func (i *Info) Target() Target {
	t := NewTarget(i.OS, i.Arch)
	t.raw = joinRaw(i.OS, i.ArchRaw)
	return t
}

// Distro contains Linux distribution information.
// This is nil on non-Linux platforms.
type Distro struct {
	ID      string
	Family  string
	Version string
}

// GetDistro returns distro information if this is a Linux platform.
// Returns nil for non-Linux platforms or if distro detection failed.
func (i *Info) GetDistro() *Distro {
	if i.OS != "linux" || i.Platform == "" {
		return nil
	}
	return &Distro{
		ID:      i.Platform,
		Family:  i.Family,
		Version: i.Version,
	}
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsWindows returns true if the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsARM64 returns true if the architecture is arm64.
func (i *Info) IsARM64() bool {
	return i.Arch == "arm64"
}

// IsAppleSilicon returns true if running on Apple Silicon (macOS + arm64).
func (i *Info) IsAppleSilicon() bool {
	return i.OS == "darwin" && i.Arch == "arm64"
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector returns a fixed Info. Useful for tests and for pinning the
// target on the command line.
type StaticDetector struct {
	Info Info
}

// Detect returns a copy of the configured Info.
func (d StaticDetector) Detect(ctx context.Context) (*Info, error) {
	info := d.Info
	return &info, nil
}
