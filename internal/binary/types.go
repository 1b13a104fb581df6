package binary

import (
	"fmt"
	"strings"
	"time"

	goversion "github.com/hashicorp/go-version"
)

const (
	// DefaultBaseURL is where ghgrab release assets are published.
	DefaultBaseURL = "https://github.com/abhixdd/ghgrab/releases/download"
	// ArtifactPrefix is the asset name prefix; the platform tag follows it.
	ArtifactPrefix = "ghgrab"
)

// Version is the ghgrab release this bootstrapper installs.
// Set at build time via -ldflags "-X github.com/abhixdd/ghgrab-bootstrap/internal/binary.Version=...".
var Version = "0.1.0"

// ReleaseVersion identifies the release to fetch. The zero value is invalid.
type ReleaseVersion struct {
	raw string
	v   *goversion.Version
}

// ParseReleaseVersion validates s as a release version. A leading "v" is accepted
// and dropped.
func ParseReleaseVersion(s string) (ReleaseVersion, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "v")
	if raw == "" {
		return ReleaseVersion{}, fmt.Errorf("release version is empty")
	}
	v, err := goversion.NewVersion(raw)
	if err != nil {
		return ReleaseVersion{}, fmt.Errorf("invalid release version %q: %w", s, err)
	}
	return ReleaseVersion{raw: raw, v: v}, nil
}

// MustParseReleaseVersion is like ParseReleaseVersion but panics on error.
func MustParseReleaseVersion(s string) ReleaseVersion {
	v, err := ParseReleaseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// DefaultReleaseVersion returns the build-time release version.
func DefaultReleaseVersion() (ReleaseVersion, error) {
	return ParseReleaseVersion(Version)
}

// String returns the version without the "v" prefix, as it was written.
func (r ReleaseVersion) String() string {
	return r.raw
}

// IsZero reports whether r was never parsed.
func (r ReleaseVersion) IsZero() bool {
	return r.v == nil
}

// Equal reports whether two versions are semantically equal ("0.1" == "0.1.0").
func (r ReleaseVersion) Equal(other ReleaseVersion) bool {
	if r.v == nil || other.v == nil {
		return r.v == other.v
	}
	return r.v.Equal(other.v)
}

// InstalledBinary describes the on-disk ghgrab executable.
type InstalledBinary struct {
	Path       string
	Exists     bool
	Executable bool

	// Populated after a provision, or from the install receipt.
	Version     string
	Tag         string
	URL         string
	SHA256      string
	Verified    VerificationMethod
	InstalledAt time.Time
}

// VerificationMethod indicates how a download was verified.
type VerificationMethod int

const (
	// VerificationNone means no digest or key was configured.
	VerificationNone VerificationMethod = iota
	// VerificationSHA256 means the configured digest matched.
	VerificationSHA256
	// VerificationGPG means a detached signature was checked (and the digest, if configured).
	VerificationGPG
)

// String returns the string representation of the verification method.
func (v VerificationMethod) String() string {
	switch v {
	case VerificationGPG:
		return "GPG"
	case VerificationSHA256:
		return "SHA256"
	case VerificationNone:
		return "None"
	default:
		return "Unknown"
	}
}

// ParseVerificationMethod is the inverse of VerificationMethod.String.
// Unrecognised values map to VerificationNone.
func ParseVerificationMethod(s string) VerificationMethod {
	switch s {
	case "GPG":
		return VerificationGPG
	case "SHA256":
		return VerificationSHA256
	default:
		return VerificationNone
	}
}
