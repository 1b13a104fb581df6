package config

import (
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/abhixdd/ghgrab-bootstrap/internal/binary"
	"github.com/abhixdd/ghgrab-bootstrap/internal/logging"
	"github.com/abhixdd/ghgrab-bootstrap/internal/platform"
)

// Config is the bootstrap configuration.
type Config struct {
	// Mirror replaces binary.DefaultBaseURL. The download address stays
	// <Mirror>/v<version>/ghgrab-<tag>.
	Mirror string

	// Timeout bounds a whole provisioning download. Zero means no timeout.
	Timeout time.Duration

	// Progress forces the download progress bar on or off. Nil means "on
	// when stderr is a terminal".
	Progress *bool

	// LogLevel is one of debug, info, warn or error. Empty keeps the default.
	LogLevel string

	Verify Verify

	// Path is the file the configuration was loaded from, empty for defaults.
	Path string

	// UnknownFields lists keys of the bootstrap table that were ignored.
	UnknownFields []string
}

// Verify configures optional integrity checks on the downloaded binary.
type Verify struct {
	// PublicKey is an OpenPGP public key file. A leading ~/ is expanded and
	// relative paths are resolved against the configuration file.
	PublicKey string
	// SHA256 maps platform tags to expected hex digests.
	SHA256 map[string]string
}

// Defaults returns the configuration used when no file exists.
func Defaults() *Config {
	return &Config{}
}

// BaseURL returns the release base URL, falling back to the default.
func (c *Config) BaseURL() string {
	if c.Mirror != "" {
		return strings.TrimRight(c.Mirror, "/")
	}
	return binary.DefaultBaseURL
}

// ProgressEnabled resolves Progress against whether output is a terminal.
func (c *Config) ProgressEnabled(terminal bool) bool {
	if c.Progress != nil {
		return *c.Progress
	}
	return terminal
}

// VerifyOptions converts the verify section for the provisioner.
func (c *Config) VerifyOptions() binary.VerifyOptions {
	return binary.VerifyOptions{
		SHA256:        c.Verify.SHA256,
		PublicKeyFile: c.Verify.PublicKey,
	}
}

// Validate checks field values that Lua typing cannot.
func (c *Config) Validate() error {
	if c.Mirror != "" {
		if err := validateMirror(c.Mirror); err != nil {
			return &ValidationError{Field: "mirror", Message: err.Error()}
		}
	}

	if c.Timeout < 0 {
		return &ValidationError{Field: "timeout", Message: "must not be negative"}
	}
	if c.Timeout > MaxTimeout {
		return &ValidationError{
			Field:   "timeout",
			Message: fmt.Sprintf("%s exceeds the maximum of %s", c.Timeout, MaxTimeout),
		}
	}

	if c.LogLevel != "" {
		if _, err := logging.ParseLevel(c.LogLevel); err != nil {
			return &ValidationError{Field: "log_level", Message: err.Error()}
		}
	}

	tags := make([]string, 0, len(c.Verify.SHA256))
	for tag := range c.Verify.SHA256 {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		field := fmt.Sprintf("verify.sha256[%q]", tag)
		if !platform.IsTag(tag) {
			return &ValidationError{
				Field:   field,
				Message: fmt.Sprintf("unknown platform tag (expected one of %s)", strings.Join(platform.Tags(), ", ")),
			}
		}
		if err := validateDigest(c.Verify.SHA256[tag]); err != nil {
			return &ValidationError{Field: field, Message: err.Error()}
		}
	}

	return nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

func validateMirror(mirror string) error {
	u, err := url.Parse(mirror)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("must use https:// or http:// scheme (got: %q)", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("must not contain a query or fragment")
	}
	return nil
}

func validateDigest(digest string) error {
	d := strings.TrimPrefix(strings.TrimSpace(digest), "sha256:")
	if len(d) != 64 {
		return fmt.Errorf("expected 64 hex characters, got %d", len(d))
	}
	if _, err := hex.DecodeString(d); err != nil {
		return fmt.Errorf("not a hex digest: %w", err)
	}
	return nil
}
