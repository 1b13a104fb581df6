package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/abhixdd/ghgrab-bootstrap/internal/logging"
	"github.com/abhixdd/ghgrab-bootstrap/internal/platform"
)

// LoadOptions holds the collaborators Load needs.
type LoadOptions struct {
	// Detector fills the Lua platform table. Defaults to platform.NewDetector().
	Detector platform.Detector
	Logger   logging.Logger
}

// DefaultPath returns $GHGRAB_BOOTSTRAP_CONFIG, or
// <UserConfigDir>/ghgrab/bootstrap.lua. explicit reports whether the path
// came from the environment.
func DefaultPath() (path string, explicit bool, err error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, true, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", false, fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(dir, "ghgrab", "bootstrap.lua"), false, nil
}

// Load reads the bootstrap configuration. An empty path means DefaultPath.
//
// A missing file at the default location yields Defaults; a missing file
// that was named explicitly, by argument or environment, is an error.
func Load(ctx context.Context, path string, opts LoadOptions) (*Config, error) {
	logger := logging.OrNop(opts.Logger)

	explicit := path != ""
	if !explicit {
		var err error
		path, explicit, err = DefaultPath()
		if err != nil {
			// No config dir (e.g. $HOME unset) means there is no user config either.
			logger.Debug("no user config directory, using defaults", "error", err)
			return Defaults(), nil
		}
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !explicit:
		logger.Debug("no bootstrap config, using defaults", "path", path)
		return Defaults(), nil
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	for _, finding := range DetectSensitiveData(string(data)) {
		logger.Warn(finding.Description, "path", path, "line", finding.Line, "preview", finding.Preview)
	}

	detector := opts.Detector
	if detector == nil {
		detector = platform.NewDetector()
	}

	cfg, err := NewParser(detector).ParseFile(ctx, path)
	if err != nil {
		return nil, err
	}
	for _, field := range cfg.UnknownFields {
		logger.Warn("ignoring unknown config field", "path", path, "field", "bootstrap."+field)
	}
	logger.Debug("loaded bootstrap config", "path", path)
	return cfg, nil
}
