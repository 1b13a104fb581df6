package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhixdd/ghgrab-bootstrap/internal/binary"
	"github.com/abhixdd/ghgrab-bootstrap/internal/config"
	"github.com/abhixdd/ghgrab-bootstrap/internal/logging"
	"github.com/abhixdd/ghgrab-bootstrap/internal/platform"
)

// app holds the process-level collaborators commands depend on.
type app struct {
	installDir func() (string, error)
	detector   platform.Detector
	client     *http.Client // nil means binary.NewHTTPClient(0)
}

func defaultApp() *app {
	return &app{
		installDir: binary.DefaultInstallDir,
		detector:   platform.NewDetector(),
	}
}

type commandContext struct {
	app        *app
	configFlag string
	verbose    bool
}

func newCommandContext(a *app) *commandContext {
	return &commandContext{app: a}
}

// session is everything a command needs after flags are parsed.
type session struct {
	cfg        *config.Config
	logger     *logging.ZapLogger
	info       *platform.Info
	target     platform.Target
	installDir string
}

// logLevel returns the level from --verbose or the environment, and whether
// it overrides the config file.
func (c *commandContext) logLevel() (string, bool) {
	if c.verbose {
		return "debug", true
	}
	if level := os.Getenv(logging.EnvLevel); level != "" {
		return level, true
	}
	return "info", false
}

func (c *commandContext) newLogger(cmd *cobra.Command, level string) (*logging.ZapLogger, error) {
	logger, err := logging.New(logging.Options{
		Level:  level,
		Output: cmd.ErrOrStderr(),
		Name:   "ghgrab-install",
	})
	if err != nil {
		return nil, fmt.Errorf("configure logging: %w", err)
	}
	return logger, nil
}

func (c *commandContext) session(cmd *cobra.Command) (*session, error) {
	level, pinned := c.logLevel()
	logger, err := c.newLogger(cmd, level)
	if err != nil {
		return nil, err
	}

	info, err := c.app.detector.Detect(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("detect platform: %w", err)
	}

	cfg, err := config.Load(cmd.Context(), c.configFlag, config.LoadOptions{
		Detector: platform.StaticDetector{Info: *info},
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}
	if !pinned && cfg.LogLevel != "" {
		if logger, err = c.newLogger(cmd, cfg.LogLevel); err != nil {
			return nil, err
		}
	}

	installDir, err := c.app.installDir()
	if err != nil {
		return nil, err
	}

	logger.Debug("session ready",
		"os", info.OS,
		"arch", info.ArchRaw,
		"target", info.Target().String(),
		"install_dir", installDir,
	)

	return &session{
		cfg:        cfg,
		logger:     logger,
		info:       info,
		target:     info.Target(),
		installDir: installDir,
	}, nil
}
