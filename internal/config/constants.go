package config

import "time"

// Lua schema field names and globals
const (
	luaGlobalBootstrap = "bootstrap"
	luaFieldMirror     = "mirror"
	luaFieldTimeout    = "timeout"
	luaFieldProgress   = "progress"
	luaFieldLogLevel   = "log_level"
	luaFieldVerify     = "verify"
	luaFieldPublicKey  = "public_key"
	luaFieldSHA256     = "sha256"
)

const (
	// EnvConfigPath overrides the configuration file location.
	EnvConfigPath = "GHGRAB_BOOTSTRAP_CONFIG"

	// MaxTimeout caps the configured download timeout.
	MaxTimeout = 24 * time.Hour
)
