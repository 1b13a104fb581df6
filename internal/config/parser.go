package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/abhixdd/ghgrab-bootstrap/internal/platform"
)

// maxConfigSize bounds how much Lua is read from disk.
const maxConfigSize = 1 << 20

// Parser evaluates bootstrap configuration with platform detection.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a parser. A nil detector leaves the platform table
// undefined, which is only useful in tests.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseString parses a Lua config from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		platformInfo, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, platformInfo); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("evaluate config: %w", ctx.Err())
		}
		return nil, &ParseError{
			Message: "Lua error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// ParseFile parses the config at path. A relative verify.public_key is
// resolved against the directory containing path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("config path %s is a directory", path)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config %s is too large (%d bytes, max %d)", path, info.Size(), maxConfigSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, maxConfigSize))
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg, err := p.ParseString(ctx, string(data))
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) && parseErr.File == "" {
			parseErr.File = path
		}
		return nil, err
	}

	cfg.Path = path
	if cfg.Verify.PublicKey != "" {
		resolved, err := resolveKeyPath(cfg.Verify.PublicKey, filepath.Dir(path))
		if err != nil {
			return nil, &ParseError{File: path, Message: "invalid 'bootstrap.verify.public_key'", Detail: err.Error()}
		}
		cfg.Verify.PublicKey = resolved
	}
	return cfg, nil
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	File    string // Config file, empty when parsing a string
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global "bootstrap" table from L.
func extractConfig(L *lua.LState) (*Config, error) {
	value := L.GetGlobal(luaGlobalBootstrap)
	table, ok := value.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "missing or invalid 'bootstrap' table",
			Detail:  fmt.Sprintf("expected table, got %s", value.Type()),
		}
	}

	config := Defaults()
	var err error

	if config.Mirror, err = stringField(table, luaFieldMirror, "bootstrap."); err != nil {
		return nil, err
	}
	if config.LogLevel, err = stringField(table, luaFieldLogLevel, "bootstrap."); err != nil {
		return nil, err
	}
	if config.Timeout, err = timeoutField(table); err != nil {
		return nil, err
	}

	switch v := table.RawGetString(luaFieldProgress).(type) {
	case lua.LBool:
		progress := bool(v)
		config.Progress = &progress
	default:
		if v.Type() != lua.LTNil {
			return nil, fieldTypeError("bootstrap."+luaFieldProgress, "boolean", v)
		}
	}

	switch v := table.RawGetString(luaFieldVerify).(type) {
	case *lua.LTable:
		verify, err := extractVerify(v)
		if err != nil {
			return nil, err
		}
		config.Verify = verify
	default:
		if v.Type() != lua.LTNil {
			return nil, fieldTypeError("bootstrap."+luaFieldVerify, "table", v)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	config.UnknownFields = unknownFields(table,
		luaFieldMirror, luaFieldTimeout, luaFieldProgress, luaFieldLogLevel, luaFieldVerify)
	return config, nil
}

// extractVerify extracts the verify section. Nil digests (from platform
// conditionals) are skipped.
func extractVerify(table *lua.LTable) (Verify, error) {
	verify := Verify{}

	publicKey, err := stringField(table, luaFieldPublicKey, "bootstrap.verify.")
	if err != nil {
		return verify, err
	}
	verify.PublicKey = publicKey

	sums := table.RawGetString(luaFieldSHA256)
	if sums.Type() == lua.LTNil {
		return verify, nil
	}
	sumTable, ok := sums.(*lua.LTable)
	if !ok {
		return verify, fieldTypeError("bootstrap.verify.sha256", "table", sums)
	}

	var fieldErr error
	sumTable.ForEach(func(key, value lua.LValue) {
		if fieldErr != nil || value.Type() == lua.LTNil {
			return
		}
		tag, ok := key.(lua.LString)
		if !ok {
			fieldErr = fieldTypeError("bootstrap.verify.sha256 key", "string", key)
			return
		}
		digest, ok := value.(lua.LString)
		if !ok {
			fieldErr = fieldTypeError(fmt.Sprintf("bootstrap.verify.sha256[%q]", string(tag)), "string", value)
			return
		}
		if verify.SHA256 == nil {
			verify.SHA256 = make(map[string]string)
		}
		verify.SHA256[string(tag)] = strings.ToLower(strings.TrimSpace(string(digest)))
	})
	return verify, fieldErr
}

func stringField(table *lua.LTable, name, prefix string) (string, error) {
	v := table.RawGetString(name)
	switch v.Type() {
	case lua.LTNil:
		return "", nil
	case lua.LTString:
		return strings.TrimSpace(v.String()), nil
	default:
		return "", fieldTypeError(prefix+name, "string", v)
	}
}

// timeoutField reads bootstrap.timeout as (possibly fractional) seconds.
func timeoutField(table *lua.LTable) (time.Duration, error) {
	v := table.RawGetString(luaFieldTimeout)
	switch v.Type() {
	case lua.LTNil:
		return 0, nil
	case lua.LTNumber:
	default:
		return 0, fieldTypeError("bootstrap."+luaFieldTimeout, "number of seconds", v)
	}

	seconds := float64(lua.LVAsNumber(v))
	if math.IsNaN(seconds) || seconds < 0 || seconds > MaxTimeout.Seconds() {
		return 0, &ParseError{
			Message: "config validation failed",
			Detail:  (&ValidationError{Field: luaFieldTimeout, Message: fmt.Sprintf("must be between 0 and %.0f seconds", MaxTimeout.Seconds())}).Error(),
		}
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

func fieldTypeError(field, want string, got lua.LValue) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf("invalid '%s'", field),
		Detail:  fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}

// unknownFields lists string keys of table not in known, sorted.
func unknownFields(table *lua.LTable, known ...string) []string {
	var unknown []string
	table.ForEach(func(key, _ lua.LValue) {
		name, ok := key.(lua.LString)
		if !ok {
			return
		}
		for _, k := range known {
			if string(name) == k {
				return
			}
		}
		unknown = append(unknown, string(name))
	})
	sort.Strings(unknown)
	return unknown
}

func resolveKeyPath(path, baseDir string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot determine home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	return filepath.Join(baseDir, path), nil
}

// FormatError formats a config error for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		return err.Error()
	}

	prefix := parseErr.Message
	if parseErr.File != "" {
		prefix = parseErr.File + ": " + prefix
	}
	if verbose {
		return fmt.Sprintf("%s\n\nDetails:\n%s", prefix, parseErr.Detail)
	}
	// Extract the most relevant part of the error
	detail := parseErr.Detail
	if idx := strings.Index(detail, "stack traceback"); idx > 0 {
		detail = strings.TrimSpace(detail[:idx])
	}
	return fmt.Sprintf("%s: %s", prefix, detail)
}
