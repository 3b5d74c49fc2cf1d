// Package settings provides configuration loading for otk.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables with the OTK_ prefix
//  2. YAML config file (.otk/config.yaml in the working directory)
//  3. Hardcoded defaults
//
// Environment variables map onto config sections by splitting on the
// first underscore after the prefix: OTK_ARCHON_BASE_URL becomes
// archon.base_url. A small alias table covers the variables whose
// names predate the sectioned layout (OTK_ARTIFACT_ROOT, OTK_OWNER,
// OTK_DEFAULT_OWNER).
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// ConfigFile is the project-relative path of the optional YAML config.
const ConfigFile = ".otk/config.yaml"

const maxConfigFileSize = 1024 * 1024

// envAliases maps legacy flat environment variable names (without the
// OTK_ prefix) onto their sectioned config keys.
var envAliases = map[string]string{
	"ARTIFACT_ROOT": "artifacts.root",
	"DEFAULT_OWNER": "owner.default",
	"OWNER":         "owner.default",
}

// Settings is the resolved otk configuration.
type Settings struct {
	Artifacts ArtifactsConfig `koanf:"artifacts"`
	Archon    ArchonConfig    `koanf:"archon"`
	Mem0      Mem0Config      `koanf:"mem0"`
	Hooks     HooksConfig     `koanf:"hooks"`
	Owner     OwnerConfig     `koanf:"owner"`
	Log       LogConfig       `koanf:"log"`

	// Derived absolute paths, populated by Resolve.
	TasksDir    string `koanf:"-"`
	PlansDir    string `koanf:"-"`
	SpecsDir    string `koanf:"-"`
	ExecLogsDir string `koanf:"-"`
	ScoutDir    string `koanf:"-"`
}

// ArtifactsConfig controls where Markdown artifacts live.
type ArtifactsConfig struct {
	Root string `koanf:"root"`
}

// ArchonConfig configures the Archon task-sync hook target.
type ArchonConfig struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

// Mem0Config configures the Mem0 memory hook target.
type Mem0Config struct {
	Enabled bool   `koanf:"enabled"`
	APIURL  string `koanf:"api_url"`
	APIKey  string `koanf:"api_key"`
	Project string `koanf:"project"`
	Org     string `koanf:"org"`
}

// HooksConfig controls hook delivery behavior.
type HooksConfig struct {
	TimeoutSeconds int `koanf:"timeout_seconds"`
	Retries        int `koanf:"retries"`
}

// Timeout returns the per-attempt hook timeout.
func (h HooksConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSeconds) * time.Second
}

// OwnerConfig pins a default owner, bypassing detection.
type OwnerConfig struct {
	Default string `koanf:"default"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Load reads configuration from .otk/config.yaml under cwd (if present)
// and the environment, applies defaults, and resolves artifact paths.
// The artifact directories are created if missing.
func Load(cwd string) (*Settings, error) {
	s, err := load(cwd)
	if err != nil {
		return nil, err
	}
	if err := s.Resolve(cwd); err != nil {
		return nil, err
	}
	return s, nil
}

func load(cwd string) (*Settings, error) {
	k := koanf.New(".")

	configPath := filepath.Join(cwd, filepath.FromSlash(ConfigFile))
	if info, err := os.Stat(configPath); err == nil {
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file %s exceeds %d bytes", configPath, maxConfigFileSize)
		}
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("OTK_", ".", func(s string) string {
		name := strings.TrimPrefix(s, "OTK_")
		if key, ok := envAliases[name]; ok {
			return key
		}
		lower := strings.ToLower(name)
		section, field, ok := strings.Cut(lower, "_")
		if !ok {
			return lower
		}
		return section + "." + field
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&s)

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &s, nil
}

func applyDefaults(s *Settings) {
	if s.Artifacts.Root == "" {
		s.Artifacts.Root = ".ai_docs"
	}
	if s.Archon.BaseURL == "" {
		s.Archon.BaseURL = "http://localhost:8787"
	}
	if s.Mem0.APIURL == "" {
		s.Mem0.APIURL = "https://api.mem0.ai/v1"
	}
	if s.Hooks.TimeoutSeconds == 0 {
		s.Hooks.TimeoutSeconds = 3
	}
	if s.Hooks.Retries == 0 {
		s.Hooks.Retries = 3
	}
	if s.Log.Level == "" {
		s.Log.Level = "info"
	}
}

// Validate checks field values that would cause confusing failures
// later if left bad.
func (s *Settings) Validate() error {
	if s.Hooks.TimeoutSeconds < 0 {
		return fmt.Errorf("hooks.timeout_seconds must not be negative, got %d", s.Hooks.TimeoutSeconds)
	}
	if s.Hooks.Retries < 1 {
		return fmt.Errorf("hooks.retries must be at least 1, got %d", s.Hooks.Retries)
	}
	switch s.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error, got %q", s.Log.Level)
	}
	if s.Archon.Enabled && s.Archon.BaseURL == "" {
		return fmt.Errorf("archon.base_url is required when archon is enabled")
	}
	if s.Mem0.Enabled && s.Mem0.APIURL == "" {
		return fmt.Errorf("mem0.api_url is required when mem0 is enabled")
	}
	return nil
}

// Resolve makes the artifact root absolute relative to cwd, derives the
// per-kind directories, and creates them.
func (s *Settings) Resolve(cwd string) error {
	root := s.Artifacts.Root
	if !filepath.IsAbs(root) {
		root = filepath.Join(cwd, root)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve artifact root: %w", err)
	}
	s.Artifacts.Root = abs

	s.TasksDir = filepath.Join(abs, "tasks")
	s.PlansDir = filepath.Join(abs, "plans")
	s.SpecsDir = filepath.Join(abs, "specs")
	s.ExecLogsDir = filepath.Join(abs, "exec_logs")
	s.ScoutDir = filepath.Join(abs, "scout_reports")

	for _, dir := range []string{s.TasksDir, s.PlansDir, s.SpecsDir, s.ExecLogsDir, s.ScoutDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create artifact directory %s: %w", dir, err)
		}
	}
	return nil
}
