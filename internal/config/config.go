package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/tidwall/jsonc"

	"github.com/gerunddev/xmindtool/internal/archive"
	"github.com/gerunddev/xmindtool/internal/logger"
)

// Environment variables that override the config file
const (
	EnvMemoryDir = "XMIND_TOOL_MEMORY_DIR"
	EnvSession   = "XMIND_TOOL_SESSION"
)

// Config represents the xmind-tool configuration
type Config struct {
	MemoryDir     string         `json:"memory_dir"`
	DefaultFormat archive.Format `json:"default_format"`
	LogFile       string         `json:"log_file,omitempty"`
	LogLevel      string         `json:"log_level,omitempty"`
	WatchDebounce time.Duration  `json:"-"` // Custom JSON handling below
}

// fileConfig is the on-disk shape; durations are strings
type fileConfig struct {
	MemoryDir     string `json:"memory_dir,omitempty"`
	DefaultFormat string `json:"default_format,omitempty"`
	LogFile       string `json:"log_file,omitempty"`
	LogLevel      string `json:"log_level,omitempty"`
	WatchDebounce string `json:"watch_debounce,omitempty"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		MemoryDir:     filepath.Join(os.TempDir(), "skills-xmind-parsed"),
		DefaultFormat: archive.FormatZen,
		LogLevel:      "warn",
		WatchDebounce: 300 * time.Millisecond,
	}
}

// ConfigPath returns the path to the config file.
// Can be overridden for testing.
var ConfigPath = func() string {
	return filepath.Join(xdg.ConfigHome, "xmind-tool", "config.json")
}

// Load reads configuration from ConfigPath. A missing file yields the
// defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads configuration from path. The file may contain comments
// and trailing commas.
func LoadFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, err
	default:
		var raw fileConfig
		if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if err := cfg.merge(raw); err != nil {
			return nil, err
		}
	}

	if dir := os.Getenv(EnvMemoryDir); dir != "" {
		cfg.MemoryDir = dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.ExpandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	return cfg, nil
}

// merge overlays the keys present in raw
func (c *Config) merge(raw fileConfig) error {
	if raw.MemoryDir != "" {
		c.MemoryDir = raw.MemoryDir
	}
	if raw.DefaultFormat != "" {
		f, err := archive.ParseFormat(raw.DefaultFormat)
		if err != nil {
			return fmt.Errorf("invalid default_format '%s': must be one of: zen, legacy", raw.DefaultFormat)
		}
		c.DefaultFormat = f
	}
	if raw.LogFile != "" {
		c.LogFile = raw.LogFile
	}
	if raw.LogLevel != "" {
		c.LogLevel = raw.LogLevel
	}
	if raw.WatchDebounce != "" {
		d, err := time.ParseDuration(raw.WatchDebounce)
		if err != nil {
			return fmt.Errorf("invalid watch_debounce format '%s': %w", raw.WatchDebounce, err)
		}
		c.WatchDebounce = d
	}
	return nil
}

// Save writes configuration to ConfigPath
func (c *Config) Save() error {
	configPath := ConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	raw := fileConfig{
		MemoryDir:     c.MemoryDir,
		DefaultFormat: string(c.DefaultFormat),
		LogFile:       c.LogFile,
		LogLevel:      c.LogLevel,
		WatchDebounce: c.WatchDebounce.String(),
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.MemoryDir == "" {
		return fmt.Errorf("memory_dir cannot be empty")
	}
	if _, err := archive.ParseFormat(string(c.DefaultFormat)); err != nil {
		return fmt.Errorf("invalid default_format '%s': must be one of: zen, legacy", c.DefaultFormat)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level '%s': must be one of: debug, info, warn, error", c.LogLevel)
	}
	if c.WatchDebounce <= 0 {
		return fmt.Errorf("watch_debounce must be positive")
	}
	return nil
}

// ExpandPaths expands any ~ or relative paths to absolute paths
func (c *Config) ExpandPaths() error {
	var err error

	c.MemoryDir, err = expandPath(c.MemoryDir)
	if err != nil {
		return fmt.Errorf("failed to expand memory_dir: %w", err)
	}

	c.LogFile, err = expandPath(c.LogFile)
	if err != nil {
		return fmt.Errorf("failed to expand log_file: %w", err)
	}

	return nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) (string, error) {
	if path == "" {
		return path, nil
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		if len(path) == 1 {
			return homeDir, nil
		}
		path = filepath.Join(homeDir, path[1:])
	}

	return filepath.Abs(path)
}
