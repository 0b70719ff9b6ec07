package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gerunddev/xmindtool/internal/archive"
)

// useConfigPath points ConfigPath at path for the duration of the test
func useConfigPath(t *testing.T, path string) {
	t.Helper()
	original := ConfigPath
	ConfigPath = func() string {
		return path
	}
	t.Cleanup(func() {
		ConfigPath = original
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !strings.HasSuffix(cfg.MemoryDir, "skills-xmind-parsed") {
		t.Errorf("Expected MemoryDir under skills-xmind-parsed, got %s", cfg.MemoryDir)
	}
	if cfg.DefaultFormat != archive.FormatZen {
		t.Errorf("Expected default format zen, got %s", cfg.DefaultFormat)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected log level warn, got %s", cfg.LogLevel)
	}
	if cfg.WatchDebounce != 300*time.Millisecond {
		t.Errorf("Expected WatchDebounce to be 300ms, got %v", cfg.WatchDebounce)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			MemoryDir:     "/tmp/mem",
			DefaultFormat: archive.FormatLegacy,
			LogLevel:      "info",
			WatchDebounce: time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(c *Config) {}},
		{name: "empty level means warn", mutate: func(c *Config) { c.LogLevel = "" }},
		{name: "empty memory_dir", mutate: func(c *Config) { c.MemoryDir = "" }, wantErr: true},
		{name: "unknown format", mutate: func(c *Config) { c.DefaultFormat = "xmind8" }, wantErr: true},
		{name: "unknown level", mutate: func(c *Config) { c.LogLevel = "chatty" }, wantErr: true},
		{name: "zero debounce", mutate: func(c *Config) { c.WatchDebounce = 0 }, wantErr: true},
		{name: "negative debounce", mutate: func(c *Config) { c.WatchDebounce = -5 * time.Second }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	useConfigPath(t, filepath.Join(tmpDir, "nested", "config.json"))
	t.Setenv(EnvMemoryDir, "")

	testCfg := &Config{
		MemoryDir:     filepath.Join(tmpDir, "memory"),
		DefaultFormat: archive.FormatLegacy,
		LogFile:       filepath.Join(tmpDir, "tool.log"),
		LogLevel:      "debug",
		WatchDebounce: 750 * time.Millisecond,
	}

	if err := testCfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if *loadedCfg != *testCfg {
		t.Errorf("Loaded config mismatch:\n got %+v\nwant %+v", loadedCfg, testCfg)
	}
}

func TestLoadNonExistentConfig(t *testing.T) {
	useConfigPath(t, filepath.Join(t.TempDir(), "nonexistent.json"))
	t.Setenv(EnvMemoryDir, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() should not error on missing file: %v", err)
	}

	if cfg.WatchDebounce != 300*time.Millisecond {
		t.Errorf("Expected default debounce 300ms, got %v", cfg.WatchDebounce)
	}
	if cfg.DefaultFormat != archive.FormatZen {
		t.Errorf("Expected default format zen, got %s", cfg.DefaultFormat)
	}
}

func TestLoadJSONC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  // where parsed outlines are kept
  "memory_dir": "/var/tmp/xmind",
  "default_format": "LEGACY",
  "watch_debounce": "1s", /* trailing comma below */
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvMemoryDir, "")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.MemoryDir != "/var/tmp/xmind" {
		t.Errorf("MemoryDir = %s", cfg.MemoryDir)
	}
	if cfg.DefaultFormat != archive.FormatLegacy {
		t.Errorf("DefaultFormat = %s", cfg.DefaultFormat)
	}
	if cfg.WatchDebounce != time.Second {
		t.Errorf("WatchDebounce = %v", cfg.WatchDebounce)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel should keep its default, got %s", cfg.LogLevel)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad json", content: `{"memory_dir": `},
		{name: "bad format", content: `{"default_format": "xmind8"}`},
		{name: "bad duration", content: `{"watch_debounce": "soon"}`},
		{name: "bad level", content: `{"log_level": "chatty"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadFile(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestEnvOverridesMemoryDir(t *testing.T) {
	useConfigPath(t, filepath.Join(t.TempDir(), "config.json"))
	dir := t.TempDir()
	t.Setenv(EnvMemoryDir, dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.MemoryDir != dir {
		t.Errorf("MemoryDir = %s, want %s", cfg.MemoryDir, dir)
	}
}

func TestExpandPath(t *testing.T) {
	homeDir, _ := os.UserHomeDir()

	tests := []struct {
		name     string
		input    string
		contains string
	}{
		{name: "tilde expansion", input: "~/test", contains: homeDir},
		{name: "tilde only", input: "~", contains: homeDir},
		{name: "absolute path", input: "/tmp/test", contains: "/tmp/test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := expandPath(tt.input)
			if err != nil {
				t.Fatalf("expandPath() error = %v", err)
			}
			if !strings.Contains(result, tt.contains) {
				t.Errorf("expandPath(%q) = %q, want it to contain %q", tt.input, result, tt.contains)
			}
		})
	}
}

func TestConfigPathsExpanded(t *testing.T) {
	useConfigPath(t, filepath.Join(t.TempDir(), "config.json"))
	t.Setenv(EnvMemoryDir, "")

	testCfg := DefaultConfig()
	testCfg.MemoryDir = "~/xmind-memory"
	testCfg.LogFile = "~/xmind-tool.log"

	if err := testCfg.Save(); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedCfg.MemoryDir[0] == '~' {
		t.Error("MemoryDir was not expanded")
	}
	if loadedCfg.LogFile[0] == '~' {
		t.Error("LogFile was not expanded")
	}
}
