// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies environment variable parsing and validation
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	// Clear environment to test defaults
	os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify defaults
	if cfg.CharmHost != "cloud.charm.sh" {
		t.Errorf("CharmHost = %s, want cloud.charm.sh", cfg.CharmHost)
	}
	if cfg.CharmDBName != "plugstore" {
		t.Errorf("CharmDBName = %s, want plugstore", cfg.CharmDBName)
	}
	if !cfg.AutoSync {
		t.Error("AutoSync = false, want true")
	}
	if cfg.ContextLinesBefore != 3 || cfg.ContextLinesAfter != 3 {
		t.Errorf("ContextLines = %d/%d, want 3/3", cfg.ContextLinesBefore, cfg.ContextLinesAfter)
	}
	if cfg.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, want 3", cfg.MaxDepth)
	}
	if cfg.LazyWidth != 30 || cfg.VimPackWidth != 80 {
		t.Errorf("widths = %d/%d, want 30/80", cfg.LazyWidth, cfg.VimPackWidth)
	}
	if cfg.Concurrency != 40 {
		t.Errorf("Concurrency = %d, want 40", cfg.Concurrency)
	}
	if !cfg.UseCache {
		t.Error("UseCache = false, want true")
	}
	if cfg.FetchTimeout != 30*time.Second {
		t.Errorf("FetchTimeout = %v, want 30s", cfg.FetchTimeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != time.Second {
		t.Errorf("RetryDelay = %v, want 1s", cfg.RetryDelay)
	}
	if diff := cmp.Diff(DefaultReadmeNames, cfg.ReadmeNames); diff != "" {
		t.Errorf("ReadmeNames mismatch (-want +got):\n%s", diff)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if filepath.Base(cfg.OutputDir) != "plugstore" {
		t.Errorf("OutputDir = %s, want a plugstore directory", cfg.OutputDir)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	// Set custom environment variables
	os.Clearenv()
	os.Setenv("CHARM_HOST", "custom.charm.sh")
	os.Setenv("CHARM_DB", "test_db")
	os.Setenv("CHARM_AUTO_SYNC", "false")
	os.Setenv("PLUGSTORE_CONTEXT_BEFORE", "5")
	os.Setenv("PLUGSTORE_CONTEXT_AFTER", "1")
	os.Setenv("PLUGSTORE_MAX_DEPTH", "6")
	os.Setenv("PLUGSTORE_LAZY_WIDTH", "40")
	os.Setenv("PLUGSTORE_VIMPACK_WIDTH", "100")
	os.Setenv("PLUGSTORE_CONCURRENCY", "8")
	os.Setenv("PLUGSTORE_CACHE", "0")
	os.Setenv("PLUGSTORE_README_NAMES", "README.md, doc/README.md ,")
	os.Setenv("PLUGSTORE_FETCH_TIMEOUT", "5s")
	os.Setenv("PLUGSTORE_FETCH_RETRIES", "0")
	os.Setenv("PLUGSTORE_FETCH_RETRY_DELAY", "250ms")
	os.Setenv("XDG_DATA_HOME", "/tmp/xdg")
	os.Setenv("GITHUB_TOKEN", "gh-token")
	os.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Verify custom values
	if cfg.CharmHost != "custom.charm.sh" {
		t.Errorf("CharmHost = %s, want custom.charm.sh", cfg.CharmHost)
	}
	if cfg.CharmDBName != "test_db" {
		t.Errorf("CharmDBName = %s, want test_db", cfg.CharmDBName)
	}
	if cfg.AutoSync {
		t.Error("AutoSync = true, want false")
	}
	if cfg.ContextLinesBefore != 5 || cfg.ContextLinesAfter != 1 {
		t.Errorf("ContextLines = %d/%d, want 5/1", cfg.ContextLinesBefore, cfg.ContextLinesAfter)
	}
	if cfg.MaxDepth != 6 {
		t.Errorf("MaxDepth = %d, want 6", cfg.MaxDepth)
	}
	if cfg.LazyWidth != 40 || cfg.VimPackWidth != 100 {
		t.Errorf("widths = %d/%d, want 40/100", cfg.LazyWidth, cfg.VimPackWidth)
	}
	if cfg.Concurrency != 8 {
		t.Errorf("Concurrency = %d, want 8", cfg.Concurrency)
	}
	if cfg.UseCache {
		t.Error("UseCache = true, want false")
	}
	if diff := cmp.Diff([]string{"README.md", "doc/README.md"}, cfg.ReadmeNames); diff != "" {
		t.Errorf("ReadmeNames mismatch (-want +got):\n%s", diff)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("FetchTimeout = %v, want 5s", cfg.FetchTimeout)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 250*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 250ms", cfg.RetryDelay)
	}
	if cfg.OutputDir != "/tmp/xdg/plugstore" {
		t.Errorf("OutputDir = %s, want /tmp/xdg/plugstore", cfg.OutputDir)
	}
	if cfg.GitHubToken != "gh-token" {
		t.Errorf("GitHubToken = %s, want gh-token", cfg.GitHubToken)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %s, want debug", cfg.LogLevel)
	}
}

func validConfig() *Config {
	return &Config{
		MaxDepth:     3,
		LazyWidth:    30,
		VimPackWidth: 80,
		Concurrency:  40,
		MaxRetries:   3,
		FetchTimeout: time.Second,
		ReadmeNames:  []string{"README.md"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative context", func(c *Config) { c.ContextLinesBefore = -1 }},
		{"zero depth", func(c *Config) { c.MaxDepth = 0 }},
		{"narrow lazy width", func(c *Config) { c.LazyWidth = 5 }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"huge concurrency", func(c *Config) { c.Concurrency = 1000 }},
		{"too many retries", func(c *Config) { c.MaxRetries = 15 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"zero timeout", func(c *Config) { c.FetchTimeout = 0 }},
		{"no readme names", func(c *Config) { c.ReadmeNames = nil }},
	}

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Validate() on valid config error = %v", err)
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name       string
		value      string
		defaultVal bool
		want       bool
	}{
		{"empty uses default true", "", true, true},
		{"empty uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			if tt.value != "" {
				os.Setenv("TEST_BOOL", tt.value)
			}
			got := getEnvBool("TEST_BOOL", tt.defaultVal)
			if got != tt.want {
				t.Errorf("getEnvBool() = %v, want %v", got, tt.want)
			}
		})
	}
}
