// ABOUTME: Centralized configuration for the plugstore engine and its commands
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// DefaultReadmeNames are tried in order when fetching a README
var DefaultReadmeNames = []string{"README.md", "readme.md", "Readme.md", "README.markdown", "README.adoc", "README"}

// Config holds all configuration for plugstore
type Config struct {
	// Charm settings
	CharmHost   string
	CharmDBName string
	AutoSync    bool

	// Engine settings
	ContextLinesBefore int
	ContextLinesAfter  int
	MaxDepth           int
	LazyWidth          int
	VimPackWidth       int

	// Orchestrator settings
	Concurrency int
	UseCache    bool
	OutputDir   string

	// README fetch settings
	ReadmeNames  []string
	FetchTimeout time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
	GitHubToken  string
	GitLabToken  string

	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		CharmHost:          getEnv("CHARM_HOST", "cloud.charm.sh"),
		CharmDBName:        getEnv("CHARM_DB", "plugstore"),
		AutoSync:           getEnvBool("CHARM_AUTO_SYNC", true),
		ContextLinesBefore: getEnvInt("PLUGSTORE_CONTEXT_BEFORE", 3),
		ContextLinesAfter:  getEnvInt("PLUGSTORE_CONTEXT_AFTER", 3),
		MaxDepth:           getEnvInt("PLUGSTORE_MAX_DEPTH", 3),
		LazyWidth:          getEnvInt("PLUGSTORE_LAZY_WIDTH", 30),
		VimPackWidth:       getEnvInt("PLUGSTORE_VIMPACK_WIDTH", 80),
		Concurrency:        getEnvInt("PLUGSTORE_CONCURRENCY", 40),
		UseCache:           getEnvBool("PLUGSTORE_CACHE", true),
		OutputDir:          getEnv("PLUGSTORE_OUTPUT_DIR", defaultOutputDir()),
		ReadmeNames:        getEnvList("PLUGSTORE_README_NAMES", DefaultReadmeNames),
		FetchTimeout:       getEnvDuration("PLUGSTORE_FETCH_TIMEOUT", 30*time.Second),
		MaxRetries:         getEnvInt("PLUGSTORE_FETCH_RETRIES", 3),
		RetryDelay:         getEnvDuration("PLUGSTORE_FETCH_RETRY_DELAY", time.Second),
		GitHubToken:        os.Getenv("GITHUB_TOKEN"),
		GitLabToken:        os.Getenv("GITLAB_TOKEN"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ContextLinesBefore < 0 || c.ContextLinesAfter < 0 {
		return fmt.Errorf("PLUGSTORE_CONTEXT_BEFORE/AFTER must be >= 0, got %d/%d", c.ContextLinesBefore, c.ContextLinesAfter)
	}
	if c.MaxDepth < 1 || c.MaxDepth > 32 {
		return fmt.Errorf("PLUGSTORE_MAX_DEPTH must be 1-32, got %d", c.MaxDepth)
	}
	if c.LazyWidth < 10 || c.VimPackWidth < 10 {
		return fmt.Errorf("PLUGSTORE_LAZY_WIDTH and PLUGSTORE_VIMPACK_WIDTH must be >= 10, got %d/%d", c.LazyWidth, c.VimPackWidth)
	}
	if c.Concurrency < 1 || c.Concurrency > 256 {
		return fmt.Errorf("PLUGSTORE_CONCURRENCY must be 1-256, got %d", c.Concurrency)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("PLUGSTORE_FETCH_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("PLUGSTORE_FETCH_TIMEOUT must be positive, got %v", c.FetchTimeout)
	}
	if len(c.ReadmeNames) == 0 {
		return fmt.Errorf("PLUGSTORE_README_NAMES cannot be empty")
	}
	return nil
}

// defaultOutputDir follows XDG_DATA_HOME, falling back to the platform data dir
func defaultOutputDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "plugstore")
	}
	return filepath.Join(xdg.DataHome, "plugstore")
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return append([]string(nil), defaultVal...)
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
