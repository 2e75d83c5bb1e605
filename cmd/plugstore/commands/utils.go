// ABOUTME: Shared helpers for CLI commands
// ABOUTME: Loads configuration, builds loggers and picks the output format
package commands

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/harper/plugstore/internal/charm"
	"github.com/harper/plugstore/internal/config"
	"github.com/harper/plugstore/internal/core"
	"github.com/harper/plugstore/internal/logging"
	"github.com/harper/plugstore/internal/readme"
	"github.com/joho/godotenv"
	"golang.org/x/term"
)

// loadConfig reads .env (if any) and the environment
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()
	return config.Load()
}

// newLogger builds the command logger honoring --verbose and --quiet
func newLogger(w io.Writer, cfg *config.Config) (*log.Logger, error) {
	return logging.New(w, logging.Options{
		Level:   cfg.LogLevel,
		Verbose: verbose,
		Quiet:   quiet,
	})
}

func engineConfig(cfg *config.Config) core.Config {
	ec := core.DefaultConfig()
	ec.Cutter.ContextLinesBefore = cfg.ContextLinesBefore
	ec.Cutter.ContextLinesAfter = cfg.ContextLinesAfter
	ec.Extractor.MaxDepth = cfg.MaxDepth
	ec.Formatter.LazyWidth = cfg.LazyWidth
	ec.Formatter.VimPackWidth = cfg.VimPackWidth
	return ec
}

func fetcherConfig(cfg *config.Config) readme.Config {
	return readme.Config{
		Names:       cfg.ReadmeNames,
		Timeout:     cfg.FetchTimeout,
		MaxRetries:  cfg.MaxRetries,
		RetryDelay:  cfg.RetryDelay,
		GitHubToken: cfg.GitHubToken,
		GitLabToken: cfg.GitLabToken,
	}
}

func charmConfig(cfg *config.Config) *charm.Config {
	return &charm.Config{
		Host:     cfg.CharmHost,
		DBName:   cfg.CharmDBName,
		AutoSync: cfg.AutoSync,
	}
}

// resolveFormat turns --format auto into text on a terminal and json otherwise
func resolveFormat(w io.Writer) string {
	if outputFormat != "auto" {
		return outputFormat
	}
	if isTerminal(w) {
		return "text"
	}
	return "json"
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// truncate shortens a string to maxLen, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return string(runes[:maxLen-3]) + "..."
}

// containsString checks if a slice contains a string
func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
