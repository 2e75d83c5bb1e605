// ABOUTME: Formatter pretty-prints migrated code at fixed widths per target
// ABOUTME: A chunk whose output fails to format or validate is dropped whole
package core

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harper/plugstore/internal/lua"
	"github.com/harper/plugstore/internal/models"
)

// FormatterConfig sets the line width of each target
type FormatterConfig struct {
	LazyWidth    int
	VimPackWidth int
}

// DefaultFormatterConfig returns the narrow lazy.nvim and wide vim.pack widths
func DefaultFormatterConfig() FormatterConfig {
	return FormatterConfig{LazyWidth: 30, VimPackWidth: 80}
}

// Formatter formats migrated chunks
type Formatter struct {
	cfg    FormatterConfig
	logger *log.Logger
}

// NewFormatter creates a formatter, filling unset widths with defaults
func NewFormatter(cfg FormatterConfig, logger *log.Logger) *Formatter {
	def := DefaultFormatterConfig()
	if cfg.LazyWidth <= 0 {
		cfg.LazyWidth = def.LazyWidth
	}
	if cfg.VimPackWidth <= 0 {
		cfg.VimPackWidth = def.VimPackWidth
	}
	return &Formatter{cfg: cfg, logger: logger}
}

// Format formats every chunk and returns the survivors with the number dropped
func (f *Formatter) Format(repo string, chunks []models.MigratedChunk) ([]models.FormattedChunk, int) {
	var out []models.FormattedChunk
	failed := 0
	for _, c := range chunks {
		fc, err := f.FormatChunk(c)
		if err != nil {
			failed++
			f.logger.Warn("formatting failed, dropping chunk", "repo", repo, "manager", c.PluginManager, "err", err)
			continue
		}
		out = append(out, fc)
	}
	return out, failed
}

// FormatChunk formats both renditions of one chunk
func (f *Formatter) FormatChunk(c models.MigratedChunk) (models.FormattedChunk, error) {
	lazy, err := f.Lazy(c.MigratedLazy)
	if err != nil {
		return models.FormattedChunk{}, err
	}
	vimPack, err := f.VimPack(c.MigratedVimPack)
	if err != nil {
		return models.FormattedChunk{}, err
	}
	return models.FormattedChunk{
		MigratedChunk:    c,
		FormattedLazy:    lazy,
		FormattedVimPack: vimPack,
	}, nil
}

// Lazy formats lazy.nvim code
func (f *Formatter) Lazy(src string) (string, error) {
	return format(src, f.cfg.LazyWidth, models.LazyNvim)
}

// VimPack formats vim.pack code
func (f *Formatter) VimPack(src string) (string, error) {
	return format(src, f.cfg.VimPackWidth, models.VimPack)
}

func format(src string, width int, target models.PluginManager) (string, error) {
	out, err := lua.Format(src, width)
	if err != nil {
		return "", fmt.Errorf("formatting %s code: %w", target, err)
	}
	return strings.TrimSpace(out), nil
}
