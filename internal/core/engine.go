// ABOUTME: Engine runs cutter, rater, extractor, migrator and formatter for one README
// ABOUTME: Also selects the canonical installation and synthesizes the fallback default
package core

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/harper/plugstore/internal/lua"
	"github.com/harper/plugstore/internal/models"
	"github.com/yuin/gopher-lua/ast"
)

// Config configures every stage of the engine
type Config struct {
	Cutter    CutterConfig
	Extractor ExtractorConfig
	Formatter FormatterConfig
}

// DefaultConfig returns the standard stage settings
func DefaultConfig() Config {
	return Config{
		Cutter:    DefaultCutterConfig(),
		Extractor: DefaultExtractorConfig(),
		Formatter: DefaultFormatterConfig(),
	}
}

// Stats counts what happened to chunks at each stage
type Stats struct {
	Cut             int `json:"cut" yaml:"cut"`
	High            int `json:"high" yaml:"high"`
	Extracted       int `json:"extracted" yaml:"extracted"`
	ExtractRejected int `json:"extractRejected" yaml:"extractRejected"`
	Ambiguous       int `json:"ambiguous" yaml:"ambiguous"`
	Migrated        int `json:"migrated" yaml:"migrated"`
	MigrateRejected int `json:"migrateRejected" yaml:"migrateRejected"`
	Formatted       int `json:"formatted" yaml:"formatted"`
	FormatFailed    int `json:"formatFailed" yaml:"formatFailed"`
}

// Result is the outcome of one engine run
type Result struct {
	Chunks []models.FormattedChunk `json:"chunks" yaml:"chunks"`
	Stats  Stats                   `json:"stats" yaml:"stats"`
}

// Engine is the extraction and migration pipeline. It holds no per-run state
// and may be shared between goroutines.
type Engine struct {
	cutter    *Cutter
	rater     *Rater
	extractor *Extractor
	migrator  *Migrator
	formatter *Formatter
	logger    *log.Logger
}

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(cfg Config, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		cutter:    NewCutter(cfg.Cutter),
		rater:     NewRater(),
		extractor: NewExtractor(cfg.Extractor, logger.With("stage", "extractor")),
		migrator:  NewMigrator(logger.With("stage", "migrator")),
		formatter: NewFormatter(cfg.Formatter, logger.With("stage", "formatter")),
		logger:    logger,
	}
}

// Process runs the pipeline over readme. An empty README yields no chunks.
// The only error is a *GenerationError or an invalid repository.
func (e *Engine) Process(repo models.Repository, readme string) (*Result, error) {
	if err := repo.Normalize(); err != nil {
		return nil, fmt.Errorf("invalid repository: %w", err)
	}
	res := &Result{}
	if readme == "" {
		return res, nil
	}

	chunks := e.cutter.Cut(repo.FullName, readme)
	res.Stats.Cut = len(chunks)

	rated := e.rater.Rate(repo.FullName, chunks)
	for _, rc := range rated {
		if len(rc.HighManagers()) > 0 {
			res.Stats.High++
		}
	}

	extracted, xs := e.extractor.Extract(repo.FullName, rated)
	res.Stats.Extracted = len(extracted)
	res.Stats.ExtractRejected = xs.Rejected
	res.Stats.Ambiguous = xs.Ambiguous

	migrated, rejected, err := e.migrator.Migrate(repo, extracted)
	res.Stats.MigrateRejected = rejected
	if err != nil {
		return nil, err
	}
	res.Stats.Migrated = len(migrated)

	formatted, failed := e.formatter.Format(repo.FullName, migrated)
	res.Chunks = formatted
	res.Stats.Formatted = len(formatted)
	res.Stats.FormatFailed = failed

	e.logger.Debug("pipeline finished", "repo", repo.FullName,
		"cut", res.Stats.Cut, "high", res.Stats.High, "extracted", res.Stats.Extracted,
		"migrated", res.Stats.Migrated, "formatted", res.Stats.Formatted)
	return res, nil
}

// Install runs the pipeline and selects the canonical installation, falling
// back to the default when nothing survives. On error the default is returned too.
func (e *Engine) Install(repo models.Repository, readme string) (models.Installation, *Result, error) {
	res, err := e.Process(repo, readme)
	if err != nil {
		return e.Default(repo), res, err
	}
	if inst, ok := SelectInstallation(res.Chunks); ok {
		return inst, res, nil
	}
	return e.Default(repo), res, nil
}

// Default synthesizes the fallback installation for repo
func (e *Engine) Default(repo models.Repository) models.Installation {
	_ = repo.Normalize()
	return DefaultInstallation(repo, e.formatter)
}

// SelectInstallation picks the chunk of the highest priority manager
func SelectInstallation(chunks []models.FormattedChunk) (models.Installation, bool) {
	for _, m := range models.DetectableManagers {
		for _, c := range chunks {
			if c.PluginManager != m {
				continue
			}
			return models.Installation{
				Source:  models.InstallSource(m),
				Lazy:    c.FormattedLazy,
				VimPack: c.FormattedVimPack,
			}, true
		}
	}
	return models.Installation{}, false
}

// DefaultInstallation is a VeryLazy lazy.nvim spec and a single vim.pack.add for repo
func DefaultInstallation(repo models.Repository, f *Formatter) models.Installation {
	lazy := printTarget(lazySpec(repo.FullName))
	vimPack := printTarget(vimPackSections(repo, nil, nil)...)
	if f != nil {
		if out, err := f.Lazy(lazy); err == nil {
			lazy = out
		}
		if out, err := f.VimPack(vimPack); err == nil {
			vimPack = out
		}
	}
	return models.Installation{
		Source:  models.InstallDefault,
		Lazy:    lazy,
		VimPack: vimPack,
	}
}

func printTarget(sections ...[]ast.Stmt) string {
	return lua.Print(migratedWidth, sections...)
}
