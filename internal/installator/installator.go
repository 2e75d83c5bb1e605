// ABOUTME: Installator resolves installations for many repositories concurrently
// ABOUTME: Reuses fresh cache entries, otherwise fetches the README and runs the engine
package installator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harper/plugstore/internal/core"
	"github.com/harper/plugstore/internal/models"
	"github.com/harper/plugstore/internal/readme"
	"github.com/harper/plugstore/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Fetcher retrieves a repository README
type Fetcher interface {
	Fetch(ctx context.Context, repo models.Repository) (*readme.Readme, error)
}

// Engine turns README text into an installation
type Engine interface {
	Install(repo models.Repository, readme string) (models.Installation, *core.Result, error)
	Default(repo models.Repository) models.Installation
}

// Config configures a batch run
type Config struct {
	Concurrency int
	UseCache    bool
	// OutputDir receives the debug report; empty disables it
	OutputDir    string
	ReportFormat string
}

// DefaultConfig returns the standard batch settings
func DefaultConfig() Config {
	return Config{Concurrency: 40, UseCache: true, ReportFormat: "json"}
}

// Outcome is the result of a batch run
type Outcome struct {
	Installations map[string]models.Installation
	Report        *models.Report
	ReportPath    string
}

// Installator drives the engine over a repository list
type Installator struct {
	cfg     Config
	engine  Engine
	fetcher Fetcher
	cache   storage.InstallCache
	logger  *log.Logger
}

// New creates an installator. cache may be nil.
func New(cfg Config, engine Engine, fetcher Fetcher, cache storage.InstallCache, logger *log.Logger) *Installator {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.ReportFormat == "" {
		cfg.ReportFormat = "json"
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Installator{
		cfg:     cfg,
		engine:  engine,
		fetcher: fetcher,
		cache:   cache,
		logger:  logger,
	}
}

// Run resolves every repository. A failing repository falls back to its
// default installation and never aborts the batch; only cancellation does.
func (in *Installator) Run(ctx context.Context, repos []models.Repository) (*Outcome, error) {
	report := &models.Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Entries:   make([]models.DebugEntry, len(repos)),
	}
	logger := in.logger.With("run", report.RunID)
	logger.Info("batch started", "repos", len(repos), "concurrency", in.cfg.Concurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.cfg.Concurrency)
	for i, repo := range repos {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report.Entries[i] = in.Resolve(gctx, repo)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.FinishedAt = time.Now().UTC()
	report.Summary = summarize(report.Entries)

	out := &Outcome{
		Installations: make(map[string]models.Installation, len(repos)),
		Report:        report,
	}
	for _, e := range report.Entries {
		out.Installations[e.FullName] = e.Installation
	}

	if runs, ok := in.cache.(storage.RunLog); ok {
		if err := runs.PutRun(report.Record()); err != nil {
			logger.Warn("failed to record run", "error", err)
		}
	}

	if in.cfg.OutputDir != "" {
		path, err := storage.WriteReport(in.cfg.OutputDir, report, in.cfg.ReportFormat)
		if err != nil {
			return out, fmt.Errorf("failed to write report: %w", err)
		}
		out.ReportPath = path
	}

	logger.Info("batch finished",
		"total", report.Summary.Total,
		"cached", report.Summary.Cached,
		"processed", report.Summary.Processed,
		"defaulted", report.Summary.Defaulted,
		"failed", report.Summary.Failed)
	return out, nil
}

// Resolve produces the installation of a single repository
func (in *Installator) Resolve(ctx context.Context, repo models.Repository) models.DebugEntry {
	entry := models.DebugEntry{FullName: repo.FullName}
	logger := in.logger.With("repo", repo.FullName)

	if err := repo.Normalize(); err != nil {
		logger.Error("invalid repository", "err", err)
		entry.Source = models.ResolveProcessed
		entry.Error = err.Error()
		return entry
	}
	entry.Default = in.engine.Default(repo)

	if in.cfg.UseCache && in.cache != nil {
		inst, ok, err := storage.Lookup(in.cache, repo)
		switch {
		case err != nil:
			logger.Warn("cache lookup failed", "err", err)
		case ok:
			logger.Debug("cache hit")
			entry.Source = models.ResolveCache
			entry.Installation = inst
			return entry
		}
	}

	entry.Source = models.ResolveProcessed
	text := ""
	cacheable := true
	doc, err := in.fetcher.Fetch(ctx, repo)
	switch {
	case errors.Is(err, readme.ErrNotFound):
		logger.Warn("no readme found")
	case err != nil:
		logger.Error("readme fetch failed", "err", err)
		entry.Error = err.Error()
		cacheable = false
	default:
		entry.ReadmePath = doc.Path
		text = doc.Text
	}

	inst, res, err := in.engine.Install(repo, text)
	if err != nil {
		// the default stands in for a rules defect; retry on the next run
		logger.Error("generation failed, using default", "err", err)
		entry.Error = err.Error()
		cacheable = false
	}
	if res != nil {
		entry.Chunks = res.Chunks
		if len(res.Chunks) == 0 && text != "" {
			logger.Warn("no installation chunks survived", "cut", res.Stats.Cut, "high", res.Stats.High)
		}
	}
	entry.Installation = inst

	if cacheable && in.cache != nil {
		if err := in.cache.Put(repo.FullName, models.NewCacheEntry(repo, inst)); err != nil {
			logger.Warn("cache write failed", "err", err)
		}
	}
	return entry
}

func summarize(entries []models.DebugEntry) models.RunSummary {
	s := models.RunSummary{Total: len(entries)}
	for _, e := range entries {
		switch e.Source {
		case models.ResolveCache:
			s.Cached++
		case models.ResolveProcessed:
			s.Processed++
		}
		if e.UsedDefault() {
			s.Defaulted++
		}
		if e.Source == models.ResolveProcessed && e.ReadmePath == "" && e.Error == "" {
			s.NoReadme++
		}
		if e.Error != "" {
			s.Failed++
		}
	}
	return s
}
