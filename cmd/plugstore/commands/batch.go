// ABOUTME: CLI command resolving installations for a list of repositories
// ABOUTME: Runs the cache-aware orchestrator and writes installations and a debug report
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/harper/plugstore/internal/charm"
	"github.com/harper/plugstore/internal/core"
	"github.com/harper/plugstore/internal/installator"
	"github.com/harper/plugstore/internal/readme"
	"github.com/harper/plugstore/internal/storage"
	"github.com/spf13/cobra"
)

var (
	batchRepos        string
	batchOut          string
	batchNoCache      bool
	batchNoReport     bool
	batchReportFormat string
	batchConcurrency  int
)

// NewBatchCmd creates the batch command
func NewBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Resolve installations for many repositories",
		Long: `Resolve installation snippets for every repository in a list.

The list is a JSON or YAML array of "owner/name" strings or repository
objects (full_name, source, branch, updated_at). Repositories whose
cached installation is at least as new as their updated_at are reused;
the rest have their README fetched and processed. A debug report for
the run is written to the output directory.`,
		Example: `  plugstore batch --repos repos.json --out installs.json
  plugstore batch --repos repos.yaml --no-cache --report-format yaml`,
		RunE: runBatch,
	}

	cmd.Flags().StringVar(&batchRepos, "repos", "", "Repository list (.json or .yaml)")
	cmd.Flags().StringVar(&batchOut, "out", "", "Write installations to this file (.json or .yaml)")
	cmd.Flags().BoolVar(&batchNoCache, "no-cache", false, "Ignore and skip the installation cache")
	cmd.Flags().BoolVar(&batchNoReport, "no-report", false, "Do not write a debug report")
	cmd.Flags().StringVar(&batchReportFormat, "report-format", "json", "Debug report format: json or yaml")
	cmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "Concurrent repositories (default from PLUGSTORE_CONCURRENCY)")
	_ = cmd.MarkFlagRequired("repos")

	return cmd
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if batchConcurrency > 0 {
		cfg.Concurrency = batchConcurrency
	}
	if batchNoCache {
		cfg.UseCache = false
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	repos, err := storage.LoadRepositories(batchRepos)
	if err != nil {
		return err
	}

	var cache storage.InstallCache
	if cfg.UseCache {
		charm.Configure(charmConfig(cfg))
		cc, err := storage.OpenCharmCache()
		if err != nil {
			logger.Warn("installation cache unavailable, continuing without it", "err", err)
		} else {
			cache = cc
		}
	}

	icfg := installator.Config{
		Concurrency:  cfg.Concurrency,
		UseCache:     cfg.UseCache,
		ReportFormat: batchReportFormat,
	}
	if !batchNoReport {
		icfg.OutputDir = cfg.OutputDir
	}

	engine := core.NewEngine(engineConfig(cfg), logger)
	fetcher := readme.NewFetcher(fetcherConfig(cfg), logger)
	in := installator.New(icfg, engine, fetcher, cache, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, err := in.Run(ctx, repos)
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	if batchOut != "" {
		if err := storage.WriteInstallations(batchOut, out.Installations); err != nil {
			return err
		}
	}

	format := resolveFormat(cmd.OutOrStdout())
	if format != "text" {
		return storage.Encode(cmd.OutOrStdout(), out.Report.Summary, format)
	}

	s := out.Report.Summary
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Total\t%d\n", s.Total)
	fmt.Fprintf(w, "Cached\t%d\n", s.Cached)
	fmt.Fprintf(w, "Processed\t%d\n", s.Processed)
	fmt.Fprintf(w, "Defaulted\t%d\n", s.Defaulted)
	fmt.Fprintf(w, "No README\t%d\n", s.NoReadme)
	fmt.Fprintf(w, "Failed\t%d\n", s.Failed)
	w.Flush()

	if !quiet {
		if out.ReportPath != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "\nReport: %s\n", out.ReportPath)
		}
		if batchOut != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Installations: %s\n", batchOut)
		}
	}
	return nil
}
