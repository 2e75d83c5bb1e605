// ABOUTME: Tests for the batch orchestrator over a fake fetcher and in-memory cache
// ABOUTME: Covers cache freshness, README misses, fetch failures and report output
package installator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harper/plugstore/internal/core"
	"github.com/harper/plugstore/internal/models"
	"github.com/harper/plugstore/internal/readme"
	"github.com/harper/plugstore/internal/storage"
)

const vimPlugReadme = "## Install\n\nUsing vim-plug:\n\n```vim\nPlug 'me/plug'\n```\n"

type fakeFetcher struct {
	mu       sync.Mutex
	readmes  map[string]string
	failures map[string]error
	calls    map[string]int
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	delay    time.Duration
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		readmes:  make(map[string]string),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, repo models.Repository) (*readme.Readme, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[repo.FullName]++
	if err, ok := f.failures[repo.FullName]; ok {
		return nil, err
	}
	text, ok := f.readmes[repo.FullName]
	if !ok {
		return nil, fmt.Errorf("%s: %w", repo.FullName, readme.ErrNotFound)
	}
	return &readme.Readme{Path: "README.md", Text: text}, nil
}

// brokenEngine reports a generation defect for every README
type brokenEngine struct {
	*core.Engine
}

func (e brokenEngine) Install(repo models.Repository, _ string) (models.Installation, *core.Result, error) {
	err := &core.GenerationError{
		Manager: models.LazyNvim,
		Target:  models.VimPack,
		Err:     errors.New("compiling lua: unexpected symbol"),
	}
	return e.Default(repo), &core.Result{}, err
}

func newTestInstallator(fetcher Fetcher, cache storage.InstallCache, cfg Config) *Installator {
	return New(cfg, core.NewEngine(core.DefaultConfig(), nil), fetcher, cache, nil)
}

func repo(t *testing.T, name string, updated time.Time) models.Repository {
	t.Helper()
	r, err := models.NewRepository(name)
	if err != nil {
		t.Fatalf("NewRepository(%q) error = %v", name, err)
	}
	r.UpdatedAt = updated
	return r
}

func TestResolveProcessed(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.readmes["me/plug"] = vimPlugReadme
	cache := storage.NewMemoryCache()
	in := newTestInstallator(fetcher, cache, DefaultConfig())

	entry := in.Resolve(context.Background(), repo(t, "me/plug", time.Now()))

	if entry.Source != models.ResolveProcessed {
		t.Errorf("Source = %s, want processed", entry.Source)
	}
	if entry.Installation.Source != models.InstallVimPlug {
		t.Errorf("Installation.Source = %s, want vim-plug", entry.Installation.Source)
	}
	if entry.ReadmePath != "README.md" {
		t.Errorf("ReadmePath = %q, want README.md", entry.ReadmePath)
	}
	if len(entry.Chunks) != 1 {
		t.Errorf("len(Chunks) = %d, want 1", len(entry.Chunks))
	}
	if entry.Default.Source != models.InstallDefault {
		t.Errorf("Default.Source = %s, want default", entry.Default.Source)
	}
	if _, ok, _ := cache.Get("me/plug"); !ok {
		t.Error("processed installation was not cached")
	}
}

func TestResolveGenerationErrorNotCached(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.readmes["me/plug"] = vimPlugReadme
	cache := storage.NewMemoryCache()
	engine := brokenEngine{Engine: core.NewEngine(core.DefaultConfig(), nil)}
	in := New(DefaultConfig(), engine, fetcher, cache, nil)

	entry := in.Resolve(context.Background(), repo(t, "me/plug", time.Now()))

	if entry.Installation.Source != models.InstallDefault {
		t.Errorf("Installation.Source = %s, want default", entry.Installation.Source)
	}
	if entry.Error == "" {
		t.Error("Error is empty, want the generation error")
	}
	if _, ok, _ := cache.Get("me/plug"); ok {
		t.Error("default after a generation error was cached")
	}

	in.Resolve(context.Background(), repo(t, "me/plug", time.Now()))
	if got := fetcher.calls["me/plug"]; got != 2 {
		t.Errorf("fetch calls = %d, want 2", got)
	}
}

func TestResolveCacheFreshness(t *testing.T) {
	cachedAt := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	cached := models.Installation{Source: models.InstallLazy, Lazy: "cached", VimPack: "cached"}

	tests := []struct {
		name       string
		updated    time.Time
		wantSource models.ResolveSource
		wantCalls  int
	}{
		{"fresh entry reused", cachedAt, models.ResolveCache, 0},
		{"stale entry refreshed", cachedAt.Add(time.Hour), models.ResolveProcessed, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := newFakeFetcher()
			fetcher.readmes["me/plug"] = vimPlugReadme
			cache := storage.NewMemoryCache()
			r := repo(t, "me/plug", cachedAt)
			_ = cache.Put("me/plug", models.NewCacheEntry(r, cached))

			in := newTestInstallator(fetcher, cache, DefaultConfig())
			entry := in.Resolve(context.Background(), repo(t, "me/plug", tt.updated))

			if entry.Source != tt.wantSource {
				t.Errorf("Source = %s, want %s", entry.Source, tt.wantSource)
			}
			if fetcher.calls["me/plug"] != tt.wantCalls {
				t.Errorf("fetch calls = %d, want %d", fetcher.calls["me/plug"], tt.wantCalls)
			}
			if tt.wantSource == models.ResolveCache && entry.Installation != cached {
				t.Errorf("Installation = %+v, want cached %+v", entry.Installation, cached)
			}
		})
	}
}

func TestResolveCacheDisabled(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.readmes["me/plug"] = vimPlugReadme
	cache := storage.NewMemoryCache()
	r := repo(t, "me/plug", time.Now())
	_ = cache.Put("me/plug", models.NewCacheEntry(r, models.Installation{Source: models.InstallLazy}))

	cfg := DefaultConfig()
	cfg.UseCache = false
	entry := newTestInstallator(fetcher, cache, cfg).Resolve(context.Background(), r)

	if entry.Source != models.ResolveProcessed {
		t.Errorf("Source = %s, want processed", entry.Source)
	}
	if fetcher.calls["me/plug"] != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.calls["me/plug"])
	}
}

func TestResolveNoReadme(t *testing.T) {
	cache := storage.NewMemoryCache()
	in := newTestInstallator(newFakeFetcher(), cache, DefaultConfig())

	entry := in.Resolve(context.Background(), repo(t, "me/plug", time.Now()))

	if !entry.UsedDefault() {
		t.Errorf("Installation.Source = %s, want default", entry.Installation.Source)
	}
	if entry.Installation != entry.Default {
		t.Errorf("Installation = %+v, want the default %+v", entry.Installation, entry.Default)
	}
	if entry.Error != "" {
		t.Errorf("Error = %q, want none for a missing README", entry.Error)
	}
	if _, ok, _ := cache.Get("me/plug"); !ok {
		t.Error("default installation for a README-less repository should be cached")
	}
}

func TestResolveFetchFailure(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.failures["me/plug"] = errors.New("connection reset")
	cache := storage.NewMemoryCache()
	in := newTestInstallator(fetcher, cache, DefaultConfig())

	entry := in.Resolve(context.Background(), repo(t, "me/plug", time.Now()))

	if !entry.UsedDefault() {
		t.Errorf("Installation.Source = %s, want default", entry.Installation.Source)
	}
	if !strings.Contains(entry.Error, "connection reset") {
		t.Errorf("Error = %q, want the fetch failure", entry.Error)
	}
	if _, ok, _ := cache.Get("me/plug"); ok {
		t.Error("transient fetch failures must not be cached")
	}
}

func TestRun(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.readmes["me/plug"] = vimPlugReadme
	fetcher.failures["bad/plug"] = errors.New("boom")

	cfg := DefaultConfig()
	cfg.OutputDir = t.TempDir()
	cache := storage.NewMemoryCache()
	in := newTestInstallator(fetcher, cache, cfg)

	repos := []models.Repository{
		repo(t, "me/plug", time.Now()),
		repo(t, "none/plug", time.Now()),
		repo(t, "bad/plug", time.Now()),
	}
	out, err := in.Run(context.Background(), repos)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(out.Report.Entries) != 3 {
		t.Fatalf("len(Entries) = %d, want 3", len(out.Report.Entries))
	}
	for i, r := range repos {
		if out.Report.Entries[i].FullName != r.FullName {
			t.Errorf("Entries[%d] = %s, want %s", i, out.Report.Entries[i].FullName, r.FullName)
		}
	}

	want := models.RunSummary{Total: 3, Processed: 3, Defaulted: 2, NoReadme: 1, Failed: 1}
	if out.Report.Summary != want {
		t.Errorf("Summary = %+v, want %+v", out.Report.Summary, want)
	}
	if got := out.Installations["me/plug"].Source; got != models.InstallVimPlug {
		t.Errorf("me/plug source = %s, want vim-plug", got)
	}
	if out.Report.RunID == "" {
		t.Error("RunID should be set")
	}
	if _, err := os.Stat(out.ReportPath); err != nil {
		t.Errorf("report not written: %v", err)
	}

	runs, err := cache.Runs()
	if err != nil {
		t.Fatalf("Runs() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("len(Runs()) = %d, want 1", len(runs))
	}
	if runs[0].RunID != out.Report.RunID || runs[0].Summary != want {
		t.Errorf("recorded run = %+v, want id %s summary %+v", runs[0], out.Report.RunID, want)
	}
}

func TestRunSecondPassUsesCache(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.readmes["me/plug"] = vimPlugReadme
	in := newTestInstallator(fetcher, storage.NewMemoryCache(), DefaultConfig())
	repos := []models.Repository{repo(t, "me/plug", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}

	if _, err := in.Run(context.Background(), repos); err != nil {
		t.Fatalf("first Run() error = %v", err)
	}
	out, err := in.Run(context.Background(), repos)
	if err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if out.Report.Summary.Cached != 1 {
		t.Errorf("Cached = %d, want 1", out.Report.Summary.Cached)
	}
	if fetcher.calls["me/plug"] != 1 {
		t.Errorf("fetch calls = %d, want 1", fetcher.calls["me/plug"])
	}
	if got := out.Installations["me/plug"].Source; got != models.InstallVimPlug {
		t.Errorf("cached source = %s, want vim-plug", got)
	}
}

func TestRunConcurrencyCap(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.delay = 10 * time.Millisecond

	cfg := DefaultConfig()
	cfg.Concurrency = 2
	in := newTestInstallator(fetcher, nil, cfg)

	var repos []models.Repository
	for i := 0; i < 8; i++ {
		repos = append(repos, repo(t, fmt.Sprintf("me/plug%d", i), time.Now()))
	}
	if _, err := in.Run(context.Background(), repos); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := fetcher.maxSeen.Load(); got > 2 {
		t.Errorf("max concurrent fetches = %d, want <= 2", got)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := newTestInstallator(newFakeFetcher(), nil, DefaultConfig())
	if _, err := in.Run(ctx, []models.Repository{repo(t, "me/plug", time.Now())}); !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
