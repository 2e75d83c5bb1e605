// ABOUTME: MCP tool handler implementations for the plugstore server
// ABOUTME: Fetch results are memoized per repository in an LRU
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/harper/plugstore/internal/core"
	"github.com/harper/plugstore/internal/installator"
	"github.com/harper/plugstore/internal/models"
	"github.com/harper/plugstore/internal/storage"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mark3labs/mcp-go/mcp"
)

// DefaultMemoSize bounds the fetch memo
const DefaultMemoSize = 256

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	engine     *core.Engine
	fetcher    installator.Fetcher
	cache      storage.InstallCache
	memo       *lru.Cache[string, models.DebugEntry]
	logger     *log.Logger
	shutdownWg *sync.WaitGroup
}

// NewHandlers creates the tool handlers. cache may be nil.
func NewHandlers(engine *core.Engine, fetcher installator.Fetcher, cache storage.InstallCache, memoSize int, logger *log.Logger) (*Handlers, error) {
	if memoSize <= 0 {
		memoSize = DefaultMemoSize
	}
	memo, err := lru.New[string, models.DebugEntry](memoSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create memo: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handlers{
		engine:     engine,
		fetcher:    fetcher,
		cache:      cache,
		memo:       memo,
		logger:     logger,
		shutdownWg: &sync.WaitGroup{},
	}, nil
}

// ExtractInstallation handles the extract_installation tool
func (h *Handlers) ExtractInstallation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo, errResult := repositoryArg(request)
	if errResult != nil {
		return errResult, nil
	}
	text, err := request.RequireString("readme")
	if err != nil {
		return mcp.NewToolResultError("readme argument is required and must be a string"), nil
	}

	inst, res, err := h.engine.Install(repo, text)
	response := map[string]interface{}{
		"repository":   repo.FullName,
		"installation": inst,
	}
	if err != nil {
		h.logger.Error("generation failed", "repo", repo.FullName, "err", err)
		response["error"] = err.Error()
	}
	if res != nil {
		response["stats"] = res.Stats
		if request.GetBool("include_chunks", false) {
			response["chunks"] = res.Chunks
		}
	}

	return jsonResult(response)
}

// FetchInstallation handles the fetch_installation tool
func (h *Handlers) FetchInstallation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo, errResult := repositoryArg(request)
	if errResult != nil {
		return errResult, nil
	}
	repo.Branch = request.GetString("branch", "")
	refresh := request.GetBool("refresh", false)

	key := memoKey(repo)
	if !refresh {
		if entry, ok := h.memo.Get(key); ok {
			return jsonResult(entry)
		}
	}

	h.shutdownWg.Add(1)
	defer h.shutdownWg.Done()

	cfg := installator.DefaultConfig()
	cfg.UseCache = !refresh
	entry := installator.New(cfg, h.engine, h.fetcher, h.cache, h.logger).Resolve(ctx, repo)
	if entry.Error == "" {
		h.memo.Add(key, entry)
	}

	return jsonResult(entry)
}

// CachedInstallation handles the cached_installation tool
func (h *Handlers) CachedInstallation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("repository")
	if err != nil {
		return mcp.NewToolResultError("repository argument is required and must be a string"), nil
	}
	if h.cache == nil {
		return mcp.NewToolResultError("installation cache is not configured"), nil
	}

	entry, ok, err := h.cache.Get(strings.TrimSpace(name))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cache lookup failed: %v", err)), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no cached installation for %s", name)), nil
	}

	return jsonResult(map[string]interface{}{
		"repository": name,
		"entry":      entry,
	})
}

// Shutdown waits for in-flight fetches to finish
func (h *Handlers) Shutdown() {
	h.shutdownWg.Wait()
}

func repositoryArg(request mcp.CallToolRequest) (models.Repository, *mcp.CallToolResult) {
	name, err := request.RequireString("repository")
	if err != nil {
		return models.Repository{}, mcp.NewToolResultError("repository argument is required and must be a string")
	}
	repo := models.Repository{
		FullName: strings.TrimSpace(name),
		Source:   models.RepositorySource(request.GetString("source", string(models.SourceGitHub))),
	}
	if err := repo.Normalize(); err != nil {
		return models.Repository{}, mcp.NewToolResultError(fmt.Sprintf("invalid repository: %v", err))
	}
	return repo, nil
}

func memoKey(repo models.Repository) string {
	return string(repo.Source) + ":" + repo.FullName + "@" + repo.Branch
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
