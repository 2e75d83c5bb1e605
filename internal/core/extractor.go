// ABOUTME: Extractor isolates the declaration of the target plugin inside a high-rated chunk
// ABOUTME: Lua formats are matched on the syntax tree, vim-plug on directive lines
package core

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harper/plugstore/internal/lua"
	"github.com/harper/plugstore/internal/models"
)

// ExtractorConfig bounds the syntax tree walk
type ExtractorConfig struct {
	MaxDepth int
}

// DefaultExtractorConfig returns the standard walk depth
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{MaxDepth: 3}
}

// ExtractStats counts chunks that failed or matched more than once
type ExtractStats struct {
	Rejected  int
	Ambiguous int
}

// Extractor narrows rated chunks to one manager and one declaration
type Extractor struct {
	cfg    ExtractorConfig
	logger *log.Logger
}

// NewExtractor creates an extractor
func NewExtractor(cfg ExtractorConfig, logger *log.Logger) *Extractor {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultExtractorConfig().MaxDepth
	}
	return &Extractor{cfg: cfg, logger: logger}
}

// Extract isolates declarations from every chunk rated high and keeps the first
// success per manager, in the order managers first succeed
func (e *Extractor) Extract(repo string, rated []models.RatedChunk) ([]models.ExtractedChunk, ExtractStats) {
	var stats ExtractStats
	var out []models.ExtractedChunk
	kept := map[models.PluginManager]bool{}

	for _, rc := range rated {
		highs := rc.HighManagers()
		if len(highs) == 0 {
			continue
		}
		m := highs[0]
		extracted, matches, err := e.Declaration(m, repo, rc.Content)
		if err != nil {
			stats.Rejected++
			e.logger.Debug("extraction rejected", "repo", repo, "manager", m, "err", err)
			continue
		}
		if matches > 1 {
			stats.Ambiguous++
			e.logger.Warn("multiple declarations found, using first", "repo", repo, "manager", m, "count", matches)
		}
		if kept[m] {
			continue
		}
		kept[m] = true
		rating := rc.Rates[m]
		out = append(out, models.ExtractedChunk{
			Chunk:         rc.Chunk,
			PluginManager: m,
			Scores:        rating.Scores,
			Verdict:       rating.Verdict,
			Extracted:     extracted,
		})
	}

	if stats.Rejected > 0 {
		e.logger.Debug("extraction failures", "repo", repo, "count", stats.Rejected)
	}
	return out, stats
}

// Declaration returns the declaration of repo inside content for manager m and
// the number of nodes that matched
func (e *Extractor) Declaration(m models.PluginManager, repo, content string) (string, int, error) {
	switch m {
	case models.LazyNvim, models.PackerNvim:
		return e.luaDeclaration(repo, content)
	case models.VimPlug:
		extracted, err := extractVimPlug(content, repo)
		if err != nil {
			return "", 0, err
		}
		return extracted, 1, nil
	case models.VimPack:
		return "", 0, reject(ErrUnsupportedValue, "%s is not a source format", m)
	default:
		return "", 0, fmt.Errorf("unknown plugin manager %q", m)
	}
}

func (e *Extractor) luaDeclaration(repo, content string) (string, int, error) {
	src, err := lua.Load(normalizeLuaSnippet(content))
	if err != nil {
		return "", 0, reject(ErrUnparseable, "%v", err)
	}

	var found []string
	lua.WalkDepth(src.Chunk, e.cfg.MaxDepth, func(n lua.Node, _ int) {
		for _, m := range luaMatchers {
			if text, ok := m.Match(src, n, repo); ok {
				found = append(found, text)
				return
			}
		}
	})

	if len(found) == 0 {
		return "", 0, reject(ErrNoMatch, "no declaration for %s within depth %d", repo, e.cfg.MaxDepth)
	}
	return found[0], len(found), nil
}
