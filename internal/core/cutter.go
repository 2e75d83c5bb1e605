// ABOUTME: Cutter splits a README into candidate chunks with surrounding context
// ABOUTME: Handles fenced code blocks, <details> bodies and inline code spans
package core

import (
	"regexp"
	"strings"

	"github.com/harper/plugstore/internal/models"
)

// CutterConfig bounds the context collected around block chunks
type CutterConfig struct {
	ContextLinesBefore int
	ContextLinesAfter  int
}

// DefaultCutterConfig collects three non-blank lines on each side
func DefaultCutterConfig() CutterConfig {
	return CutterConfig{ContextLinesBefore: 3, ContextLinesAfter: 3}
}

// Cutter finds code regions that mention a repository
type Cutter struct {
	cfg CutterConfig
}

// NewCutter creates a Cutter
func NewCutter(cfg CutterConfig) *Cutter {
	return &Cutter{cfg: cfg}
}

type lineBlock struct {
	start int
	end   int
}

var inlineSpan = regexp.MustCompile("`([^`]+)`")

// Cut returns every chunk whose content mentions repo, fenced blocks first,
// then <details> bodies, then inline spans, each in document order
func (c *Cutter) Cut(repo, readme string) []models.Chunk {
	lines := strings.Split(normalizeNewlines(readme), "\n")

	var chunks []models.Chunk
	for _, b := range findFencedBlocks(lines) {
		chunks = append(chunks, models.Chunk{
			Prev:    c.context(lines, b.start-1, -1, c.cfg.ContextLinesBefore),
			Content: strings.Join(lines[b.start+1:b.end], "\n"),
			After:   c.context(lines, b.end+1, 1, c.cfg.ContextLinesAfter),
			Kind:    models.ChunkKindFenced,
		})
	}
	for _, b := range findDetailsBlocks(lines) {
		chunks = append(chunks, models.Chunk{
			Prev:    c.context(lines, b.start-1, -1, c.cfg.ContextLinesBefore),
			Content: strings.Join(lines[b.start:b.end+1], "\n"),
			After:   c.context(lines, b.end+1, 1, c.cfg.ContextLinesAfter),
			Kind:    models.ChunkKindDetails,
		})
	}
	chunks = append(chunks, findInlineSpans(lines, repo)...)

	needle := strings.ToLower(repo)
	kept := chunks[:0]
	for _, ch := range chunks {
		if strings.Contains(strings.ToLower(strings.TrimSpace(ch.Content)), needle) {
			kept = append(kept, ch)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func isFence(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "```") || strings.HasPrefix(t, "'''")
}

// findFencedBlocks returns fence line pairs enclosing at least one line
func findFencedBlocks(lines []string) []lineBlock {
	var blocks []lineBlock
	open := -1
	for i, l := range lines {
		if !isFence(l) {
			continue
		}
		if open < 0 {
			open = i
			continue
		}
		if open < i-1 {
			blocks = append(blocks, lineBlock{start: open, end: i})
		}
		open = -1
	}
	return blocks
}

// findDetailsBlocks returns the inclusive line range between </summary> and </details>
func findDetailsBlocks(lines []string) []lineBlock {
	var blocks []lineBlock
	for i := 0; i < len(lines); i++ {
		if !strings.Contains(lines[i], "<details>") {
			continue
		}
		summaryEnd := i
		for s := i; s < len(lines); s++ {
			if strings.Contains(lines[s], "</summary>") {
				summaryEnd = s
				break
			}
		}
		for j := summaryEnd + 1; j < len(lines); j++ {
			if strings.Contains(lines[j], "</details>") {
				if summaryEnd+1 <= j-1 {
					blocks = append(blocks, lineBlock{start: summaryEnd + 1, end: j - 1})
				}
				i = j
				break
			}
		}
	}
	return blocks
}

// findInlineSpans takes the first backtick span of each line when it mentions repo
func findInlineSpans(lines []string, repo string) []models.Chunk {
	needle := strings.ToLower(repo)
	var chunks []models.Chunk
	for _, l := range lines {
		loc := inlineSpan.FindStringSubmatchIndex(l)
		if loc == nil {
			continue
		}
		content := l[loc[2]:loc[3]]
		if !strings.Contains(strings.ToLower(content), needle) {
			continue
		}
		chunks = append(chunks, models.Chunk{
			Prev:    strings.TrimRight(l[:loc[0]], " \t"),
			Content: content,
			After:   strings.TrimLeft(l[loc[1]:], " \t"),
			Kind:    models.ChunkKindInline,
		})
	}
	return chunks
}

// context walks from start in direction step until max non-blank lines are taken or a fence is hit.
// Blank lines are kept but not counted.
func (c *Cutter) context(lines []string, start, step, max int) string {
	var picked []string
	taken := 0
	for i := start; taken < max && i >= 0 && i < len(lines); i += step {
		if isFence(lines[i]) {
			break
		}
		if strings.TrimSpace(lines[i]) != "" {
			taken++
		}
		if step > 0 {
			picked = append(picked, lines[i])
		} else {
			picked = append([]string{lines[i]}, picked...)
		}
	}
	return strings.TrimSpace(strings.Join(picked, "\n"))
}
