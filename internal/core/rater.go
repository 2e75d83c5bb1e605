// ABOUTME: Rater scores each chunk against every detectable plugin-manager suite
// ABOUTME: Converts scores to verdicts and keeps at most one high verdict per chunk
package core

import (
	"fmt"

	"github.com/harper/plugstore/internal/models"
)

// Rater applies the token suites to chunks
type Rater struct{}

// NewRater creates a Rater
func NewRater() *Rater {
	return &Rater{}
}

// Suite returns the token suite for a detectable manager
func Suite(m models.PluginManager) ([]TokenMatcher, error) {
	switch m {
	case models.LazyNvim:
		return lazyTokens, nil
	case models.PackerNvim:
		return packerTokens, nil
	case models.VimPlug:
		return vimPlugTokens, nil
	case models.VimPack:
		return nil, fmt.Errorf("%s is a generation target and has no token suite", m)
	}
	return nil, fmt.Errorf("unknown plugin manager %q", m)
}

// Rate rates every chunk
func (r *Rater) Rate(repo string, chunks []models.Chunk) []models.RatedChunk {
	out := make([]models.RatedChunk, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, r.RateChunk(repo, c))
	}
	return out
}

// RateChunk scores one chunk for every detectable manager and applies the tie-break
func (r *Rater) RateChunk(repo string, chunk models.Chunk) models.RatedChunk {
	rates := make(map[models.PluginManager]models.Rating, len(models.DetectableManagers))
	for _, m := range models.DetectableManagers {
		suite, _ := Suite(m)
		scores := Score(repo, chunk, suite)
		rates[m] = models.Rating{Scores: scores, Verdict: VerdictFor(scores)}
	}
	return models.RatedChunk{Chunk: chunk, Rates: BreakTies(rates)}
}

// Score returns the weights of matched tokens in suite order
func Score(repo string, chunk models.Chunk, suite []TokenMatcher) []int {
	scores := []int{}
	for _, tok := range suite {
		if tok.Match(repo, chunk) {
			scores = append(scores, tok.Weight)
		}
	}
	return scores
}

// VerdictFor classifies a score list
func VerdictFor(scores []int) models.Verdict {
	var fours, threes, twos int
	for _, s := range scores {
		switch s {
		case 4:
			fours++
		case 3:
			threes++
		case 2:
			twos++
		}
	}
	switch {
	case fours >= 1:
		return models.VerdictHigh
	case threes >= 2:
		return models.VerdictHigh
	case threes == 1 && twos >= 1:
		return models.VerdictHigh
	case threes == 1:
		return models.VerdictMedium
	}
	return models.VerdictLow
}

// BreakTies keeps only the strongest high verdict.
// The high manager with the largest score sum wins and ties go to the earlier manager in
// priority order. Every other manager is set to medium, low ones included.
// Applying it twice changes nothing.
func BreakTies(rates map[models.PluginManager]models.Rating) map[models.PluginManager]models.Rating {
	winner := models.PluginManager("")
	best := -1
	highs := 0
	for _, m := range models.DetectableManagers {
		r, ok := rates[m]
		if !ok || r.Verdict != models.VerdictHigh {
			continue
		}
		highs++
		if total := r.Total(); total > best {
			best = total
			winner = m
		}
	}
	if highs <= 1 {
		return rates
	}
	out := make(map[models.PluginManager]models.Rating, len(rates))
	for m, r := range rates {
		if m != winner {
			r.Verdict = models.VerdictMedium
		}
		out[m] = r
	}
	return out
}
