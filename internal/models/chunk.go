// ABOUTME: Chunk types flowing through cutter, rater, extractor, migrator and formatter
// ABOUTME: Each stage widens the previous record and never mutates it
package models

// ChunkKind records which README construct produced a chunk
type ChunkKind string

const (
	ChunkKindFenced  ChunkKind = "fenced"
	ChunkKindDetails ChunkKind = "details"
	ChunkKindInline  ChunkKind = "inline"
)

// Chunk is a candidate code region plus its surrounding context
type Chunk struct {
	Prev    string    `json:"prev" yaml:"prev"`
	Content string    `json:"content" yaml:"content"`
	After   string    `json:"after" yaml:"after"`
	Kind    ChunkKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Rating is one manager's assessment of a chunk
type Rating struct {
	Scores  []int   `json:"scores" yaml:"scores"`
	Verdict Verdict `json:"verdict" yaml:"verdict"`
}

// Total sums the matched token weights
func (r Rating) Total() int {
	total := 0
	for _, s := range r.Scores {
		total += s
	}
	return total
}

// RatedChunk carries one rating per detectable manager
type RatedChunk struct {
	Chunk `yaml:",inline"`
	Rates map[PluginManager]Rating `json:"rates" yaml:"rates"`
}

// HighManagers returns the managers rated high, in priority order
func (rc RatedChunk) HighManagers() []PluginManager {
	var out []PluginManager
	for _, m := range DetectableManagers {
		if r, ok := rc.Rates[m]; ok && r.Verdict == VerdictHigh {
			out = append(out, m)
		}
	}
	return out
}

// ExtractedChunk is a rated chunk narrowed to one manager with its isolated declaration
type ExtractedChunk struct {
	Chunk         `yaml:",inline"`
	PluginManager PluginManager `json:"pluginManager" yaml:"pluginManager"`
	Scores        []int         `json:"scores" yaml:"scores"`
	Verdict       Verdict       `json:"verdict" yaml:"verdict"`
	Extracted     string        `json:"extracted" yaml:"extracted"`
}

// MigratedChunk adds both target-format renditions
type MigratedChunk struct {
	ExtractedChunk  `yaml:",inline"`
	MigratedLazy    string `json:"migratedLazy" yaml:"migratedLazy"`
	MigratedVimPack string `json:"migratedVimPack" yaml:"migratedVimPack"`
}

// FormattedChunk adds the pretty-printed renditions
type FormattedChunk struct {
	MigratedChunk    `yaml:",inline"`
	FormattedLazy    string `json:"formattedLazy" yaml:"formattedLazy"`
	FormattedVimPack string `json:"formattedVimPack" yaml:"formattedVimPack"`
}
