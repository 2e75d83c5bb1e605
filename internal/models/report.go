// ABOUTME: Batch report records describing how each repository was resolved
// ABOUTME: Written to disk after a run so extraction misses can be inspected
package models

import "time"

// ResolveSource records whether an installation was reused or computed
type ResolveSource string

const (
	ResolveCache     ResolveSource = "cache"
	ResolveProcessed ResolveSource = "processed"
)

// DebugEntry describes one repository of a batch run
type DebugEntry struct {
	FullName     string           `json:"full_name" yaml:"full_name"`
	Source       ResolveSource    `json:"source" yaml:"source"`
	ReadmePath   string           `json:"readme_path,omitempty" yaml:"readme_path,omitempty"`
	Installation Installation     `json:"installation" yaml:"installation"`
	Default      Installation     `json:"default" yaml:"default"`
	Chunks       []FormattedChunk `json:"chunks,omitempty" yaml:"chunks,omitempty"`
	Error        string           `json:"error,omitempty" yaml:"error,omitempty"`
}

// UsedDefault reports whether the repository fell back to the default snippet
func (d DebugEntry) UsedDefault() bool {
	return d.Installation.Source == InstallDefault
}

// RunSummary aggregates a batch run
type RunSummary struct {
	Total     int `json:"total" yaml:"total"`
	Cached    int `json:"cached" yaml:"cached"`
	Processed int `json:"processed" yaml:"processed"`
	Defaulted int `json:"defaulted" yaml:"defaulted"`
	NoReadme  int `json:"no_readme" yaml:"no_readme"`
	Failed    int `json:"failed" yaml:"failed"`
}

// RunRecord is the part of a report kept in the cache as run history
type RunRecord struct {
	RunID      string     `json:"run_id" yaml:"run_id"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time  `json:"finished_at" yaml:"finished_at"`
	Summary    RunSummary `json:"summary" yaml:"summary"`
}

// Report is the debug output of one batch run
type Report struct {
	RunID      string       `json:"run_id" yaml:"run_id"`
	StartedAt  time.Time    `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time    `json:"finished_at" yaml:"finished_at"`
	Summary    RunSummary   `json:"summary" yaml:"summary"`
	Entries    []DebugEntry `json:"entries" yaml:"entries"`
}

// Record drops the per-repository entries
func (r *Report) Record() RunRecord {
	return RunRecord{
		RunID:      r.RunID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		Summary:    r.Summary,
	}
}
