// ABOUTME: Tests for the cache command group
// ABOUTME: Covers subcommand wiring and the run history table

package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/harper/plugstore/internal/models"
)

func TestCacheCmd_Subcommands(t *testing.T) {
	cmd := NewCacheCmd()
	want := map[string]bool{"status": false, "get": false, "list": false, "runs": false, "sync": false, "wipe": false, "keys": false}
	for _, sub := range cmd.Commands() {
		name := strings.Fields(sub.Use)[0]
		if _, ok := want[name]; ok {
			want[name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("cache subcommand %q not found", name)
		}
	}
}

func TestWriteRuns(t *testing.T) {
	started := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	runs := []models.RunRecord{{
		RunID:      "r1",
		StartedAt:  started,
		FinishedAt: started.Add(95 * time.Second),
		Summary:    models.RunSummary{Total: 12, Cached: 7, Defaulted: 3, Failed: 1},
	}}

	var buf bytes.Buffer
	writeRuns(&buf, runs)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("writeRuns() printed %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "STARTED") {
		t.Errorf("header = %q", lines[0])
	}
	fields := strings.Fields(lines[2])
	if got := strings.Join(fields[2:], " "); got != "1m35s 12 7 3 1" {
		t.Errorf("row = %q, want duration and counts 1m35s 12 7 3 1", lines[2])
	}
}

func TestWriteRunsEmpty(t *testing.T) {
	var buf bytes.Buffer
	writeRuns(&buf, nil)
	if got := strings.TrimSpace(buf.String()); got != "No recorded runs" {
		t.Errorf("writeRuns(nil) = %q", got)
	}
}
