// ABOUTME: Tests for charm client configuration and key helpers
// ABOUTME: Exercises nothing that needs a charm server
package charm

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("CHARM_HOST", "")
	t.Setenv("CHARM_DB", "")

	cfg := DefaultConfig()
	if cfg.Host != "cloud.charm.sh" {
		t.Errorf("Host = %s, want cloud.charm.sh", cfg.Host)
	}
	if cfg.DBName != "plugstore" {
		t.Errorf("DBName = %s, want plugstore", cfg.DBName)
	}
	if !cfg.AutoSync {
		t.Error("AutoSync should default to true")
	}
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("CHARM_HOST", "charm.example.com")
	t.Setenv("CHARM_DB", "plugstore-test")

	cfg := DefaultConfig()
	if cfg.Host != "charm.example.com" {
		t.Errorf("Host = %s, want charm.example.com", cfg.Host)
	}
	if cfg.DBName != "plugstore-test" {
		t.Errorf("DBName = %s, want plugstore-test", cfg.DBName)
	}
}

func TestKeys(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"install", InstallKey("folke/lazy.nvim"), "install:folke/lazy.nvim"},
		{"install keeps case", InstallKey("Owner/Plug"), "install:Owner/Plug"},
		{"run", RunKey(time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC), "abc"), "run:20260304T050607Z:abc"},
		{"run in utc", RunKey(time.Date(2026, 3, 4, 5, 6, 7, 0, time.FixedZone("x", 3600)), "abc"), "run:20260304T040607Z:abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("key = %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestErrNotFoundWraps(t *testing.T) {
	err := fmt.Errorf("%w: %s", ErrNotFound, InstallKey("me/plug"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("errors.Is(%v, ErrNotFound) = false, want true", err)
	}
}

func TestRunKeysSortByStart(t *testing.T) {
	early := RunKey(time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC), "zzz")
	late := RunKey(time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC), "aaa")
	if early >= late {
		t.Errorf("RunKey order: %q should sort before %q", early, late)
	}
}
