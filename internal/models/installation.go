// ABOUTME: Installation is the canonical snippet pair chosen for a repository
// ABOUTME: CacheEntry persists it with the repository timestamp it was derived from
package models

import "time"

// InstallSource names where the chosen installation came from
type InstallSource string

const (
	InstallDefault InstallSource = "default"
	InstallLazy    InstallSource = InstallSource(LazyNvim)
	InstallPacker  InstallSource = InstallSource(PackerNvim)
	InstallVimPlug InstallSource = InstallSource(VimPlug)
)

// IsValid reports whether s is a known source
func (s InstallSource) IsValid() bool {
	switch s {
	case InstallDefault, InstallLazy, InstallPacker, InstallVimPlug:
		return true
	}
	return false
}

// Installation holds the two target-format snippets for one repository
type Installation struct {
	Source  InstallSource `json:"source" yaml:"source"`
	Lazy    string        `json:"lazy" yaml:"lazy"`
	VimPack string        `json:"vimpack" yaml:"vimpack"`
}

// CacheEntry is the persisted form of an Installation
type CacheEntry struct {
	UpdatedAt time.Time     `json:"updated_at" yaml:"updated_at"`
	Source    InstallSource `json:"source" yaml:"source"`
	Lazy      string        `json:"lazy" yaml:"lazy"`
	VimPack   string        `json:"vimpack" yaml:"vimpack"`
}

// NewCacheEntry stamps an installation with the repository's update time
func NewCacheEntry(repo Repository, inst Installation) CacheEntry {
	return CacheEntry{
		UpdatedAt: repo.UpdatedAt,
		Source:    inst.Source,
		Lazy:      inst.Lazy,
		VimPack:   inst.VimPack,
	}
}

// IsFresh reports whether the entry still describes repo.
// A repository not updated since the entry was written is fresh.
func (e CacheEntry) IsFresh(repo Repository) bool {
	return !repo.UpdatedAt.After(e.UpdatedAt)
}

// Installation returns the snippets stored in the entry
func (e CacheEntry) Installation() Installation {
	return Installation{Source: e.Source, Lazy: e.Lazy, VimPack: e.VimPack}
}
