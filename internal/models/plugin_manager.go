// ABOUTME: PluginManager enumerates the installation syntaxes the engine understands
// ABOUTME: Three are detectable in READMEs, vim.pack is a generation-only target
package models

// PluginManager identifies a Neovim plugin-manager declaration format
type PluginManager string

const (
	LazyNvim   PluginManager = "lazy.nvim"
	PackerNvim PluginManager = "packer.nvim"
	VimPlug    PluginManager = "vim-plug"
	VimPack    PluginManager = "vim.pack"
)

// DetectableManagers lists the source formats in selection priority order
var DetectableManagers = []PluginManager{LazyNvim, PackerNvim, VimPlug}

// IsValid reports whether m is one of the known managers
func (m PluginManager) IsValid() bool {
	switch m {
	case LazyNvim, PackerNvim, VimPlug, VimPack:
		return true
	}
	return false
}

// IsDetectable reports whether the rater can recognize m in a README
func (m PluginManager) IsDetectable() bool {
	switch m {
	case LazyNvim, PackerNvim, VimPlug:
		return true
	}
	return false
}

// Priority returns the selection rank of a detectable manager, lower wins.
// Non-detectable managers rank after every detectable one.
func (m PluginManager) Priority() int {
	for i, dm := range DetectableManagers {
		if dm == m {
			return i
		}
	}
	return len(DetectableManagers)
}

// IsLua reports whether declarations for m are Lua source
func (m PluginManager) IsLua() bool {
	return m == LazyNvim || m == PackerNvim || m == VimPack
}
