// ABOUTME: Tests for migration of extracted declarations to lazy.nvim and vim.pack
// ABOUTME: Covers field renames, the denylist, default triggers and setup call derivation

package core

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harper/plugstore/internal/lua"
	"github.com/harper/plugstore/internal/models"
)

const (
	addMain = `vim.pack.add({ { src = "https://github.com/me/plug" } })`
	addDepX = `vim.pack.add({ { src = "https://github.com/dep/x" } })`
)

func testRepo(t *testing.T, fullName string) models.Repository {
	t.Helper()
	repo, err := models.NewRepository(fullName)
	if err != nil {
		t.Fatalf("NewRepository(%q) error = %v", fullName, err)
	}
	return repo
}

func newTestMigrator() *Migrator {
	return NewMigrator(log.New(io.Discard))
}

func TestMigrator_MigrateChunk(t *testing.T) {
	tests := []struct {
		name        string
		repo        string
		manager     models.PluginManager
		extracted   string
		wantLazy    string
		wantVimPack string
	}{
		{
			name:        "lazy table gets default event",
			repo:        "me/plug",
			manager:     models.LazyNvim,
			extracted:   `{ "me/plug" }`,
			wantLazy:    `return { "me/plug", event = "VeryLazy" }`,
			wantVimPack: addMain,
		},
		{
			name:        "lazy bare string becomes a table",
			repo:        "me/plug",
			manager:     models.LazyNvim,
			extracted:   `"me/plug"`,
			wantLazy:    `return { "me/plug", event = "VeryLazy" }`,
			wantVimPack: addMain,
		},
		{
			name:        "lazy trigger suppresses default event",
			repo:        "me/plug",
			manager:     models.LazyNvim,
			extracted:   `{ "me/plug", cmd = "Plug" }`,
			wantLazy:    `return { "me/plug", cmd = "Plug" }`,
			wantVimPack: addMain,
		},
		{
			name:        "lazy opts become setup call",
			repo:        "me/plug.nvim",
			manager:     models.LazyNvim,
			extracted:   `{ "me/plug.nvim", dependencies = { "dep/x", { "dep/y", lazy = true } }, opts = { theme = "dark" } }`,
			wantLazy:    "return {\n    \"me/plug.nvim\",\n    dependencies = { \"dep/x\", { \"dep/y\", lazy = true } },\n    opts = { theme = \"dark\" },\n    event = \"VeryLazy\",\n}",
			wantVimPack: addDepX + "\n" + `vim.pack.add({ { src = "https://github.com/dep/y" } })` + "\n" + `vim.pack.add({ { src = "https://github.com/me/plug.nvim" } })` + "\n\n" + `require("plug").setup({ theme = "dark" })`,
		},
		{
			name:        "lazy config true calls setup",
			repo:        "me/plug",
			manager:     models.LazyNvim,
			extracted:   `{ "me/plug", config = true, ft = "lua" }`,
			wantLazy:    `return { "me/plug", config = true, ft = "lua" }`,
			wantVimPack: addMain + "\n\n" + `require("plug").setup()`,
		},
		{
			name:        "packer string uses repository name",
			repo:        "me/plug",
			manager:     models.PackerNvim,
			extracted:   `"me/plug"`,
			wantLazy:    `return { "me/plug", event = "VeryLazy" }`,
			wantVimPack: addMain,
		},
		{
			name:        "packer requires and opt are renamed",
			repo:        "me/plug",
			manager:     models.PackerNvim,
			extracted:   `{ "me/plug", requires = "dep/x", opt = true }`,
			wantLazy:    `return { "me/plug", dependencies = "dep/x", lazy = true, event = "VeryLazy" }`,
			wantVimPack: addDepX + "\n" + addMain,
		},
		{
			name:        "packer disable is inverted and run renamed",
			repo:        "me/plug",
			manager:     models.PackerNvim,
			extracted:   `{ "me/plug", disable = true, run = ":TSUpdate", keys = "gc" }`,
			wantLazy:    `return { "me/plug", enabled = false, build = ":TSUpdate", keys = "gc" }`,
			wantVimPack: addMain,
		},
		{
			name:        "packer disable expression is negated",
			repo:        "me/plug",
			manager:     models.PackerNvim,
			extracted:   `{ "me/plug", disable = vim.g.vscode, event = "BufRead" }`,
			wantLazy:    `return { "me/plug", enabled = not vim.g.vscode, event = "BufRead" }`,
			wantVimPack: addMain,
		},
		{
			name:        "packer config function is spliced",
			repo:        "me/plug",
			manager:     models.PackerNvim,
			extracted:   `{ "me/plug", config = function() require("plug").setup({ a = 1 }) end }`,
			wantLazy:    "return {\n    \"me/plug\",\n    config = function()\n        require(\"plug\").setup({ a = 1 })\n    end,\n    event = \"VeryLazy\",\n}",
			wantVimPack: addMain + "\n\n" + `require("plug").setup({ a = 1 })`,
		},
		{
			name:        "packer config string becomes a function",
			repo:        "me/plug",
			manager:     models.PackerNvim,
			extracted:   `{ "me/plug", config = "require('plug').setup()" }`,
			wantLazy:    "return {\n    \"me/plug\",\n    config = function()\n        require('plug').setup()\n    end,\n    event = \"VeryLazy\",\n}",
			wantVimPack: addMain + "\n\n" + `require('plug').setup()`,
		},
		{
			name:        "lazy comments pass through",
			repo:        "me/plug",
			manager:     models.LazyNvim,
			extracted:   "{\n  \"me/plug\", -- main\n  opts = {\n    -- dark or light\n    theme = \"dark\",\n  },\n}",
			wantLazy:    "return {\n    \"me/plug\", -- main\n    opts = {\n        -- dark or light\n        theme = \"dark\",\n    },\n    event = \"VeryLazy\",\n}",
			wantVimPack: addMain + "\n\n" + "require(\"plug\").setup({\n    -- dark or light\n    theme = \"dark\",\n  })",
		},
		{
			name:        "vim-plug main and dependencies",
			repo:        "me/plug",
			manager:     models.VimPlug,
			extracted:   "'dep/x'\n'me/plug'",
			wantLazy:    `return { "me/plug", dependencies = { "dep/x" }, event = "VeryLazy" }`,
			wantVimPack: addDepX + "\n" + addMain,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := models.ExtractedChunk{PluginManager: tt.manager, Extracted: tt.extracted}
			got, err := newTestMigrator().MigrateChunk(testRepo(t, tt.repo), chunk)
			if err != nil {
				t.Fatalf("MigrateChunk() error = %v", err)
			}
			if got.MigratedLazy != tt.wantLazy {
				t.Errorf("MigratedLazy =\n%s\nwant\n%s", got.MigratedLazy, tt.wantLazy)
			}
			if got.MigratedVimPack != tt.wantVimPack {
				t.Errorf("MigratedVimPack =\n%s\nwant\n%s", got.MigratedVimPack, tt.wantVimPack)
			}
			if err := lua.Validate(got.MigratedLazy); err != nil {
				t.Errorf("MigratedLazy does not parse: %v", err)
			}
			if err := lua.Validate(got.MigratedVimPack); err != nil {
				t.Errorf("MigratedVimPack does not parse: %v", err)
			}
			if got.Extracted != tt.extracted {
				t.Errorf("Extracted = %q, want it carried through", got.Extracted)
			}
		})
	}
}

func TestMigrator_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		manager   models.PluginManager
		extracted string
		want      error
	}{
		{"packer alias is denied", models.PackerNvim, `{ "me/plug", as = "alias" }`, ErrIncompatibleField},
		{"packer after is denied", models.PackerNvim, `{ "me/plug", after = "dep/x" }`, ErrIncompatibleField},
		{"packer bufread is denied", models.PackerNvim, `{ "me/plug", bufread = true }`, ErrIncompatibleField},
		{"packer lock is denied", models.PackerNvim, `{ "me/plug", lock = true }`, ErrIncompatibleField},
		{"packer config string is not lua", models.PackerNvim, `{ "me/plug", config = "setup(" }`, ErrUnsupportedValue},
		{"lazy vararg outside vararg function", models.LazyNvim, `{ "me/plug", config = function() require("plug").setup({ ... }) end }`, ErrUnparseable},
		{"lazy break outside loop", models.LazyNvim, `{ "me/plug", config = function() break end }`, ErrUnparseable},
		{"packer positional extra", models.PackerNvim, `{ "me/plug", "other" }`, ErrUnsupportedValue},
		{"packer number", models.PackerNvim, `42`, ErrUnsupportedValue},
		{"lazy opts function", models.LazyNvim, `{ "me/plug", opts = function() return {} end }`, ErrUnsupportedValue},
		{"lazy config number", models.LazyNvim, `{ "me/plug", config = 1 }`, ErrUnsupportedValue},
		{"lazy garbage", models.LazyNvim, `{ "me/plug",`, ErrUnparseable},
		{"vim-plug without target", models.VimPlug, "'dep/x'", ErrNoMatch},
		{"vim.pack as source", models.VimPack, `{ "me/plug" }`, ErrUnsupportedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := models.ExtractedChunk{PluginManager: tt.manager, Extracted: tt.extracted}
			_, err := newTestMigrator().MigrateChunk(testRepo(t, "me/plug"), chunk)
			if !errors.Is(err, tt.want) {
				t.Errorf("MigrateChunk() error = %v, want %v", err, tt.want)
			}
			var genErr *GenerationError
			if errors.As(err, &genErr) {
				t.Errorf("MigrateChunk() returned a generation error for bad input: %v", err)
			}
		})
	}
}

func TestMigrator_Migrate(t *testing.T) {
	chunks := []models.ExtractedChunk{
		{PluginManager: models.PackerNvim, Extracted: `{ "me/plug", as = "alias" }`},
		{PluginManager: models.VimPlug, Extracted: "'me/plug'"},
	}

	got, rejected, err := newTestMigrator().Migrate(testRepo(t, "me/plug"), chunks)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if rejected != 1 {
		t.Errorf("rejected = %d, want 1", rejected)
	}
	if len(got) != 1 || got[0].PluginManager != models.VimPlug {
		t.Fatalf("Migrate() = %+v, want the vim-plug chunk only", got)
	}
}

func TestGenerationError(t *testing.T) {
	cause := errors.New("unexpected symbol")
	err := error(&GenerationError{Manager: models.PackerNvim, Target: models.VimPack, Source: "x(", Err: cause})

	if IsRejection(err) {
		t.Error("IsRejection(GenerationError) = true, want false")
	}
	if !errors.Is(err, cause) {
		t.Error("GenerationError does not unwrap to its cause")
	}
	want := "generated vim.pack code from packer.nvim declaration is invalid: unexpected symbol"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestPluginURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dep/x", "https://github.com/dep/x"},
		{"https://gitlab.com/a/b", "https://gitlab.com/a/b"},
		{"plenary", "plenary"},
	}
	for _, tt := range tests {
		if got := pluginURL(tt.in); got != tt.want {
			t.Errorf("pluginURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
