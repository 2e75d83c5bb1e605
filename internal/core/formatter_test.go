// ABOUTME: Tests for the target-width formatter
// ABOUTME: Verifies widths per target and that a failing chunk is dropped whole

package core

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/harper/plugstore/internal/models"
)

func TestFormatter_FormatChunk(t *testing.T) {
	f := NewFormatter(FormatterConfig{}, log.New(io.Discard))
	chunk := models.MigratedChunk{
		MigratedLazy:    `return { "me/plug", event = "VeryLazy" }`,
		MigratedVimPack: addMain,
	}

	got, err := f.FormatChunk(chunk)
	if err != nil {
		t.Fatalf("FormatChunk() error = %v", err)
	}
	wantLazy := "return {\n    \"me/plug\",\n    event = \"VeryLazy\",\n}"
	if got.FormattedLazy != wantLazy {
		t.Errorf("FormattedLazy =\n%s\nwant\n%s", got.FormattedLazy, wantLazy)
	}
	if got.FormattedVimPack != addMain {
		t.Errorf("FormattedVimPack = %q, want %q", got.FormattedVimPack, addMain)
	}
	if got.MigratedLazy != chunk.MigratedLazy {
		t.Error("FormatChunk() lost the migrated text")
	}
}

func TestFormatter_Widths(t *testing.T) {
	f := NewFormatter(FormatterConfig{LazyWidth: 80, VimPackWidth: 20}, log.New(io.Discard))

	lazy, err := f.Lazy(`return { "me/plug", event = "VeryLazy" }`)
	if err != nil {
		t.Fatalf("Lazy() error = %v", err)
	}
	if lazy != `return { "me/plug", event = "VeryLazy" }` {
		t.Errorf("Lazy() = %q, want flat table at width 80", lazy)
	}

	vimPack, err := f.VimPack(addMain)
	if err != nil {
		t.Fatalf("VimPack() error = %v", err)
	}
	want := "vim.pack.add({\n    {\n        src = \"https://github.com/me/plug\",\n    },\n})"
	if vimPack != want {
		t.Errorf("VimPack() =\n%s\nwant\n%s", vimPack, want)
	}
}

func TestFormatter_DropsBrokenChunks(t *testing.T) {
	f := NewFormatter(DefaultFormatterConfig(), log.New(io.Discard))
	chunks := []models.MigratedChunk{
		{MigratedLazy: `return { "me/plug" }`, MigratedVimPack: "vim.pack.add({"},
		{MigratedLazy: `return { "me/plug" }`, MigratedVimPack: addMain},
	}

	got, failed := f.Format("me/plug", chunks)
	if failed != 1 {
		t.Errorf("failed = %d, want 1", failed)
	}
	if len(got) != 1 {
		t.Fatalf("len(Format()) = %d, want 1", len(got))
	}
	if got[0].FormattedLazy != `return { "me/plug" }` {
		t.Errorf("FormattedLazy = %q, want %q", got[0].FormattedLazy, `return { "me/plug" }`)
	}
}
