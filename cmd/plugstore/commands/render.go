// ABOUTME: Terminal rendering of installations with lipgloss styles
// ABOUTME: Structured formats go through storage.Encode instead
package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/harper/plugstore/internal/models"
	"github.com/harper/plugstore/internal/storage"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	codeStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

// extractOutput is the structured form of the extract command
type extractOutput struct {
	Repository   string                  `json:"repository" yaml:"repository"`
	Installation models.Installation     `json:"installation" yaml:"installation"`
	Chunks       []models.FormattedChunk `json:"chunks,omitempty" yaml:"chunks,omitempty"`
	Error        string                  `json:"error,omitempty" yaml:"error,omitempty"`
}

func writeOutput(w io.Writer, format string, out extractOutput) error {
	if format == "text" {
		renderText(w, out)
		return nil
	}
	return storage.Encode(w, out, format)
}

func renderText(w io.Writer, out extractOutput) {
	fmt.Fprintln(w, titleStyle.Render(out.Repository)+" "+mutedStyle.Render("("+string(out.Installation.Source)+")"))
	renderSnippet(w, "lazy.nvim", out.Installation.Lazy)
	renderSnippet(w, "vim.pack", out.Installation.VimPack)

	for i, c := range out.Chunks {
		fmt.Fprintln(w, labelStyle.Render(fmt.Sprintf("chunk %d: %s", i+1, c.PluginManager))+
			" "+mutedStyle.Render(fmt.Sprintf("scores %v, %s", c.Scores, c.Verdict)))
		renderSnippet(w, "extracted", c.Extracted)
	}
	if out.Error != "" {
		fmt.Fprintln(w, mutedStyle.Render("warning: "+out.Error))
	}
}

func renderSnippet(w io.Writer, label, code string) {
	fmt.Fprintln(w, labelStyle.Render(label))
	fmt.Fprintln(w, codeStyle.Render(strings.TrimRight(code, "\n")))
}
