// ABOUTME: CLI command running the engine over a local README
// ABOUTME: Prints the selected installation and optionally every surviving chunk
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harper/plugstore/internal/core"
	"github.com/harper/plugstore/internal/models"
	"github.com/harper/plugstore/internal/readme"
	"github.com/spf13/cobra"
)

var (
	extractRepo   string
	extractSource string
	extractURL    string
	extractFile   string
	extractChunks bool
)

// NewExtractCmd creates the extract command
func NewExtractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract an installation snippet from a README",
		Long: `Run the extraction engine over a README file.

The README is cut into candidate chunks, rated for lazy.nvim, packer.nvim
and vim-plug, and the best declaration of the plugin is migrated to a
lazy.nvim spec and vim.pack.add calls. Without a usable example a
default snippet is printed.`,
		Example: `  plugstore extract --repo folke/trouble.nvim --file README.md
  curl -s https://raw.githubusercontent.com/me/plug/HEAD/README.md | plugstore extract --repo me/plug --file -
  plugstore extract --repo me/plug --chunks --format yaml`,
		RunE: runExtract,
	}

	cmd.Flags().StringVar(&extractRepo, "repo", "", "Plugin repository as owner/name")
	cmd.Flags().StringVar(&extractSource, "source", "github", "Hosting forge: github or gitlab")
	cmd.Flags().StringVar(&extractURL, "url", "", "Repository URL (derived from --repo by default)")
	cmd.Flags().StringVar(&extractFile, "file", "README.md", "README path, or - for stdin")
	cmd.Flags().BoolVar(&extractChunks, "chunks", false, "Show every surviving chunk")
	_ = cmd.MarkFlagRequired("repo")

	return cmd
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger, err := newLogger(cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}

	repo := models.Repository{
		FullName: strings.TrimSpace(extractRepo),
		Source:   models.RepositorySource(extractSource),
		URL:      extractURL,
	}
	if err := repo.Normalize(); err != nil {
		return fmt.Errorf("invalid repository: %w", err)
	}

	text, err := readReadme(cmd.InOrStdin(), extractFile)
	if err != nil {
		return err
	}

	engine := core.NewEngine(engineConfig(cfg), logger)
	inst, res, err := engine.Install(repo, text)
	out := extractOutput{Repository: repo.FullName, Installation: inst}
	if err != nil {
		logger.Error("generation failed, using default", "repo", repo.FullName, "err", err)
		out.Error = err.Error()
	}
	if extractChunks && res != nil {
		out.Chunks = res.Chunks
	}

	return writeOutput(cmd.OutOrStdout(), resolveFormat(cmd.OutOrStdout()), out)
}

// readReadme loads and normalizes a README from path or stdin
func readReadme(stdin io.Reader, path string) (string, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(stdin)
		path = "README.md"
	} else {
		raw, err = os.ReadFile(path) // #nosec G304
	}
	if err != nil {
		return "", fmt.Errorf("reading README: %w", err)
	}

	text, err := readme.Decode(raw)
	if err != nil {
		return "", fmt.Errorf("decoding README: %w", err)
	}
	return readme.Normalize(path, text), nil
}
