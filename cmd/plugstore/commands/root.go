// ABOUTME: Root command and global flags for the plugstore CLI
// ABOUTME: Wires every subcommand and validates the output format
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
)

// outputFormats lists the accepted --format values
var outputFormats = []string{"auto", "text", "json", "yaml"}

const banner = `
██████╗ ██╗     ██╗   ██╗ ██████╗ ███████╗████████╗ ██████╗ ██████╗ ███████╗
██╔══██╗██║     ██║   ██║██╔════╝ ██╔════╝╚══██╔══╝██╔═══██╗██╔══██╗██╔════╝
██████╔╝██║     ██║   ██║██║  ███╗███████╗   ██║   ██║   ██║██████╔╝█████╗
██╔═══╝ ██║     ██║   ██║██║   ██║╚════██║   ██║   ██║   ██║██╔══██╗██╔══╝
██║     ███████╗╚██████╔╝╚██████╔╝███████║   ██║   ╚██████╔╝██║  ██║███████╗
╚═╝     ╚══════╝ ╚═════╝  ╚═════╝ ╚══════╝   ╚═╝    ╚═════╝ ╚═╝  ╚═╝╚══════╝`

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugstore",
		Short: "Extract and migrate Neovim plugin installation snippets",
		Long: banner + `

Mines plugin READMEs for lazy.nvim, packer.nvim and vim-plug installation
examples and rewrites the best one as a lazy.nvim spec and vim.pack.add calls.
Results are cached in Charm KV and sync across your machines.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !containsString(outputFormats, outputFormat) {
				return fmt.Errorf("invalid --format %q (want one of %v)", outputFormat, outputFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, text, json, yaml")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(NewExtractCmd())
	cmd.AddCommand(NewBatchCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
