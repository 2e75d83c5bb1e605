// ABOUTME: MCP command starts the Model Context Protocol server
// ABOUTME: Lets LLM agents extract plugin installations via stdio
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/plugstore/internal/charm"
	"github.com/harper/plugstore/internal/core"
	"github.com/harper/plugstore/internal/mcp"
	"github.com/harper/plugstore/internal/readme"
	"github.com/harper/plugstore/internal/storage"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

var mcpMemoSize int

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Start MCP server for LLM agents

Runs plugstore as an MCP (Model Context Protocol) server on stdio with
the tools extract_installation, fetch_installation and cached_installation.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an MCP client)
  plugstore mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "plugstore": {
  #       "command": "plugstore",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	cmd.Flags().IntVar(&mcpMemoSize, "memo-size", mcp.DefaultMemoSize, "Fetched repositories kept in memory")

	return cmd
}

// runMCP starts the MCP server
func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	// stdout carries the protocol
	logger, err := newLogger(os.Stderr, cfg)
	if err != nil {
		return err
	}

	var cache storage.InstallCache
	if cfg.UseCache {
		charm.Configure(charmConfig(cfg))
		cc, err := storage.OpenCharmCache()
		if err != nil {
			logger.Warn("installation cache unavailable, continuing without it", "err", err)
		} else {
			cache = cc
		}
	}

	engine := core.NewEngine(engineConfig(cfg), logger)
	fetcher := readme.NewFetcher(fetcherConfig(cfg), logger)
	handlers, err := mcp.NewHandlers(engine, fetcher, cache, mcpMemoSize, logger)
	if err != nil {
		return err
	}

	server := mcpserver.NewMCPServer(
		"plugstore",
		versionInfo.Version,
	)
	mcp.RegisterTools(server, handlers)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("MCP server starting on stdio")

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		handlers.Shutdown()
		charm.ResetGlobalClient()
		logger.Info("shutdown complete")

	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
