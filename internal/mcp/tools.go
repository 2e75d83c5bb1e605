// ABOUTME: MCP tool definitions and registration for the plugstore server
// ABOUTME: Exposes extraction over a given README, a fetched README and the cache
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, handlers *Handlers) *Handlers {
	// 1. extract_installation - run the engine over README text supplied by the caller
	server.AddTool(mcp.Tool{
		Name:        "extract_installation",
		Description: "Extract a Neovim plugin installation from README text and migrate it to lazy.nvim and vim.pack snippets. Falls back to a default snippet when the README has no usable example.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"repository": map[string]interface{}{
					"type":        "string",
					"description": "Plugin repository as owner/name",
				},
				"readme": map[string]interface{}{
					"type":        "string",
					"description": "README text (Markdown)",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"github", "gitlab"},
					"description": "Hosting forge (default: github)",
				},
				"include_chunks": map[string]interface{}{
					"type":        "boolean",
					"description": "Include every surviving chunk, not just the selected installation",
					"default":     false,
				},
			},
			Required: []string{"repository", "readme"},
		},
	}, handlers.ExtractInstallation)

	// 2. fetch_installation - fetch the README and resolve like a batch run
	server.AddTool(mcp.Tool{
		Name:        "fetch_installation",
		Description: "Fetch a plugin's README from GitHub or GitLab and resolve its installation snippets, using the installation cache when possible.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"repository": map[string]interface{}{
					"type":        "string",
					"description": "Plugin repository as owner/name",
				},
				"source": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"github", "gitlab"},
					"description": "Hosting forge (default: github)",
				},
				"branch": map[string]interface{}{
					"type":        "string",
					"description": "Branch to read the README from (default: HEAD)",
				},
				"refresh": map[string]interface{}{
					"type":        "boolean",
					"description": "Ignore cached results and fetch again",
					"default":     false,
				},
			},
			Required: []string{"repository"},
		},
	}, handlers.FetchInstallation)

	// 3. cached_installation - read the installation cache
	server.AddTool(mcp.Tool{
		Name:        "cached_installation",
		Description: "Look up the cached installation of a plugin without fetching anything.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"repository": map[string]interface{}{
					"type":        "string",
					"description": "Plugin repository as owner/name",
				},
			},
			Required: []string{"repository"},
		},
	}, handlers.CachedInstallation)

	return handlers
}
