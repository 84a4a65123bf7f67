package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/plantap/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start a Model Context Protocol server exposing captured drawing catalogs.

Tools:      list_drawings, list_disciplines, find_drawing
Resources:  plantap://projects
            plantap://projects/{projectId}/tree
            plantap://projects/{projectId}/favorites

By default, the server communicates over stdio using JSON-RPC. Use --port to
serve streamable HTTP instead.

Examples:
  # Stdio mode (for desktop assistants)
  plantap mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  plantap mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "plantap": {
        "command": "/path/to/plantap",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Catalog:   catalogService,
		Favorites: favoritesService,
	})
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	if port > 0 {
		ln, err := mcp.Listen(fmt.Sprintf("127.0.0.1:%d", port))
		if err != nil {
			return err
		}
		cmd.PrintErrf("MCP server listening on http://%s\n", ln.Addr())
		return server.RunHTTP(ctx, ln)
	}

	return server.Run(ctx)
}
