package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/internal/mcp"
)

// mcpCmd starts the MCP server on stdio.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Model Context Protocol server.",
	Long: `Start an MCP server on stdio exposing the scan and classification
operations as tools, so AI assistants can compare trees and files on demand.

Tools exposed:
- scan_folders: partition two directory trees
- compare_files: classify one file pair hunk by hunk
- compare_folders: scan and classify two trees in one call

Example Claude Desktop configuration:
  {
    "mcpServers": {
      "vendiff": {
        "command": "vendiff",
        "args": ["mcp"]
      }
    }
  }`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := mcp.StartMCPServer(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run MCP server", err)
		}
	},
}
