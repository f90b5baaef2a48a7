// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/vendiff/vendiff/internal/contract"
)

// NewMCPServer initializes and configures the vendiff MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Vendiff Classification Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{baseCfg: baseCfg}

	// --- 1. Tool: scan_folders ---
	s.AddTool(mcp.NewTool("scan_folders",
		mcp.WithDescription("Partition the files of two directory trees into old-only, new-only, different, and same."),
		mcp.WithString("old_dir", mcp.Description("Path to the old (customized) directory tree."), mcp.Required()),
		mcp.WithString("new_dir", mcp.Description("Path to the new (vendor) directory tree."), mcp.Required()),
	), h.handleScanFolders)

	// --- 2. Tool: compare_files ---
	s.AddTool(mcp.NewTool("compare_files",
		mcp.WithDescription("Classify the differences between two files as customization, upgrade, or mix with per-hunk probabilities."),
		mcp.WithString("old_path", mcp.Description("Path to the old version of the file."), mcp.Required()),
		mcp.WithString("new_path", mcp.Description("Path to the new version of the file."), mcp.Required()),
		mcp.WithNumber("context", mcp.Description("Unchanged lines carried around each hunk. Defaults to 3.")),
	), h.handleCompareFiles)

	// --- 3. Tool: compare_folders ---
	s.AddTool(mcp.NewTool("compare_folders",
		mcp.WithDescription("Scan two directory trees and classify every differing file pair."),
		mcp.WithString("old_dir", mcp.Description("Path to the old (customized) directory tree."), mcp.Required()),
		mcp.WithString("new_dir", mcp.Description("Path to the new (vendor) directory tree."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleCompareFolders)

	return s
}

// StartMCPServer starts the vendiff MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
