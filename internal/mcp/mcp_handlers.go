package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/vendiff/vendiff/core"
	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/internal/scanner"
	"github.com/vendiff/vendiff/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

func (h *toolHandler) handleScanFolders(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	oldDir := request.GetString("old_dir", "")
	newDir := request.GetString("new_dir", "")

	result, err := scanner.Scan(oldDir, newDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	out := schema.ScanOutput{
		ComparisonDirectories: schema.ComparisonDirectories{OldDir: oldDir, NewDir: newDir},
		Results:               result,
	}
	jsonData, _ := json.MarshalIndent(out, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareFiles(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	cfg.OldPath = request.GetString("old_path", "")
	cfg.NewPath = request.GetString("new_path", "")
	if c := request.GetInt("context", 0); c > 0 {
		cfg.ContextLines = c
	}

	result := core.NewFileAggregator(cfg).ComparePair("", cfg.OldPath, cfg.NewPath)

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCompareFolders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	oldDir := request.GetString("old_dir", "")
	newDir := request.GetString("new_dir", "")
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = l
	}

	scanResult, err := scanner.Scan(oldDir, newDir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scan failed: %v", err)), nil
	}

	result := core.NewFolderAggregator(cfg).CompareFolders(ctx, oldDir, newDir, scanResult.Different)
	if len(result.Results) > cfg.ResultLimit {
		result.Results = result.Results[:cfg.ResultLimit]
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
