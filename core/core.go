// Package core implements the diff, signal extraction, classification, and
// aggregation pipeline behind every vendiff command.
package core

import (
	"context"

	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/internal/outwriter"
	"github.com/vendiff/vendiff/internal/scanner"
	"github.com/vendiff/vendiff/schema"
)

// ExecuteScan partitions two directory trees and writes the scan output.
func ExecuteScan(cfg *contract.Config) error {
	result, err := scanner.Scan(cfg.OldPath, cfg.NewPath)
	if err != nil {
		return err
	}
	out := &schema.ScanOutput{
		ComparisonDirectories: schema.ComparisonDirectories{
			OldDir: cfg.OldPath,
			NewDir: cfg.NewPath,
		},
		Results: result,
	}
	return outwriter.WriteScan(cfg, out)
}

// ExecuteFiles classifies a single file pair and writes the result.
func ExecuteFiles(cfg *contract.Config) error {
	result := NewFileAggregator(cfg).ComparePair("", cfg.OldPath, cfg.NewPath)
	return outwriter.WriteFileResult(cfg, &result)
}

// ExecuteBatch classifies every DIFFERENT pair named by a prior scan output
// and writes the folder result. Run history is recorded when a store is given.
func ExecuteBatch(ctx context.Context, cfg *contract.Config, store contract.HistoryStore) error {
	scan, err := scanner.LoadScanOutput(cfg.BatchInput)
	if err != nil {
		return err
	}
	return runFolderComparison(ctx, cfg, store,
		scan.ComparisonDirectories.OldDir,
		scan.ComparisonDirectories.NewDir,
		scan.Results.Different)
}

// ExecuteFolders scans two directory trees and classifies the differing pairs
// in one pass, without the intermediate scan file.
func ExecuteFolders(ctx context.Context, cfg *contract.Config, store contract.HistoryStore) error {
	result, err := scanner.Scan(cfg.OldPath, cfg.NewPath)
	if err != nil {
		return err
	}
	return runFolderComparison(ctx, cfg, store, cfg.OldPath, cfg.NewPath, result.Different)
}

// runFolderComparison is the shared tail of the batch and folders commands.
func runFolderComparison(ctx context.Context, cfg *contract.Config, store contract.HistoryStore, oldDir, newDir string, relPaths []string) error {
	result := NewFolderAggregator(cfg).CompareFolders(ctx, oldDir, newDir, relPaths)

	if store != nil {
		recordRunHistory(cfg, store, &result)
	}
	return outwriter.WriteFolderResult(cfg, &result)
}

// recordRunHistory persists a completed folder run. History failures are
// warnings, never run failures.
func recordRunHistory(cfg *contract.Config, store contract.HistoryStore, result *schema.FolderResult) {
	params := map[string]any{
		"old_dir":    result.OldDir,
		"new_dir":    result.NewDir,
		"context":    cfg.ContextLines,
		"merge":      cfg.MergeLines,
		"mix_margin": cfg.MixMargin,
		"workers":    cfg.Workers,
	}
	runID, err := store.BeginRun(params)
	if err != nil {
		contract.LogWarn("recording run start", err)
		return
	}

	for i := range result.Results {
		r := &result.Results[i]
		rec := contract.FileResultRecord{
			RelPath:      r.RelPath,
			Status:       string(r.Status),
			HunkCount:    len(r.Hunks),
			ChangedLines: r.ChangedLines,
		}
		if r.Classification != nil {
			rec.PCustomization = r.Classification.Probs.Customization
			rec.PUpgrade = r.Classification.Probs.Upgrade
			rec.PMix = r.Classification.Probs.Mix
			rec.DominantClass = string(r.Classification.Class)
		}
		if err := store.RecordFileResult(runID, rec); err != nil {
			contract.LogWarn("recording file result", err)
		}
	}

	if err := store.EndRun(runID, len(result.Results)); err != nil {
		contract.LogWarn("recording run end", err)
	}
}
