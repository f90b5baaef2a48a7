package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vendiff/vendiff/core"
	"github.com/vendiff/vendiff/internal/contract"
)

// scanCmd partitions two directory trees without classifying anything.
var scanCmd = &cobra.Command{
	Use:   "scan <old-dir> <new-dir>",
	Short: "Partition two directory trees into old-only, new-only, different, and same.",
	Long: `Walk two directory trees and partition every relative path by how it
appears in each: only in the old tree, only in the new tree, present in both
with different content, or identical in both.

The JSON output of this command is the input to the batch command, so a slow
scan over a large tree can be done once and classified many times.

Examples:
  # Print partition counts for two trees
  vendiff scan ./site-v1 ./vendor-v2

  # Write the scan file consumed by 'vendiff batch'
  vendiff scan ./site-v1 ./vendor-v2 --output json --output-file scan.json

  # One row per file for spreadsheet triage
  vendiff scan ./site-v1 ./vendor-v2 --output csv`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		cfg.OldPath = args[0]
		cfg.NewPath = args[1]
		if err := core.ExecuteScan(cfg); err != nil {
			contract.LogFatal("Cannot run scan", err)
		}
	},
}
