package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vendiff/vendiff/core"
	"github.com/vendiff/vendiff/internal/contract"
)

// foldersCmd scans and classifies two directory trees in one pass.
var foldersCmd = &cobra.Command{
	Use:   "folders <old-dir> <new-dir>",
	Short: "Scan two directory trees and classify every differing pair in one pass.",
	Long: `Combine 'vendiff scan' and 'vendiff batch' into a single run: walk both
trees, find the pairs with different content, and classify each one.

Use this for one-shot comparisons; prefer scan plus batch when the same scan
will be classified repeatedly with different weights or markers.

Examples:
  # Rank the riskiest files between a customized site and a vendor drop
  vendiff folders ./site-v1 ./vendor-v2

  # Everything as JSON for downstream tooling
  vendiff folders ./site-v1 ./vendor-v2 --output json --output-file result.json

  # Tune the mix margin for a more decisive run
  vendiff folders ./site-v1 ./vendor-v2 --mix-margin 0.05`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		cfg.OldPath = args[0]
		cfg.NewPath = args[1]

		store := openHistoryStore()
		defer func() { _ = store.Close() }()

		if err := core.ExecuteFolders(rootCtx, cfg, store); err != nil {
			contract.LogFatal("Cannot run folders classification", err)
		}
	},
}
