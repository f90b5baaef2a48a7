package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vendiff/vendiff/core"
	"github.com/vendiff/vendiff/internal/contract"
)

// batchCmd classifies every differing pair named by a prior scan.
var batchCmd = &cobra.Command{
	Use:   "batch <scan-file>",
	Short: "Classify every differing file pair from a saved scan.",
	Long: `Read the JSON output of a previous 'vendiff scan' run and classify every
file pair listed in its different partition, fanning the work across a
bounded worker pool.

Results always come back in path order regardless of worker scheduling, and
each run is recorded in the history store unless the backend is 'none'.

Examples:
  # Classify the pairs found by an earlier scan
  vendiff batch scan.json

  # Save the folder result for 'vendiff report'
  vendiff batch scan.json --output json --output-file result.json

  # More workers, no history tracking
  vendiff batch scan.json --workers 16 --history-backend none`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		cfg.BatchInput = args[0]

		store := openHistoryStore()
		defer func() { _ = store.Close() }()

		if err := core.ExecuteBatch(rootCtx, cfg, store); err != nil {
			contract.LogFatal("Cannot run batch classification", err)
		}
	},
}
