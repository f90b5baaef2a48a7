package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vendiff/vendiff/core"
	"github.com/vendiff/vendiff/internal/contract"
)

// filesCmd classifies a single file pair.
var filesCmd = &cobra.Command{
	Use:   "files <old-file> <new-file>",
	Short: "Classify the differences between two files, hunk by hunk.",
	Long: `Diff two versions of one file and label every hunk with a probability
triple over customization, upgrade, and mix.

A customization verdict means the change looks like local work that an
upgrade would overwrite; an upgrade verdict means vendor work that is safe to
take as-is; mix means the hunk shows signs of both and needs a human.

Examples:
  # Per-hunk table with probabilities and driving signals
  vendiff files old/checkout.php new/checkout.php

  # Full audit trail including unified diff text per hunk
  vendiff files old/checkout.php new/checkout.php --output json

  # Wider context window for signal extraction
  vendiff files old/style.css new/style.css --context 6`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		cfg.OldPath = args[0]
		cfg.NewPath = args[1]
		if err := core.ExecuteFiles(cfg); err != nil {
			contract.LogFatal("Cannot run files classification", err)
		}
	},
}
