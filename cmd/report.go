package cmd

import (
	"github.com/spf13/cobra"
	"github.com/vendiff/vendiff/core"
	"github.com/vendiff/vendiff/internal/contract"
)

// reportCmd renders a saved folder result as a reviewer-facing assessment.
var reportCmd = &cobra.Command{
	Use:   "report <result-file>",
	Short: "Render a saved batch result as an upgrade assessment.",
	Long: `Read the JSON output of a previous batch or folders run and render it as
a reviewer-facing assessment: one row per file with the verdict, the
probability triple, and notes naming the signals that drove it.

The default text output is a markdown document suitable for pasting into an
upgrade ticket.

Examples:
  # Markdown assessment on stdout
  vendiff report result.json

  # CSV for spreadsheet triage
  vendiff report result.json --output csv --output-file assessment.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, args []string) {
		cfg.BatchInput = args[0]
		if err := core.ExecuteReport(cfg); err != nil {
			contract.LogFatal("Cannot run report", err)
		}
	},
}
