package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/internal/history"
)

// openHistoryStore creates the history store for the configured backend,
// exiting on failure. The 'none' backend yields a no-op store.
func openHistoryStore() *history.StoreImpl {
	store, err := history.NewStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err != nil {
		contract.LogFatal("Cannot open history store", err)
	}
	return store
}

// historyCmd groups the run-history maintenance subcommands.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and maintain the run-history store.",
	Long: `Inspect and maintain the store that records every batch and folders run:
when it ran, with what configuration, and how each file pair was classified.

The backend is SQLite by default (a file in your home directory); MySQL and
PostgreSQL are supported for shared tracking across a team.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// historyStatusCmd prints backend and row-count information.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Show history backend status and row counts.",
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := openHistoryStore()
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Cannot get history status", err)
		}

		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(status); err != nil {
			contract.LogFatal("Cannot encode history status", err)
		}
	},
}

// historyClearCmd removes all recorded runs and file results.
var historyClearCmd = &cobra.Command{
	Use:     "clear",
	Short:   "Delete all recorded runs and file results.",
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := openHistoryStore()
		defer func() { _ = store.Close() }()

		if err := store.Clear(); err != nil {
			contract.LogFatal("Cannot clear history", err)
		}
		fmt.Println("History cleared.")
	},
}

// historyExportCmd exports the history tables to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet files.",
	Long: `Export the run and file-result tables to a pair of Parquet files named
after --output-file. The files can be loaded by Spark, DuckDB, Pandas, or any
other Parquet-compatible tool.`,
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		store := openHistoryStore()
		defer func() { _ = store.Close() }()

		if err := history.ExecuteExport(store, cfg.OutputFile); err != nil {
			contract.LogFatal("Cannot export history", err)
		}
	},
}

// historyMigrateCmd runs schema migrations on the history database.
var historyMigrateCmd = &cobra.Command{
	Use:     "migrate",
	Short:   "Run schema migrations on the history database.",
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.Migrate(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Cannot migrate history database", err)
		}
	},
}
