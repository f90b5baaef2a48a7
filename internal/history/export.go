package history

import (
	"errors"
	"fmt"

	"github.com/vendiff/vendiff/internal/parquet"
)

// ExecuteExport exports the run history to a pair of Parquet files.
func ExecuteExport(store *StoreImpl, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total file records: %d\n", status.TableSizes[fileResultsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	fileResults, err := store.GetAllFileResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve file results: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(runs), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(runs), runsFile)

	resultsFile := outputFile + ".file_results.parquet"
	if err := parquet.WriteFileResultsParquet(parquet.ConvertFileRecords(fileResults), resultsFile); err != nil {
		return fmt.Errorf("failed to write file results: %w", err)
	}
	fmt.Printf("Exported %d file records to: %s\n", len(fileResults), resultsFile)

	return nil
}
