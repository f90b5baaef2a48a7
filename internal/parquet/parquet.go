// Package parquet provides data structures and functions for exporting run
// history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/vendiff/vendiff/schema"
)

// Run represents one classification run with metadata.
// This struct maps to the vendiff_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalPairs is the number of file pairs classified in this run
	TotalPairs int32 `parquet:"total_pairs,snappy"`

	// ConfigParams contains the JSON-encoded run configuration (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// FileResult represents the classification outcome for one file pair.
// This struct maps to the vendiff_file_results database table.
type FileResult struct {
	// RunID references the parent run
	RunID int64 `parquet:"run_id,snappy"`

	// RelPath is the path relative to both directory roots
	RelPath string `parquet:"rel_path,snappy"`

	// RecordTime is when this pair was classified
	RecordTime time.Time `parquet:"record_time,snappy"`

	// Status is the comparison status of the pair
	Status string `parquet:"status,snappy"`

	// PCustomization, PUpgrade and PMix form the probability triple
	PCustomization float64 `parquet:"p_customization,snappy"`
	PUpgrade       float64 `parquet:"p_upgrade,snappy"`
	PMix           float64 `parquet:"p_mix,snappy"`

	// DominantClass is the highest-probability class (empty for sentinels)
	DominantClass string `parquet:"dominant_class,snappy"`

	// HunkCount is the number of hunks classified in this pair
	HunkCount int32 `parquet:"hunk_count,snappy"`

	// ChangedLines is the sum of added and removed lines across hunks
	ChangedLines int32 `parquet:"changed_lines,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Schema is inferred from the Run struct tags
	writer := parquet.NewGenericWriter[Run](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteFileResultsParquet writes a slice of FileResult structs to a Parquet file.
func WriteFileResultsParquet(data []FileResult, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[FileResult](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertRunRecords converts store rows into their Parquet representation.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	out := make([]Run, len(records))
	for i, r := range records {
		out[i] = Run{
			RunID:         r.RunID,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.RunDurationMs,
			TotalPairs:    r.TotalPairs,
			ConfigParams:  r.ConfigParams,
		}
	}
	return out
}

// ConvertFileRecords converts store rows into their Parquet representation.
func ConvertFileRecords(records []schema.FileRecord) []FileResult {
	out := make([]FileResult, len(records))
	for i, r := range records {
		out[i] = FileResult{
			RunID:          r.RunID,
			RelPath:        r.RelPath,
			RecordTime:     r.RecordTime,
			Status:         r.Status,
			PCustomization: r.PCustomization,
			PUpgrade:       r.PUpgrade,
			PMix:           r.PMix,
			DominantClass:  r.DominantClass,
			HunkCount:      r.HunkCount,
			ChangedLines:   r.ChangedLines,
		}
	}
	return out
}
