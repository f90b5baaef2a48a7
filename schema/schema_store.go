package schema

import "time"

// HistoryStatus represents the status of the run-history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalFiles    int              `json:"total_files_recorded"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// RunRecord represents a row from the vendiff_runs table.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalPairs    int32
	ConfigParams  *string
}

// FileRecord represents a row from the vendiff_file_results table.
type FileRecord struct {
	RunID          int64
	RelPath        string
	RecordTime     time.Time
	Status         string
	PCustomization float64
	PUpgrade       float64
	PMix           float64
	DominantClass  string
	HunkCount      int32
	ChangedLines   int32
}
