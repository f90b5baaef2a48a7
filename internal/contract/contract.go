// Package contract provides configuration and shared utilities for the vendiff CLI's internal architecture.
package contract

import "errors"

// Error kinds surfaced by the classification core. UnreadablePath and
// OversizedFile are caught at the file-pair boundary and recorded as
// ERROR-status results; MalformedInput is fatal to a batch run. Undecodable
// content is not an error at all, it becomes a BINARY result.
var (
	ErrUnreadablePath = errors.New("path missing or not readable")
	ErrOversizedFile  = errors.New("file exceeds configured size ceiling")
	ErrMalformedInput = errors.New("malformed batch input")
)

// HistoryStore defines the interface for run-history storage.
// This allows mocking the store for testing.
type HistoryStore interface {
	// BeginRun records the start of a batch run and returns its ID.
	BeginRun(params map[string]any) (int64, error)

	// EndRun finalizes a run with its completion time and pair count.
	EndRun(runID int64, totalPairs int) error

	// RecordFileResult records the classification outcome of one file pair.
	RecordFileResult(runID int64, rec FileResultRecord) error

	Close() error
}

// FileResultRecord is the store-facing projection of one file result.
type FileResultRecord struct {
	RelPath        string
	Status         string
	PCustomization float64
	PUpgrade       float64
	PMix           float64
	DominantClass  string
	HunkCount      int
	ChangedLines   int
}
