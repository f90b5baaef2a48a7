// Package schema has configs, models and shared constants for all parts of vendiff.
package schema

// LineRange identifies a contiguous run of lines in one file version.
// Start is 1-based; a zero-length range marks a pure insertion/deletion point.
type LineRange struct {
	Start int `json:"start"`
	Lines int `json:"lines"`
}

// Hunk is one contiguous changed region between the old and new version of a
// file. OldLines and NewLines hold the full text of the region on each side.
// ContextBefore and ContextAfter carry up to ContextLines unchanged lines
// around the hunk; they feed signal extraction and are never part of the edit.
type Hunk struct {
	OldRange      LineRange `json:"old_range"`
	NewRange      LineRange `json:"new_range"`
	OldLines      []string  `json:"old_lines"`
	NewLines      []string  `json:"new_lines"`
	ContextBefore []string  `json:"-"`
	ContextAfter  []string  `json:"-"`
}

// ChangedLines returns the total number of lines this hunk adds plus removes.
// It is the weight used when folding hunk triples into a file triple.
func (h *Hunk) ChangedLines() int {
	return len(h.OldLines) + len(h.NewLines)
}

// HunkResult pairs a hunk with its classification and the audit trail of the
// signals that drove the verdict.
type HunkResult struct {
	Hunk           Hunk           `json:"hunk"`
	Classification Classification `json:"classification"`

	// TopSignals lists the strongest contributors toward the dominant class,
	// most influential first, so a reviewer can see why the verdict landed.
	TopSignals []SignalKey `json:"top_signals,omitempty"`

	// Unified is the hunk rendered as canonical unified-diff text.
	Unified string `json:"unified,omitempty"`
}

// FileResult is the outcome of classifying one (old, new) file pair.
// Classification is set only when Status is DifferentStatus.
type FileResult struct {
	RelPath string `json:"rel_path,omitempty"`
	OldPath string `json:"old_path"`
	NewPath string `json:"new_path"`
	Status  Status `json:"status"`

	Classification *Classification `json:"classification,omitempty"`
	Hunks          []HunkResult    `json:"hunks,omitempty"`

	// ChangedLines is the sum of added+removed lines across all hunks.
	ChangedLines int `json:"changed_lines,omitempty"`

	// Error holds the failure description for ErrorStatus results.
	Error string `json:"error,omitempty"`
}

// FolderSummary has per-status and per-dominant-class counts for a batch run,
// plus the folder-level triple (changed-line-weighted average across files).
type FolderSummary struct {
	Requested int `json:"requested"`
	Processed int `json:"processed"`

	StatusCounts map[Status]int `json:"status_counts"`
	ClassCounts  map[Class]int  `json:"class_counts"`

	TotalChangedLines int            `json:"total_changed_lines"`
	Classification    *Probabilities `json:"classification,omitempty"`
}

// FolderResult is the full outcome of one batch run. Results are always in
// canonical order (sorted by relative path) regardless of worker scheduling.
type FolderResult struct {
	OldDir  string        `json:"old_dir"`
	NewDir  string        `json:"new_dir"`
	Results []FileResult  `json:"results"`
	Summary FolderSummary `json:"summary"`
}

// ScanResult lists the four relative-path partitions produced by comparing
// two directory trees. All lists are sorted.
type ScanResult struct {
	OldOnly   []string `json:"old_only"`
	NewOnly   []string `json:"new_only"`
	Different []string `json:"different"`
	Same      []string `json:"same"`
}

// ScanOutput is the on-disk shape of a scan run, consumed by the batch command.
type ScanOutput struct {
	ComparisonDirectories ComparisonDirectories `json:"comparison_directories"`
	Results               ScanResult            `json:"results"`
}

// ComparisonDirectories names the two directory roots of a scan or batch run.
type ComparisonDirectories struct {
	OldDir string `json:"old_dir"`
	NewDir string `json:"new_dir"`
}
