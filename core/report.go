package core

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/internal/outwriter"
	"github.com/vendiff/vendiff/schema"
)

// signalNotes maps signal keys to the reviewer-facing phrase used in
// assessment notes.
var signalNotes = map[schema.SignalKey]string{
	schema.SignalAddedRatio:          "mostly added lines",
	schema.SignalNetGrowth:           "net growth",
	schema.SignalPureInsertion:       "pure insertion",
	schema.SignalPureDeletion:        "pure deletion",
	schema.SignalBalancedReplace:     "balanced replacement",
	schema.SignalWhitespaceOnly:      "whitespace-only change",
	schema.SignalVersionToken:        "version token in added lines",
	schema.SignalDateToken:           "date token in added lines",
	schema.SignalCustomMarkerRemoved: "customization marker removed",
	schema.SignalCustomMarkerAdded:   "customization marker added",
	schema.SignalVendorMarkerAdded:   "vendor marker added",
	schema.SignalOrphanIdentifier:    "identifier unknown to new version",
	schema.SignalRelocated:           "block relocated",
	schema.SignalStructuralBoundary:  "crosses structural boundary",
	schema.SignalSingleUnit:          "contained in one unit",
}

// ExecuteReport reads a saved folder result and writes the reviewer-facing
// assessment: one row per file pair with the triple, the verdict, and notes
// explaining what drove it.
func ExecuteReport(cfg *contract.Config) error {
	result, err := loadFolderResult(cfg.BatchInput)
	if err != nil {
		return err
	}

	rows := BuildAssessment(result)
	return outwriter.WriteAssessment(cfg, result, rows)
}

// loadFolderResult reads and validates a folder result saved by a batch run.
func loadFolderResult(path string) (*schema.FolderResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", contract.ErrUnreadablePath, path)
	}
	var result schema.FolderResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contract.ErrMalformedInput, path, err)
	}
	if result.OldDir == "" || result.NewDir == "" {
		return nil, fmt.Errorf("%w: %s: missing directory roots", contract.ErrMalformedInput, path)
	}
	return &result, nil
}

// BuildAssessment projects a folder result into assessment rows, one per
// file, ranked by descending customization probability so the riskiest files
// lead the document. Ties keep path order; rows without a triple sink to the
// bottom.
func BuildAssessment(result *schema.FolderResult) []outwriter.AssessmentRow {
	rows := make([]outwriter.AssessmentRow, 0, len(result.Results))
	for i := range result.Results {
		r := &result.Results[i]
		row := outwriter.AssessmentRow{
			RelPath:      r.RelPath,
			Status:       r.Status,
			HunkCount:    len(r.Hunks),
			ChangedLines: r.ChangedLines,
			Notes:        buildNotes(r),
		}
		if r.Classification != nil {
			row.Class = r.Classification.Class
			row.Probs = r.Classification.Probs
		}
		rows = append(rows, row)
	}

	prob := func(row *outwriter.AssessmentRow) float64 {
		if row.Class == "" {
			return -1
		}
		return row.Probs.Customization
	}
	// Rows start in canonical path order, so a stable sort breaks
	// probability ties by path.
	sort.SliceStable(rows, func(i, j int) bool {
		return prob(&rows[i]) > prob(&rows[j])
	})
	return rows
}

// buildNotes folds per-hunk top signals into one deduplicated note string,
// preserving first-seen order across hunks.
func buildNotes(r *schema.FileResult) string {
	if r.Status == schema.ErrorStatus {
		return r.Error
	}

	seen := make(map[schema.SignalKey]struct{})
	var notes []string
	for i := range r.Hunks {
		h := &r.Hunks[i]
		for _, key := range h.TopSignals {
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			if note, ok := signalNotes[key]; ok {
				notes = append(notes, note)
			}
		}
		if h.Unified != "" {
			if _, err := diff.ParseHunks([]byte(h.Unified)); err != nil {
				notes = append(notes, "unparseable diff text")
			}
		}
	}
	return strings.Join(notes, "; ")
}
