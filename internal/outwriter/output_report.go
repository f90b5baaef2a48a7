package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/schema"
)

// AssessmentRow is one reviewer-facing line of the upgrade assessment.
type AssessmentRow struct {
	RelPath      string               `json:"rel_path"`
	Status       schema.Status        `json:"status"`
	Class        schema.Class         `json:"class,omitempty"`
	Probs        schema.Probabilities `json:"probabilities"`
	HunkCount    int                  `json:"hunk_count"`
	ChangedLines int                  `json:"changed_lines"`
	Notes        string               `json:"notes,omitempty"`
}

// WriteAssessment outputs the assessment rows, dispatching based on the
// output format configured. The text form is a markdown document suitable for
// pasting into an upgrade ticket.
func WriteAssessment(cfg *contract.Config, result *schema.FolderResult, rows []AssessmentRow) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAssessmentCSV(w, rows)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAssessmentMarkdown(w, cfg, result, rows)
		}, "Wrote report")
	}
}

// writeAssessmentCSV writes one CSV row per file pair.
func writeAssessmentCSV(w io.Writer, rows []AssessmentRow) error {
	header := []string{
		"path",
		"status",
		"class",
		"p_customization",
		"p_upgrade",
		"p_mix",
		"hunks",
		"changed_lines",
		"notes",
	}
	_, fmtProb := createFormatters(0)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, row := range rows {
			rec := []string{
				row.RelPath,
				string(row.Status),
				string(row.Class),
				fmtProb(row.Probs.Customization),
				fmtProb(row.Probs.Upgrade),
				fmtProb(row.Probs.Mix),
				strconv.Itoa(row.HunkCount),
				strconv.Itoa(row.ChangedLines),
				row.Notes,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeAssessmentMarkdown writes the markdown assessment document.
func writeAssessmentMarkdown(w io.Writer, cfg *contract.Config, result *schema.FolderResult, rows []AssessmentRow) error {
	fmtPct, _ := createFormatters(cfg.Precision)
	s := &result.Summary

	if _, err := fmt.Fprintf(w, "# Upgrade assessment\n\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Old: `%s`\nNew: `%s`\n\n", result.OldDir, result.NewDir); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%d pairs (%d customization, %d upgrade, %d mix), %d changed lines.\n",
		s.Requested, s.ClassCounts[schema.CustomizationClass], s.ClassCounts[schema.UpgradeClass],
		s.ClassCounts[schema.MixClass], s.TotalChangedLines); err != nil {
		return err
	}
	if s.Classification != nil {
		if _, err := fmt.Fprintf(w, "Folder verdict: custom %s, upgrade %s, mix %s.\n",
			fmtPct(s.Classification.Customization), fmtPct(s.Classification.Upgrade),
			fmtPct(s.Classification.Mix)); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "\n| Path | Verdict | Custom | Upgrade | Mix | Hunks | Notes |\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "|------|---------|--------|---------|-----|-------|-------|\n"); err != nil {
		return err
	}
	for _, row := range rows {
		verdict := string(row.Class)
		if verdict == "" {
			verdict = string(row.Status)
		}
		if _, err := fmt.Fprintf(w, "| %s | %s | %s | %s | %s | %d | %s |\n",
			row.RelPath, verdict,
			fmtPct(row.Probs.Customization), fmtPct(row.Probs.Upgrade), fmtPct(row.Probs.Mix),
			row.HunkCount, row.Notes); err != nil {
			return err
		}
	}
	return nil
}
