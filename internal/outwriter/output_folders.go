package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/schema"
)

// WriteFolderResult outputs a batch classification, dispatching based on the
// output format configured. The text table shows the top ResultLimit files by
// customization probability; CSV and JSON always carry every result.
func WriteFolderResult(cfg *contract.Config, result *schema.FolderResult) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFolderCSV(w, result)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFolderTable(w, cfg, result)
		}, "Wrote table")
	}
}

// writeFolderCSV writes one row per file pair.
func writeFolderCSV(w io.Writer, result *schema.FolderResult) error {
	header := []string{
		"path",
		"status",
		"label",
		"p_customization",
		"p_upgrade",
		"p_mix",
		"hunks",
		"changed_lines",
		"error",
	}
	_, fmtProb := createFormatters(0)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i := range result.Results {
			r := &result.Results[i]
			rec := []string{
				r.RelPath,
				string(r.Status),
				contract.GetPlainLabel(r),
				"", "", "",
				strconv.Itoa(len(r.Hunks)),
				strconv.Itoa(r.ChangedLines),
				r.Error,
			}
			if r.Classification != nil {
				rec[3] = fmtProb(r.Classification.Probs.Customization)
				rec[4] = fmtProb(r.Classification.Probs.Upgrade)
				rec[5] = fmtProb(r.Classification.Probs.Mix)
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeFolderTable generates and writes the human-readable batch table,
// ordered by descending customization probability so the riskiest files for
// an upgrade surface first.
func writeFolderTable(w io.Writer, cfg *contract.Config, result *schema.FolderResult) error {
	fmtPct, _ := createFormatters(cfg.Precision)
	maxPath := getMaxTablePathWidth(cfg)

	ranked := rankByCustomization(result.Results)
	shown := min(len(ranked), cfg.ResultLimit)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Rank", "Path", "Label", "Custom", "Upgrade", "Mix", "Hunks", "Lines"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, r := range ranked[:shown] {
		label := contract.GetPlainLabel(r)
		if cfg.UseColors {
			label = contract.GetColorLabel(r)
		}
		row := []string{
			strconv.Itoa(i + 1),
			contract.TruncatePath(r.RelPath, maxPath),
			label,
			"", "", "",
			strconv.Itoa(len(r.Hunks)),
			strconv.Itoa(r.ChangedLines),
		}
		if r.Classification != nil {
			row[3] = fmtPct(r.Classification.Probs.Customization)
			row[4] = fmtPct(r.Classification.Probs.Upgrade)
			row[5] = fmtPct(r.Classification.Probs.Mix)
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	return writeFolderSummary(w, cfg, result, shown)
}

// writeFolderSummary writes the closing counts and the folder-level triple.
func writeFolderSummary(w io.Writer, cfg *contract.Config, result *schema.FolderResult, shown int) error {
	fmtPct, _ := createFormatters(cfg.Precision)
	s := &result.Summary

	prefix := ""
	if cfg.UseEmojis {
		prefix = "📊 "
	}
	if _, err := fmt.Fprintf(w, "%sShowing %d of %d pairs (%d processed, %d errors)\n",
		prefix, shown, s.Requested, s.Processed, s.StatusCounts[schema.ErrorStatus]); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Classes: %d customization, %d upgrade, %d mix across %d changed lines\n",
		s.ClassCounts[schema.CustomizationClass], s.ClassCounts[schema.UpgradeClass],
		s.ClassCounts[schema.MixClass], s.TotalChangedLines); err != nil {
		return err
	}
	if s.Classification != nil {
		if _, err := fmt.Fprintf(w, "Folder verdict: custom %s, upgrade %s, mix %s\n",
			fmtPct(s.Classification.Customization), fmtPct(s.Classification.Upgrade),
			fmtPct(s.Classification.Mix)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Compared %s against %s with %d workers\n", result.OldDir, result.NewDir, cfg.Workers)
	return err
}

// rankByCustomization orders results by descending customization probability,
// ties broken by relative path. Results without a triple sink to the bottom.
func rankByCustomization(results []schema.FileResult) []*schema.FileResult {
	ranked := make([]*schema.FileResult, len(results))
	for i := range results {
		ranked[i] = &results[i]
	}

	prob := func(r *schema.FileResult) float64 {
		if r.Classification == nil {
			return -1
		}
		return r.Classification.Probs.Customization
	}
	// Stable sort keeps the canonical path order for equal probabilities.
	sort.SliceStable(ranked, func(i, j int) bool {
		return prob(ranked[i]) > prob(ranked[j])
	})
	return ranked
}
