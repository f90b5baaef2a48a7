package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/schema"
)

// WriteFileResult outputs a single-pair classification, dispatching based on
// the output format configured. The text form shows one row per hunk; JSON
// carries the full audit trail including the unified diff text.
func WriteFileResult(cfg *contract.Config, result *schema.FileResult) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFileCSV(w, result)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFileTable(w, cfg, result)
		}, "Wrote table")
	}
}

// writeFileCSV writes one row per hunk with its triple and top signals.
func writeFileCSV(w io.Writer, result *schema.FileResult) error {
	header := []string{
		"hunk",
		"old_start",
		"old_lines",
		"new_start",
		"new_lines",
		"class",
		"p_customization",
		"p_upgrade",
		"p_mix",
		"top_signals",
	}
	_, fmtProb := createFormatters(0)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for i, h := range result.Hunks {
			rec := []string{
				strconv.Itoa(i + 1),
				strconv.Itoa(h.Hunk.OldRange.Start),
				strconv.Itoa(h.Hunk.OldRange.Lines),
				strconv.Itoa(h.Hunk.NewRange.Start),
				strconv.Itoa(h.Hunk.NewRange.Lines),
				string(h.Classification.Class),
				fmtProb(h.Classification.Probs.Customization),
				fmtProb(h.Classification.Probs.Upgrade),
				fmtProb(h.Classification.Probs.Mix),
				joinSignals(h.TopSignals),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeFileTable generates and writes the human-readable per-hunk table.
func writeFileTable(w io.Writer, cfg *contract.Config, result *schema.FileResult) error {
	if result.Status != schema.DifferentStatus {
		label := contract.GetPlainLabel(result)
		if cfg.UseColors {
			label = contract.GetColorLabel(result)
		}
		_, err := fmt.Fprintf(w, "%s vs %s: %s\n", result.OldPath, result.NewPath, label)
		if result.Error != "" {
			fmt.Fprintf(w, "  %s\n", result.Error)
		}
		return err
	}

	fmtPct, _ := createFormatters(cfg.Precision)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Hunk", "Old", "New", "Class", "Custom", "Upgrade", "Mix", "Signals"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i, h := range result.Hunks {
		cls := string(h.Classification.Class)
		if cfg.UseColors {
			cls = colorClass(h.Classification.Class)
		}
		row := []string{
			strconv.Itoa(i + 1),
			formatRange(h.Hunk.OldRange),
			formatRange(h.Hunk.NewRange),
			cls,
			fmtPct(h.Classification.Probs.Customization),
			fmtPct(h.Classification.Probs.Upgrade),
			fmtPct(h.Classification.Probs.Mix),
			joinSignals(h.TopSignals),
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	cls := result.Classification
	_, err := fmt.Fprintf(w, "Overall: %s (custom %s, upgrade %s, mix %s) across %d hunks, %d changed lines\n",
		cls.Class, fmtPct(cls.Probs.Customization), fmtPct(cls.Probs.Upgrade), fmtPct(cls.Probs.Mix),
		len(result.Hunks), result.ChangedLines)
	return err
}

// formatRange renders a line range as start,count like a diff header.
func formatRange(r schema.LineRange) string {
	return fmt.Sprintf("%d,%d", r.Start, r.Lines)
}

// joinSignals joins signal keys for display.
func joinSignals(keys []schema.SignalKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, "|")
}

// colorClass applies the class color to a class name.
func colorClass(c schema.Class) string {
	switch c {
	case schema.CustomizationClass:
		return contract.CustomizationColor.Sprint(string(c))
	case schema.UpgradeClass:
		return contract.UpgradeColor.Sprint(string(c))
	default:
		return contract.MixColor.Sprint(string(c))
	}
}
