package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/schema"
)

// WriteScan outputs a directory scan, dispatching based on the output format
// configured. JSON is the canonical form consumed by the batch command; a
// non-.json target gets a timestamped file name synthesized for it.
func WriteScan(cfg *contract.Config, out *schema.ScanOutput) error {
	switch cfg.Output {
	case schema.JSONOut:
		target := cfg.OutputFile
		if target != "" {
			target = contract.ResolveJSONOutputPath(target, time.Now())
		}
		return writeWithFile(target, func(w io.Writer) error {
			return writeJSON(w, out)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScanCSV(w, out)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScanTable(w, cfg, out)
		}, "Wrote table")
	}
}

// writeScanCSV writes one row per file with its partition.
func writeScanCSV(w io.Writer, out *schema.ScanOutput) error {
	header := []string{"partition", "path"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		partitions := []struct {
			name  string
			paths []string
		}{
			{"different", out.Results.Different},
			{"old_only", out.Results.OldOnly},
			{"new_only", out.Results.NewOnly},
			{"same", out.Results.Same},
		}
		for _, p := range partitions {
			for _, path := range p.paths {
				if err := cw.Write([]string{p.name, path}); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// writeScanTable writes the human-readable partition counts.
func writeScanTable(w io.Writer, cfg *contract.Config, out *schema.ScanOutput) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Partition", "Files"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	data := [][]string{
		{"different", strconv.Itoa(len(out.Results.Different))},
		{"old_only", strconv.Itoa(len(out.Results.OldOnly))},
		{"new_only", strconv.Itoa(len(out.Results.NewOnly))},
		{"same", strconv.Itoa(len(out.Results.Same))},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	prefix := ""
	if cfg.UseEmojis {
		prefix = "🔍 "
	}
	total := len(out.Results.Different) + len(out.Results.OldOnly) + len(out.Results.NewOnly) + len(out.Results.Same)
	_, err := fmt.Fprintf(w, "%sScanned %d files across %s and %s\n",
		prefix, total, out.ComparisonDirectories.OldDir, out.ComparisonDirectories.NewDir)
	return err
}
