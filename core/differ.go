package core

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"
	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/schema"
)

// LineDiffer computes the line-level alignment between an old and new text
// and groups contiguous changed regions into hunks. Hunk boundaries come from
// an LCS-based minimal edit script, so they are stable and match conventional
// line-diff tooling.
type LineDiffer struct {
	contextLines int
	mergeLines   int
}

// NewLineDiffer creates a differ from the run configuration.
func NewLineDiffer(cfg *contract.Config) *LineDiffer {
	return &LineDiffer{
		contextLines: cfg.ContextLines,
		mergeLines:   cfg.MergeLines,
	}
}

// SplitLines splits a text into lines without end-of-line characters.
// A trailing newline does not produce a final empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// ComputeHunks produces the minimal set of non-overlapping hunks such that
// replaying them against oldLines reproduces newLines exactly. Identical
// inputs yield zero hunks. Adjacent changed regions merge only when separated
// by at most mergeLines unchanged lines (default 0: strict contiguity).
func (d *LineDiffer) ComputeHunks(oldLines, newLines []string) []schema.Hunk {
	matcher := difflib.NewMatcher(oldLines, newLines)
	opcodes := matcher.GetOpCodes()

	// Group opcodes into changed regions, absorbing short equal runs.
	type region struct {
		i1, i2, j1, j2 int
	}
	var regions []region
	for _, op := range opcodes {
		if op.Tag == 'e' {
			continue
		}
		if n := len(regions); n > 0 && op.I1-regions[n-1].i2 <= d.mergeLines {
			regions[n-1].i2 = op.I2
			regions[n-1].j2 = op.J2
			continue
		}
		regions = append(regions, region{i1: op.I1, i2: op.I2, j1: op.J1, j2: op.J2})
	}

	hunks := make([]schema.Hunk, 0, len(regions))
	for _, r := range regions {
		ctxStart := max(0, r.i1-d.contextLines)
		ctxEnd := min(len(oldLines), r.i2+d.contextLines)

		h := schema.Hunk{
			OldRange:      schema.LineRange{Start: r.i1 + 1, Lines: r.i2 - r.i1},
			NewRange:      schema.LineRange{Start: r.j1 + 1, Lines: r.j2 - r.j1},
			OldLines:      append([]string(nil), oldLines[r.i1:r.i2]...),
			NewLines:      append([]string(nil), newLines[r.j1:r.j2]...),
			ContextBefore: append([]string(nil), oldLines[ctxStart:r.i1]...),
			ContextAfter:  append([]string(nil), oldLines[r.i2:ctxEnd]...),
		}
		hunks = append(hunks, h)
	}
	return hunks
}

// ApplyHunks replays a hunk sequence against oldLines and returns the
// reconstructed new text lines. This is the inverse of ComputeHunks and backs
// the round-trip law in tests.
func ApplyHunks(oldLines []string, hunks []schema.Hunk) []string {
	var out []string
	cursor := 0 // 0-based index into oldLines
	for _, h := range hunks {
		start := h.OldRange.Start - 1
		out = append(out, oldLines[cursor:start]...)
		out = append(out, h.NewLines...)
		cursor = start + h.OldRange.Lines
	}
	out = append(out, oldLines[cursor:]...)
	return out
}

// RenderUnified renders one hunk as canonical unified-diff text, context
// included, for the audit trail in JSON output.
func RenderUnified(h *schema.Hunk) string {
	var body strings.Builder
	for _, l := range h.ContextBefore {
		body.WriteString(" " + l + "\n")
	}
	for _, l := range h.OldLines {
		body.WriteString("-" + l + "\n")
	}
	for _, l := range h.NewLines {
		body.WriteString("+" + l + "\n")
	}
	for _, l := range h.ContextAfter {
		body.WriteString(" " + l + "\n")
	}

	ctx := len(h.ContextBefore) + len(h.ContextAfter)
	u := &diff.Hunk{
		OrigStartLine: int32(h.OldRange.Start - len(h.ContextBefore)),
		OrigLines:     int32(h.OldRange.Lines + ctx),
		NewStartLine:  int32(h.NewRange.Start - len(h.ContextBefore)),
		NewLines:      int32(h.NewRange.Lines + ctx),
		Body:          []byte(body.String()),
	}
	rendered, err := diff.PrintHunks([]*diff.Hunk{u})
	if err != nil {
		// PrintHunks only fails on malformed hunk metadata, which we control.
		return body.String()
	}
	return string(rendered)
}
