package core

import (
	"regexp"
	"strings"

	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/schema"
)

// Token patterns used by the extractor. All matching is deterministic and
// derived solely from the hunk and the two full file texts.
var (
	versionTokenRx = regexp.MustCompile(`\b\d+(\.\d+){1,3}\b`)
	dateTokenRx    = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
	identifierRx   = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_-]{3,}`)

	// Structural boundaries: markup tag open/close on its own line, a script
	// function boundary, or a style rule block delimiter.
	tagBoundaryRx  = regexp.MustCompile(`^\s*</?[A-Za-z][^>]*>?\s*$`)
	funcBoundaryRx = regexp.MustCompile(`\bfunction\b\s*\w*\s*\(|=>\s*\{|^\s*def\s+\w+|^func\s+\w+`)
	ruleBoundaryRx = regexp.MustCompile(`^[^{}]*\{\s*$|^\s*\}\s*;?\s*$`)
)

// SignalExtractor computes the fixed signal vector for each hunk of one file
// pair. It is built per pair because cross-reference signals need the full
// new-file line set.
type SignalExtractor struct {
	cfg *contract.Config

	newText    string
	newLineSet map[string]int // trimmed non-empty new-file lines -> occurrence count
}

// NewSignalExtractor creates an extractor bound to one (old, new) file pair.
func NewSignalExtractor(cfg *contract.Config, newLines []string) *SignalExtractor {
	set := make(map[string]int, len(newLines))
	for _, l := range newLines {
		t := strings.TrimSpace(l)
		if t != "" {
			set[t]++
		}
	}
	return &SignalExtractor{
		cfg:        cfg,
		newText:    strings.Join(newLines, "\n"),
		newLineSet: set,
	}
}

// Extract computes the signal vector for one hunk. Boolean signals are 0/1,
// scalar signals are normalized into [0,1]. The key set is fixed by
// schema.AllSignalKeys; absent signals are explicit zeros.
func (e *SignalExtractor) Extract(h *schema.Hunk) schema.SignalVector {
	added := len(h.NewLines)
	removed := len(h.OldLines)
	changed := added + removed

	v := make(schema.SignalVector, len(schema.AllSignalKeys))
	for _, k := range schema.AllSignalKeys {
		v[k] = 0
	}
	if changed == 0 {
		return v
	}

	// --- Size/shape ---
	v[schema.SignalAddedRatio] = float64(added) / float64(changed)
	if added > removed {
		v[schema.SignalNetGrowth] = float64(added-removed) / float64(changed)
	}
	if removed == 0 {
		v[schema.SignalPureInsertion] = 1
	}
	if added == 0 {
		v[schema.SignalPureDeletion] = 1
	}
	if added > 0 && removed > 0 {
		v[schema.SignalBalancedReplace] = float64(min(added, removed)) / float64(max(added, removed))
	}

	// --- Formatting ---
	v[schema.SignalWhitespaceOnly] = whitespaceOnlyFraction(h.OldLines, h.NewLines)

	// --- Tokens ---
	addedText := strings.Join(h.NewLines, "\n")
	removedText := strings.Join(h.OldLines, "\n")
	if versionTokenRx.MatchString(addedText) {
		v[schema.SignalVersionToken] = 1
	}
	if dateTokenRx.MatchString(addedText) {
		v[schema.SignalDateToken] = 1
	}
	if matchesAny(e.cfg.CustomMarkers, removedText) {
		v[schema.SignalCustomMarkerRemoved] = 1
	}
	if matchesAny(e.cfg.CustomMarkers, addedText) {
		v[schema.SignalCustomMarkerAdded] = 1
	}
	if matchesAny(e.cfg.VendorMarkers, addedText) {
		v[schema.SignalVendorMarkerAdded] = 1
	}
	if e.hasOrphanIdentifier(h.OldLines) {
		v[schema.SignalOrphanIdentifier] = 1
	}

	// --- Cross-reference ---
	v[schema.SignalRelocated] = e.relocatedFraction(h)

	// --- Structure ---
	changedBoundary := hasStructuralBoundary(h.OldLines) || hasStructuralBoundary(h.NewLines)
	if changedBoundary {
		v[schema.SignalStructuralBoundary] = 1
	} else if hasStructuralBoundary(h.ContextBefore) || hasStructuralBoundary(h.ContextAfter) {
		// Boundaries only in context: the change sits inside one structural unit.
		v[schema.SignalSingleUnit] = 1
	}

	return v
}

// whitespaceOnlyFraction returns the fraction of changed lines that differ
// only in whitespace or trivial punctuation from their aligned counterpart.
func whitespaceOnlyFraction(oldLines, newLines []string) float64 {
	total := max(len(oldLines), len(newLines))
	if total == 0 {
		return 0
	}
	pairs := min(len(oldLines), len(newLines))
	matches := 0
	for i := range pairs {
		if collapseLine(oldLines[i]) == collapseLine(newLines[i]) {
			matches++
		}
	}
	return float64(matches) / float64(total)
}

// collapseLine strips whitespace and trivial punctuation for the
// formatting-only comparison.
func collapseLine(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '\t', '\r', ';', ',':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// relocatedFraction returns the fraction of removed lines that reappear
// verbatim elsewhere in the new file, outside this hunk. A high value
// suggests the upgrade moved a block rather than dropping a customization.
func (e *SignalExtractor) relocatedFraction(h *schema.Hunk) float64 {
	// Occurrences inside this hunk's new side don't count as "elsewhere".
	inHunk := make(map[string]int, len(h.NewLines))
	for _, l := range h.NewLines {
		t := strings.TrimSpace(l)
		if t != "" {
			inHunk[t]++
		}
	}

	considered := 0
	found := 0
	for _, l := range h.OldLines {
		t := strings.TrimSpace(l)
		if t == "" {
			continue
		}
		considered++
		if e.newLineSet[t] > inHunk[t] {
			found++
		}
	}
	if considered == 0 {
		return 0
	}
	return float64(found) / float64(considered)
}

// hasOrphanIdentifier reports whether any identifier in the removed lines
// appears nowhere in the entire new file. Such identifiers look like local
// names the upgrade never knew about.
func (e *SignalExtractor) hasOrphanIdentifier(oldLines []string) bool {
	for _, l := range oldLines {
		for _, id := range identifierRx.FindAllString(l, -1) {
			if !strings.Contains(e.newText, id) {
				return true
			}
		}
	}
	return false
}

// hasStructuralBoundary reports whether any line looks like a recognized
// structural boundary (markup tag, function, or style rule delimiter).
func hasStructuralBoundary(lines []string) bool {
	for _, l := range lines {
		if tagBoundaryRx.MatchString(l) || funcBoundaryRx.MatchString(l) || ruleBoundaryRx.MatchString(l) {
			return true
		}
	}
	return false
}

// matchesAny reports whether any pattern matches the text.
func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, rx := range patterns {
		if rx.MatchString(text) {
			return true
		}
	}
	return false
}
