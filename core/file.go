package core

import (
	"bytes"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/schema"
)

// binarySniffLen is how many leading bytes are inspected for binary content.
const binarySniffLen = 8000

// FileAggregator classifies one (old, new) file pair end to end: read, diff,
// per-hunk classification, and the changed-line-weighted fold into one file
// triple.
type FileAggregator struct {
	cfg        *contract.Config
	differ     *LineDiffer
	classifier *HunkClassifier
}

// NewFileAggregator creates a file aggregator from the run configuration.
func NewFileAggregator(cfg *contract.Config) *FileAggregator {
	return &FileAggregator{
		cfg:        cfg,
		differ:     NewLineDiffer(cfg),
		classifier: NewHunkClassifier(cfg),
	}
}

// ComparePair classifies a single file pair. Unreadable or oversized inputs
// become ErrorStatus results rather than run failures, so one bad file never
// aborts a batch.
func (a *FileAggregator) ComparePair(relPath, oldPath, newPath string) schema.FileResult {
	result := schema.FileResult{
		RelPath: relPath,
		OldPath: oldPath,
		NewPath: newPath,
	}

	oldData, err := a.readCapped(oldPath)
	if err != nil {
		result.Status = schema.ErrorStatus
		result.Error = err.Error()
		return result
	}
	newData, err := a.readCapped(newPath)
	if err != nil {
		result.Status = schema.ErrorStatus
		result.Error = err.Error()
		return result
	}

	if bytes.Equal(oldData, newData) {
		result.Status = schema.IdenticalStatus
		return result
	}
	if isBinary(oldData) || isBinary(newData) {
		result.Status = schema.BinaryStatus
		return result
	}

	oldLines := SplitLines(string(oldData))
	newLines := SplitLines(string(newData))

	hunks := a.differ.ComputeHunks(oldLines, newLines)
	if len(hunks) == 0 {
		// Byte-different but line-identical (e.g. trailing newline only).
		result.Status = schema.IdenticalStatus
		return result
	}

	result.Status = schema.DifferentStatus
	extractor := NewSignalExtractor(a.cfg, newLines)

	var folded schema.Probabilities
	for i := range hunks {
		h := &hunks[i]
		vec := extractor.Extract(h)
		cls, top := a.classifier.Classify(vec)

		result.Hunks = append(result.Hunks, schema.HunkResult{
			Hunk:           *h,
			Classification: cls,
			TopSignals:     top,
			Unified:        RenderUnified(h),
		})
		result.ChangedLines += h.ChangedLines()
		folded = folded.Add(cls.Probs.Scale(float64(h.ChangedLines())))
	}

	fileCls := schema.Classify(folded.Normalize())
	result.Classification = &fileCls
	return result
}

// readCapped reads a file after checking it against the size ceiling.
func (a *FileAggregator) readCapped(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", contract.ErrUnreadablePath, path)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", contract.ErrUnreadablePath, path)
	}
	if info.Size() > a.cfg.SizeCeiling {
		return nil, fmt.Errorf("%w: %s (%d bytes > %d)", contract.ErrOversizedFile, path, info.Size(), a.cfg.SizeCeiling)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", contract.ErrUnreadablePath, path)
	}
	return data, nil
}

// isBinary reports whether content looks binary: a null byte or invalid UTF-8
// in the leading sniff window.
func isBinary(data []byte) bool {
	sniff := data
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	if bytes.IndexByte(sniff, 0) >= 0 {
		return true
	}
	return !utf8.Valid(bytes.TrimSuffix(sniff, incompleteRuneTail(sniff)))
}

// incompleteRuneTail returns the trailing bytes of a truncated multi-byte rune
// at the end of the sniff window, so a clean UTF-8 file cut mid-rune by the
// window is not misread as binary.
func incompleteRuneTail(sniff []byte) []byte {
	if len(sniff) < binarySniffLen {
		return nil
	}
	// Walk back up to 3 continuation bytes plus one leading byte.
	end := len(sniff)
	start := max(0, end-4)
	for i := end - 1; i >= start; i-- {
		b := sniff[i]
		if b < 0x80 {
			return nil // ASCII tail, nothing truncated
		}
		if b >= 0xC0 {
			// Leading byte: truncated if the rune doesn't fit in the window.
			if i+runeLen(b) > end {
				return sniff[i:]
			}
			return nil
		}
	}
	return nil
}

// runeLen returns the encoded length implied by a UTF-8 leading byte.
func runeLen(b byte) int {
	switch {
	case b >= 0xF0:
		return 4
	case b >= 0xE0:
		return 3
	default:
		return 2
	}
}
