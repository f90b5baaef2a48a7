package core

import (
	"regexp"
	"testing"

	"github.com/sourcegraph/go-diff/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/schema"
)

// testConfig returns a config with CLI defaults and a couple of markers,
// bypassing the viper pipeline.
func testConfig() *contract.Config {
	return &contract.Config{
		ContextLines:  contract.DefaultContextLines,
		MergeLines:    contract.DefaultMergeLines,
		SizeCeiling:   contract.DefaultSizeCeiling,
		MixMargin:     contract.DefaultMixMargin,
		Weights:       schema.GetDefaultWeights(),
		CustomMarkers: []*regexp.Regexp{regexp.MustCompile(`(?i)acme custom`)},
		VendorMarkers: []*regexp.Regexp{regexp.MustCompile(`(?i)upstream changelog`)},
		Workers:       2,
		ResultLimit:   contract.DefaultResultLimit,
		Precision:     contract.DefaultPrecision,
		Output:        schema.TextOut,
	}
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, SplitLines(""))
	assert.Equal(t, []string{"a"}, SplitLines("a"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb"))
}

func TestComputeHunksIdenticalInputs(t *testing.T) {
	d := NewLineDiffer(testConfig())
	lines := []string{"a", "b", "c"}
	assert.Empty(t, d.ComputeHunks(lines, lines))
}

func TestComputeHunksSingleReplace(t *testing.T) {
	d := NewLineDiffer(testConfig())
	oldLines := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	newLines := []string{"a", "b", "c", "d", "X", "f", "g", "h"}

	hunks := d.ComputeHunks(oldLines, newLines)
	require.Len(t, hunks, 1)

	h := hunks[0]
	assert.Equal(t, schema.LineRange{Start: 5, Lines: 1}, h.OldRange)
	assert.Equal(t, schema.LineRange{Start: 5, Lines: 1}, h.NewRange)
	assert.Equal(t, []string{"e"}, h.OldLines)
	assert.Equal(t, []string{"X"}, h.NewLines)
	assert.Equal(t, []string{"b", "c", "d"}, h.ContextBefore)
	assert.Equal(t, []string{"f", "g", "h"}, h.ContextAfter)
}

func TestComputeHunksContextClippedAtFileBounds(t *testing.T) {
	d := NewLineDiffer(testConfig())
	oldLines := []string{"a", "b"}
	newLines := []string{"X", "b"}

	hunks := d.ComputeHunks(oldLines, newLines)
	require.Len(t, hunks, 1)
	assert.Empty(t, hunks[0].ContextBefore)
	assert.Equal(t, []string{"b"}, hunks[0].ContextAfter)
}

func TestComputeHunksPureInsertionAndDeletion(t *testing.T) {
	d := NewLineDiffer(testConfig())

	ins := d.ComputeHunks([]string{"a", "b"}, []string{"a", "new", "b"})
	require.Len(t, ins, 1)
	assert.Equal(t, 0, ins[0].OldRange.Lines)
	assert.Equal(t, []string{"new"}, ins[0].NewLines)

	del := d.ComputeHunks([]string{"a", "gone", "b"}, []string{"a", "b"})
	require.Len(t, del, 1)
	assert.Equal(t, 0, del[0].NewRange.Lines)
	assert.Equal(t, []string{"gone"}, del[0].OldLines)
}

func TestComputeHunksMergeLines(t *testing.T) {
	oldLines := []string{"a", "b", "c", "d", "e"}
	newLines := []string{"A", "b", "c", "d", "E"}

	// Strict contiguity keeps the two edits apart.
	strict := NewLineDiffer(testConfig())
	assert.Len(t, strict.ComputeHunks(oldLines, newLines), 2)

	// A merge window spanning the three unchanged lines absorbs them.
	cfg := testConfig()
	cfg.MergeLines = 3
	merged := NewLineDiffer(cfg).ComputeHunks(oldLines, newLines)
	require.Len(t, merged, 1)
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, merged[0].OldLines)
	assert.Equal(t, []string{"A", "b", "c", "d", "E"}, merged[0].NewLines)
}

func TestApplyHunksRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		oldLines []string
		newLines []string
		merge    int
	}{
		{"replace", []string{"a", "b", "c"}, []string{"a", "X", "c"}, 0},
		{"insert at start", []string{"a"}, []string{"new", "a"}, 0},
		{"delete at end", []string{"a", "b"}, []string{"a"}, 0},
		{"empty old", nil, []string{"a", "b"}, 0},
		{"empty new", []string{"a", "b"}, nil, 0},
		{"multiple edits", []string{"a", "b", "c", "d", "e", "f", "g"}, []string{"A", "b", "c", "D", "e", "f", "G", "H"}, 0},
		{"multiple edits merged", []string{"a", "b", "c", "d", "e", "f", "g"}, []string{"A", "b", "c", "D", "e", "f", "G", "H"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.MergeLines = tt.merge
			hunks := NewLineDiffer(cfg).ComputeHunks(tt.oldLines, tt.newLines)
			replayed := ApplyHunks(tt.oldLines, hunks)
			assert.Equal(t, tt.newLines, replayed)
		})
	}
}

func TestRenderUnifiedParsesBack(t *testing.T) {
	d := NewLineDiffer(testConfig())
	oldLines := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	newLines := []string{"a", "b", "c", "d", "X", "f", "g", "h"}

	hunks := d.ComputeHunks(oldLines, newLines)
	require.Len(t, hunks, 1)

	rendered := RenderUnified(&hunks[0])
	parsed, err := diff.ParseHunks([]byte(rendered))
	require.NoError(t, err)
	require.Len(t, parsed, 1)
	assert.Equal(t, int32(2), parsed[0].OrigStartLine)
	assert.Equal(t, int32(7), parsed[0].OrigLines)
}
