package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vendiff/vendiff/schema"
)

func extractOne(t *testing.T, newFileLines []string, h schema.Hunk) schema.SignalVector {
	t.Helper()
	e := NewSignalExtractor(testConfig(), newFileLines)
	v := e.Extract(&h)
	assert.Len(t, v, len(schema.AllSignalKeys))
	return v
}

func TestExtractShapeSignals(t *testing.T) {
	t.Run("pure insertion", func(t *testing.T) {
		v := extractOne(t, []string{"a", "new", "b"}, schema.Hunk{
			NewLines: []string{"new"},
		})
		assert.Equal(t, 1.0, v[schema.SignalAddedRatio])
		assert.Equal(t, 1.0, v[schema.SignalNetGrowth])
		assert.Equal(t, 1.0, v[schema.SignalPureInsertion])
		assert.Equal(t, 0.0, v[schema.SignalPureDeletion])
		assert.Equal(t, 0.0, v[schema.SignalBalancedReplace])
	})

	t.Run("pure deletion", func(t *testing.T) {
		v := extractOne(t, []string{"a", "b"}, schema.Hunk{
			OldLines: []string{"gone"},
		})
		assert.Equal(t, 0.0, v[schema.SignalAddedRatio])
		assert.Equal(t, 0.0, v[schema.SignalNetGrowth])
		assert.Equal(t, 1.0, v[schema.SignalPureDeletion])
	})

	t.Run("balanced replace", func(t *testing.T) {
		v := extractOne(t, []string{"x", "y"}, schema.Hunk{
			OldLines: []string{"p", "q"},
			NewLines: []string{"x", "y"},
		})
		assert.Equal(t, 0.5, v[schema.SignalAddedRatio])
		assert.Equal(t, 1.0, v[schema.SignalBalancedReplace])
		assert.Equal(t, 0.0, v[schema.SignalNetGrowth])
	})

	t.Run("empty hunk stays zero", func(t *testing.T) {
		v := extractOne(t, nil, schema.Hunk{})
		for _, k := range schema.AllSignalKeys {
			assert.Equal(t, 0.0, v[k], "signal %s", k)
		}
	})
}

func TestExtractWhitespaceOnly(t *testing.T) {
	v := extractOne(t, []string{"a=1", "b = 2"}, schema.Hunk{
		OldLines: []string{"a = 1;", "b=2"},
		NewLines: []string{"a=1", "b = 2"},
	})
	assert.Equal(t, 1.0, v[schema.SignalWhitespaceOnly])

	v = extractOne(t, []string{"a=1", "c=3"}, schema.Hunk{
		OldLines: []string{"a = 1", "b=2"},
		NewLines: []string{"a=1", "c=3"},
	})
	assert.Equal(t, 0.5, v[schema.SignalWhitespaceOnly])
}

func TestExtractTokenSignals(t *testing.T) {
	t.Run("version and date in added lines", func(t *testing.T) {
		v := extractOne(t, []string{"release 2.14.1 on 2026-08-25"}, schema.Hunk{
			OldLines: []string{"release notes"},
			NewLines: []string{"release 2.14.1 on 2026-08-25"},
		})
		assert.Equal(t, 1.0, v[schema.SignalVersionToken])
		assert.Equal(t, 1.0, v[schema.SignalDateToken])
	})

	t.Run("version in removed lines only does not fire", func(t *testing.T) {
		v := extractOne(t, []string{"release notes"}, schema.Hunk{
			OldLines: []string{"release 2.14.1"},
			NewLines: []string{"release notes"},
		})
		assert.Equal(t, 0.0, v[schema.SignalVersionToken])
	})

	t.Run("markers are case insensitive", func(t *testing.T) {
		v := extractOne(t, []string{"see Upstream Changelog"}, schema.Hunk{
			OldLines: []string{"// ACME CUSTOM override"},
			NewLines: []string{"see Upstream Changelog"},
		})
		assert.Equal(t, 1.0, v[schema.SignalCustomMarkerRemoved])
		assert.Equal(t, 0.0, v[schema.SignalCustomMarkerAdded])
		assert.Equal(t, 1.0, v[schema.SignalVendorMarkerAdded])
	})
}

func TestExtractOrphanIdentifier(t *testing.T) {
	newLines := []string{"keepMe()", "done"}

	v := extractOne(t, newLines, schema.Hunk{
		OldLines: []string{"vanishedHelper()"},
		NewLines: []string{"done"},
	})
	assert.Equal(t, 1.0, v[schema.SignalOrphanIdentifier])

	// Every removed identifier still lives somewhere in the new file.
	v = extractOne(t, newLines, schema.Hunk{
		OldLines: []string{"keepMe()"},
		NewLines: []string{"done"},
	})
	assert.Equal(t, 0.0, v[schema.SignalOrphanIdentifier])
}

func TestExtractRelocated(t *testing.T) {
	// The removed block reappears verbatim later in the new file.
	newLines := []string{"a", "b", "moved line one", "moved line two"}
	v := extractOne(t, newLines, schema.Hunk{
		OldLines: []string{"moved line one", "moved line two"},
		NewLines: []string{"a"},
	})
	assert.Equal(t, 1.0, v[schema.SignalRelocated])

	// Occurrences inside the hunk's own new side don't count as elsewhere.
	v = extractOne(t, []string{"same line"}, schema.Hunk{
		OldLines: []string{"same line"},
		NewLines: []string{"same line"},
	})
	assert.Equal(t, 0.0, v[schema.SignalRelocated])
}

func TestExtractStructuralSignals(t *testing.T) {
	t.Run("boundary in changed lines", func(t *testing.T) {
		v := extractOne(t, []string{"</div>"}, schema.Hunk{
			OldLines: []string{"<div class=\"old\">"},
			NewLines: []string{"</div>"},
		})
		assert.Equal(t, 1.0, v[schema.SignalStructuralBoundary])
		assert.Equal(t, 0.0, v[schema.SignalSingleUnit])
	})

	t.Run("boundary only in context", func(t *testing.T) {
		v := extractOne(t, []string{"x = 2"}, schema.Hunk{
			OldLines:      []string{"x = 1"},
			NewLines:      []string{"x = 2"},
			ContextBefore: []string{"function render() {"},
			ContextAfter:  []string{"}"},
		})
		assert.Equal(t, 0.0, v[schema.SignalStructuralBoundary])
		assert.Equal(t, 1.0, v[schema.SignalSingleUnit])
	})

	t.Run("no boundary anywhere", func(t *testing.T) {
		v := extractOne(t, []string{"x = 2"}, schema.Hunk{
			OldLines:      []string{"x = 1"},
			NewLines:      []string{"x = 2"},
			ContextBefore: []string{"y = 0"},
		})
		assert.Equal(t, 0.0, v[schema.SignalStructuralBoundary])
		assert.Equal(t, 0.0, v[schema.SignalSingleUnit])
	})
}
