package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/schema"
)

func TestLoadFolderResult(t *testing.T) {
	dir := t.TempDir()

	t.Run("round trip", func(t *testing.T) {
		result := schema.FolderResult{
			OldDir: "/v1",
			NewDir: "/v2",
			Results: []schema.FileResult{
				{RelPath: "a.txt", Status: schema.IdenticalStatus},
			},
		}
		data, err := json.Marshal(result)
		require.NoError(t, err)
		path := filepath.Join(dir, "result.json")
		require.NoError(t, os.WriteFile(path, data, 0o644))

		loaded, err := loadFolderResult(path)
		require.NoError(t, err)
		assert.Equal(t, result, *loaded)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := loadFolderResult(filepath.Join(dir, "nope.json"))
		assert.ErrorIs(t, err, contract.ErrUnreadablePath)
	})

	t.Run("not json", func(t *testing.T) {
		path := filepath.Join(dir, "junk.json")
		require.NoError(t, os.WriteFile(path, []byte("not json at all"), 0o644))
		_, err := loadFolderResult(path)
		assert.ErrorIs(t, err, contract.ErrMalformedInput)
	})

	t.Run("missing roots", func(t *testing.T) {
		path := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"results":[]}`), 0o644))
		_, err := loadFolderResult(path)
		assert.ErrorIs(t, err, contract.ErrMalformedInput)
	})
}

func TestBuildAssessment(t *testing.T) {
	cls := schema.Classify(schema.Probabilities{Customization: 0.7, Upgrade: 0.2, Mix: 0.1})
	result := &schema.FolderResult{
		OldDir: "/v1",
		NewDir: "/v2",
		Results: []schema.FileResult{
			{
				RelPath:        "app.js",
				Status:         schema.DifferentStatus,
				Classification: &cls,
				ChangedLines:   6,
				Hunks: []schema.HunkResult{
					{TopSignals: []schema.SignalKey{schema.SignalCustomMarkerRemoved, schema.SignalOrphanIdentifier}},
					{TopSignals: []schema.SignalKey{schema.SignalOrphanIdentifier, schema.SignalVersionToken}},
				},
			},
			{RelPath: "same.txt", Status: schema.IdenticalStatus},
			{RelPath: "broken.txt", Status: schema.ErrorStatus, Error: "path unreadable: broken.txt"},
		},
	}

	rows := BuildAssessment(result)
	require.Len(t, rows, 3)

	assert.Equal(t, "app.js", rows[0].RelPath)
	assert.Equal(t, schema.CustomizationClass, rows[0].Class)
	assert.Equal(t, 2, rows[0].HunkCount)
	assert.Equal(t, 6, rows[0].ChangedLines)
	// Notes keep first-seen order and drop duplicate signals across hunks.
	assert.Equal(t,
		"customization marker removed; identifier unknown to new version; version token in added lines",
		rows[0].Notes)

	assert.Equal(t, schema.Class(""), rows[1].Class)
	assert.Empty(t, rows[1].Notes)

	assert.Equal(t, "path unreadable: broken.txt", rows[2].Notes)
}

func TestBuildAssessmentRanksByCustomization(t *testing.T) {
	low := schema.Classify(schema.Probabilities{Customization: 0.1, Upgrade: 0.8, Mix: 0.1})
	high := schema.Classify(schema.Probabilities{Customization: 0.9, Upgrade: 0.05, Mix: 0.05})
	mid := schema.Classify(schema.Probabilities{Customization: 0.5, Upgrade: 0.3, Mix: 0.2})
	midToo := schema.Classify(schema.Probabilities{Customization: 0.5, Upgrade: 0.2, Mix: 0.3})
	result := &schema.FolderResult{
		OldDir: "/v1",
		NewDir: "/v2",
		Results: []schema.FileResult{
			{RelPath: "a_low.txt", Status: schema.DifferentStatus, Classification: &low},
			{RelPath: "b_high.txt", Status: schema.DifferentStatus, Classification: &high},
			{RelPath: "c_mid.txt", Status: schema.DifferentStatus, Classification: &mid},
			{RelPath: "d_mid.txt", Status: schema.DifferentStatus, Classification: &midToo},
			{RelPath: "e_same.txt", Status: schema.IdenticalStatus},
		},
	}

	rows := BuildAssessment(result)
	require.Len(t, rows, 5)

	var order []string
	for _, row := range rows {
		order = append(order, row.RelPath)
	}
	// Highest customization first, equal probabilities keep path order, and
	// the row without a triple sinks to the bottom.
	assert.Equal(t, []string{"b_high.txt", "c_mid.txt", "d_mid.txt", "a_low.txt", "e_same.txt"}, order)
}

func TestBuildNotesFlagsUnparseableDiff(t *testing.T) {
	r := &schema.FileResult{
		Status: schema.DifferentStatus,
		Hunks: []schema.HunkResult{
			{Unified: "this is not a unified diff"},
		},
	}
	assert.Equal(t, "unparseable diff text", buildNotes(r))
}

func TestSignalNotesCoverAllSignals(t *testing.T) {
	for _, key := range schema.AllSignalKeys {
		_, ok := signalNotes[key]
		assert.True(t, ok, "missing note for signal %s", key)
	}
}
