package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sourcegraph/go-diff/diff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendiff/vendiff/schema"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestComparePairIdentical(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTestFile(t, dir, "old.txt", "a\nb\n")
	newPath := writeTestFile(t, dir, "new.txt", "a\nb\n")

	r := NewFileAggregator(testConfig()).ComparePair("old.txt", oldPath, newPath)
	assert.Equal(t, schema.IdenticalStatus, r.Status)
	assert.Nil(t, r.Classification)
	assert.Empty(t, r.Hunks)
}

func TestComparePairTrailingNewlineOnly(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTestFile(t, dir, "old.txt", "a\nb")
	newPath := writeTestFile(t, dir, "new.txt", "a\nb\n")

	// Byte-different but line-identical collapses to identical.
	r := NewFileAggregator(testConfig()).ComparePair("old.txt", oldPath, newPath)
	assert.Equal(t, schema.IdenticalStatus, r.Status)
}

func TestComparePairBinary(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTestFile(t, dir, "old.bin", "plain text")
	newPath := writeTestFile(t, dir, "new.bin", "GIF89a\x00\x01\x02")

	r := NewFileAggregator(testConfig()).ComparePair("old.bin", oldPath, newPath)
	assert.Equal(t, schema.BinaryStatus, r.Status)
	assert.Nil(t, r.Classification)
}

func TestComparePairErrors(t *testing.T) {
	dir := t.TempDir()
	okPath := writeTestFile(t, dir, "ok.txt", "a\n")

	t.Run("missing file", func(t *testing.T) {
		r := NewFileAggregator(testConfig()).ComparePair("x", filepath.Join(dir, "nope.txt"), okPath)
		assert.Equal(t, schema.ErrorStatus, r.Status)
		assert.Contains(t, r.Error, "nope.txt")
	})

	t.Run("directory", func(t *testing.T) {
		r := NewFileAggregator(testConfig()).ComparePair("x", dir, okPath)
		assert.Equal(t, schema.ErrorStatus, r.Status)
		assert.Contains(t, r.Error, "directory")
	})

	t.Run("oversized", func(t *testing.T) {
		cfg := testConfig()
		cfg.SizeCeiling = 1
		r := NewFileAggregator(cfg).ComparePair("x", okPath, okPath)
		assert.Equal(t, schema.ErrorStatus, r.Status)
		assert.Contains(t, r.Error, "ok.txt")
	})
}

func TestComparePairDifferent(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTestFile(t, dir, "old.js", "var a = 1;\nfunction init() {\n  legacyHook();\n}\n")
	newPath := writeTestFile(t, dir, "new.js", "var a = 2;\nfunction init() {\n}\n")

	r := NewFileAggregator(testConfig()).ComparePair("app.js", oldPath, newPath)
	require.Equal(t, schema.DifferentStatus, r.Status)
	require.NotNil(t, r.Classification)
	require.NotEmpty(t, r.Hunks)
	assert.True(t, r.Classification.Probs.Valid())

	totalChanged := 0
	for _, hr := range r.Hunks {
		assert.True(t, hr.Classification.Probs.Valid())
		assert.NotEmpty(t, hr.Unified)
		_, err := diff.ParseHunks([]byte(hr.Unified))
		assert.NoError(t, err)
		totalChanged += hr.Hunk.ChangedLines()
	}
	assert.Equal(t, totalChanged, r.ChangedLines)
}

func TestComparePairFoldIsWeightedAverage(t *testing.T) {
	dir := t.TempDir()
	oldPath := writeTestFile(t, dir, "old.txt",
		"alpha\nbeta\ngamma\ndelta\nepsilon\nzeta\neta\ntheta\niota\nkappa\n")
	newPath := writeTestFile(t, dir, "new.txt",
		"ALPHA\nbeta\ngamma\ndelta\nepsilon\nzeta\neta\ntheta\niota\nKAPPA ADDED\nextra\n")

	r := NewFileAggregator(testConfig()).ComparePair("x", oldPath, newPath)
	require.Equal(t, schema.DifferentStatus, r.Status)
	require.True(t, len(r.Hunks) >= 2)

	var folded schema.Probabilities
	for _, hr := range r.Hunks {
		folded = folded.Add(hr.Classification.Probs.Scale(float64(hr.Hunk.ChangedLines())))
	}
	want := folded.Normalize()
	assert.InDelta(t, want.Customization, r.Classification.Probs.Customization, schema.ProbTolerance)
	assert.InDelta(t, want.Upgrade, r.Classification.Probs.Upgrade, schema.ProbTolerance)
	assert.InDelta(t, want.Mix, r.Classification.Probs.Mix, schema.ProbTolerance)
	assert.Equal(t, want.Dominant(), r.Classification.Class)
}

func TestIsBinary(t *testing.T) {
	assert.False(t, isBinary([]byte("hello\nworld\n")))
	assert.False(t, isBinary([]byte("héllo, wörld")))
	assert.True(t, isBinary([]byte{0x00, 0x01, 0x02}))
	assert.True(t, isBinary([]byte{0xff, 0xfe, 'a', 'b'}))

	// A multi-byte rune cut by the sniff window is not binary.
	data := make([]byte, binarySniffLen-1)
	for i := range data {
		data[i] = 'a'
	}
	data = append(data, []byte("é")...) // leading byte lands at the window edge
	assert.False(t, isBinary(data))
}
