package parquet

import "time"

// MockFetchRuns returns sample run data for demos and tests.
func MockFetchRuns() []Run {
	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	end1 := base.Add(42 * time.Second)
	dur1 := int32(end1.Sub(base).Milliseconds())
	params1 := `{"old_dir":"/srv/site-v1","new_dir":"/srv/site-v2","workers":4}`

	end2 := base.Add(24*time.Hour + 18*time.Second)
	dur2 := int32(end2.Sub(base.Add(24 * time.Hour)).Milliseconds())
	params2 := `{"old_dir":"/srv/site-v1","new_dir":"/srv/site-v3","workers":8}`

	return []Run{
		{
			RunID:         1,
			StartTime:     base,
			EndTime:       &end1,
			RunDurationMs: &dur1,
			TotalPairs:    128,
			ConfigParams:  &params1,
		},
		{
			RunID:         2,
			StartTime:     base.Add(24 * time.Hour),
			EndTime:       &end2,
			RunDurationMs: &dur2,
			TotalPairs:    131,
			ConfigParams:  &params2,
		},
		{
			// An interrupted run: no end time, duration, or pair count.
			RunID:     3,
			StartTime: base.Add(48 * time.Hour),
		},
	}
}

// MockFetchFileResults returns sample file-result data for demos and tests.
func MockFetchFileResults() []FileResult {
	base := time.Date(2026, 8, 1, 9, 0, 10, 0, time.UTC)

	return []FileResult{
		{
			RunID:          1,
			RelPath:        "assets/theme.css",
			RecordTime:     base,
			Status:         "different",
			PCustomization: 0.82,
			PUpgrade:       0.07,
			PMix:           0.11,
			DominantClass:  "customization",
			HunkCount:      3,
			ChangedLines:   24,
		},
		{
			RunID:          1,
			RelPath:        "lib/vendor.js",
			RecordTime:     base.Add(time.Second),
			Status:         "different",
			PCustomization: 0.04,
			PUpgrade:       0.9,
			PMix:           0.06,
			DominantClass:  "upgrade",
			HunkCount:      12,
			ChangedLines:   310,
		},
		{
			RunID:          1,
			RelPath:        "templates/header.html",
			RecordTime:     base.Add(2 * time.Second),
			Status:         "different",
			PCustomization: 0.38,
			PUpgrade:       0.33,
			PMix:           0.29,
			DominantClass:  "customization",
			HunkCount:      2,
			ChangedLines:   17,
		},
		{
			RunID:      2,
			RelPath:    "img/logo.png",
			RecordTime: base.Add(24 * time.Hour),
			Status:     "binary",
		},
	}
}
