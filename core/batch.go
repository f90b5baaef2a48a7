package core

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/schema"
)

// FolderAggregator fans a list of file pairs across a bounded worker pool and
// folds the per-file results into a folder-level verdict. Output order is
// canonical (sorted by relative path) no matter how workers are scheduled.
type FolderAggregator struct {
	cfg   *contract.Config
	files *FileAggregator
}

// NewFolderAggregator creates a folder aggregator from the run configuration.
func NewFolderAggregator(cfg *contract.Config) *FolderAggregator {
	return &FolderAggregator{
		cfg:   cfg,
		files: NewFileAggregator(cfg),
	}
}

// CompareFolders classifies every relative path against both roots.
// Cancellation is cooperative: in-flight pairs finish, unstarted pairs are
// recorded as ErrorStatus results so the output always covers every request.
func (f *FolderAggregator) CompareFolders(ctx context.Context, oldDir, newDir string, relPaths []string) schema.FolderResult {
	results := make([]schema.FileResult, len(relPaths))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for range f.cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rel := relPaths[i]
				if err := ctx.Err(); err != nil {
					results[i] = schema.FileResult{
						RelPath: rel,
						OldPath: filepath.Join(oldDir, rel),
						NewPath: filepath.Join(newDir, rel),
						Status:  schema.ErrorStatus,
						Error:   err.Error(),
					}
					continue
				}
				results[i] = f.files.ComparePair(rel, filepath.Join(oldDir, rel), filepath.Join(newDir, rel))
			}
		}()
	}

	for i := range relPaths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].RelPath < results[j].RelPath
	})

	return schema.FolderResult{
		OldDir:  oldDir,
		NewDir:  newDir,
		Results: results,
		Summary: Summarize(results),
	}
}

// Summarize folds per-file results into folder-level counts and the
// changed-line-weighted probability triple. Files without a triple (identical,
// binary, error) count in the status tallies but carry no weight.
func Summarize(results []schema.FileResult) schema.FolderSummary {
	summary := schema.FolderSummary{
		Requested:    len(results),
		StatusCounts: make(map[schema.Status]int),
		ClassCounts:  make(map[schema.Class]int),
	}

	var folded schema.Probabilities
	for i := range results {
		r := &results[i]
		summary.StatusCounts[r.Status]++
		if r.Status != schema.ErrorStatus {
			summary.Processed++
		}
		if r.Classification == nil {
			continue
		}
		summary.ClassCounts[r.Classification.Class]++
		summary.TotalChangedLines += r.ChangedLines
		folded = folded.Add(r.Classification.Probs.Scale(float64(r.ChangedLines)))
	}

	if summary.TotalChangedLines > 0 {
		p := folded.Normalize()
		summary.Classification = &p
	}
	return summary
}
