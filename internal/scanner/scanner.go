// Package scanner walks two directory trees and partitions their files for
// downstream classification.
package scanner

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/schema"
)

// Scan compares the file sets of two directory roots and partitions every
// relative path into old-only, new-only, different, or same. All four lists
// come back sorted. Symlinks and non-regular files are skipped.
func Scan(oldDir, newDir string) (schema.ScanResult, error) {
	var result schema.ScanResult

	oldSet, err := collectFiles(oldDir)
	if err != nil {
		return result, err
	}
	newSet, err := collectFiles(newDir)
	if err != nil {
		return result, err
	}

	for rel := range oldSet {
		if _, ok := newSet[rel]; !ok {
			result.OldOnly = append(result.OldOnly, rel)
			continue
		}
		same, err := filesEqual(filepath.Join(oldDir, rel), filepath.Join(newDir, rel))
		if err != nil {
			// An unreadable common file still counts as a difference;
			// the classifier surfaces the read error when the pair is
			// processed.
			result.Different = append(result.Different, rel)
			continue
		}
		if same {
			result.Same = append(result.Same, rel)
		} else {
			result.Different = append(result.Different, rel)
		}
	}
	for rel := range newSet {
		if _, ok := oldSet[rel]; !ok {
			result.NewOnly = append(result.NewOnly, rel)
		}
	}

	for _, list := range [][]string{result.OldOnly, result.NewOnly, result.Different, result.Same} {
		sort.Strings(list)
	}
	return result, nil
}

// collectFiles returns the set of relative paths of regular files under root.
func collectFiles(root string) (map[string]struct{}, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a readable directory", contract.ErrUnreadablePath, root)
	}

	files := make(map[string]struct{})
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: %s", contract.ErrUnreadablePath, path)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// readFile is indirected so tests can simulate an unreadable file.
var readFile = os.ReadFile

// filesEqual reports whether two files have identical content. Size is checked
// first so most mismatches never read a byte.
func filesEqual(a, b string) (bool, error) {
	ia, err := os.Stat(a)
	if err != nil {
		return false, fmt.Errorf("%w: %s", contract.ErrUnreadablePath, a)
	}
	ib, err := os.Stat(b)
	if err != nil {
		return false, fmt.Errorf("%w: %s", contract.ErrUnreadablePath, b)
	}
	if ia.Size() != ib.Size() {
		return false, nil
	}

	da, err := readFile(a)
	if err != nil {
		return false, fmt.Errorf("%w: %s", contract.ErrUnreadablePath, a)
	}
	db, err := readFile(b)
	if err != nil {
		return false, fmt.Errorf("%w: %s", contract.ErrUnreadablePath, b)
	}
	return bytes.Equal(da, db), nil
}

// LoadScanOutput reads and validates a previously written scan file. A file
// that parses but is missing the comparison directories or the different list
// is malformed: failing loudly beats classifying the wrong tree.
func LoadScanOutput(path string) (*schema.ScanOutput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", contract.ErrUnreadablePath, path)
	}

	var out schema.ScanOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", contract.ErrMalformedInput, path, err)
	}
	if out.ComparisonDirectories.OldDir == "" || out.ComparisonDirectories.NewDir == "" {
		return nil, fmt.Errorf("%w: %s: missing comparison_directories", contract.ErrMalformedInput, path)
	}
	if out.Results.Different == nil {
		return nil, fmt.Errorf("%w: %s: missing results.different", contract.ErrMalformedInput, path)
	}
	return &out, nil
}
