// Package main provides a performance benchmarking tool for the vendiff CLI.
// It measures execution times of the scan and folders commands across tree
// pairs of different sizes, running each test multiple times, treating the
// first successful run as cold and averaging the rest as warm, generating CSV
// output for performance analysis and documentation.
//
// Prerequisites:
// - vendiff binary installed and available in PATH
// - Tree pairs laid out under the base directory as <name>/old and <name>/new
//
// Usage: go run benchmark/main.go [pair-base-dir]
//
//	pair-base-dir: Directory containing the tree pairs to compare
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-history average, cold run and average of warm runs).
type BenchmarkResult struct {
	Pair          string
	Command       string
	NoHistoryTime string
	ColdTime      string
	WarmTime      string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	PairBase      string
	Timeout       time.Duration
	Workers       int
	NoHistoryRuns int
	HistoryRuns   int
	TestPairs     []string
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [pair-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	pairBase := os.Args[1]

	config := BenchmarkConfig{
		PairBase:      pairBase,
		Timeout:       5 * time.Minute,
		Workers:       8,
		NoHistoryRuns: 3,
		HistoryRuns:   4,
		TestPairs:     discoverPairs(pairBase),
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear run history so cold runs start from an empty store
	fmt.Printf("Clearing run history...\n")
	clearCmd := exec.Command("vendiff", "history", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear history: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("History cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// discoverPairs lists the tree pairs under the base directory.
func discoverPairs(pairBase string) []string {
	entries, err := os.ReadDir(pairBase)
	if err != nil {
		return nil
	}
	var pairs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		oldDir := filepath.Join(pairBase, e.Name(), "old")
		newDir := filepath.Join(pairBase, e.Name(), "new")
		if dirExists(oldDir) && dirExists(newDir) {
			pairs = append(pairs, e.Name())
		}
	}
	return pairs
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// checkPrerequisites verifies that the vendiff binary and tree pairs exist
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if vendiff is available
	if _, err := exec.LookPath("vendiff"); err != nil {
		return fmt.Errorf("vendiff binary not found in PATH")
	}

	if len(config.TestPairs) == 0 {
		return fmt.Errorf("no <name>/old + <name>/new tree pairs found under %s", config.PairBase)
	}

	return nil
}

// runBenchmarks executes all benchmark tests across configured tree pairs
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d pairs, %v timeout, %d workers, no-history: %d runs, history: %d runs\n",
		len(config.TestPairs), config.Timeout, config.Workers, config.NoHistoryRuns, config.HistoryRuns)

	for _, pair := range config.TestPairs {
		fmt.Printf("Benchmarking %s\n", pair)

		oldDir := filepath.Join(config.PairBase, pair, "old")
		newDir := filepath.Join(config.PairBase, pair, "new")

		// Scan partitioning
		result := runBenchmarkSuite(config, pair, "scan", "scan partitioning", oldDir, newDir)
		results = append(results, result)

		// Folder classification
		result = runBenchmarkSuite(config, pair, "folders", "folder classification", oldDir, newDir)
		results = append(results, result)
	}

	return results
}

// runBenchmarkSuite runs both no-history and history benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, pair, command, description, oldDir, newDir string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, pair)

	// Helper to run a benchmark phase
	runPhase := func(historyBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, command, oldDir, newDir, historyBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-history runs
	_, noHistoryAvg := runPhase("none", config.NoHistoryRuns, "No-history")

	// Phase 2: History runs
	coldTime, warmAvg := runPhase("sqlite", config.HistoryRuns, "History")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-history average: %s, Cold time: %s, Warm average: %s\n", noHistoryAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Pair:          pair,
		Command:       command,
		NoHistoryTime: noHistoryAvg,
		ColdTime:      coldTimeStr,
		WarmTime:      warmAvg,
	}
}

// runBenchmark executes a vendiff command multiple times with the specified
// history backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, command, oldDir, newDir, historyBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{
		command, oldDir, newDir,
		"--history-backend", historyBackend,
		"--workers", fmt.Sprintf("%d", config.Workers),
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("vendiff", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output, command) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte, command string) bool {
	outputStr := string(output)

	if command == "scan" {
		return strings.Contains(outputStr, "Scanned") && strings.Contains(outputStr, "files across")
	}
	return strings.Contains(outputStr, "Compared") && strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/vendiff_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"pair", "cmd", "no_history_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Pair, result.Command, result.NoHistoryTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "scan", "Scan Partitioning:")
	printCommandSummary(results, "folders", "Folder Classification:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-12s: No-history: %s, Cold: %s, Warm: %s\n", result.Pair, result.NoHistoryTime, result.ColdTime, result.WarmTime)
		}
	}
}
