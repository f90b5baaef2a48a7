package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/vendiff/vendiff/schema"
)

// Color variables for console output.
var (
	CustomizationColor = color.New(color.FgRed, color.Bold) // local changes at risk during an upgrade
	UpgradeColor       = color.New(color.FgGreen)           // vendor changes, safe to take as-is
	MixColor           = color.New(color.FgMagenta, color.Bold)
	NeutralColor       = color.New(color.FgYellow) // binary / error / identical sentinels
)

// GetPlainLabel returns the display label for a file result. Productive
// classes display as their class name; sentinel statuses display as-is.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(r *schema.FileResult) string {
	if r.Status == schema.DifferentStatus && r.Classification != nil {
		return string(r.Classification.Class)
	}
	return string(r.Status)
}

// GetColorLabel returns a colored label for console output (table).
// It uses GetPlainLabel to determine the string, then applies the color.
func GetColorLabel(r *schema.FileResult) string {
	text := GetPlainLabel(r)

	switch text {
	case string(schema.CustomizationClass):
		return CustomizationColor.Sprint(text)
	case string(schema.UpgradeClass):
		return UpgradeColor.Sprint(text)
	case string(schema.MixClass):
		return MixColor.Sprint(text)
	default:
		return NeutralColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ResolveJSONOutputPath resolves a user-supplied output target into a concrete
// JSON file path. A directory, or any path without a .json extension, gets a
// timestamped file name synthesized inside it.
func ResolveJSONOutputPath(target string, now time.Time) string {
	if strings.EqualFold(filepath.Ext(target), ".json") {
		return target
	}
	name := fmt.Sprintf("diff_%s.json", now.Format(TimestampLayout))
	return filepath.Join(target, name)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".vendiff_history.db"
	}
	return filepath.Join(homeDir, ".vendiff_history.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 so there is space for the "..." prefix plus content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}
