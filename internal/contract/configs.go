package contract

import (
	"fmt"
	"maps"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/vendiff/vendiff/schema"
)

// Default values for configuration.
const (
	DefaultContextLines = 3
	DefaultMergeLines   = 0
	DefaultMixMargin    = 0.15
	DefaultSizeCeiling  = int64(10 << 20) // 10 MiB
	DefaultResultLimit  = 25
	MaxResultLimit      = 1000
	DefaultPrecision    = 1
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// TimestampLayout is used for synthesized output file names.
const TimestampLayout = "20060102-150405"

// Config holds the runtime configuration for a classification run.
// This struct is the final, validated config; every component receives it at
// construction so runs with different weight tables can execute concurrently.
type Config struct {
	// Positional inputs, set by the commands.
	OldPath    string
	NewPath    string
	BatchInput string

	// Diff shape.
	ContextLines int   // unchanged lines carried around each hunk
	MergeLines   int   // unchanged-line gap below which adjacent hunks merge (0 = strict contiguity)
	SizeCeiling  int64 // files larger than this are an OversizedFile error

	// Classifier calibration.
	MixMargin     float64 // normalized top-two gap below which the mix class is boosted
	Weights       map[schema.SignalKey]schema.ClassWeights
	CustomMarkers []*regexp.Regexp // site-specific customization markers
	VendorMarkers []*regexp.Regexp // vendor feature markers

	// Execution and presentation.
	Workers     int
	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // terminal width override (0 = auto-detect)
	UseColors   bool
	UseEmojis   bool

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	Context          int     `mapstructure:"context"`
	Merge            int     `mapstructure:"merge"`
	MixMargin        float64 `mapstructure:"mix-margin"`
	MaxFileBytes     int64   `mapstructure:"max-file-bytes"`
	Workers          int     `mapstructure:"workers"`
	Limit            int     `mapstructure:"limit"`
	Precision        int     `mapstructure:"precision"`
	Output           string  `mapstructure:"output"`
	OutputFile       string  `mapstructure:"output-file"`
	Width            int     `mapstructure:"width"`
	Color            string  `mapstructure:"color"`
	Emoji            string  `mapstructure:"emoji"`
	HistoryBackend   string  `mapstructure:"history-backend"`
	HistoryDBConnect string  `mapstructure:"history-db-connect"`

	// --- Blocks from the config file only ---
	Markers MarkersRawInput            `mapstructure:"markers"`
	Weights map[string]SignalWeightRaw `mapstructure:"weights"`
}

// MarkersRawInput holds the marker pattern lists from the config file.
// Patterns are regular expressions matched case-insensitively.
type MarkersRawInput struct {
	Customization []string `mapstructure:"customization"`
	Vendor        []string `mapstructure:"vendor"`
}

// SignalWeightRaw holds a per-class weight override for one signal key.
// Pointers distinguish "not provided" from an explicit zero.
type SignalWeightRaw struct {
	Customization *float64 `mapstructure:"customization"`
	Upgrade       *float64 `mapstructure:"upgrade"`
	Mix           *float64 `mapstructure:"mix"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Weights != nil {
		clone.Weights = make(map[schema.SignalKey]schema.ClassWeights, len(c.Weights))
		maps.Copy(clone.Weights, c.Weights)
	}
	clone.CustomMarkers = append([]*regexp.Regexp(nil), c.CustomMarkers...)
	clone.VendorMarkers = append([]*regexp.Regexp(nil), c.VendorMarkers...)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processMarkers(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// validateSimpleInputs processes and validates all scalar fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Context < 0 {
		return fmt.Errorf("context must be non-negative (received %d)", input.Context)
	}
	cfg.ContextLines = input.Context

	if input.Merge < 0 {
		return fmt.Errorf("merge must be non-negative (received %d)", input.Merge)
	}
	cfg.MergeLines = input.Merge

	if input.MixMargin < 0 || input.MixMargin > 0.5 {
		return fmt.Errorf("mix-margin must be between 0.0 and 0.5 (received %.3f)", input.MixMargin)
	}
	cfg.MixMargin = input.MixMargin

	if input.MaxFileBytes <= 0 {
		return fmt.Errorf("max-file-bytes must be greater than 0 (received %d)", input.MaxFileBytes)
	}
	cfg.SizeCeiling = input.MaxFileBytes

	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", input.Output)
	}

	return nil
}

// processMarkers compiles the configured marker patterns.
func processMarkers(cfg *Config, input *ConfigRawInput) error {
	compile := func(kind string, patterns []string) ([]*regexp.Regexp, error) {
		out := make([]*regexp.Regexp, 0, len(patterns))
		for _, p := range patterns {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			rx, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("invalid %s marker pattern %q: %w", kind, p, err)
			}
			out = append(out, rx)
		}
		return out, nil
	}

	custom, err := compile("customization", input.Markers.Customization)
	if err != nil {
		return err
	}
	vendor, err := compile("vendor", input.Markers.Vendor)
	if err != nil {
		return err
	}
	cfg.CustomMarkers = custom
	cfg.VendorMarkers = vendor
	return nil
}

// processCustomWeights merges config-file weight overrides onto the default
// table. Unknown signal keys are rejected so typos don't silently no-op.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	weights := schema.GetDefaultWeights()

	known := make(map[schema.SignalKey]struct{}, len(schema.AllSignalKeys))
	for _, k := range schema.AllSignalKeys {
		known[k] = struct{}{}
	}

	for rawKey, override := range input.Weights {
		key := schema.SignalKey(rawKey)
		if _, ok := known[key]; !ok {
			return fmt.Errorf("unknown signal key %q in weights config", rawKey)
		}
		w := weights[key]
		if override.Customization != nil {
			w.Customization = *override.Customization
		}
		if override.Upgrade != nil {
			w.Upgrade = *override.Upgrade
		}
		if override.Mix != nil {
			w.Mix = *override.Mix
		}
		weights[key] = w
	}

	cfg.Weights = weights
	return nil
}

// validateBackendConfig validates the history backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for the MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
