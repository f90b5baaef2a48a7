package schema

// Custom string types for type safety.
type (
	// Class is one of the three productive classification outcomes.
	Class string

	// Status represents the comparison status of a file pair.
	Status string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string

	// SignalKey names one feature in the signal vector schema.
	SignalKey string
)

// The three productive classes. Every DIFFERENT hunk and file carries a full
// probability triple over these, even when one entry is ~1.0.
const (
	CustomizationClass Class = "customization"
	UpgradeClass       Class = "upgrade"
	MixClass           Class = "mix"
)

// File pair statuses. Only DifferentStatus results carry hunks and a triple;
// the rest are explicit non-applicable sentinels, never silent defaults.
const (
	IdenticalStatus Status = "identical"
	DifferentStatus Status = "different"
	BinaryStatus    Status = "binary"
	ErrorStatus     Status = "error"
	OldOnlyStatus   Status = "old_only"
	NewOnlyStatus   Status = "new_only"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// SignalSchemaVersion identifies the signal vector schema. Keys are additive:
// new signals may appear under a bumped version, existing keys never change
// meaning, so results stay comparable across runs.
const SignalSchemaVersion = 1

// Signal keys in the fixed extraction schema.
const (
	// Size/shape family.
	SignalAddedRatio      SignalKey = "added_ratio"      // added / (added+removed)
	SignalNetGrowth       SignalKey = "net_growth"       // positive net delta, normalized
	SignalPureInsertion   SignalKey = "pure_insertion"   // no lines removed
	SignalPureDeletion    SignalKey = "pure_deletion"    // no lines added
	SignalBalancedReplace SignalKey = "balanced_replace" // min(added,removed)/max(added,removed)

	// Formatting family.
	SignalWhitespaceOnly SignalKey = "whitespace_only" // fraction of pairs differing only in whitespace

	// Token family.
	SignalVersionToken        SignalKey = "version_token"         // dotted numeric sequence in added lines
	SignalDateToken           SignalKey = "date_token"            // date-like token in added lines
	SignalCustomMarkerRemoved SignalKey = "custom_marker_removed" // configured customization marker in old lines
	SignalCustomMarkerAdded   SignalKey = "custom_marker_added"   // configured customization marker in new lines
	SignalVendorMarkerAdded   SignalKey = "vendor_marker_added"   // configured vendor marker in new lines
	SignalOrphanIdentifier    SignalKey = "orphan_identifier"     // removed identifiers absent from the whole new file

	// Cross-reference family.
	SignalRelocated SignalKey = "relocated" // removed lines reappear verbatim elsewhere in new

	// Structural family.
	SignalStructuralBoundary SignalKey = "structural_boundary" // hunk touches a tag/function/rule boundary
	SignalSingleUnit         SignalKey = "single_unit"         // hunk sits inside one structural unit
)

// AllSignalKeys is the fixed extraction order of the current schema version.
var AllSignalKeys = []SignalKey{
	SignalAddedRatio,
	SignalNetGrowth,
	SignalPureInsertion,
	SignalPureDeletion,
	SignalBalancedReplace,
	SignalWhitespaceOnly,
	SignalVersionToken,
	SignalDateToken,
	SignalCustomMarkerRemoved,
	SignalCustomMarkerAdded,
	SignalVendorMarkerAdded,
	SignalOrphanIdentifier,
	SignalRelocated,
	SignalStructuralBoundary,
	SignalSingleUnit,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ClassWeights holds the signed per-class contribution of one signal.
type ClassWeights struct {
	Customization float64 `json:"customization"`
	Upgrade       float64 `json:"upgrade"`
	Mix           float64 `json:"mix"`
}

// GetDefaultWeights returns the default weight table mapping each signal to
// its per-class contributions. The table is a calibration surface: values are
// documented defaults, overridable per run from the config file.
func GetDefaultWeights() map[SignalKey]ClassWeights {
	return map[SignalKey]ClassWeights{
		SignalAddedRatio:      {Customization: 0.3, Upgrade: 0.0, Mix: 0.1},
		SignalNetGrowth:       {Customization: 0.4, Upgrade: 0.1, Mix: 0.0},
		SignalPureInsertion:   {Customization: 0.9, Upgrade: 0.0, Mix: 0.1},
		SignalPureDeletion:    {Customization: 0.2, Upgrade: 0.7, Mix: 0.1},
		SignalBalancedReplace: {Customization: 0.0, Upgrade: 0.9, Mix: 0.2},

		SignalWhitespaceOnly: {Customization: 0.0, Upgrade: 1.1, Mix: 0.0},

		SignalVersionToken:        {Customization: 0.0, Upgrade: 1.5, Mix: 0.1},
		SignalDateToken:           {Customization: 0.0, Upgrade: 0.8, Mix: 0.1},
		SignalCustomMarkerRemoved: {Customization: 2.0, Upgrade: 0.0, Mix: 0.2},
		SignalCustomMarkerAdded:   {Customization: 1.6, Upgrade: 0.0, Mix: 0.2},
		SignalVendorMarkerAdded:   {Customization: 0.0, Upgrade: 1.4, Mix: 0.2},
		SignalOrphanIdentifier:    {Customization: 1.2, Upgrade: 0.0, Mix: 0.1},

		SignalRelocated: {Customization: 0.0, Upgrade: 1.3, Mix: 0.1},

		SignalStructuralBoundary: {Customization: 0.0, Upgrade: 0.5, Mix: 0.3},
		SignalSingleUnit:         {Customization: 0.1, Upgrade: 0.1, Mix: -0.5},
	}
}
