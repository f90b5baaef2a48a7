// Package history persists classification runs to a pluggable SQL backend.
package history

import (
	"fmt"
	"time"

	"github.com/vendiff/vendiff/schema"
)

// Table names for run-history tracking.
const (
	runsTable        = "vendiff_runs"
	fileResultsTable = "vendiff_file_results"
)

// quoteTableName quotes a table name per backend dialect.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`"%s"`, name)
	default:
		return name
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
// SQLite stores text; MySQL and PostgreSQL take native datetimes.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	default:
		return t
	}
}
