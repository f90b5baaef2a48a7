package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vendiff/vendiff/internal/contract"
	"github.com/vendiff/vendiff/schema"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// StoreImpl implements the HistoryStore interface over database/sql.
type StoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &StoreImpl{} // Compile-time check

// NewStore creates a history store with the specified backend. The NoneBackend
// returns a no-op store so callers never branch on tracking being disabled.
func NewStore(backend schema.DatabaseBackend, connStr string) (*StoreImpl, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetHistoryDBFilePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}

	case schema.NoneBackend:
		return &StoreImpl{db: nil, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Verify the database server is running and accessible", backend, err)
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &StoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the run-history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{runsTable, getCreateRunsQuery(backend)},
		{fileResultsTable, getCreateFileResultsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateRunsQuery returns the CREATE TABLE query for vendiff_runs.
func getCreateRunsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_pairs INT,
				config_params TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_pairs INT,
				config_params TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_pairs INTEGER,
				config_params TEXT
			);
		`, quotedTableName)
	}
}

// getCreateFileResultsQuery returns the CREATE TABLE query for vendiff_file_results.
func getCreateFileResultsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(fileResultsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				rel_path VARCHAR(512) NOT NULL,
				record_time DATETIME(6) NOT NULL,
				status VARCHAR(20) NOT NULL,
				p_customization DOUBLE NOT NULL,
				p_upgrade DOUBLE NOT NULL,
				p_mix DOUBLE NOT NULL,
				dominant_class VARCHAR(20),
				hunk_count INT NOT NULL,
				changed_lines INT NOT NULL,
				PRIMARY KEY (run_id, rel_path)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				rel_path TEXT NOT NULL,
				record_time TIMESTAMPTZ NOT NULL,
				status TEXT NOT NULL,
				p_customization DOUBLE PRECISION NOT NULL,
				p_upgrade DOUBLE PRECISION NOT NULL,
				p_mix DOUBLE PRECISION NOT NULL,
				dominant_class TEXT,
				hunk_count INT NOT NULL,
				changed_lines INT NOT NULL,
				PRIMARY KEY (run_id, rel_path)
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				rel_path TEXT NOT NULL,
				record_time TEXT NOT NULL,
				status TEXT NOT NULL,
				p_customization REAL NOT NULL,
				p_upgrade REAL NOT NULL,
				p_mix REAL NOT NULL,
				dominant_class TEXT,
				hunk_count INTEGER NOT NULL,
				changed_lines INTEGER NOT NULL,
				PRIMARY KEY (run_id, rel_path)
			);
		`, quotedTableName)
	}
}

// BeginRun creates a new run row and returns its unique ID.
func (s *StoreImpl) BeginRun(configParams map[string]any) (int64, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	startTime := time.Now()
	quotedTableName := quoteTableName(runsTable, s.backend)

	var runID int64
	switch s.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES ($1, $2) RETURNING run_id`, quotedTableName)
		err = s.db.QueryRow(query, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (start_time, config_params) VALUES (?, ?)`, quotedTableName)
		var result sql.Result
		result, err = s.db.Exec(query, formatTime(startTime, s.backend), string(configJSON))
		if err != nil {
			return 0, err
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	return runID, nil
}

// EndRun updates a run row with completion data.
func (s *StoreImpl) EndRun(runID int64, totalPairs int) error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}

	startTime, err := s.runStartTime(runID)
	if err != nil {
		return err
	}

	endTime := time.Now()
	durationMs := endTime.Sub(startTime).Milliseconds()
	quotedTableName := quoteTableName(runsTable, s.backend)

	var updateQuery string
	var args []any
	switch s.backend {
	case schema.PostgreSQLBackend:
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = $1, run_duration_ms = $2, total_pairs = $3 WHERE run_id = $4`, quotedTableName)
		args = []any{endTime, durationMs, totalPairs, runID}
	default: // SQLite and MySQL
		updateQuery = fmt.Sprintf(`UPDATE %s SET end_time = ?, run_duration_ms = ?, total_pairs = ? WHERE run_id = ?`, quotedTableName)
		args = []any{formatTime(endTime, s.backend), durationMs, totalPairs, runID}
	}

	if _, err := s.db.Exec(updateQuery, args...); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// runStartTime fetches the start time of a run, handling the per-backend
// time storage formats.
func (s *StoreImpl) runStartTime(runID int64) (time.Time, error) {
	quotedTableName := quoteTableName(runsTable, s.backend)

	var query string
	switch s.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = $1`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = ?`, quotedTableName)
	}

	row := s.db.QueryRow(query, runID)

	switch s.backend {
	case schema.SQLiteBackend:
		var startTimeStr string
		if err := row.Scan(&startTimeStr); err != nil {
			return time.Time{}, fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
		startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse start_time: %w", err)
		}
		return startTime, nil
	default: // MySQL and PostgreSQL store as native datetime
		var startTime time.Time
		if err := row.Scan(&startTime); err != nil {
			return time.Time{}, fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
		}
		return startTime, nil
	}
}

// RecordFileResult stores the classification outcome of one file pair.
func (s *StoreImpl) RecordFileResult(runID int64, rec contract.FileResultRecord) error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}

	quotedTableName := quoteTableName(fileResultsTable, s.backend)
	recordTime := formatTime(time.Now(), s.backend)

	var query string
	switch s.backend {
	case schema.PostgreSQLBackend:
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, rel_path, record_time, status, p_customization,
			                p_upgrade, p_mix, dominant_class, hunk_count, changed_lines)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, quotedTableName)
	default: // SQLite and MySQL
		query = fmt.Sprintf(`
			INSERT INTO %s (run_id, rel_path, record_time, status, p_customization,
			                p_upgrade, p_mix, dominant_class, hunk_count, changed_lines)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, quotedTableName)
	}

	args := []any{
		runID, rec.RelPath, recordTime, rec.Status, rec.PCustomization,
		rec.PUpgrade, rec.PMix, rec.DominantClass, rec.HunkCount, rec.ChangedLines,
	}
	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to insert file result: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *StoreImpl) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (s *StoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(s.backend),
		Connected:  s.db != nil,
		TableSizes: make(map[string]int64),
	}

	if s.backend == schema.NoneBackend || s.db == nil {
		return status, nil
	}

	runsQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(runsTable, s.backend))
	if err := s.db.QueryRow(runsQuery).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quoteTableName(runsTable, s.backend))
		row := s.db.QueryRow(lastRunQuery)

		switch s.backend {
		case schema.SQLiteBackend:
			var lastRunTimeStr string
			if err := row.Scan(&status.LastRunID, &lastRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
			lastRunTime, err := time.Parse(time.RFC3339Nano, lastRunTimeStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse last run time: %w", err)
			}
			status.LastRunTime = lastRunTime
		default: // MySQL and PostgreSQL store as native datetime
			if err := row.Scan(&status.LastRunID, &status.LastRunTime); err != nil {
				return status, fmt.Errorf("failed to get last run info: %w", err)
			}
		}

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quoteTableName(runsTable, s.backend))
		row = s.db.QueryRow(oldestRunQuery)

		switch s.backend {
		case schema.SQLiteBackend:
			var oldestRunTimeStr string
			if err := row.Scan(&oldestRunTimeStr); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
			oldestRunTime, err := time.Parse(time.RFC3339Nano, oldestRunTimeStr)
			if err != nil {
				return status, fmt.Errorf("failed to parse oldest run time: %w", err)
			}
			status.OldestRunTime = oldestRunTime
		default:
			if err := row.Scan(&status.OldestRunTime); err != nil {
				return status, fmt.Errorf("failed to get oldest run time: %w", err)
			}
		}

		filesQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_pairs), 0) FROM %s", quoteTableName(runsTable, s.backend))
		if err := s.db.QueryRow(filesQuery).Scan(&status.TotalFiles); err != nil {
			return status, fmt.Errorf("failed to get total pairs recorded: %w", err)
		}
	}

	for _, table := range []string{runsTable, fileResultsTable} {
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))
		var count int64
		if err := s.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves all run rows from the store.
func (s *StoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(runsTable, s.backend)
	query := fmt.Sprintf("SELECT run_id, start_time, end_time, run_duration_ms, total_pairs, config_params FROM %s ORDER BY run_id", quotedTableName)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord

		switch s.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			var totalPairs *int32
			if err := rows.Scan(&record.RunID, &startTimeStr, &endTimeStr, &record.RunDurationMs, &totalPairs, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			startTime, err := time.Parse(time.RFC3339Nano, startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := time.Parse(time.RFC3339Nano, *endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
			if totalPairs != nil {
				record.TotalPairs = *totalPairs
			}
		default: // MySQL and PostgreSQL
			var totalPairs *int32
			if err := rows.Scan(&record.RunID, &record.StartTime, &record.EndTime, &record.RunDurationMs, &totalPairs, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			if totalPairs != nil {
				record.TotalPairs = *totalPairs
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return results, nil
}

// GetAllFileResults retrieves all file-result rows from the store.
func (s *StoreImpl) GetAllFileResults() ([]schema.FileRecord, error) {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil, nil
	}

	quotedTableName := quoteTableName(fileResultsTable, s.backend)
	query := fmt.Sprintf(`SELECT run_id, rel_path, record_time, status, p_customization,
    p_upgrade, p_mix, dominant_class, hunk_count, changed_lines
    FROM %s ORDER BY run_id, rel_path`, quotedTableName)

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query file results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.FileRecord
	for rows.Next() {
		var record schema.FileRecord

		switch s.backend {
		case schema.SQLiteBackend:
			var recordTimeStr string
			if err := rows.Scan(&record.RunID, &record.RelPath, &recordTimeStr, &record.Status,
				&record.PCustomization, &record.PUpgrade, &record.PMix, &record.DominantClass,
				&record.HunkCount, &record.ChangedLines); err != nil {
				return nil, fmt.Errorf("failed to scan file result: %w", err)
			}
			recordTime, err := time.Parse(time.RFC3339Nano, recordTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse record_time: %w", err)
			}
			record.RecordTime = recordTime
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.RelPath, &record.RecordTime, &record.Status,
				&record.PCustomization, &record.PUpgrade, &record.PMix, &record.DominantClass,
				&record.HunkCount, &record.ChangedLines); err != nil {
				return nil, fmt.Errorf("failed to scan file result: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating file results: %w", err)
	}

	return results, nil
}

// Clear removes all rows from both history tables.
func (s *StoreImpl) Clear() error {
	if s.backend == schema.NoneBackend || s.db == nil {
		return nil
	}

	for _, table := range []string{fileResultsTable, runsTable} {
		query := fmt.Sprintf("DELETE FROM %s", quoteTableName(table, s.backend))
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
	}
	return nil
}
