// Package history keeps a local SQLite log of export runs.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run is one recorded export.
type Run struct {
	ID            int64
	RunID         string // uuid assigned by the exporter
	Root          string // absolute project directory
	StartedAt     time.Time
	Duration      time.Duration
	Formats       []string // requested extensions
	Files         []string // report files actually written
	FileCount     int      // files in the tree
	EmbeddedCount int      // files whose content was embedded
	ExcludedCount int      // entries skipped by exclusion rules
	Diagnostics   int      // non-fatal problems reported during the run
	Published     []string // remote locations of uploaded reports
	Error         string   // fatal error text, empty on success
}

// Succeeded reports whether the run wrote at least one report.
func (r *Run) Succeeded() bool {
	return r.Error == "" && len(r.Files) > 0
}

// Store manages the history database
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (or creates) the database at dbPath and applies migrations.
// ":memory:" opens a private in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Each pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{db: db, dbPath: dbPath}
	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return store, nil
}

// execWithRetry executes a statement with exponential backoff on lock errors.
func execWithRetry(db *sql.DB, stmt string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(stmt)
		if err == nil {
			return nil
		}
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}
		lastErr = err
		time.Sleep(baseDelay * time.Duration(1<<attempt))
	}
	return lastErr
}

// Path returns the database location.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Record inserts run and sets its ID.
func (s *Store) Record(ctx context.Context, run *Run) error {
	formats, err := marshalList(run.Formats)
	if err != nil {
		return fmt.Errorf("marshal formats: %w", err)
	}
	files, err := marshalList(run.Files)
	if err != nil {
		return fmt.Errorf("marshal files: %w", err)
	}
	published, err := marshalList(run.Published)
	if err != nil {
		return fmt.Errorf("marshal published: %w", err)
	}

	query := `INSERT INTO export_runs
		(run_id, root, started_at, duration_ms, formats, files, file_count, embedded_count, excluded_count, diagnostics, published, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		run.RunID,
		run.Root,
		run.StartedAt.UTC(),
		run.Duration.Milliseconds(),
		formats,
		files,
		run.FileCount,
		run.EmbeddedCount,
		run.ExcludedCount,
		run.Diagnostics,
		published,
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("insert export run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	run.ID = id
	return nil
}

// Recent returns up to limit runs, newest first. An empty root returns runs
// for every project; limit <= 0 means no limit.
func (s *Store) Recent(ctx context.Context, root string, limit int) ([]*Run, error) {
	query := `SELECT id, run_id, root, started_at, duration_ms, formats, files, file_count, embedded_count, excluded_count, diagnostics, published, error_message
		FROM export_runs`
	var args []interface{}
	if root != "" {
		query += ` WHERE root = ?`
		args = append(args, root)
	}
	query += ` ORDER BY started_at DESC, id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query export runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run := &Run{}
		var durationMs int64
		var formats, files, published string
		var errMsg sql.NullString
		if err := rows.Scan(
			&run.ID,
			&run.RunID,
			&run.Root,
			&run.StartedAt,
			&durationMs,
			&formats,
			&files,
			&run.FileCount,
			&run.EmbeddedCount,
			&run.ExcludedCount,
			&run.Diagnostics,
			&published,
			&errMsg,
		); err != nil {
			return nil, fmt.Errorf("scan export run: %w", err)
		}

		run.Duration = time.Duration(durationMs) * time.Millisecond
		run.Error = errMsg.String
		if run.Formats, err = unmarshalList(formats); err != nil {
			return nil, fmt.Errorf("unmarshal formats: %w", err)
		}
		if run.Files, err = unmarshalList(files); err != nil {
			return nil, fmt.Errorf("unmarshal files: %w", err)
		}
		if run.Published, err = unmarshalList(published); err != nil {
			return nil, fmt.Errorf("unmarshal published: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate export runs: %w", err)
	}

	return runs, nil
}

// Prune deletes runs older than keepDays. 0 or negative keeps everything.
func (s *Store) Prune(ctx context.Context, keepDays int) (int64, error) {
	if keepDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -keepDays)

	result, err := s.db.ExecContext(ctx, `DELETE FROM export_runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune export runs: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return deleted, nil
}

func marshalList(items []string) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalList(data string) ([]string, error) {
	if data == "" {
		return nil, nil
	}
	var items []string
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}
