package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/almalister/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/almalister/internal/core/domain"
	"github.com/custodia-labs/almalister/internal/core/ports/driven"
)

// timeLayout is a fixed-width UTC layout so that stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is a SQLite database holding run history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the database at dbPath and applies pending migrations.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("%w: database path is required", domain.ErrInvalidInput)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection.
	db, err := sql.Open("sqlite", dbPath+
		"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// RunHistoryStore returns a RunHistoryStore interface backed by this store.
func (s *Store) RunHistoryStore() driven.RunHistoryStore {
	return &runHistoryStore{store: s}
}

// migrate runs all pending migrations and records their versions.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_run_history.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Run History Store ====================

// runHistoryStore implements driven.RunHistoryStore.
type runHistoryStore struct {
	store *Store
}

var _ driven.RunHistoryStore = (*runHistoryStore)(nil)

// StartRun records the start of a run.
func (s *runHistoryStore) StartRun(ctx context.Context, run *domain.RunSummary) error {
	if run == nil || run.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at)
		VALUES (?, ?, NULL)
		ON CONFLICT(id) DO UPDATE SET started_at = excluded.started_at
	`, run.ID, formatTime(run.StartedAt))
	if err != nil {
		return fmt.Errorf("starting run: %w", err)
	}
	return nil
}

// SaveVariant records the outcome of one file variant.
func (s *runHistoryStore) SaveVariant(ctx context.Context, runID string, result *domain.VariantResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}

	counts, err := encodeCounts(result.Counts)
	if err != nil {
		return fmt.Errorf("encoding counts: %w", err)
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO variant_results
			(run_id, report_path, file_name, status, row_count, pages, requests, attempts,
			 counts, error, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, runID, result.ReportPath, result.FileName, string(result.Status),
		result.Rows, result.Pages, result.Requests, result.Attempts,
		counts, nullString(result.Error),
		formatNullableTime(result.StartedAt), formatNullableTime(result.FinishedAt))
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("saving variant for run %s: %w", runID, domain.ErrNotFound)
		}
		return fmt.Errorf("saving variant: %w", err)
	}
	return nil
}

// FinishRun records the end time of a run.
func (s *runHistoryStore) FinishRun(ctx context.Context, run *domain.RunSummary) error {
	if run == nil {
		return domain.ErrInvalidInput
	}

	res, err := s.store.db.ExecContext(ctx,
		"UPDATE runs SET finished_at = ? WHERE id = ?",
		formatNullableTime(run.FinishedAt), run.ID)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListRuns returns up to limit runs with their variants, newest first.
func (s *runHistoryStore) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at
		FROM runs
		ORDER BY started_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}

	var runs []domain.RunSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			run      domain.RunSummary
			started  string
			finished sql.NullString
		)
		if err := rows.Scan(&run.ID, &started, &finished); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.StartedAt = parseTime(started)
		run.FinishedAt = parseNullableTime(finished)
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	rows.Close()

	for i := range runs {
		variants, err := s.variants(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Variants = variants
	}
	return runs, nil
}

// variants returns the variant results of a run in the order they were saved.
func (s *runHistoryStore) variants(ctx context.Context, runID string) ([]domain.VariantResult, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT report_path, file_name, status, row_count, pages, requests, attempts,
		       counts, error, started_at, finished_at
		FROM variant_results
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying variants: %w", err)
	}
	defer rows.Close()

	var results []domain.VariantResult //nolint:prealloc // size unknown from query
	for rows.Next() {
		result, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating variants: %w", err)
	}
	return results, nil
}

// ==================== Helper Functions ====================

func scanVariant(rows *sql.Rows) (*domain.VariantResult, error) {
	var (
		result             domain.VariantResult
		status             string
		counts, errMessage sql.NullString
		started, finished  sql.NullString
	)
	err := rows.Scan(&result.ReportPath, &result.FileName, &status,
		&result.Rows, &result.Pages, &result.Requests, &result.Attempts,
		&counts, &errMessage, &started, &finished)
	if err != nil {
		return nil, fmt.Errorf("scanning variant: %w", err)
	}

	result.Status = domain.VariantStatus(status)
	result.Error = errMessage.String
	result.StartedAt = parseNullableTime(started)
	result.FinishedAt = parseNullableTime(finished)

	if counts.Valid && counts.String != "" {
		c, err := decodeCounts(counts.String)
		if err != nil {
			return nil, fmt.Errorf("decoding counts: %w", err)
		}
		result.Counts = c
	}
	return &result, nil
}

// storedCount is the JSON form of one count entry.
// Counts are stored as an array to keep category order.
type storedCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

func encodeCounts(c *domain.Counts) (interface{}, error) {
	if c == nil {
		return nil, nil
	}
	entries := c.Entries()
	stored := make([]storedCount, len(entries))
	for i, e := range entries {
		stored[i] = storedCount{Category: e.Category, Count: e.Count}
	}
	data, err := json.Marshal(stored)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func decodeCounts(data string) (*domain.Counts, error) {
	var stored []storedCount
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, err
	}
	c := domain.NewCounts()
	for _, e := range stored {
		c.AddN(e.Category, e.Count)
	}
	return c, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// formatNullableTime formats a time, or returns nil for zero time.
func formatNullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return formatTime(t)
}

// parseTime parses a stored time, returning zero time on error.
func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// parseNullableTime parses a nullable stored time.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	return parseTime(s.String)
}

// nullString returns nil for empty strings, otherwise the string.
func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func isForeignKeyError(err error) bool {
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
