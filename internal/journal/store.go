package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"vigil/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; users clear the journal database after schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store persists watchdog events in SQLite. Rows are append-only from the
// daemon's point of view; only the CLI reads them back.
type Store struct {
	db    *sql.DB
	path  string
	runID string
}

// Open initializes or connects to the journal database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.LogDir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, runID: uuid.NewString()}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
		return nil
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (run 'vigil history clear' or delete %s)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the journal database location.
func (s *Store) Path() string {
	return s.path
}

// RunID identifies the daemon run stamped on every recorded event.
func (s *Store) RunID() string {
	return s.runID
}

// Record appends one event.
func (s *Store) Record(ctx context.Context, kind Kind, process, detail string, memoryMB float64) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (run_id, kind, process, detail, memory_mb, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		s.runID, string(kind), process, detail, memoryMB, timestamp,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first, optionally filtered by kind.
func (s *Store) Recent(ctx context.Context, limit int, kinds ...Kind) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}

	query := "SELECT id, run_id, kind, process, detail, memory_mb, created_at FROM events"
	args := make([]any, 0, len(kinds)+1)
	if len(kinds) > 0 {
		placeholders := make([]string, len(kinds))
		for i, kind := range kinds {
			placeholders[i] = "?"
			args = append(args, string(kind))
		}
		query += " WHERE kind IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var kind, createdAt string
		if err := rows.Scan(&event.ID, &event.RunID, &kind, &event.Process, &event.Detail, &event.MemoryMB, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		event.Kind = Kind(kind)
		if parsed, parseErr := time.Parse(time.RFC3339Nano, createdAt); parseErr == nil {
			event.CreatedAt = parsed
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// CountsByKind returns aggregate event counts.
func (s *Store) CountsByKind(ctx context.Context) (map[Kind]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT kind, COUNT(1) FROM events GROUP BY kind")
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[Kind]int)
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[Kind(kind)] = count
	}
	return counts, rows.Err()
}

// Clear removes all events and returns the number of rows deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events")
	if err != nil {
		return 0, fmt.Errorf("clear events: %w", err)
	}
	return res.RowsAffected()
}
