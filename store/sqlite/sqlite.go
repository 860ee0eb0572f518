/*
Package sqlite provides the SQLite-backed EntryStore.

PURPOSE:
  Persists raw time entries and the holiday declaration text for a
  single-user deployment. The schema holds raw input only; balances,
  statistics and validation reports are always recomputed by the engine.

KEY TABLES:
  entries:       raw time entries (nullable end_time marks an open timer)
  holiday_text:  single-row table with the declaration source

WAL MODE:
  Opened with WAL for better read concurrency and crash recovery.

MIGRATION:
  Schema is created on open. The schema is small enough that versioned
  migrations would be overhead; new columns are added with ALTER guards if
  the need arises.

USAGE:
  s, err := sqlite.New("./flextime.db")
  if err != nil { ... }
  defer s.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"github.com/fleksi/flextime-engine/store"
)

// Store implements store.EntryStore on SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path. Use ":memory:" for an
// in-memory database.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Debugf("sqlite store ready at %s", path)
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_entries_start_time ON entries(start_time);

	-- Open-timer lookup (hot path for timer start/stop)
	CREATE INDEX IF NOT EXISTS idx_entries_open ON entries(id) WHERE end_time IS NULL;

	CREATE TABLE IF NOT EXISTS holiday_text (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		text TEXT NOT NULL DEFAULT ''
	);

	INSERT OR IGNORE INTO holiday_text (id, text) VALUES (1, '');
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTRIES
// =============================================================================

func (s *Store) AppendEntry(ctx context.Context, e store.Entry) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (name, start_time, end_time) VALUES (?, ?, ?)`,
		e.Name, formatTime(e.StartTime), formatTimePtr(e.EndTime))
	if err != nil {
		return 0, fmt.Errorf("failed to insert entry: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) ListEntries(ctx context.Context) ([]store.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, start_time, end_time FROM entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []store.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) StartTimer(ctx context.Context, name string, start time.Time) (int64, error) {
	if _, err := s.OpenEntry(ctx); err == nil {
		return 0, store.ErrTimerRunning
	} else if !errors.Is(err, store.ErrNoOpenEntry) {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (name, start_time) VALUES (?, ?)`,
		name, formatTime(start))
	if err != nil {
		return 0, fmt.Errorf("failed to start timer: %w", err)
	}
	return res.LastInsertId()
}

func (s *Store) StopTimer(ctx context.Context, end time.Time) (store.Entry, error) {
	open, err := s.OpenEntry(ctx)
	if err != nil {
		return store.Entry{}, err
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE entries SET end_time = ? WHERE id = ?`,
		formatTime(end), open.ID); err != nil {
		return store.Entry{}, fmt.Errorf("failed to stop timer: %w", err)
	}

	t := end
	open.EndTime = &t
	return open, nil
}

func (s *Store) OpenEntry(ctx context.Context) (store.Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, start_time, end_time FROM entries
		 WHERE end_time IS NULL ORDER BY id LIMIT 1`)

	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Entry{}, store.ErrNoOpenEntry
	}
	return e, err
}

// =============================================================================
// HOLIDAY TEXT
// =============================================================================

func (s *Store) HolidayText(ctx context.Context) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx,
		`SELECT text FROM holiday_text WHERE id = 1`).Scan(&text)
	if err != nil {
		return "", fmt.Errorf("failed to read holiday text: %w", err)
	}
	return text, nil
}

func (s *Store) SetHolidayText(ctx context.Context, text string) error {
	if _, err := s.db.ExecContext(ctx,
		`UPDATE holiday_text SET text = ? WHERE id = 1`, text); err != nil {
		return fmt.Errorf("failed to write holiday text: %w", err)
	}
	return nil
}

// =============================================================================
// SCANNING
// =============================================================================

type scannable interface {
	Scan(dest ...any) error
}

func scanEntry(row scannable) (store.Entry, error) {
	var (
		e     store.Entry
		start string
		end   sql.NullString
	)
	if err := row.Scan(&e.ID, &e.Name, &start, &end); err != nil {
		return store.Entry{}, err
	}

	t, err := parseTime(start)
	if err != nil {
		return store.Entry{}, fmt.Errorf("corrupt start_time for entry %d: %w", e.ID, err)
	}
	e.StartTime = t

	if end.Valid {
		t, err := parseTime(end.String)
		if err != nil {
			return store.Entry{}, fmt.Errorf("corrupt end_time for entry %d: %w", e.ID, err)
		}
		e.EndTime = &t
	}
	return e, nil
}

// Timestamps keep their offset so the engine can bucket by local date.
func formatTime(t time.Time) string { return t.Format(time.RFC3339Nano) }

func formatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
