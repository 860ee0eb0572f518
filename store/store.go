/*
Package store defines persistence for raw time entries and the holiday
declaration text.

PURPOSE:
  The engine is pure computation; this package is the collaborator that owns
  I/O. It persists exactly what the engine consumes: the ordered raw entry
  list and the line-oriented holiday declaration source. Computed results
  (balances, statistics) are never stored - they are recomputed from raw
  entries on every processing pass.

IMPLEMENTATIONS:
  store.Memory:  in-memory, for tests and demo seeding
  sqlite.Store:  SQLite-backed, for real deployments

SEE ALSO:
  - engine: the consumer of RawEntries / HolidayText
  - api: rebuilds the engine from this store after every mutation
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/fleksi/flextime-engine/engine"
)

var (
	// ErrNotFound is returned when the referenced entry does not exist.
	ErrNotFound = errors.New("store: entry not found")

	// ErrNoOpenEntry is returned by StopTimer when no timer is running.
	ErrNoOpenEntry = errors.New("store: no open entry")

	// ErrTimerRunning is returned by StartTimer when a timer is already open.
	ErrTimerRunning = errors.New("store: a timer is already running")
)

// Entry is one persisted time entry. A nil EndTime marks an open timer.
type Entry struct {
	ID        int64
	Name      string
	StartTime time.Time
	EndTime   *time.Time
}

// Raw converts to the engine's input record.
func (e Entry) Raw() engine.RawEntry {
	return engine.RawEntry{Name: e.Name, StartTime: e.StartTime, EndTime: e.EndTime}
}

// EntryStore persists raw entries and the holiday declaration text.
type EntryStore interface {
	// AppendEntry stores a new entry and returns its id.
	AppendEntry(ctx context.Context, e Entry) (int64, error)

	// ListEntries returns all entries in insertion order.
	ListEntries(ctx context.Context) ([]Entry, error)

	// DeleteEntry removes an entry by id.
	DeleteEntry(ctx context.Context, id int64) error

	// StartTimer opens a new entry with no end time. Only one timer may be
	// open at a time.
	StartTimer(ctx context.Context, name string, start time.Time) (int64, error)

	// StopTimer closes the open timer at the given instant and returns it.
	StopTimer(ctx context.Context, end time.Time) (Entry, error)

	// OpenEntry returns the currently running timer, or ErrNoOpenEntry.
	OpenEntry(ctx context.Context) (Entry, error)

	// HolidayText returns the holiday declaration source text.
	HolidayText(ctx context.Context) (string, error)

	// SetHolidayText replaces the holiday declaration source text.
	SetHolidayText(ctx context.Context, text string) error
}

// RawEntries loads every stored entry as engine input.
func RawEntries(ctx context.Context, s EntryStore) ([]engine.RawEntry, error) {
	entries, err := s.ListEntries(ctx)
	if err != nil {
		return nil, err
	}
	raw := make([]engine.RawEntry, 0, len(entries))
	for _, e := range entries {
		raw = append(raw, e.Raw())
	}
	return raw, nil
}

// HolidaySource adapts a store to the engine's holiday-loading boundary.
func HolidaySource(s EntryStore) engine.HolidaySource {
	return engine.HolidaySourceFunc(func(ctx context.Context) (string, error) {
		return s.HolidayText(ctx)
	})
}
