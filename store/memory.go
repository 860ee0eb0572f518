package store

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-memory EntryStore for tests and demo seeding.
// Thread-safe via RWMutex.
type Memory struct {
	mu       sync.RWMutex
	nextID   int64
	entries  []Entry
	holidays string
}

func NewMemory() *Memory {
	return &Memory{nextID: 1}
}

func (m *Memory) AppendEntry(ctx context.Context, e Entry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.ID = m.nextID
	m.nextID++
	m.entries = append(m.entries, e)
	return e.ID, nil
}

func (m *Memory) ListEntries(ctx context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *Memory) DeleteEntry(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.entries {
		if e.ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) StartTimer(ctx context.Context, name string, start time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.entries {
		if e.EndTime == nil {
			return 0, ErrTimerRunning
		}
	}

	e := Entry{ID: m.nextID, Name: name, StartTime: start}
	m.nextID++
	m.entries = append(m.entries, e)
	return e.ID, nil
}

func (m *Memory) StopTimer(ctx context.Context, end time.Time) (Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.entries {
		if m.entries[i].EndTime == nil {
			t := end
			m.entries[i].EndTime = &t
			return m.entries[i], nil
		}
	}
	return Entry{}, ErrNoOpenEntry
}

func (m *Memory) OpenEntry(ctx context.Context) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, e := range m.entries {
		if e.EndTime == nil {
			return e, nil
		}
	}
	return Entry{}, ErrNoOpenEntry
}

func (m *Memory) HolidayText(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.holidays, nil
}

func (m *Memory) SetHolidayText(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays = text
	return nil
}
