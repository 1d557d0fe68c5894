package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/vovakirdan/ruff-day/internal/game"
)

// Ensure both stores satisfy the round's preference interface
var (
	_ game.Prefs = (*Store)(nil)
	_ game.Prefs = (*MemoryPrefs)(nil)
)

// Int returns the stored preference value.
func (s *Store) Int(key string) (int, bool, error) {
	var v int
	err := s.db.QueryRow("SELECT value FROM prefs WHERE key = ?", key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("storage: cannot read pref %q: %w", key, err)
	}
	return v, true, nil
}

// RaiseInt stores v unless the key already holds a larger value.
// The comparison runs inside one statement so concurrent sessions never
// lower each other's value.
func (s *Store) RaiseInt(key string, v int) (int, error) {
	var stored int
	err := s.db.QueryRow(
		`INSERT INTO prefs (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = max(value, excluded.value), updated_at = CURRENT_TIMESTAMP
		 RETURNING value`,
		key, v,
	).Scan(&stored)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot write pref %q: %w", key, err)
	}
	return stored, nil
}

// DeleteAll removes every preference. Score history is kept.
func (s *Store) DeleteAll() error {
	if _, err := s.db.Exec("DELETE FROM prefs"); err != nil {
		return fmt.Errorf("storage: cannot clear prefs: %w", err)
	}
	return nil
}

// MemoryPrefs keeps preferences for the lifetime of the process.
// Used when the database cannot be opened.
type MemoryPrefs struct {
	mu   sync.Mutex
	vals map[string]int
}

// NewMemoryPrefs creates an empty in-memory store.
func NewMemoryPrefs() *MemoryPrefs {
	return &MemoryPrefs{vals: make(map[string]int)}
}

func (m *MemoryPrefs) Int(key string) (int, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.vals[key]
	return v, ok, nil
}

func (m *MemoryPrefs) RaiseInt(key string, v int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.vals[key]; ok && cur > v {
		return cur, nil
	}
	m.vals[key] = v
	return v, nil
}

func (m *MemoryPrefs) DeleteAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.vals = make(map[string]int)
	return nil
}
