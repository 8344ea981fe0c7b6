package store

import (
	"context"
	"slices"
	"sync"
)

// Memory keeps entries in process memory
type Memory struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{entries: make(map[string]Entry)}
}

func (m *Memory) Put(_ context.Context, entry Entry) error {
	if err := validate(entry); err != nil {
		return err
	}
	entry.Dealt = slices.Clone(entry.Dealt)
	m.mu.Lock()
	m.entries[entry.GameID()] = entry
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context, gameID string) (Entry, error) {
	m.mu.RLock()
	entry, ok := m.entries[gameID]
	m.mu.RUnlock()
	if !ok {
		return Entry{}, ErrNotFound
	}
	entry.Dealt = slices.Clone(entry.Dealt)
	return entry, nil
}

func (m *Memory) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	ids := make([]string, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	m.mu.RUnlock()
	slices.Sort(ids)
	return ids, nil
}

func (m *Memory) Close() error { return nil }
