package store

import (
	"context"
	"sort"
	"sync"

	"github.com/napolitain/catvillage/internal/models"
)

// MemoryStore keeps encoded snapshots in memory
type MemoryStore struct {
	mu      sync.RWMutex
	blobs   map[string][]byte
	history map[string][]HistoryEntry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs:   make(map[string][]byte),
		history: make(map[string][]HistoryEntry),
	}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*models.PlayerSnapshot, error) {
	m.mu.RLock()
	blob, ok := m.blobs[id]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return decode(blob)
}

func (m *MemoryStore) Save(_ context.Context, id string, s *models.PlayerSnapshot) error {
	blob, err := encode(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.blobs[id] = blob
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.blobs))
	for id := range m.blobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.blobs[id]; !ok {
		return ErrNotFound
	}
	delete(m.blobs, id)
	delete(m.history, id)
	return nil
}

func (m *MemoryStore) Record(_ context.Context, id string, e HistoryEntry) error {
	m.mu.Lock()
	m.history[id] = append(m.history[id], e)
	m.mu.Unlock()
	return nil
}

// History returns the most recent entries first, at most limit (all if limit <= 0)
func (m *MemoryStore) History(_ context.Context, id string, limit int) ([]HistoryEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entries := m.history[id]
	out := make([]HistoryEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, entries[i])
	}
	return out, nil
}

func (m *MemoryStore) Close() error { return nil }
