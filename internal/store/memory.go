package store

import (
	"context"
	"sync"

	"ventures/internal/game"
)

// MemoryStore keeps the venture in process. Values are cloned on the way in and out so
// callers never share slices with the store.
type MemoryStore struct {
	mu      sync.RWMutex
	venture *game.Venture
	events  []game.EventRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(_ context.Context) (game.Venture, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.venture == nil {
		return game.Venture{}, game.ErrNoVenture
	}
	return m.venture.Clone(), nil
}

func (m *MemoryStore) Save(_ context.Context, v game.Venture, events []game.EventRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := v.Clone()
	m.venture = &c
	m.events = append(m.events, events...)
	return nil
}

func (m *MemoryStore) Events(_ context.Context, limit int) ([]game.EventRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return tail(m.events, limit), nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.venture = nil
	m.events = nil
	return nil
}

func (m *MemoryStore) Close() error { return nil }
