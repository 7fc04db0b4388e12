package storage

import (
	"context"
	"sync"

	"outlay/internal/store"
)

// Memory is an in-process Persistence backend. It backs the "memory"
// data backend and doubles as the test double for the store: SaveErr and
// LoadErr inject failures, Saves counts completed writes.
type Memory struct {
	mu      sync.Mutex
	snap    store.Snapshot
	Saves   int
	SaveErr error
	LoadErr error
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(_ context.Context) (store.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return store.Snapshot{}, m.LoadErr
	}
	return m.snap, nil
}

func (m *Memory) Save(_ context.Context, snap store.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.snap = snap
	m.Saves++
	return nil
}

// Last returns the last successfully saved snapshot.
func (m *Memory) Last() store.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snap
}
