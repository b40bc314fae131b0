package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps markers in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	markers map[string]time.Time
	now     func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		markers: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (m *MemoryStore) Put(ctx context.Context, id string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var expires time.Time
	if ttl > 0 {
		expires = m.now().Add(ttl)
	}
	m.markers[markerKey(id)] = expires
	return nil
}

func (m *MemoryStore) Has(ctx context.Context, id string) (bool, error) {
	m.mu.RLock()
	expires, ok := m.markers[markerKey(id)]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if !expires.IsZero() && m.now().After(expires) {
		_ = m.Delete(ctx, id)
		return false, nil
	}
	return true, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.markers, markerKey(id))
	return nil
}

// Len returns the number of stored markers, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.markers)
}

// Sweep drops every expired marker and returns how many were removed.
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for key, expires := range m.markers {
		if !expires.IsZero() && now.After(expires) {
			delete(m.markers, key)
			n++
		}
	}
	return n
}

// Run sweeps expired markers every interval until ctx is done.
func (m *MemoryStore) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-ctx.Done():
			return nil
		}
	}
}
