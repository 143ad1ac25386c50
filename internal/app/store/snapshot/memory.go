// internal/app/store/snapshot/memory.go
package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/dalemusser/stratadesk/internal/domain/models"
)

// MemoryCache is an in-memory snapshot cache for engine tests and local
// development. Safe for concurrent use.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// PutErr and GetErr, when set, are returned by the corresponding call.
	// Tests use them to verify the cache is treated as strictly advisory.
	PutErr error
	GetErr error

	// Now is an injection point for expiry tests; nil means time.Now.
	Now func() time.Time
}

type memoryEntry struct {
	snap      models.PublicSnapshot
	expiresAt time.Time
}

// NewMemoryCache creates an empty in-memory snapshot cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (m *MemoryCache) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

// Put stores the snapshot with the given TTL.
func (m *MemoryCache) Put(ctx context.Context, userID string, snap models.PublicSnapshot, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	m.entries[userID] = memoryEntry{snap: snap, expiresAt: m.now().Add(ttl)}
	return nil
}

// Get returns the cached snapshot and true on a hit; expired entries are
// misses.
func (m *MemoryCache) Get(ctx context.Context, userID string) (*models.PublicSnapshot, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	e, ok := m.entries[userID]
	if !ok || m.now().After(e.expiresAt) {
		return nil, false, nil
	}
	snap := e.snap
	return &snap, true, nil
}

// Invalidate drops the user's cached entry. Not part of the engine contract
// (the engine relies on TTL, not explicit invalidation); tests use it to
// force recomputation.
func (m *MemoryCache) Invalidate(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, userID)
}
