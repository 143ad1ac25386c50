// internal/app/store/desktop/memory.go
package desktop

import (
	"context"
	"sort"
	"sync"

	"github.com/dalemusser/stratadesk/internal/domain/models"
)

// MemoryStore is an in-memory implementation of the engine's storage
// contract. It is used by engine tests and is handy for local development
// without a MongoDB instance. Safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[string][]models.Item
	profiles map[string]models.Profile

	// SaveErr, when set, is returned by every Save call. Tests use it to
	// exercise the engine's persistence-failure discipline.
	SaveErr error
}

// NewMemoryStore creates an empty in-memory desktop store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:    make(map[string][]models.Item),
		profiles: make(map[string]models.Profile),
	}
}

// LoadItems returns a copy of the user's stored item list.
func (m *MemoryStore) LoadItems(ctx context.Context, userID string) ([]models.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored := m.items[userID]
	out := make([]models.Item, len(stored))
	copy(out, stored)
	return out, nil
}

// SaveItems replaces the user's stored item list with a copy of items.
func (m *MemoryStore) SaveItems(ctx context.Context, userID string, items []models.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	stored := make([]models.Item, len(items))
	copy(stored, items)
	m.items[userID] = stored
	return nil
}

// LoadProfile returns the user's stored profile, or nil if none exists.
func (m *MemoryStore) LoadProfile(ctx context.Context, userID string) (*models.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// SaveProfile replaces the user's stored profile.
func (m *MemoryStore) SaveProfile(ctx context.Context, userID string, profile models.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.profiles[userID] = profile
	return nil
}

// FindUserIDByUsername resolves a folded public username to a user id, or ""
// when no profile matches.
func (m *MemoryStore) FindUserIDByUsername(ctx context.Context, usernameCI string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for id, p := range m.profiles {
		if p.UsernameCI == usernameCI {
			return id, nil
		}
	}
	return "", nil
}

// ListUserIDs returns every user id with stored items, sorted for
// determinism.
func (m *MemoryStore) ListUserIDs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.items))
	for id := range m.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
