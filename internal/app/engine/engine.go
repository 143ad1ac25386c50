// internal/app/engine/engine.go

// Package engine implements the per-user desktop state engine: a single
// logical actor per user that owns that user's entire item graph and profile,
// enforces storage quota, manages the trash lifecycle, and maintains a cached
// public projection for anonymous visitors.
//
// Concurrency model: one actor per user id. Operations against the same user
// are totally ordered (the actor's mutex is held for the full operation,
// including persistence), while operations for different users run fully in
// parallel. State is hydrated from durable storage at most once per actor
// lifetime; every mutating call rewrites the full item list (or the profile)
// back to durable storage before reporting success.
package engine

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dalemusser/stratadesk/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultQuotaLimit is the per-user byte ceiling applied when none is
// configured (1 GiB).
const DefaultQuotaLimit = int64(1 << 30)

// DefaultTrashRetention is how long trashed items are kept before the expiry
// sweep may destroy them.
const DefaultTrashRetention = 30 * 24 * time.Hour

// DefaultSnapshotTTL is the expiry for cached public snapshots.
const DefaultSnapshotTTL = 5 * time.Minute

// Config holds engine tuning. Zero values fall back to the defaults above.
type Config struct {
	QuotaLimit     int64
	TrashRetention time.Duration
	SnapshotTTL    time.Duration

	// Clock and IDs are injection points for tests; nil selects the real
	// clock and random UUIDs.
	Clock Clock
	IDs   IDGenerator
}

// Manager is the actor dispatcher: it routes each operation to the target
// user's actor, constructing actors lazily on first access.
type Manager struct {
	storage Storage
	cache   SnapshotCache
	cfg     Config
	logger  *zap.Logger
	clock   Clock
	ids     IDGenerator

	mu     sync.Mutex
	actors map[string]*actor
}

// New creates an engine manager over the given durable storage and snapshot
// cache.
func New(storage Storage, cache SnapshotCache, cfg Config, logger *zap.Logger) *Manager {
	if cfg.QuotaLimit <= 0 {
		cfg.QuotaLimit = DefaultQuotaLimit
	}
	if cfg.TrashRetention <= 0 {
		cfg.TrashRetention = DefaultTrashRetention
	}
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = DefaultSnapshotTTL
	}
	clock := cfg.Clock
	if clock == nil {
		clock = RealClock{}
	}
	ids := cfg.IDs
	if ids == nil {
		ids = UUIDGenerator{}
	}
	return &Manager{
		storage: storage,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
		clock:   clock,
		ids:     ids,
		actors:  make(map[string]*actor),
	}
}

// QuotaLimit returns the configured per-user byte ceiling.
func (m *Manager) QuotaLimit() int64 { return m.cfg.QuotaLimit }

// TrashRetention returns the configured trash retention window.
func (m *Manager) TrashRetention() time.Duration { return m.cfg.TrashRetention }

// actor is one user's exclusively owned in-memory state. The mutex is the
// per-user serialization boundary: it is held for the whole of every
// operation, so a second request for the same user cannot start while the
// first one's persistence is still outstanding.
type actor struct {
	userID string

	mu       sync.Mutex
	hydrated bool
	items    map[string]*models.Item
	profile  *models.Profile
}

// actor returns the actor for userID, creating it on first access.
func (m *Manager) actor(userID string) *actor {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.actors[userID]
	if !ok {
		a = &actor{userID: userID}
		m.actors[userID] = a
	}
	return a
}

// hydrate loads the actor's items and profile from durable storage. It runs
// at most once per actor lifetime; the caller must hold the actor's mutex.
func (m *Manager) hydrate(ctx context.Context, a *actor) error {
	if a.hydrated {
		return nil
	}

	items, err := m.storage.LoadItems(ctx, a.userID)
	if err != nil {
		return &PersistError{Op: "load items", Err: err}
	}
	profile, err := m.storage.LoadProfile(ctx, a.userID)
	if err != nil {
		return &PersistError{Op: "load profile", Err: err}
	}

	a.items = make(map[string]*models.Item, len(items))
	for i := range items {
		it := items[i]
		a.items[it.ID] = &it
	}
	a.profile = profile
	a.hydrated = true

	m.logger.Debug("actor hydrated",
		zap.String("user_id", a.userID),
		zap.Int("items", len(items)))
	return nil
}

// persistItems writes the actor's full item list back to durable storage.
// On failure the actor's hydrated state is discarded so the next operation
// re-hydrates from durable truth; the in-memory and durable copies are never
// allowed to diverge after a reported success. Caller must hold the mutex.
func (m *Manager) persistItems(ctx context.Context, a *actor) error {
	if err := m.storage.SaveItems(ctx, a.userID, a.itemList()); err != nil {
		a.hydrated = false
		a.items = nil
		a.profile = nil
		return &PersistError{Op: "save items", Err: err}
	}
	return nil
}

// persistProfile writes the actor's profile back to durable storage, with the
// same failure discipline as persistItems.
func (m *Manager) persistProfile(ctx context.Context, a *actor) error {
	if err := m.storage.SaveProfile(ctx, a.userID, *a.profile); err != nil {
		a.hydrated = false
		a.items = nil
		a.profile = nil
		return &PersistError{Op: "save profile", Err: err}
	}
	return nil
}

// itemList materializes the item map as a slice in stable order (creation
// time, then id) for persistence and API responses.
func (a *actor) itemList() []models.Item {
	out := make([]models.Item, 0, len(a.items))
	for _, it := range a.items {
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// currentProfile returns the actor's profile, or a minimal default for users
// that have not been provisioned yet. Caller must hold the mutex.
func (a *actor) currentProfile() models.Profile {
	if a.profile != nil {
		return *a.profile
	}
	return models.Profile{UserID: a.userID}
}
