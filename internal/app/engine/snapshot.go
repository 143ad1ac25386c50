// internal/app/engine/snapshot.go
package engine

import (
	"context"

	"github.com/dalemusser/stratadesk/internal/domain/models"
	"go.uber.org/zap"
)

// PublicSnapshot returns the visitor-visible projection of the user's
// desktop: active items marked public, paired with the profile.
//
// The side cache is read-through and strictly advisory. A hit is served
// as-is, which means very recent visibility changes can be under-represented
// for up to one TTL window; that staleness is a documented tradeoff for read
// scalability, not a correctness bug. A miss recomputes from the
// authoritative item store and rewrites the cache; a cache write failure is
// logged and the freshly computed projection is still returned, because the
// cache is only an optimization.
func (m *Manager) PublicSnapshot(ctx context.Context, userID string) (*models.PublicSnapshot, error) {
	if cached, ok, err := m.cache.Get(ctx, userID); err != nil {
		m.logger.Warn("snapshot cache read failed",
			zap.String("user_id", userID), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	a := m.actor(userID)
	a.mu.Lock()

	if err := m.hydrate(ctx, a); err != nil {
		a.mu.Unlock()
		return nil, err
	}

	snap := models.PublicSnapshot{
		Profile: a.currentProfile(),
		Items:   []models.Item{},
	}
	for _, it := range a.itemList() {
		if it.IsPublic && !it.IsTrashed {
			snap.Items = append(snap.Items, it)
		}
	}
	a.mu.Unlock()

	if err := m.cache.Put(ctx, userID, snap, m.cfg.SnapshotTTL); err != nil {
		m.logger.Warn("snapshot cache write failed",
			zap.String("user_id", userID), zap.Error(err))
	}
	return &snap, nil
}
