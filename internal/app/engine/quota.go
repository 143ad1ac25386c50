// internal/app/engine/quota.go
package engine

import (
	"context"

	"github.com/dalemusser/stratadesk/internal/domain/models"
)

// QuotaCheck reports whether a proposed upload of a given size would fit
// under the user's quota, alongside the snapshot the decision was based on so
// the caller can render a precise message.
type QuotaCheck struct {
	Allowed bool                 `json:"allowed"`
	Quota   models.QuotaSnapshot `json:"quota"`
}

// GetQuota returns the user's current quota snapshot, recomputed from the
// active item set.
func (m *Manager) GetQuota(ctx context.Context, userID string) (*models.QuotaSnapshot, error) {
	a := m.actor(userID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := m.hydrate(ctx, a); err != nil {
		return nil, err
	}
	snap := m.quotaSnapshot(a)
	return &snap, nil
}

// CheckQuota reports whether admitting proposedSize more bytes would stay
// within the limit. Landing exactly on the limit is allowed.
func (m *Manager) CheckQuota(ctx context.Context, userID string, proposedSize int64) (*QuotaCheck, error) {
	if proposedSize < 0 {
		return nil, &ValidationError{Field: "size", Message: "size cannot be negative"}
	}

	a := m.actor(userID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := m.hydrate(ctx, a); err != nil {
		return nil, err
	}
	snap := m.quotaSnapshot(a)
	return &QuotaCheck{
		Allowed: snap.Used+proposedSize <= snap.Limit,
		Quota:   snap,
	}, nil
}

// quotaSnapshot sums file sizes over active items by full scan. A running
// counter would be cheaper per check but can silently drift from reality;
// per-user item counts are bounded and the actor already holds the full set
// in memory, so the scan is always correct at acceptable cost. Caller must
// hold the actor's mutex.
func (m *Manager) quotaSnapshot(a *actor) models.QuotaSnapshot {
	var used int64
	count := 0
	for _, it := range a.items {
		if it.IsTrashed {
			continue
		}
		count++
		if it.FileSize > 0 {
			used += it.FileSize
		}
	}
	remaining := m.cfg.QuotaLimit - used
	if remaining < 0 {
		remaining = 0
	}
	return models.QuotaSnapshot{
		Used:      used,
		Limit:     m.cfg.QuotaLimit,
		Remaining: remaining,
		ItemCount: count,
	}
}
