// internal/app/engine/trash.go
package engine

import (
	"context"

	"github.com/dalemusser/stratadesk/internal/domain/models"
	"go.uber.org/zap"
)

// TrashResult reports a permanent-destruction operation: how many items were
// removed and the blob keys now orphaned by their removal. The engine never
// deletes blobs itself; it only reports which keys the caller must release.
type TrashResult struct {
	Deleted  int      `json:"deleted"`
	BlobKeys []string `json:"blob_keys,omitempty"`
}

// RestoreResult reports whether a restore took effect.
type RestoreResult struct {
	Restored bool `json:"restored"`
}

// ListTrash returns the user's currently trashed items.
func (m *Manager) ListTrash(ctx context.Context, userID string) ([]models.Item, error) {
	a := m.actor(userID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := m.hydrate(ctx, a); err != nil {
		return nil, err
	}

	var trashed []models.Item
	for _, it := range a.itemList() {
		if it.IsTrashed {
			trashed = append(trashed, it)
		}
	}
	return trashed, nil
}

// RestoreFromTrash returns a trashed item to the active desktop, clearing its
// trash state and refreshing updated_at. A missing item is ErrNotFound;
// restoring an item that exists but is not currently trashed is a no-op
// reported as Restored: false.
func (m *Manager) RestoreFromTrash(ctx context.Context, userID, itemID string) (*RestoreResult, error) {
	a := m.actor(userID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := m.hydrate(ctx, a); err != nil {
		return nil, err
	}

	it, ok := a.items[itemID]
	if !ok {
		return nil, ErrNotFound
	}
	if !it.IsTrashed {
		return &RestoreResult{Restored: false}, nil
	}

	it.IsTrashed = false
	it.TrashedAt = 0
	it.UpdatedAt = millis(m.clock.Now())

	if err := m.persistItems(ctx, a); err != nil {
		return nil, err
	}

	m.logger.Debug("item restored",
		zap.String("user_id", userID),
		zap.String("item_id", itemID))
	return &RestoreResult{Restored: true}, nil
}

// EmptyTrash destroys every currently trashed item unconditionally and
// returns their orphaned blob keys in one batch.
func (m *Manager) EmptyTrash(ctx context.Context, userID string) (*TrashResult, error) {
	return m.destroyTrashed(ctx, userID, func(*models.Item) bool { return true })
}

// CleanupExpiredTrash destroys only trashed items older than the configured
// retention window, leaving recently-trashed items untouched. It is
// idempotent: a second run with no new expirable items deletes nothing. This
// is the one lifecycle transition intended to run on a schedule rather than
// on direct user action.
func (m *Manager) CleanupExpiredTrash(ctx context.Context, userID string) (*TrashResult, error) {
	cutoff := millis(m.clock.Now().Add(-m.cfg.TrashRetention))
	return m.destroyTrashed(ctx, userID, func(it *models.Item) bool {
		return it.TrashedAt < cutoff
	})
}

// destroyTrashed removes every trashed item matching eligible and persists
// once for the whole batch. Nothing is persisted when no item matched.
func (m *Manager) destroyTrashed(ctx context.Context, userID string, eligible func(*models.Item) bool) (*TrashResult, error) {
	a := m.actor(userID)
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := m.hydrate(ctx, a); err != nil {
		return nil, err
	}

	res := &TrashResult{}
	for id, it := range a.items {
		if !it.IsTrashed || !eligible(it) {
			continue
		}
		if it.BlobKey != "" {
			res.BlobKeys = append(res.BlobKeys, it.BlobKey)
		}
		delete(a.items, id)
		res.Deleted++
	}

	if res.Deleted == 0 {
		return res, nil
	}
	if err := m.persistItems(ctx, a); err != nil {
		return nil, err
	}

	m.logger.Debug("trash destroyed",
		zap.String("user_id", userID),
		zap.Int("deleted", res.Deleted),
		zap.Int("blob_keys", len(res.BlobKeys)))
	return res, nil
}
