// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dalemusser/stratadesk/internal/app/engine"
	"github.com/dalemusser/stratadesk/internal/app/store/audit"
	"go.uber.org/zap"
)

// UserLister enumerates every user with stored desktop state.
type UserLister interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// BlobDeleter releases blob-store bytes by key. Satisfied by
// waffle/pantry/storage.Store.
type BlobDeleter interface {
	Delete(ctx context.Context, key string) error
}

// AuditAppender records audit events. Satisfied by audit.Store; may be nil
// to disable auditing.
type AuditAppender interface {
	Append(ctx context.Context, ev audit.Event) error
}

// TrashSweepConcurrency bounds how many users' sweeps run at once. Each
// user's sweep only touches that user's own actor, so sweeps are independent;
// the bound just keeps a large tenant population from saturating storage.
const TrashSweepConcurrency = 8

// TrashSweepJob creates the daily job that destroys trashed items past the
// retention window for every known user, releasing orphaned blobs as it goes.
//
// Blob deletion failures are logged, never fatal: the item destruction has
// already durably committed through the user's actor, and a leaked blob is an
// acceptable, loggable inconsistency (the engine never assumes blob
// operations are atomic with its own state transitions).
func TrashSweepJob(mgr *engine.Manager, users UserLister, blobs BlobDeleter, audits AuditAppender, logger *zap.Logger) Job {
	return Job{
		Name:     "trash-sweep",
		Interval: 24 * time.Hour,
		Run: func(ctx context.Context) error {
			userIDs, err := users.ListUserIDs(ctx)
			if err != nil {
				return err
			}

			sem := make(chan struct{}, TrashSweepConcurrency)
			var wg sync.WaitGroup
			var deleted atomic.Int64

			for _, userID := range userIDs {
				if ctx.Err() != nil {
					break
				}
				sem <- struct{}{}
				wg.Add(1)
				go func(userID string) {
					defer wg.Done()
					defer func() { <-sem }()
					deleted.Add(int64(sweepUser(ctx, mgr, blobs, audits, logger, userID)))
				}(userID)
			}
			wg.Wait()

			if n := deleted.Load(); n > 0 {
				logger.Info("trash sweep destroyed expired items",
					zap.Int("users", len(userIDs)),
					zap.Int64("deleted", n))
			}
			return ctx.Err()
		},
	}
}

// sweepUser runs the expiry sweep through one user's actor, releases the
// orphaned blobs and records the destruction in the audit trail. Returns how
// many items were destroyed.
func sweepUser(ctx context.Context, mgr *engine.Manager, blobs BlobDeleter, audits AuditAppender, logger *zap.Logger, userID string) int {
	res, err := mgr.CleanupExpiredTrash(ctx, userID)
	if err != nil {
		logger.Error("trash sweep failed for user",
			zap.String("user_id", userID),
			zap.Error(err))
		return 0
	}
	for _, key := range res.BlobKeys {
		if err := blobs.Delete(ctx, key); err != nil {
			logger.Warn("failed to release orphaned blob",
				zap.String("user_id", userID),
				zap.String("blob_key", key),
				zap.Error(err))
		}
	}
	if res.Deleted > 0 && audits != nil {
		ev := audit.Event{
			UserID:    userID,
			EventType: audit.EventTrashExpired,
			ItemCount: res.Deleted,
			Success:   true,
		}
		if err := audits.Append(ctx, ev); err != nil {
			logger.Warn("failed to record trash-expired audit event",
				zap.String("user_id", userID),
				zap.Error(err))
		}
	}
	return res.Deleted
}

// AuditPruneJob creates a job that removes desktop audit events older than
// the retention window.
func AuditPruneJob(store *audit.Store, retention time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "audit-prune",
		Interval: 6 * time.Hour,
		Run: func(ctx context.Context) error {
			cutoff := time.Now().UTC().Add(-retention)
			deleted, err := store.DeleteOlderThan(ctx, cutoff)
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("pruned old audit events",
					zap.Int64("deleted", deleted))
			}
			return nil
		},
	}
}
