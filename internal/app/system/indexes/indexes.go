// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// EnsureAll is called at startup. Each ensure* function is idempotent
// (CreateMany is a no-op for indexes that already exist with the same spec).
// Errors are aggregated so every problem is visible and startup fails fast.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureProfiles(ctx, db); err != nil {
		problems = append(problems, "profiles: "+err.Error())
	}
	if err := ensurePublicSnapshots(ctx, db); err != nil {
		problems = append(problems, "public_snapshots: "+err.Error())
	}
	if err := ensureDesktopAudit(ctx, db); err != nil {
		problems = append(problems, "desktop_audit: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New("index setup failed: " + strings.Join(problems, "; "))
	}

	zap.L().Info("database indexes ensured")
	return nil
}

func ensureProfiles(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("profiles")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Folded username for case/diacritic-insensitive public lookup.
		{
			Keys: bson.D{
				{Key: "username_ci", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_profiles_username_ci"),
		},
	})
	return err
}

func ensurePublicSnapshots(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("public_snapshots")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// TTL index: Mongo removes cache entries shortly after expires_at.
		// The store also treats past-expiry documents as misses, since the
		// TTL monitor only runs on a coarse interval.
		{
			Keys: bson.D{
				{Key: "expires_at", Value: 1},
			},
			Options: options.Index().
				SetExpireAfterSeconds(0).
				SetName("idx_snapshots_expires_ttl"),
		},
	})
	return err
}

func ensureDesktopAudit(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("desktop_audit")
	_, err := c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		// Per-user event history, newest first.
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("idx_audit_user_created"),
		},
		// Prune job scans by age.
		{
			Keys: bson.D{
				{Key: "created_at", Value: 1},
			},
			Options: options.Index().
				SetName("idx_audit_created"),
		},
	})
	return err
}
