// internal/app/engine/storage.go
package engine

import (
	"context"
	"time"

	"github.com/dalemusser/stratadesk/internal/domain/models"
)

// Storage is the durable persistence contract for desktop state. Two records
// exist per user: the full item list and the profile. The actor reads them
// once at hydration and rewrites each wholesale after every mutating call.
//
// The Mongo implementation lives in internal/app/store/desktop; an in-memory
// implementation is provided there for tests and local development.
type Storage interface {
	// LoadItems returns the full item list for a user. A user with no stored
	// desktop yields an empty slice, not an error.
	LoadItems(ctx context.Context, userID string) ([]models.Item, error)

	// SaveItems rewrites the full item list for a user.
	SaveItems(ctx context.Context, userID string, items []models.Item) error

	// LoadProfile returns the user's profile, or nil if none has been
	// provisioned yet.
	LoadProfile(ctx context.Context, userID string) (*models.Profile, error)

	// SaveProfile rewrites the user's profile.
	SaveProfile(ctx context.Context, userID string, profile models.Profile) error

	// ListUserIDs returns the ids of every user with stored desktop state.
	// Used by the scheduled trash sweep to iterate all known users.
	ListUserIDs(ctx context.Context) ([]string, error)
}

// SnapshotCache is the advisory side cache for public projections. It is
// never the source of truth: a miss or expiry triggers recomputation from the
// authoritative item store, and losing the cache entirely costs a recompute,
// never data.
type SnapshotCache interface {
	// Put stores a snapshot under the user's key with the given TTL.
	Put(ctx context.Context, userID string, snap models.PublicSnapshot, ttl time.Duration) error

	// Get returns the cached snapshot and true on a hit, or false on a miss
	// (including expiry).
	Get(ctx context.Context, userID string) (*models.PublicSnapshot, bool, error)
}
