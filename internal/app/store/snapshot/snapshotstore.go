// Package snapshot provides the short-TTL side cache for public desktop
// projections.
//
// Entries live in the public_snapshots collection with a per-document
// expires_at and a Mongo TTL index (created in system/indexes). The cache is
// advisory and disposable: the engine treats a miss, an expired entry, or a
// failed write as "recompute from the authoritative store", never as an
// error, and losing the collection costs a recompute, not data.
package snapshot

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratadesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the MongoDB collection holding cached public snapshots.
const CollectionName = "public_snapshots"

// Store provides access to the public snapshot cache.
type Store struct {
	c *mongo.Collection
}

// New creates a new snapshot cache store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// entry is the stored shape of one cached snapshot.
type entry struct {
	UserID    string                `bson:"_id"`
	Snapshot  models.PublicSnapshot `bson:"snapshot"`
	ExpiresAt time.Time             `bson:"expires_at"`
}

// Put stores the snapshot under the user's key with the given TTL.
func (s *Store) Put(ctx context.Context, userID string, snap models.PublicSnapshot, ttl time.Duration) error {
	e := entry{
		UserID:    userID,
		Snapshot:  snap,
		ExpiresAt: time.Now().UTC().Add(ttl),
	}
	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": userID}, e,
		options.Replace().SetUpsert(true))
	return err
}

// Get returns the cached snapshot and true on a hit. Entries past their
// expires_at are treated as misses even before Mongo's TTL monitor (which
// runs on a coarse interval) physically removes them.
func (s *Store) Get(ctx context.Context, userID string) (*models.PublicSnapshot, bool, error) {
	var e entry
	err := s.c.FindOne(ctx, bson.M{"_id": userID}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if time.Now().UTC().After(e.ExpiresAt) {
		return nil, false, nil
	}
	return &e.Snapshot, true, nil
}
