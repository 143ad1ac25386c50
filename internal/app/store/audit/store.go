// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/dalemusser/stratadesk/internal/app/store/storeutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Desktop mutation event types.
const (
	EventItemCreated    = "item_created"
	EventItemsPatched   = "items_patched"
	EventItemDeleted    = "item_deleted"
	EventItemRestored   = "item_restored"
	EventTrashEmptied   = "trash_emptied"
	EventTrashExpired   = "trash_expired"
	EventProfileSet     = "profile_set"
	EventProfilePatched = "profile_patched"
)

// Event records one desktop mutation for internal forensics. Events are
// best-effort: a failed append never fails the mutation it describes.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	UserID    string `bson:"user_id" json:"user_id"`
	EventType string `bson:"event_type" json:"event_type"`

	// ItemID is set for single-item events; ItemCount for batch events.
	ItemID    string `bson:"item_id,omitempty" json:"item_id,omitempty"`
	ItemCount int    `bson:"item_count,omitempty" json:"item_count,omitempty"`

	Success       bool   `bson:"success" json:"success"`
	FailureReason string `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`
}

// CollectionName is the MongoDB collection for desktop audit events.
const CollectionName = "desktop_audit"

// Store provides access to the desktop audit collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

// Append records an event, stamping CreatedAt.
func (s *Store) Append(ctx context.Context, ev Event) error {
	ev.ID = primitive.NewObjectID()
	ev.CreatedAt = time.Now().UTC()
	_, err := s.c.InsertOne(ctx, ev)
	return err
}

// ListByUser returns a page of a user's events, newest first. Page is
// 1-based; limit <= 0 falls back to the storeutil default page size.
func (s *Store) ListByUser(ctx context.Context, userID string, limit, page int64) ([]Event, error) {
	opts := storeutil.Paginate(limit, page).
		SetSort(storeutil.SortNewestFirst("created_at"))
	cur, err := s.c.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteOlderThan removes events created before cutoff and returns how many
// were deleted. Used by the audit-prune background job.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
