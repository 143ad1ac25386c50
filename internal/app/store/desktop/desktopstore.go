// Package desktop provides durable storage for per-user desktop state.
//
// Two records exist per user: the full item list (one document in the
// desktops collection holding the whole array) and the profile (one document
// in the profiles collection). The engine reads both once at actor hydration
// and rewrites each wholesale after every mutating call; this store never
// performs partial item updates.
package desktop

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/stratadesk/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	DesktopsCollection = "desktops"
	ProfilesCollection = "profiles"
)

// Store provides access to the desktops and profiles collections.
type Store struct {
	desktops *mongo.Collection
	profiles *mongo.Collection
}

// New creates a new desktop store.
func New(db *mongo.Database) *Store {
	return &Store{
		desktops: db.Collection(DesktopsCollection),
		profiles: db.Collection(ProfilesCollection),
	}
}

// desktopDoc is the stored shape of one user's item list.
type desktopDoc struct {
	UserID    string        `bson:"_id"`
	Items     []models.Item `bson:"items"`
	UpdatedAt time.Time     `bson:"updated_at"`
}

// LoadItems returns the full item list for a user. A user with no stored
// desktop yields an empty slice.
func (s *Store) LoadItems(ctx context.Context, userID string) ([]models.Item, error) {
	var doc desktopDoc
	err := s.desktops.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.Item{}, nil
	}
	if err != nil {
		return nil, err
	}
	if doc.Items == nil {
		doc.Items = []models.Item{}
	}
	return doc.Items, nil
}

// SaveItems rewrites the full item list for a user.
func (s *Store) SaveItems(ctx context.Context, userID string, items []models.Item) error {
	doc := desktopDoc{
		UserID:    userID,
		Items:     items,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.desktops.ReplaceOne(ctx, bson.M{"_id": userID}, doc,
		options.Replace().SetUpsert(true))
	return err
}

// LoadProfile returns the user's profile, or nil if none has been
// provisioned yet.
func (s *Store) LoadProfile(ctx context.Context, userID string) (*models.Profile, error) {
	var p models.Profile
	err := s.profiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProfile rewrites the user's profile.
func (s *Store) SaveProfile(ctx context.Context, userID string, profile models.Profile) error {
	profile.UserID = userID
	_, err := s.profiles.ReplaceOne(ctx, bson.M{"_id": userID}, profile,
		options.Replace().SetUpsert(true))
	return err
}

// ListUserIDs returns the ids of every user with a stored desktop. Used by
// the scheduled trash sweep to iterate all known users.
func (s *Store) ListUserIDs(ctx context.Context) ([]string, error) {
	raw, err := s.desktops.Distinct(ctx, "_id", bson.M{})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// FindUserIDByUsername resolves a public username (case/diacritic-folded) to
// a user id. Returns "" with a nil error when no profile matches.
func (s *Store) FindUserIDByUsername(ctx context.Context, usernameCI string) (string, error) {
	var p models.Profile
	err := s.profiles.FindOne(ctx, bson.M{"username_ci": usernameCI}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", nil
		}
		return "", err
	}
	return p.UserID, nil
}
