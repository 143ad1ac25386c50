// Package storeutil holds small helpers shared by the Mongo store packages.
package storeutil

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// DefaultPageSize is used when a caller passes a non-positive limit.
	DefaultPageSize = 20

	// MaxPageSize caps how many documents a single page may return,
	// regardless of what the caller asked for.
	MaxPageSize = 200
)

// Paginate builds find options for a 1-based page with a clamped limit.
func Paginate(limit, page int64) *options.FindOptions {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if page <= 0 {
		page = 1
	}
	return options.Find().SetLimit(limit).SetSkip((page - 1) * limit)
}

// SortNewestFirst returns a descending sort on the given time field, for
// listings that show the most recent documents first.
func SortNewestFirst(field string) bson.D {
	return bson.D{{Key: field, Value: -1}}
}
