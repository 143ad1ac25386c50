// internal/app/engine/clock.go
package engine

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so trash retention and timestamp logic are
// deterministic in tests.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts item ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }

// millis converts a time to wall-clock milliseconds, the timestamp unit used
// throughout the item and profile records.
func millis(t time.Time) int64 {
	return t.UnixMilli()
}
