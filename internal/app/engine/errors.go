// internal/app/engine/errors.go
package engine

import (
	"errors"
	"fmt"

	"github.com/dalemusser/stratadesk/internal/domain/models"
)

// ErrNotFound is returned by single-item operations when the target item does
// not exist. Batch operations never return it; missing ids in a batch are
// silently skipped.
var ErrNotFound = errors.New("item not found")

// ValidationError reports a malformed or out-of-range input payload. It is
// detected before any state change, so a rejected call leaves the in-memory
// state untouched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// QuotaError reports that admitting a write would exceed the user's storage
// quota. It carries the current snapshot so callers can render a precise
// message. This is an expected business condition, not a system fault.
type QuotaError struct {
	Requested int64
	Quota     models.QuotaSnapshot
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("storage quota exceeded: %d bytes requested, %d of %d used",
		e.Requested, e.Quota.Used, e.Quota.Limit)
}

// PersistError wraps a durable-storage or side-cache I/O failure. It is a
// retryable infrastructure fault, distinct from validation and not-found
// conditions so the transport layer can apply retry logic to this class only.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return "persist " + e.Op + ": " + e.Err.Error()
}

func (e *PersistError) Unwrap() error { return e.Err }

// IsRetryable reports whether err is a persistence failure the caller may
// safely retry.
func IsRetryable(err error) bool {
	var pe *PersistError
	return errors.As(err, &pe)
}
