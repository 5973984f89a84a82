package substrate

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnavailable is returned when the backing store cannot be reached.
	ErrUnavailable = errors.New("substrate unavailable")
	// ErrEntryTooLarge is returned when a single value exceeds the
	// substrate's per-entry size cap.
	ErrEntryTooLarge = errors.New("substrate entry too large")
)

// Substrate is the abstract size-limited key-value store the keeper
// persists into. Absent and expired entries are indistinguishable: Get
// reports found == false for both.
type Substrate interface {
	// Get returns the value stored under key, or found == false when the
	// entry is absent or expired.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set writes value under key. A ttl of zero or less stores the entry
	// without expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the entry under key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Scan returns every live key beginning with prefix, in no
	// particular order.
	Scan(ctx context.Context, prefix string) ([]string, error)

	// MaxEntrySize returns the per-entry size cap in bytes, or 0 when
	// the substrate imposes none.
	MaxEntrySize() int
}
