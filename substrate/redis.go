package substrate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Substrate backed by a Redis instance. Expiry is delegated to
// Redis key TTLs; an optional per-entry size cap models substrates whose
// individual entries are bounded (browser-cookie-like stores).
type Redis struct {
	client       redis.UniversalClient
	maxEntrySize int
}

// NewRedis creates a Redis substrate over the given client. maxEntrySize
// of 0 disables the per-entry cap.
func NewRedis(client redis.UniversalClient, maxEntrySize int) *Redis {
	return &Redis{
		client:       client,
		maxEntrySize: maxEntrySize,
	}
}

// Get describes the get operation and its observable behavior.
//
// Get may return an error when input validation, dependency calls, or security checks fail.
// Get does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return value, true, nil
}

// Set describes the set operation and its observable behavior.
//
// Set may return an error when input validation, dependency calls, or security checks fail.
// Set does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if r.maxEntrySize > 0 && len(value) > r.maxEntrySize {
		return fmt.Errorf("%w: %d bytes under %q", ErrEntryTooLarge, len(value), key)
	}
	if ttl < 0 {
		ttl = 0
	}
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete describes the delete operation and its observable behavior.
//
// Delete may return an error when input validation, dependency calls, or security checks fail.
// Delete does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Scan describes the scan operation and its observable behavior.
//
// Scan may return an error when input validation, dependency calls, or security checks fail.
// Scan does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) Scan(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		batch, next, err := r.client.Scan(ctx, cursor, prefix+"*", 256).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}

// MaxEntrySize describes the maxentrysize operation and its observable behavior.
//
// MaxEntrySize does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (r *Redis) MaxEntrySize() int {
	return r.maxEntrySize
}
