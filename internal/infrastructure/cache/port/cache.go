package port

import (
	"context"
	"time"
)

// Cache is the minimal key-value contract used by the application: user
// record read-through and unread badges. Implementations must be safe for
// concurrent use, and misses are reported as ErrMiss so callers can tell
// them apart from transport errors.
type Cache interface {
	// Get fetches the value for key, or ErrMiss when the key is absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value at key. Zero or negative TTL means no expiration.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Del removes keys and returns how many existed.
	Del(ctx context.Context, keys ...string) (int64, error)

	// Ping verifies connectivity with the backend.
	Ping(ctx context.Context) error

	// Close releases any held resources.
	Close() error
}

// ErrMiss signals an absent key in a typed way.
var ErrMiss = errMiss{}

type errMiss struct{}

func (errMiss) Error() string { return "cache: miss" }
