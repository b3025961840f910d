package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a key is absent or its entry has expired.
var ErrNotFound = errors.New("key not found in cache")

// Cache is the string-keyed response cache the entity modules read
// through. Implementations: Memory (default) and Redis (when REDIS_URL
// is configured). Entries expire after a TTL; an expired entry simply
// misses and the caller recomputes it.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}
