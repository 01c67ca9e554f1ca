// Package cache provides pluggable byte caches for remote API responses.
//
// Three backends are available: a file cache for normal CLI usage, a Redis
// cache for shared deployments, and a null cache that disables caching
// entirely. All backends store opaque byte slices with a per-entry TTL.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when an item is not found in cache.
var ErrCacheMiss = errors.New("cache miss")

// Cache is the interface implemented by all cache backends.
//
// Get returns the stored value and whether it was found; an expired entry
// is reported as a miss. Set stores data under key for the given TTL; a TTL
// of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
