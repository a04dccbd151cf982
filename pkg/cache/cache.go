// Package cache stores serialized engine results keyed by a hash of the
// query that produced them.
//
// Identification is deterministic: the same graph and query always yield the
// same expression, so a cached result never goes stale and the TTLs exist
// only to bound storage. Four backends are provided:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for the HTTP API
//   - [MongoCache]: durable shared cache with a TTL index
//
// Keys are built by a [Keyer] so that callers never concatenate strings by
// hand. [Open] picks a backend from an [Options] value.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. A miss is not
	// an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default entry lifetimes.
const (
	TTLIdentify = 30 * 24 * time.Hour
	TTLAnalysis = 30 * 24 * time.Hour
)
