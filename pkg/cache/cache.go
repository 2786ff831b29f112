// Package cache provides the pluggable byte cache used for resolved-model
// storage outside a single resolver's lifetime.
//
// Three backends implement [Cache]: a file cache for CLI usage, a Redis
// cache for multi-instance server deployments, and a null cache that
// disables caching entirely. [ModelKey] derives a key from the structural
// fingerprint of a partial state; the API server does not use it and keys
// its cached resolve responses by coordinate and active profiles.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with per-entry TTLs.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The boolean reports whether the key was
	// present and fresh; a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero TTL means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// ModelKey derives the cache key for a resolved model from the structural
// fingerprint of its partial state.
func ModelKey(fingerprint string) string {
	return "model:" + fingerprint
}
