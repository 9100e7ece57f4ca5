// Package cache stores computed layouts and rendered artifacts.
//
// # Overview
//
// A layout is a pure function of its frames and parameters, and an artifact
// is a pure function of its layout and render options, so both can be
// cached by content hash. Three backends are provided:
//
//   - [FileCache]: local directory, used by the CLI
//   - [RedisCache]: shared cache for `justgrid serve` replicas
//   - [NullCache]: caching disabled
//
// Keys are derived by a [Keyer]; [Prefixed] namespaces them.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiration.
type Cache interface {
	// Get returns the value stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Default TTLs per entry kind.
const (
	TTLLayout   = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// NullCache stores nothing. It backs --no-cache and the "none" backend.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)       { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                    { return nil }
func (NullCache) Close() error                                            { return nil }
