// Package cache stores compiled artifacts (PDF and PNG bytes) keyed by the
// document that produced them.
//
// Typesetting is slow, so the export pipeline consults a [Cache] before
// invoking the TeX engine. Keys come from [ArtifactKey], which hashes the
// document text together with every option that changes the output.
//
// # Backends
//
//   - [FileCache]: JSON entry files under a directory, for CLI usage
//   - [RedisCache]: shared cache for the HTTP shell and multi-user hosts
//   - [NullCache]: disables caching
//
// All backends treat corrupted or expired entries as misses.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the cached bytes and true on a hit. A miss is not an
	// error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) error
}

// ArtifactOpts are the options that influence a compiled artifact.
type ArtifactOpts struct {
	Engine string `json:"engine"`
	Format string `json:"format"` // "pdf" or "png"
	DPI    int    `json:"dpi,omitempty"`
}

// ArtifactKey returns the cache key for the artifact compiled from doc
// with opts.
func ArtifactKey(doc string, opts ArtifactOpts) string {
	return hashKey("artifact", Hash([]byte(doc)), opts)
}
