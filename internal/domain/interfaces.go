package domain

import (
	"context"
	"time"
)

// Fetcher retrieves raw bytes for a remote address. Timeouts and
// retries are the fetcher's own concern; callers treat a started fetch
// as run-to-completion.
type Fetcher interface {
	// Fetch retrieves the content at url
	Fetch(ctx context.Context, url string) ([]byte, error)
	// Close releases resources
	Close() error
}

// Archiver packages a docset directory into a compressed bundle and
// unpacks bundles back into place.
type Archiver interface {
	// Compress packages sourceDir into an archive
	Compress(sourceDir string) ([]byte, error)
	// Extract unpacks the archive into targetDir. Extraction is atomic
	// with respect to targetDir: existing contents are replaced only on
	// success.
	Extract(archive []byte, targetDir string) error
}

// RemoteSync mirrors a local directory to a remote object store,
// deletion-aware. DryRun performs no remote writes.
type RemoteSync interface {
	Sync(ctx context.Context, localDir, remote string, dryRun bool) error
}

// Cache defines the interface for content caching
type Cache interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores a value in cache with TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Has checks if a key exists in cache
	Has(ctx context.Context, key string) bool
	// Delete removes a key from cache
	Delete(ctx context.Context, key string) error
	// Close releases cache resources
	Close() error
}
