package cache

import "context"

// BlobCache is a byte-oriented cache for immutable blobs.
// Returned slices must be treated as read-only.
type BlobCache interface {
	// Get returns a cached blob. ok=false if missing.
	Get(ctx context.Context, name string) (b []byte, ok bool)
	// Set caches a blob. The cache retains b; callers must not modify it.
	Set(ctx context.Context, name string, b []byte)
	// Invalidate removes entries matching the predicate.
	Invalidate(predicate func(name string) bool)
	// Stats returns cache statistics.
	Stats() (hits, misses int64)
}
