package blobstore

import (
	"context"
	"strings"

	"github.com/hupe1980/kclust/internal/cache"
)

// DefaultCacheBytes is the cache capacity NewCachingStore uses when given 0.
const DefaultCacheBytes = 64 << 20

// CachingStore wraps a BlobStore and keeps recently read blobs in memory.
// Snapshots are immutable, so a cached copy stays valid until the blob is
// rewritten or deleted through this store.
type CachingStore struct {
	inner BlobStore
	cache *cache.LRUBlobCache
}

// NewCachingStore creates a new CachingStore holding up to capacity bytes.
func NewCachingStore(inner BlobStore, capacity int64) *CachingStore {
	if capacity <= 0 {
		capacity = DefaultCacheBytes
	}
	return &CachingStore{
		inner: inner,
		cache: cache.NewLRUBlobCache(capacity),
	}
}

// Open returns the cached blob or loads it from the inner store.
func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	if data, ok := s.cache.Get(ctx, name); ok {
		return &bytesBlob{data: data}, nil
	}
	data, err := ReadAll(ctx, s.inner, name)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, name, data)
	return &bytesBlob{data: data}, nil
}

// Create passes through to the inner store and drops any cached copy.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	s.invalidate(name)
	return s.inner.Create(ctx, name)
}

// Put writes through to the inner store.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete removes the blob from the inner store and the cache.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List is never cached.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns cache hit and miss counts.
func (s *CachingStore) Stats() (hits, misses int64) {
	return s.cache.Stats()
}

// Purge drops every cached blob whose name has the given prefix.
func (s *CachingStore) Purge(prefix string) {
	s.cache.Invalidate(func(name string) bool { return strings.HasPrefix(name, prefix) })
}

func (s *CachingStore) invalidate(name string) {
	s.cache.Invalidate(func(n string) bool { return n == name })
}
