package cache

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

// LRUBlobCache implements a simple LRU BlobCache bounded by total bytes.
type LRUBlobCache struct {
	mu        sync.Mutex
	capacity  int64
	size      int64
	items     map[string]*list.Element
	evictList *list.List

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	name  string
	value []byte
}

// NewLRUBlobCache creates a new LRU cache with the given capacity in bytes.
func NewLRUBlobCache(capacity int64) *LRUBlobCache {
	return &LRUBlobCache{
		capacity:  capacity,
		items:     make(map[string]*list.Element),
		evictList: list.New(),
	}
}

// Get returns a cached blob.
func (c *LRUBlobCache) Get(_ context.Context, name string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.items[name]; ok {
		c.hits.Add(1)
		c.evictList.MoveToFront(ent)
		return ent.Value.(*entry).value, true
	}
	c.misses.Add(1)
	return nil, false
}

// Set caches a blob. Blobs larger than the capacity are not cached.
func (c *LRUBlobCache) Set(_ context.Context, name string, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	itemSize := int64(len(b))
	if itemSize > c.capacity {
		if ent, ok := c.items[name]; ok {
			c.removeElement(ent)
		}
		return
	}

	if ent, ok := c.items[name]; ok {
		c.evictList.MoveToFront(ent)
		c.size += itemSize - int64(len(ent.Value.(*entry).value))
		ent.Value.(*entry).value = b
		c.evict()
		return
	}

	for c.size+itemSize > c.capacity {
		ent := c.evictList.Back()
		if ent == nil {
			break
		}
		c.removeElement(ent)
	}

	element := c.evictList.PushFront(&entry{name, b})
	c.items[name] = element
	c.size += itemSize
}

// Invalidate removes entries matching the predicate.
func (c *LRUBlobCache) Invalidate(predicate func(name string) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var toRemove []*list.Element
	for name, element := range c.items {
		if predicate(name) {
			toRemove = append(toRemove, element)
		}
	}
	for _, e := range toRemove {
		c.removeElement(e)
	}
}

func (c *LRUBlobCache) evict() {
	for c.size > c.capacity {
		element := c.evictList.Back()
		if element == nil {
			return
		}
		c.removeElement(element)
	}
}

// Stats returns hit and miss counts.
func (c *LRUBlobCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *LRUBlobCache) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	kv := e.Value.(*entry)
	delete(c.items, kv.name)
	c.size -= int64(len(kv.value))
}

// Size returns the current size of the cache in bytes.
func (c *LRUBlobCache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Len returns the number of cached blobs.
func (c *LRUBlobCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}
