package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLRUBlobCache(t *testing.T) {
	ctx := context.Background()
	c := NewLRUBlobCache(10)

	c.Set(ctx, "a", []byte("1234"))
	c.Set(ctx, "b", []byte("5678"))

	v, ok := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1234"), v)
	assert.Equal(t, int64(8), c.Size())

	// "b" is least recently used and must go
	c.Set(ctx, "c", []byte("90"+"12"))
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRUBlobCache_Update(t *testing.T) {
	ctx := context.Background()
	c := NewLRUBlobCache(10)

	c.Set(ctx, "a", []byte("12"))
	c.Set(ctx, "b", []byte("34"))
	c.Set(ctx, "a", []byte("123456789"))

	assert.LessOrEqual(t, c.Size(), int64(10))
	v, ok := c.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, "123456789", string(v))
	_, ok = c.Get(ctx, "b")
	assert.False(t, ok)
}

func TestLRUBlobCache_Oversized(t *testing.T) {
	ctx := context.Background()
	c := NewLRUBlobCache(4)

	c.Set(ctx, "a", []byte("12"))
	c.Set(ctx, "a", []byte("12345"))

	_, ok := c.Get(ctx, "a")
	assert.False(t, ok)
	assert.Zero(t, c.Size())
}

func TestLRUBlobCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	c := NewLRUBlobCache(100)

	c.Set(ctx, "snapshots/1", []byte("x"))
	c.Set(ctx, "snapshots/2", []byte("y"))
	c.Set(ctx, "CURRENT", []byte("z"))

	c.Invalidate(func(name string) bool { return strings.HasPrefix(name, "snapshots/") })

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(1), c.Size())
	_, ok := c.Get(ctx, "CURRENT")
	assert.True(t, ok)
}
