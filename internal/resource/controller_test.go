package resource

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})

	require.NoError(t, c.AcquireWorker(t.Context()))
	require.NoError(t, c.AcquireWorker(t.Context()))

	// both slots held
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireWorker(ctx), context.DeadlineExceeded)

	c.ReleaseWorker()
	require.NoError(t, c.AcquireWorker(t.Context()))
}

func TestController_DefaultWorkers(t *testing.T) {
	c := NewController(Config{})
	require.NoError(t, c.AcquireWorker(t.Context()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, c.AcquireWorker(ctx), context.Canceled)
}

func TestController_IO(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1000})
	assert.Equal(t, 1000, c.IOBurst())

	// the bucket starts full
	require.NoError(t, c.AcquireIO(t.Context(), 1000))

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()
	assert.Error(t, c.AcquireIO(ctx, 1000))
}

func TestController_UnlimitedIO(t *testing.T) {
	c := NewController(Config{})
	assert.Zero(t, c.IOBurst())
	require.NoError(t, c.AcquireIO(t.Context(), 1<<30))
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	require.NoError(t, c.AcquireWorker(t.Context()))
	c.ReleaseWorker()
	assert.Zero(t, c.IOBurst())
	require.NoError(t, c.AcquireIO(t.Context(), 10))
}

func TestRateLimitedWriter(t *testing.T) {
	t.Run("Chunks", func(t *testing.T) {
		c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
		var buf bytes.Buffer
		w := NewRateLimitedWriter(t.Context(), &buf, c)

		data := bytes.Repeat([]byte{0xAB}, 1<<19)
		n, err := w.Write(data)
		require.NoError(t, err)
		assert.Equal(t, len(data), n)
		assert.Equal(t, data, buf.Bytes())
	})

	t.Run("Unlimited", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewRateLimitedWriter(t.Context(), &buf, nil)
		n, err := w.Write([]byte("hello"))
		require.NoError(t, err)
		assert.Equal(t, 5, n)
	})

	t.Run("Canceled", func(t *testing.T) {
		c := NewController(Config{IOLimitBytesPerSec: 10})
		require.NoError(t, c.AcquireIO(t.Context(), 10)) // drain the bucket

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		var buf bytes.Buffer
		w := NewRateLimitedWriter(ctx, &buf, c)
		_, err := w.Write([]byte("0123456789"))
		assert.Error(t, err)
		assert.Zero(t, buf.Len())
	})
}
