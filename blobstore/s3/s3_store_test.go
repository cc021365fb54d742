package s3

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/hupe1980/kclust"
	"github.com/hupe1980/kclust/blobstore"
	"github.com/hupe1980/kclust/internal/compress"
	"github.com/hupe1980/kclust/snapshot"
	"github.com/hupe1980/kclust/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real bucket: S3_BUCKET=my-bucket go test ./blobstore/s3/
func TestIntegration_S3Store(t *testing.T) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		t.Skip("Skipping S3 integration test: S3_BUCKET not set")
	}

	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	require.NoError(t, err)

	prefix := fmt.Sprintf("test-kclust-%d", time.Now().UnixNano())
	store := NewStore(s3.NewFromConfig(cfg), bucket, prefix)

	t.Run("SnapshotRoundTrip", func(t *testing.T) {
		examples, _ := testutil.NewRNG(3).ClusteredExamples(3, 16, 2000, 1.0)
		res, err := kclust.Cluster(ctx, examples, 3, 4, kclust.WithSeed(3))
		require.NoError(t, err)

		snap, err := snapshot.FromResult(examples, res)
		require.NoError(t, err)

		// rate limiting forces the streaming upload path
		name, err := snapshot.NewWriter(
			snapshot.WithCompression(compress.LZ4),
			snapshot.WithIOLimit(64<<20),
		).Save(ctx, store, snap)
		require.NoError(t, err)

		names, err := snapshot.List(ctx, store)
		require.NoError(t, err)
		assert.Contains(t, names, name)

		got, err := snapshot.LoadLatest(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, snap.ID, got.ID)
		assert.Equal(t, snap.Assignments(), got.Assignments())

		require.NoError(t, store.Delete(ctx, name))
		require.NoError(t, store.Delete(ctx, snapshot.CurrentName))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := store.Open(ctx, "nonexistent")
		assert.ErrorIs(t, err, blobstore.ErrNotFound)
	})
}
