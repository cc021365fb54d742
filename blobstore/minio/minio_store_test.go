package minio

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/hupe1980/kclust/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Keys(t *testing.T) {
	tests := []struct {
		root       string
		name       string
		key        string
		listPrefix string
	}{
		{"", "CURRENT", "CURRENT", "CURRENT"},
		{"kclust/", "snapshots/a.kcs", "kclust/snapshots/a.kcs", "kclust/snapshots/a.kcs"},
		{"/a/b/", "x", "a/b/x", "a/b/x"},
	}

	for _, tt := range tests {
		s := NewStore(nil, "bucket", tt.root)
		assert.Equal(t, tt.key, s.key(tt.name))
		assert.Equal(t, tt.listPrefix, s.listPrefix(tt.name))
		assert.Equal(t, tt.name, s.name(tt.key))
	}

	s := NewStore(nil, "bucket", "kclust")
	assert.Equal(t, "kclust/snapshots/", s.listPrefix("snapshots/"))
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("KCLUST_MINIO_ENDPOINT")
	if endpoint == "" {
		endpoint = "localhost:9000"
	}
	bucket := "test-kclust"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ping, pingCancel := context.WithTimeout(ctx, 2*time.Second)
	_, err = client.ListBuckets(ping)
	pingCancel()
	if err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.txt", data))

	got, err := blobstore.ReadAll(ctx, store, "test.txt")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	blob, err := store.Open(ctx, "test.txt")
	require.NoError(t, err)
	rc, err := blob.ReadRange(ctx, 6, 5)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "test.txt")

	require.NoError(t, store.Delete(ctx, "test.txt"))
	_, err = store.Open(ctx, "test.txt")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	wb, err := store.Create(ctx, "stream.txt")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())

	blob3, err := store.Open(ctx, "stream.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(13), blob3.Size())
	require.NoError(t, blob3.Close())

	_ = store.Delete(ctx, "stream.txt")
}
