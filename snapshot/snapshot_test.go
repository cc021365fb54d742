package snapshot

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/kclust"
	"github.com/hupe1980/kclust/blobstore"
	"github.com/hupe1980/kclust/codec"
	"github.com/hupe1980/kclust/internal/compress"
	"github.com/hupe1980/kclust/model"
	"github.com/hupe1980/kclust/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clustered(t *testing.T) ([]*model.Example, *kclust.Result) {
	t.Helper()

	examples := append(testutil.Square("A", []float64{0, 0}, 0.5), testutil.Square("B", []float64{10, 10}, 0.5)...)
	examples = append(examples, model.MustExample("unlabeled", []float64{0.1, 0.2}))

	res, err := kclust.Cluster(context.Background(), examples, 2, 10,
		kclust.WithSeed(7),
		kclust.WithLogger(kclust.NoopLogger()),
	)
	require.NoError(t, err)
	return examples, res
}

func TestFromResult(t *testing.T) {
	examples, res := clustered(t)

	s, err := FromResult(examples, res)
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, 2, s.K)
	assert.Equal(t, int64(7), s.Seed)
	assert.Equal(t, 2, s.Dimensionality)
	assert.InDelta(t, res.Dissimilarity, s.Dissimilarity, 1e-12)
	require.Len(t, s.Examples, len(examples))
	assert.Nil(t, s.Examples[len(examples)-1].Label)
	require.NotNil(t, s.Examples[0].Label)

	assert.Equal(t, res.Assignments(examples), s.Assignments())

	var total uint64
	for _, c := range s.Clusters {
		total += c.Members.GetCardinality()
	}
	assert.Equal(t, uint64(len(examples)), total)

	t.Run("ForeignExample", func(t *testing.T) {
		foreign := append([]*model.Example{model.MustExample("x", []float64{1, 1})}, examples...)
		_, err := FromResult(foreign, res)
		assert.ErrorIs(t, err, ErrInvalid)
	})

	t.Run("EmptyResult", func(t *testing.T) {
		_, err := FromResult(examples, &kclust.Result{})
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestValidate(t *testing.T) {
	base := func() *Snapshot {
		return &Snapshot{
			K:              2,
			Dimensionality: 1,
			Examples: []Example{
				{Name: "a", Features: []float64{0}},
				{Name: "b", Features: []float64{1}},
				{Name: "c", Features: []float64{9}},
			},
			Clusters: []Cluster{
				{Centroid: []float64{0.5}, Members: roaring.BitmapOf(0, 1)},
				{Centroid: []float64{9}, Members: roaring.BitmapOf(2)},
			},
		}
	}

	require.NoError(t, base().Validate())

	tests := []struct {
		name   string
		mutate func(s *Snapshot)
	}{
		{"KMismatch", func(s *Snapshot) { s.K = 3 }},
		{"Overlap", func(s *Snapshot) { s.Clusters[1].Members = roaring.BitmapOf(1, 2) }},
		{"Uncovered", func(s *Snapshot) { s.Clusters[0].Members = roaring.BitmapOf(0) }},
		{"EmptyCluster", func(s *Snapshot) { s.Clusters[1].Members = roaring.New() }},
		{"NilMembers", func(s *Snapshot) { s.Clusters[1].Members = nil }},
		{"OutOfRange", func(s *Snapshot) { s.Clusters[1].Members = roaring.BitmapOf(2, 3) }},
		{"FeatureDimension", func(s *Snapshot) { s.Examples[2].Features = []float64{9, 9} }},
		{"CentroidDimension", func(s *Snapshot) { s.Clusters[0].Centroid = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := base()
			tt.mutate(s)
			assert.ErrorIs(t, s.Validate(), ErrInvalid)
		})
	}
}

func TestMarshal_RoundTrip(t *testing.T) {
	examples, res := clustered(t)
	s, err := FromResult(examples, res)
	require.NoError(t, err)

	for _, name := range codec.Names() {
		c, ok := codec.ByName(name)
		require.True(t, ok)

		for _, ct := range []compress.Type{compress.None, compress.LZ4, compress.ZSTD} {
			t.Run(name+"/"+ct.String(), func(t *testing.T) {
				data, err := Marshal(s, c, ct)
				require.NoError(t, err)
				assert.Equal(t, "KCS1", string(data[:4]))

				got, err := Unmarshal(data)
				require.NoError(t, err)

				assert.Equal(t, s.ID, got.ID)
				assert.True(t, s.Created.Equal(got.Created))
				assert.Equal(t, s.Examples, got.Examples)
				assert.Equal(t, s.Assignments(), got.Assignments())
				for i := range s.Clusters {
					assert.Equal(t, s.Clusters[i].Centroid, got.Clusters[i].Centroid)
					assert.True(t, s.Clusters[i].Members.Equals(got.Clusters[i].Members))
				}
			})
		}
	}
}

func TestUnmarshal_Corrupt(t *testing.T) {
	examples, res := clustered(t)
	s, err := FromResult(examples, res)
	require.NoError(t, err)
	data, err := Marshal(s, codec.JSON{}, compress.None)
	require.NoError(t, err)

	t.Run("Truncated", func(t *testing.T) {
		_, err := Unmarshal(data[:5])
		assert.ErrorIs(t, err, ErrCorrupt)

		_, err = Unmarshal(data[:len(data)-1])
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("BadMagic", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[0] = 'X'
		_, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("Checksum", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[len(bad)-2] ^= 0xff
		_, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrCorrupt)
	})

	t.Run("FutureVersion", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		bad[4] = 9
		_, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrUnsupportedVersion)
	})

	t.Run("UnknownCodec", func(t *testing.T) {
		bad := append([]byte(nil), data...)
		// "json" -> "josn"
		bad[fixedHeaderSize+1], bad[fixedHeaderSize+2] = 'o', 's'
		_, err := Unmarshal(bad)
		assert.ErrorIs(t, err, ErrUnknownCodec)
	})
}

func TestToClusters(t *testing.T) {
	examples, res := clustered(t)
	s, err := FromResult(examples, res)
	require.NoError(t, err)

	clusters, rebuilt, err := s.ToClusters()
	require.NoError(t, err)
	require.Len(t, clusters, res.K())
	require.Len(t, rebuilt, len(examples))

	for i, e := range rebuilt {
		assert.Equal(t, examples[i].Name(), e.Name())
		assert.Equal(t, examples[i].Features(), e.Features())
	}
	for i, c := range clusters {
		assert.Equal(t, res.Clusters[i].Len(), c.Len())
		assert.InDeltaSlice(t, res.Clusters[i].Centroid().Features(), c.Centroid().Features(), 1e-12)
	}

	restored := &kclust.Result{Clusters: clusters, Dissimilarity: s.Dissimilarity}
	assert.Equal(t, res.Assignments(examples), restored.Assignments(rebuilt))
	assert.Contains(t, s.String(), "Final result has dissimilarity")
}

func TestWriter_Save(t *testing.T) {
	ctx := context.Background()
	examples, res := clustered(t)

	stores := map[string]blobstore.BlobStore{
		"Memory": blobstore.NewMemoryStore(),
		"Local":  blobstore.NewLocalStore(filepath.Join(t.TempDir(), "store")),
	}
	writers := map[string]*Writer{
		"Default":   NewWriter(),
		"ZSTD":      NewWriter(WithCompression(compress.ZSTD), WithCodec(codec.JSON{})),
		"RateLimit": NewWriter(WithCompression(compress.LZ4), WithIOLimit(1<<20)),
	}

	for storeName, store := range stores {
		for writerName, w := range writers {
			t.Run(storeName+"/"+writerName, func(t *testing.T) {
				s, err := FromResult(examples, res)
				require.NoError(t, err)

				name, err := w.Save(ctx, store, s)
				require.NoError(t, err)
				assert.Equal(t, BlobName(s), name)
				assert.Regexp(t, `^snapshots/\d+-[0-9a-f-]{36}\.kcs$`, name)

				latest, err := LoadLatest(ctx, store)
				require.NoError(t, err)
				assert.Equal(t, s.ID, latest.ID)

				loaded, err := Load(ctx, store, name)
				require.NoError(t, err)
				assert.Equal(t, s.Assignments(), loaded.Assignments())
			})
		}
	}

	t.Run("RejectsInvalid", func(t *testing.T) {
		_, err := NewWriter().Save(ctx, blobstore.NewMemoryStore(), &Snapshot{})
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestLatest(t *testing.T) {
	ctx := context.Background()
	examples, res := clustered(t)

	t.Run("Empty", func(t *testing.T) {
		_, err := LoadLatest(ctx, blobstore.NewMemoryStore())
		assert.ErrorIs(t, err, ErrNoSnapshot)
	})

	t.Run("FallsBackToNewestName", func(t *testing.T) {
		store := blobstore.NewMemoryStore()
		w := NewWriter(WithoutPointer())

		var last *Snapshot
		for i := range 3 {
			s, err := FromResult(examples, res)
			require.NoError(t, err)
			s.Created = time.Unix(1_700_000_000+int64(i), 0).UTC()
			_, err = w.Save(ctx, store, s)
			require.NoError(t, err)
			last = s
		}

		_, err := store.Open(ctx, CurrentName)
		require.ErrorIs(t, err, blobstore.ErrNotFound)

		got, err := LoadLatest(ctx, store)
		require.NoError(t, err)
		assert.Equal(t, last.ID, got.ID)
	})
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	examples, res := clustered(t)
	store := blobstore.NewMemoryStore()
	w := NewWriter()

	var names []string
	for i := range 4 {
		s, err := FromResult(examples, res)
		require.NoError(t, err)
		s.Created = time.Unix(1_700_000_000+int64(i), 0).UTC()
		name, err := w.Save(ctx, store, s)
		require.NoError(t, err)
		names = append(names, name)
	}

	// point CURRENT at the oldest so it must survive
	require.NoError(t, store.Put(ctx, CurrentName, []byte(names[0])))

	deleted, err := Prune(ctx, store, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{names[1]}, deleted)

	remaining, err := List(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{names[0], names[2], names[3]}, remaining)

	_, err = Prune(ctx, store, 0)
	assert.Error(t, err)
}
