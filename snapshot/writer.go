package snapshot

import (
	"context"
	"fmt"

	"github.com/hupe1980/kclust/blobstore"
	"github.com/hupe1980/kclust/codec"
	"github.com/hupe1980/kclust/internal/compress"
	"github.com/hupe1980/kclust/internal/resource"
)

const (
	// Prefix is the blob name prefix shared by all snapshots.
	Prefix = "snapshots/"
	// CurrentName is the blob holding the name of the latest snapshot.
	CurrentName = "CURRENT"

	extension = ".kcs"
)

// BlobName returns the blob name of s.
func BlobName(s *Snapshot) string {
	return fmt.Sprintf("%s%d-%s%s", Prefix, s.Created.UnixNano(), s.ID, extension)
}

// Option configures a Writer.
type Option func(*Writer)

// WithCodec sets the payload codec. Defaults to codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(w *Writer) {
		if c != nil {
			w.codec = c
		}
	}
}

// WithCompression sets the payload compression. Defaults to compress.None.
func WithCompression(t compress.Type) Option {
	return func(w *Writer) {
		w.compression = t
	}
}

// WithIOLimit throttles uploads to bytesPerSec. Zero disables throttling.
func WithIOLimit(bytesPerSec int64) Option {
	return func(w *Writer) {
		w.ioLimit = bytesPerSec
	}
}

// WithoutPointer skips updating CURRENT after a save.
func WithoutPointer() Option {
	return func(w *Writer) {
		w.skipPointer = true
	}
}

// Writer saves snapshots to a blobstore.
type Writer struct {
	codec       codec.Codec
	compression compress.Type
	ioLimit     int64
	skipPointer bool
}

// NewWriter creates a Writer.
func NewWriter(opts ...Option) *Writer {
	w := &Writer{
		codec:       codec.Default,
		compression: compress.None,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Save validates and writes s, then points CURRENT at it.
// It returns the blob name the snapshot was written to.
func (w *Writer) Save(ctx context.Context, store blobstore.BlobStore, s *Snapshot) (string, error) {
	if err := s.Validate(); err != nil {
		return "", err
	}
	data, err := Marshal(s, w.codec, w.compression)
	if err != nil {
		return "", err
	}

	name := BlobName(s)
	if w.ioLimit > 0 {
		err = w.upload(ctx, store, name, data)
	} else {
		err = store.Put(ctx, name, data)
	}
	if err != nil {
		return "", fmt.Errorf("snapshot: write %s: %w", name, err)
	}

	if !w.skipPointer {
		if err := store.Put(ctx, CurrentName, []byte(name)); err != nil {
			return "", fmt.Errorf("snapshot: update %s: %w", CurrentName, err)
		}
	}
	return name, nil
}

func (w *Writer) upload(ctx context.Context, store blobstore.BlobStore, name string, data []byte) error {
	blob, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: w.ioLimit})
	if _, err := resource.NewRateLimitedWriter(ctx, blob, rc).Write(data); err != nil {
		_ = blobstore.Abort(blob)
		return err
	}
	if err := blob.Sync(); err != nil {
		_ = blobstore.Abort(blob)
		return err
	}
	return blob.Close()
}
