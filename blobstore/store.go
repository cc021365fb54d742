package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore is an abstraction for accessing immutable data blobs.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)
	// Create creates a blob for streaming writes. The blob becomes visible on Close.
	Create(ctx context.Context, name string) (WritableBlob, error)
	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the names of all blobs with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes at off. It returns io.EOF when fewer bytes remain.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)
	// ReadRange returns a reader for length bytes starting at off.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)
	io.Closer
	// Size returns the size of the blob in bytes.
	Size() int64
}

// WritableBlob is a blob being written.
type WritableBlob interface {
	io.WriteCloser
	// Sync flushes buffered data to durable storage where supported.
	Sync() error
}

// Abortable is implemented by WritableBlobs that can discard an unfinished
// write so that nothing becomes visible.
type Abortable interface {
	Abort() error
}

// Abort discards w if it is Abortable and closes it otherwise.
func Abort(w WritableBlob) error {
	if a, ok := w.(Abortable); ok {
		return a.Abort()
	}
	return w.Close()
}

// Mappable is an optional interface for Blobs that support memory mapping.
type Mappable interface {
	// Bytes returns the underlying byte slice.
	// The slice is valid until the Blob is closed.
	Bytes() ([]byte, error)
}

// ReadChunkSize is the range size ReadAll uses for blobs without Mappable.
const ReadChunkSize = 4 << 20

// ReadAll reads an entire blob into a fresh slice.
func ReadAll(ctx context.Context, store BlobStore, name string) ([]byte, error) {
	b, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	size := b.Size()
	if m, ok := b.(Mappable); ok {
		data, err := m.Bytes()
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), data...), nil
	}

	out := make([]byte, size)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for off := int64(0); off < size; off += ReadChunkSize {
		end := min(off+ReadChunkSize, size)
		g.Go(func() error {
			n, err := b.ReadAt(gctx, out[off:end], off)
			if err != nil && !(errors.Is(err, io.EOF) && int64(n) == end-off) {
				return fmt.Errorf("blobstore: read %s at %d: %w", name, off, err)
			}
			if int64(n) != end-off {
				return fmt.Errorf("blobstore: short read of %s at %d: %d of %d bytes", name, off, n, end-off)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// bytesBlob implements Blob over an in-memory slice.
type bytesBlob struct {
	data []byte
}

func (b *bytesBlob) ReadAt(_ context.Context, p []byte, off int64) (int, error) {
	return readAt(b.data, p, off)
}

func (b *bytesBlob) ReadRange(_ context.Context, off, length int64) (io.ReadCloser, error) {
	return readRange(b.data, off, length)
}

func (b *bytesBlob) Close() error { return nil }

func (b *bytesBlob) Size() int64 { return int64(len(b.data)) }

func (b *bytesBlob) Bytes() ([]byte, error) { return b.data, nil }

// NewBytesBlob wraps data as a Blob. data must not be modified afterwards.
func NewBytesBlob(data []byte) Blob {
	return &bytesBlob{data: data}
}

func readAt(data, p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("blobstore: negative offset %d", off)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if off >= int64(len(data)) {
		return 0, io.EOF
	}
	n := copy(p, data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func readRange(data []byte, off, length int64) (io.ReadCloser, error) {
	if off < 0 || length < 0 {
		return nil, fmt.Errorf("blobstore: invalid range [%d, +%d)", off, length)
	}
	if off >= int64(len(data)) {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	end := min(off+length, int64(len(data)))
	return io.NopCloser(bytes.NewReader(data[off:end])), nil
}
