// Package blobstore provides the storage abstraction for clustering snapshots.
//
// BlobStore is the interface for reading and writing immutable blobs.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and one-shot CLI runs
//   - LocalStore: local filesystem with mmap reads and atomic renames
//   - CachingStore: whole-blob LRU cache in front of any other store
//   - minio.Store: MinIO and other S3-compatible endpoints
//   - s3.Store / s3.DDBCommitStore: Amazon S3, optionally with a DynamoDB
//     commit log for the CURRENT pointer
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)            // Open for reading
//	    Create(ctx, name) (WritableBlob, error)  // Create for streaming writes
//	    Put(ctx, name, data) error               // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// ReadAll loads an entire blob, using the Mappable fast path when available
// and parallel ranged reads otherwise.
package blobstore
