// Package snapshot persists clustering results to a blobstore.
//
// A snapshot holds the clustered examples, the cluster centroids and each
// cluster's membership as a roaring bitmap of example indices. Snapshots are
// written as immutable blobs named
//
//	snapshots/<created-unix-nanos>-<uuid>.kcs
//
// and the CURRENT blob names the most recent one.
//
// # Blob Layout
//
//	magic "KCS1" | version u16 | compression u8 | codec-name length u8 | codec name |
//	payload length u32 | CRC32-C u32 | payload
//
// All integers are little-endian. The payload is the codec-encoded snapshot,
// block-compressed; the checksum covers the stored (compressed) payload.
//
// # Usage
//
//	snap, err := snapshot.FromResult(examples, res)
//	name, err := snapshot.NewWriter(snapshot.WithCompression(compress.ZSTD)).Save(ctx, store, snap)
//
//	latest, err := snapshot.LoadLatest(ctx, store)
//	clusters, examples, err := latest.ToClusters()
package snapshot
