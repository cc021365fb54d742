// Package cache provides a byte-bounded LRU cache for immutable blobs.
//
// blobstore.CachingStore uses it to keep recently loaded snapshots in memory.
// Entries are keyed by blob name and must be treated as read-only.
package cache
