// Package mmap provides read-only memory-mapped file access.
//
// LocalStore opens snapshot blobs through this package so that decoding reads
// straight from the page cache.
//
//	m, err := mmap.Open("snapshots/1700000000-....kcs")
//	if err != nil { ... }
//	defer m.Close()
//
//	m.Advise(mmap.AccessSequential)
//	data := m.Bytes()
//
// On Unix platforms mapping uses mmap(2) and madvise(2). Elsewhere the file is
// read into memory and Advise is a no-op.
//
// File is safe for concurrent reads. Close is idempotent; callers must not
// touch Bytes after Close returns.
package mmap
