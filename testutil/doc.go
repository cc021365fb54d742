// Package testutil provides testing utilities for kclust.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, goroutine-safe random source and generators for
// labeled example sets with known cluster structure.
//
// # Random Examples
//
//	rng := testutil.NewRNG(seed)
//	blob := rng.GaussianBlob("A", []float64{3, 5}, 1, 10)
//	all, centers := rng.ClusteredExamples(3, 2, 10, 0.2)
//
// # Fixtures
//
//	square := testutil.Square("A", []float64{3, 5}, 0.5) // 4 corner points
//
// # Ground Truth
//
//	idx := testutil.NearestCenter(example, centers)
package testutil
