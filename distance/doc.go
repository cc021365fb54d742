// Package distance provides the Minkowski family of vector distances.
//
// All functions operate on float64 slices and are backed by gonum's floats
// package. Inputs of different length are rejected with *ErrDimensionMismatch
// instead of panicking. Order 2 (Euclidean) is the one clustering uses; order
// +Inf yields the Chebyshev distance.
//
// # Usage
//
//	d, err := distance.Euclidean(a, b)
//	d, err := distance.Minkowski(a, b, 3)
package distance
