// Package model defines the observation types clustered by kclust.
//
// # Types
//
//   - Vector: fixed-length feature vector ([]float64)
//   - Example: a named, optionally labeled Vector
//
// Examples are immutable. Features are copied on construction and every
// accessor that returns a slice returns a fresh copy, so callers cannot
// mutate centroid or member state through aliasing.
//
//	e, err := model.NewExample("A0", []float64{3.1, 4.9}, model.WithLabel("A"))
//	d, err := e.Distance(other)
package model
