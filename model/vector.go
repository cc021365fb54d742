package model

import "slices"

// Vector is an ordered, fixed-length sequence of real numbers.
type Vector []float64

// Len returns the dimensionality of the vector.
func (v Vector) Len() int { return len(v) }

// At returns the i-th component.
func (v Vector) At(i int) float64 { return v[i] }

// Clone returns a copy of v.
func (v Vector) Clone() Vector { return slices.Clone(v) }
