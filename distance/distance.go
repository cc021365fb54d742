package distance

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidOrder is returned when a Minkowski order is below 1 or NaN.
var ErrInvalidOrder = errors.New("minkowski order must be >= 1")

// ErrDimensionMismatch indicates two vectors of different length.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

// Minkowski returns the Minkowski distance of order p between a and b:
// the p-th root of the sum of |a[i]-b[i]|^p. p may be +Inf (Chebyshev).
func Minkowski(a, b []float64, p float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}
	if math.IsNaN(p) || p < 1 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidOrder, p)
	}
	return floats.Distance(a, b, p), nil
}

// Euclidean returns the Minkowski distance of order 2.
func Euclidean(a, b []float64) (float64, error) {
	return Minkowski(a, b, 2)
}

// SquaredEuclidean returns the squared Euclidean distance.
// It skips the square root, so it is exact for integral inputs.
func SquaredEuclidean(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, &ErrDimensionMismatch{Expected: len(a), Actual: len(b)}
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum, nil
}
