package kclust

import (
	"errors"
	"fmt"

	"github.com/hupe1980/kclust/cluster"
	"github.com/hupe1980/kclust/distance"
	"github.com/hupe1980/kclust/internal/kmeans"
	"github.com/hupe1980/kclust/model"
)

var (
	// ErrInvalidArgument is returned for mismatched dimensionality, k outside
	// [1, len(examples)], a non-positive trial count or malformed examples.
	//
	// The underlying error is preserved; *distance.ErrDimensionMismatch can be
	// extracted with errors.As.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidState indicates a broken internal invariant, such as a
	// centroid computed over an empty cluster.
	ErrInvalidState = errors.New("invalid state")

	// ErrNonConvergence is returned when a clustering pass reaches the
	// configured iteration bound without settling.
	ErrNonConvergence = errors.New("non-convergence")

	// ErrExhaustedRetries is returned when no trial produced a clustering
	// within its retry budget.
	ErrExhaustedRetries = errors.New("exhausted retries")
)

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Already translated.
	for _, kind := range []error{ErrInvalidArgument, ErrInvalidState, ErrNonConvergence, ErrExhaustedRetries} {
		if errors.Is(err, kind) {
			return err
		}
	}

	var dm *distance.ErrDimensionMismatch
	if errors.As(err, &dm) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if errors.Is(err, kmeans.ErrInvalidK) ||
		errors.Is(err, distance.ErrInvalidOrder) ||
		errors.Is(err, model.ErrEmptyFeatures) ||
		errors.Is(err, model.ErrNonFinite) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	if errors.Is(err, cluster.ErrEmpty) {
		return fmt.Errorf("%w: %w", ErrInvalidState, err)
	}
	if errors.Is(err, kmeans.ErrNonConvergence) {
		return fmt.Errorf("%w: %w", ErrNonConvergence, err)
	}

	return err
}
