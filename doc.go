// Package kclust clusters labeled feature vectors with k-means.
//
// kclust runs several independent k-means passes from random initial
// centroids (random restarts) and keeps the clustering with the lowest
// dissimilarity, the within-cluster sum of squared distances.
//
// # Quick Start
//
//	examples := []*model.Example{
//	    model.MustExample("A0", []float64{3.1, 4.8}),
//	    model.MustExample("B0", []float64{6.2, 6.1}),
//	    // ...
//	}
//	res, err := kclust.Cluster(ctx, examples, 2, 10, kclust.WithSeed(42))
//	if err != nil {
//	    return err
//	}
//	for _, c := range res.Clusters {
//	    fmt.Println(c.Centroid(), c.Variability())
//	}
//
// # Failure Handling
//
// A pass whose seeds leave a cluster without members is discarded and
// retried with new seeds. Each trial may absorb DefaultMaxRetries such
// failures (see WithMaxRetries and WithUnboundedRetries); when no trial
// succeeds, Cluster returns ErrExhaustedRetries. Passes are bounded by
// DefaultMaxIterations assign/update steps (see WithMaxIterations);
// exceeding the bound returns ErrNonConvergence.
//
// Argument errors match ErrInvalidArgument:
//
//	if errors.Is(err, kclust.ErrInvalidArgument) {
//	    var dm *distance.ErrDimensionMismatch
//	    if errors.As(err, &dm) {
//	        // dm.Expected, dm.Actual
//	    }
//	}
//
// # Determinism and Parallelism
//
// Every trial draws from its own random source, seeded from the master
// source before any trial starts. With WithSeed the result is therefore
// identical for any WithParallelism value.
//
// # Observability
//
// Use WithLogger for structured slog output (iterations are logged at debug
// level), WithMetricsCollector for counters, and WithObserver to follow each
// assign/update step.
//
// # Persistence
//
// The snapshot package stores results in any blobstore.BlobStore (memory,
// local filesystem, MinIO, S3, S3 with a DynamoDB commit pointer).
package kclust
