// Package resource governs worker concurrency and IO throughput.
//
// A Controller combines two limits:
//
//   - Workers: a weighted semaphore bounding concurrently running trials
//   - IO: a token bucket throttling snapshot writes (bytes per second)
//
// Limit workers:
//
//	rc := resource.NewController(resource.Config{MaxWorkers: 4})
//	if err := rc.AcquireWorker(ctx); err != nil {
//	    return err
//	}
//	defer rc.ReleaseWorker()
//
// Throttle a writer:
//
//	rc := resource.NewController(resource.Config{IOLimitBytesPerSec: 1 << 20})
//	w := resource.NewRateLimitedWriter(ctx, dst, rc)
//
// All methods handle a nil Controller gracefully; they become no-ops.
package resource
