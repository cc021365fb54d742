package kclust

import (
	"math/rand"
)

const (
	// DefaultMaxRetries is the number of extra attempts a trial may spend on
	// empty-cluster failures before it gives up.
	DefaultMaxRetries = 100

	// DefaultMaxIterations bounds the assign/update steps of a single pass.
	DefaultMaxIterations = 1000

	unboundedRetries = -1
)

type options struct {
	seed             int64
	seeded           bool
	rand             *rand.Rand
	maxIterations    int
	maxRetries       int
	parallelism      int
	logger           *Logger
	metricsCollector MetricsCollector
	observer         func(Iteration)
}

func defaultOptions() options {
	return options{
		maxIterations:    DefaultMaxIterations,
		maxRetries:       DefaultMaxRetries,
		parallelism:      1,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
	}
}

// Option configures a Cluster call.
type Option func(*options)

// WithSeed seeds the master random source. Two calls with the same input,
// k, trial count and seed produce identical clusterings, regardless of
// parallelism.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithRand injects the master random source. It takes precedence over
// WithSeed. The source is only read from the calling goroutine.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rand = r
	}
}

// WithMaxIterations bounds the assign/update steps of each pass.
// 0 removes the bound.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxIterations = n
	}
}

// WithMaxRetries sets how many empty-cluster failures a trial may absorb
// before it is abandoned.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		if n < 0 {
			n = 0
		}
		o.maxRetries = n
	}
}

// WithUnboundedRetries lets every trial retry empty-cluster failures forever.
// Use only on data where some seed set is known to succeed.
func WithUnboundedRetries() Option {
	return func(o *options) {
		o.maxRetries = unboundedRetries
	}
}

// WithParallelism runs up to n trials concurrently. Values below 1 mean 1.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.parallelism = n
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithObserver registers a callback invoked after every assign/update step.
// With parallelism above 1 it is called from several goroutines.
func WithObserver(fn func(Iteration)) Option {
	return func(o *options) {
		o.observer = fn
	}
}
