package kclust

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
// Methods may be called concurrently when trials run in parallel.
type MetricsCollector interface {
	// RecordRun is called after each Cluster call.
	RecordRun(k, trials int, duration time.Duration, err error)

	// RecordTrial is called after each clustering attempt that did not end in
	// an empty cluster. iterations is 0 when err is non-nil.
	RecordTrial(iterations int, duration time.Duration, err error)

	// RecordRetry is called for every attempt discarded because of an empty cluster.
	RecordRetry()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRun(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordTrial(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordRetry()                             {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	RunCount        atomic.Int64
	RunErrors       atomic.Int64
	RunTotalNanos   atomic.Int64
	TrialCount      atomic.Int64
	TrialErrors     atomic.Int64
	TrialIterations atomic.Int64
	TrialTotalNanos atomic.Int64
	RetryCount      atomic.Int64
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(k, trials int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RecordTrial implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTrial(iterations int, duration time.Duration, err error) {
	b.TrialCount.Add(1)
	b.TrialIterations.Add(int64(iterations))
	b.TrialTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TrialErrors.Add(1)
	}
}

// RecordRetry implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRetry() {
	b.RetryCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RunCount:          b.RunCount.Load(),
		RunErrors:         b.RunErrors.Load(),
		RunAvgNanos:       avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
		TrialCount:        b.TrialCount.Load(),
		TrialErrors:       b.TrialErrors.Load(),
		TrialAvgIteration: avg(b.TrialIterations.Load(), b.TrialCount.Load()),
		TrialAvgNanos:     avg(b.TrialTotalNanos.Load(), b.TrialCount.Load()),
		RetryCount:        b.RetryCount.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RunCount          int64
	RunErrors         int64
	RunAvgNanos       int64
	TrialCount        int64
	TrialErrors       int64
	TrialAvgIteration int64
	TrialAvgNanos     int64
	RetryCount        int64
}
