package kclust

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/hupe1980/kclust/cluster"
	"github.com/hupe1980/kclust/internal/kmeans"
	"github.com/hupe1980/kclust/internal/resource"
	"github.com/hupe1980/kclust/model"
	"golang.org/x/sync/errgroup"
)

// Iteration describes one assign/update step of a clustering pass.
type Iteration struct {
	Trial     int
	Attempt   int
	Number    int
	MaxShift  float64
	Converged bool
	// Clusters are the live clusters of the pass; do not retain or modify them.
	Clusters []*cluster.Cluster
}

// TrialReport summarizes one trial slot.
type TrialReport struct {
	Index         int
	Attempts      int
	Iterations    int
	Dissimilarity float64
	Succeeded     bool
}

// Cluster partitions examples into k clusters with k-means, running
// numTrials independent random restarts and returning the clustering with
// the lowest dissimilarity.
//
// Attempts that leave a cluster empty are retried with fresh seeds inside the
// same trial and never surface as errors. A trial that exceeds its retry
// budget contributes nothing; if no trial succeeds ErrExhaustedRetries is
// returned.
func Cluster(ctx context.Context, examples []*model.Example, k, numTrials int, optFns ...Option) (*Result, error) {
	o := defaultOptions()
	for _, fn := range optFns {
		fn(&o)
	}

	start := time.Now()
	res, err := run(ctx, examples, k, numTrials, &o)
	elapsed := time.Since(start)

	o.metricsCollector.RecordRun(k, numTrials, elapsed, err)
	if res != nil {
		o.logger.WithK(k).LogRun(ctx, numTrials, res.Dissimilarity, elapsed, err)
	} else {
		o.logger.WithK(k).LogRun(ctx, numTrials, 0, elapsed, err)
	}
	return res, err
}

func run(ctx context.Context, examples []*model.Example, k, numTrials int, o *options) (*Result, error) {
	if numTrials < 1 {
		return nil, fmt.Errorf("%w: trial count must be positive, got %d", ErrInvalidArgument, numTrials)
	}
	if err := kmeans.Validate(examples, k); err != nil {
		return nil, translateError(err)
	}

	// Per-trial seeds are drawn up front so that results do not depend on
	// scheduling.
	seed := o.seed
	master := o.rand
	if master == nil {
		if !o.seeded {
			seed = time.Now().UnixNano()
		}
		master = rand.New(rand.NewSource(seed)) // nolint gosec
	} else {
		seed = 0
	}
	trialSeeds := make([]int64, numTrials)
	for i := range trialSeeds {
		trialSeeds[i] = master.Int63()
	}

	t := &trialRunner{
		examples: examples,
		k:        k,
		opts:     o,
		logger:   o.logger.WithK(k).WithDimension(examples[0].Dimensionality()),
		outcomes: make([]*kmeans.Outcome, numTrials),
		reports:  make([]TrialReport, numTrials),
	}

	rc := resource.NewController(resource.Config{MaxWorkers: int64(o.parallelism)})
	g, gctx := errgroup.WithContext(ctx)
	for i := range numTrials {
		if err := rc.AcquireWorker(gctx); err != nil {
			break
		}
		g.Go(func() error {
			defer rc.ReleaseWorker()
			return t.run(gctx, i, trialSeeds[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, translateError(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	best := -1
	for i, out := range t.outcomes {
		if out == nil {
			continue
		}
		if best < 0 || t.reports[i].Dissimilarity < t.reports[best].Dissimilarity {
			best = i
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("%w: none of %d trials produced a clustering", ErrExhaustedRetries, numTrials)
	}

	return &Result{
		Clusters:      t.outcomes[best].Clusters,
		Dissimilarity: t.reports[best].Dissimilarity,
		Best:          best,
		Trials:        t.reports,
		Seed:          seed,
	}, nil
}

type trialRunner struct {
	examples []*model.Example
	k        int
	opts     *options
	logger   *Logger

	// each trial writes only its own index
	outcomes []*kmeans.Outcome
	reports  []TrialReport
}

func (t *trialRunner) run(ctx context.Context, trial int, seed int64) error {
	rng := rand.New(rand.NewSource(seed)) // nolint gosec
	logger := t.logger.WithTrial(trial)
	report := TrialReport{Index: trial}

	for attempt := 1; t.opts.maxRetries == unboundedRetries || attempt <= t.opts.maxRetries+1; attempt++ {
		report.Attempts = attempt

		cfg := kmeans.Config{
			MaxIterations: t.opts.maxIterations,
			Observer: func(it kmeans.Iteration) {
				step := Iteration{
					Trial:     trial,
					Attempt:   attempt,
					Number:    it.Number,
					MaxShift:  it.MaxShift,
					Converged: it.State == kmeans.StateConverged,
					Clusters:  it.Clusters,
				}
				logger.LogIteration(ctx, step)
				if t.opts.observer != nil {
					t.opts.observer(step)
				}
			},
		}

		start := time.Now()
		out, err := kmeans.Run(ctx, t.examples, t.k, rng, cfg)
		if errors.Is(err, kmeans.ErrEmptyCluster) {
			t.opts.metricsCollector.RecordRetry()
			logger.LogRetry(ctx, attempt, err)
			continue
		}
		if err != nil {
			t.opts.metricsCollector.RecordTrial(0, time.Since(start), err)
			return fmt.Errorf("trial %d: %w", trial, err)
		}
		t.opts.metricsCollector.RecordTrial(out.Iterations, time.Since(start), nil)

		report.Iterations = out.Iterations
		report.Dissimilarity = cluster.Dissimilarity(out.Clusters)
		report.Succeeded = true
		t.outcomes[trial] = out
		t.reports[trial] = report
		logger.LogTrial(ctx, report)
		return nil
	}

	t.reports[trial] = report
	logger.LogTrial(ctx, report)
	return nil
}
