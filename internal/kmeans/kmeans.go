package kmeans

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/kclust/cluster"
	"github.com/hupe1980/kclust/distance"
	"github.com/hupe1980/kclust/model"
)

var (
	// ErrInvalidK is returned when k is outside [1, len(examples)].
	ErrInvalidK = errors.New("k must be between 1 and the number of examples")

	// ErrEmptyCluster is returned when an assignment pass leaves a cluster empty.
	ErrEmptyCluster = errors.New("empty cluster")

	// ErrNonConvergence is returned when the iteration bound is reached
	// before the centroids settle.
	ErrNonConvergence = errors.New("k-means did not converge")
)

// Rand is the random source used to pick initial centroids.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// State is the phase of a clustering pass.
type State int

const (
	StateInitializing State = iota
	StateAssigning
	StateUpdating
	StateConverged
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateAssigning:
		return "assigning"
	case StateUpdating:
		return "updating"
	case StateConverged:
		return "converged"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Iteration describes a completed assign/update step.
type Iteration struct {
	Number   int
	State    State
	MaxShift float64
	Clusters []*cluster.Cluster
}

// Observer is called after every update step.
type Observer func(Iteration)

// Config controls a pass.
type Config struct {
	// MaxIterations bounds the number of assign/update steps.
	// 0 means unbounded.
	MaxIterations int

	// Observer, if set, receives every iteration.
	Observer Observer
}

// Outcome is the result of a converged pass.
type Outcome struct {
	Clusters   []*cluster.Cluster
	Iterations int
}

// Validate checks k against the example set and that all examples share
// the dimensionality of the first one.
func Validate(examples []*model.Example, k int) error {
	if k < 1 || k > len(examples) {
		return fmt.Errorf("%w: k=%d, examples=%d", ErrInvalidK, k, len(examples))
	}
	dim := examples[0].Dimensionality()
	for i, e := range examples {
		if e.Dimensionality() != dim {
			return fmt.Errorf("example %d (%s): %w", i, e.Name(),
				&distance.ErrDimensionMismatch{Expected: dim, Actual: e.Dimensionality()})
		}
	}
	return nil
}

// Run performs one k-means pass over examples.
func Run(ctx context.Context, examples []*model.Example, k int, rng Rand, cfg Config) (*Outcome, error) {
	p := &pass{examples: examples, k: k, cfg: cfg, state: StateInitializing}
	return p.run(ctx, rng)
}

type pass struct {
	examples []*model.Example
	k        int
	cfg      Config

	state      State
	clusters   []*cluster.Cluster
	iterations int
}

func (p *pass) fail(err error) (*Outcome, error) {
	p.state = StateFailed
	return nil, err
}

func (p *pass) run(ctx context.Context, rng Rand) (*Outcome, error) {
	if err := Validate(p.examples, p.k); err != nil {
		return p.fail(err)
	}

	// Initializing: one singleton cluster per sampled seed.
	p.clusters = make([]*cluster.Cluster, p.k)
	for i, idx := range Sample(rng, len(p.examples), p.k) {
		c, err := cluster.New([]*model.Example{p.examples[idx]})
		if err != nil {
			return p.fail(err)
		}
		p.clusters[i] = c
	}

	for {
		if err := ctx.Err(); err != nil {
			return p.fail(err)
		}

		p.state = StateAssigning
		groups, err := Assign(p.examples, p.clusters)
		if err != nil {
			return p.fail(err)
		}
		for i, g := range groups {
			if len(g) == 0 {
				return p.fail(fmt.Errorf("%w: cluster %d after iteration %d", ErrEmptyCluster, i, p.iterations))
			}
		}

		p.state = StateUpdating
		p.iterations++
		maxShift := 0.0
		for i, c := range p.clusters {
			shift, err := c.Update(groups[i])
			if err != nil {
				return p.fail(err)
			}
			if shift > maxShift {
				maxShift = shift
			}
		}

		if maxShift == 0.0 {
			p.state = StateConverged
		}
		if p.cfg.Observer != nil {
			p.cfg.Observer(Iteration{Number: p.iterations, State: p.state, MaxShift: maxShift, Clusters: p.clusters})
		}
		if p.state == StateConverged {
			return &Outcome{Clusters: p.clusters, Iterations: p.iterations}, nil
		}

		if p.cfg.MaxIterations > 0 && p.iterations >= p.cfg.MaxIterations {
			return p.fail(fmt.Errorf("%w after %d iterations (last shift %g)", ErrNonConvergence, p.iterations, maxShift))
		}
	}
}

// Sample returns k distinct indices in [0, n) chosen uniformly without
// replacement (partial Fisher-Yates).
func Sample(rng Rand, n, k int) []int {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm[:k]
}

// Assign groups every example with its nearest cluster.
// The returned slice has one (possibly empty) group per cluster.
func Assign(examples []*model.Example, clusters []*cluster.Cluster) ([][]*model.Example, error) {
	groups := make([][]*model.Example, len(clusters))
	for _, e := range examples {
		idx, _, err := Nearest(e, clusters)
		if err != nil {
			return nil, err
		}
		groups[idx] = append(groups[idx], e)
	}
	return groups, nil
}

// Nearest returns the index of the cluster whose centroid is closest to e
// and the distance to it. Only a strictly smaller distance replaces the
// current best, so ties go to the lowest index.
func Nearest(e *model.Example, clusters []*cluster.Cluster) (int, float64, error) {
	if len(clusters) == 0 {
		return -1, 0, cluster.ErrEmpty
	}

	best := 0
	minDist, err := e.Distance(clusters[0].Centroid())
	if err != nil {
		return -1, 0, err
	}
	for i := 1; i < len(clusters); i++ {
		d, err := e.Distance(clusters[i].Centroid())
		if err != nil {
			return -1, 0, err
		}
		if d < minDist {
			minDist = d
			best = i
		}
	}
	return best, minDist, nil
}
