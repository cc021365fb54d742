package snapshot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/google/uuid"
	"github.com/hupe1980/kclust"
	"github.com/hupe1980/kclust/cluster"
	"github.com/hupe1980/kclust/model"
)

// ErrInvalid is returned when a snapshot violates the partition invariant or
// is otherwise inconsistent.
var ErrInvalid = errors.New("snapshot: invalid")

// Example is the persisted form of a model.Example.
type Example struct {
	Name     string    `json:"name"`
	Features []float64 `json:"features"`
	Label    *string   `json:"label,omitempty"`
}

// Cluster is the persisted form of a cluster.Cluster.
type Cluster struct {
	Centroid    []float64
	Variability float64
	// Members holds the indices into Snapshot.Examples.
	Members *roaring.Bitmap
}

// Snapshot is a persisted clustering result.
type Snapshot struct {
	ID             string
	Created        time.Time
	K              int
	Seed           int64
	Dissimilarity  float64
	Dimensionality int
	Examples       []Example
	Clusters       []Cluster
}

// FromResult builds a snapshot of res over examples. Every example must be a
// member of exactly one cluster of res.
func FromResult(examples []*model.Example, res *kclust.Result) (*Snapshot, error) {
	if res == nil || len(res.Clusters) == 0 {
		return nil, fmt.Errorf("%w: empty result", ErrInvalid)
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("%w: no examples", ErrInvalid)
	}

	s := &Snapshot{
		ID:             uuid.NewString(),
		Created:        time.Now().UTC(),
		K:              res.K(),
		Seed:           res.Seed,
		Dissimilarity:  res.Dissimilarity,
		Dimensionality: examples[0].Dimensionality(),
		Examples:       make([]Example, len(examples)),
		Clusters:       make([]Cluster, len(res.Clusters)),
	}

	for i, e := range examples {
		rec := Example{Name: e.Name(), Features: e.Features()}
		if label, ok := e.Label(); ok {
			rec.Label = &label
		}
		s.Examples[i] = rec
	}

	for i, c := range res.Clusters {
		s.Clusters[i] = Cluster{
			Centroid:    c.Centroid().Features(),
			Variability: c.Variability(),
			Members:     roaring.New(),
		}
	}
	for i, idx := range res.Assignments(examples) {
		if idx < 0 {
			return nil, fmt.Errorf("%w: example %d (%s) is not part of the result", ErrInvalid, i, examples[i].Name())
		}
		s.Clusters[idx].Members.Add(uint32(i))
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks that the clusters partition the examples: every cluster is
// non-empty, no example is in two clusters and every example is in one.
func (s *Snapshot) Validate() error {
	if s.K < 1 || s.K != len(s.Clusters) {
		return fmt.Errorf("%w: k=%d but %d clusters", ErrInvalid, s.K, len(s.Clusters))
	}
	n := len(s.Examples)
	if n < s.K {
		return fmt.Errorf("%w: %d examples for k=%d", ErrInvalid, n, s.K)
	}
	for i, e := range s.Examples {
		if len(e.Features) != s.Dimensionality {
			return fmt.Errorf("%w: example %d has %d features, want %d", ErrInvalid, i, len(e.Features), s.Dimensionality)
		}
	}

	union := roaring.New()
	for i, c := range s.Clusters {
		if len(c.Centroid) != s.Dimensionality {
			return fmt.Errorf("%w: cluster %d centroid has %d features, want %d", ErrInvalid, i, len(c.Centroid), s.Dimensionality)
		}
		if c.Members == nil || c.Members.IsEmpty() {
			return fmt.Errorf("%w: cluster %d is empty", ErrInvalid, i)
		}
		if c.Members.Maximum() >= uint32(n) {
			return fmt.Errorf("%w: cluster %d references example %d of %d", ErrInvalid, i, c.Members.Maximum(), n)
		}
		if union.Intersects(c.Members) {
			overlap := roaring.And(union, c.Members)
			return fmt.Errorf("%w: cluster %d overlaps earlier clusters at example %d", ErrInvalid, i, overlap.Minimum())
		}
		union.Or(c.Members)
	}
	if union.GetCardinality() != uint64(n) {
		return fmt.Errorf("%w: clusters cover %d of %d examples", ErrInvalid, union.GetCardinality(), n)
	}
	return nil
}

// ToExamples rebuilds the examples in their original order.
func (s *Snapshot) ToExamples() ([]*model.Example, error) {
	out := make([]*model.Example, len(s.Examples))
	for i, rec := range s.Examples {
		var opts []model.ExampleOption
		if rec.Label != nil {
			opts = append(opts, model.WithLabel(*rec.Label))
		}
		e, err := model.NewExample(rec.Name, rec.Features, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		out[i] = e
	}
	return out, nil
}

// ToClusters rebuilds the clusters and the examples they are made of.
// Centroids are recomputed from the members.
func (s *Snapshot) ToClusters() ([]*cluster.Cluster, []*model.Example, error) {
	if err := s.Validate(); err != nil {
		return nil, nil, err
	}
	examples, err := s.ToExamples()
	if err != nil {
		return nil, nil, err
	}

	clusters := make([]*cluster.Cluster, len(s.Clusters))
	for i, c := range s.Clusters {
		members := make([]*model.Example, 0, c.Members.GetCardinality())
		it := c.Members.Iterator()
		for it.HasNext() {
			members = append(members, examples[it.Next()])
		}
		cl, err := cluster.New(members)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: cluster %d: %w", ErrInvalid, i, err)
		}
		clusters[i] = cl
	}
	return clusters, examples, nil
}

// Assignments returns the cluster index of every example.
func (s *Snapshot) Assignments() []int {
	out := make([]int, len(s.Examples))
	for i := range out {
		out[i] = -1
	}
	for ci, c := range s.Clusters {
		if c.Members == nil {
			continue
		}
		it := c.Members.Iterator()
		for it.HasNext() {
			if idx := int(it.Next()); idx < len(out) {
				out[idx] = ci
			}
		}
	}
	return out
}

// String renders the snapshot as a clustering report.
func (s *Snapshot) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Snapshot %s (%s, k=%d, seed=%d)\n", s.ID, s.Created.Format(time.RFC3339), s.K, s.Seed)

	clusters, _, err := s.ToClusters()
	if err != nil {
		fmt.Fprintf(&sb, "invalid snapshot: %v\n", err)
		return sb.String()
	}
	res := &kclust.Result{Clusters: clusters, Dissimilarity: s.Dissimilarity}
	sb.WriteString(res.String())
	return sb.String()
}
