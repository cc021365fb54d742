package cluster

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"
	"strings"

	"github.com/hupe1980/kclust/distance"
	"github.com/hupe1980/kclust/model"
	"gonum.org/v1/gonum/floats"
)

// CentroidName is the name given to computed centroids.
const CentroidName = "centroid"

// ErrEmpty is returned when a cluster would have no members.
var ErrEmpty = errors.New("cluster has no members")

// Cluster is a non-empty set of examples and their centroid.
// It is not safe for concurrent mutation.
type Cluster struct {
	members  []*model.Example
	centroid *model.Example
}

// New creates a cluster from members and computes its centroid.
// The members slice is copied.
func New(members []*model.Example) (*Cluster, error) {
	c := &Cluster{members: slices.Clone(members)}
	centroid, err := c.ComputeCentroid()
	if err != nil {
		return nil, err
	}
	c.centroid = centroid
	return c, nil
}

// ComputeCentroid returns a new Example whose features are the mean of the
// current members' features.
func (c *Cluster) ComputeCentroid() (*model.Example, error) {
	return centroidOf(c.members)
}

func centroidOf(members []*model.Example) (*model.Example, error) {
	if len(members) == 0 {
		return nil, ErrEmpty
	}

	dim := members[0].Dimensionality()
	vals := make([]float64, dim)
	for _, e := range members {
		if e.Dimensionality() != dim {
			return nil, &distance.ErrDimensionMismatch{Expected: dim, Actual: e.Dimensionality()}
		}
		floats.Add(vals, e.Raw())
	}
	floats.Scale(1/float64(len(members)), vals)

	return model.NewExample(CentroidName, vals)
}

// Update replaces the membership, recomputes the centroid and returns the
// distance between the old and the new centroid. On error the cluster is
// left unchanged.
func (c *Cluster) Update(members []*model.Example) (float64, error) {
	centroid, err := centroidOf(members)
	if err != nil {
		return 0, err
	}
	shift, err := c.centroid.Distance(centroid)
	if err != nil {
		return 0, err
	}

	c.members = slices.Clone(members)
	c.centroid = centroid
	return shift, nil
}

// Centroid returns the current centroid.
func (c *Cluster) Centroid() *model.Example { return c.centroid }

// Len returns the number of members.
func (c *Cluster) Len() int { return len(c.members) }

// Members iterates over the cluster's examples.
func (c *Cluster) Members() iter.Seq[*model.Example] {
	return func(yield func(*model.Example) bool) {
		for _, e := range c.members {
			if !yield(e) {
				return
			}
		}
	}
}

// Examples returns a copy of the member list.
func (c *Cluster) Examples() []*model.Example {
	return slices.Clone(c.members)
}

// Variability returns the sum of squared distances from each member to the
// centroid.
func (c *Cluster) Variability() float64 {
	var total float64
	for _, e := range c.members {
		// Dimensions are validated when the centroid is computed.
		d, _ := distance.SquaredEuclidean(e.Raw(), c.centroid.Raw())
		total += d
	}
	return total
}

// String lists the centroid and the sorted member names.
func (c *Cluster) String() string {
	names := make([]string, 0, len(c.members))
	for _, e := range c.members {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	return fmt.Sprintf("Cluster with centroid %v contains:\n  %s",
		[]float64(c.centroid.Features()), strings.Join(names, ", "))
}

// Dissimilarity returns the sum of the clusters' variabilities.
func Dissimilarity(clusters []*Cluster) float64 {
	var total float64
	for _, c := range clusters {
		total += c.Variability()
	}
	return total
}
