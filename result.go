package kclust

import (
	"fmt"
	"strings"

	"github.com/hupe1980/kclust/cluster"
	"github.com/hupe1980/kclust/internal/kmeans"
	"github.com/hupe1980/kclust/model"
)

// Result is the winning clustering of a Cluster call.
type Result struct {
	// Clusters holds exactly k non-empty clusters covering every input example once.
	Clusters []*cluster.Cluster

	// Dissimilarity is the sum of the clusters' variabilities.
	Dissimilarity float64

	// Best is the index of the trial that produced Clusters.
	Best int

	// Trials reports every trial slot in index order.
	Trials []TrialReport

	// Seed is the master seed, or 0 when the source was injected with WithRand.
	Seed int64
}

// K returns the number of clusters.
func (r *Result) K() int { return len(r.Clusters) }

// Assignments returns, for every example, the index of the cluster holding it,
// or -1 if the example is not part of the result. Examples are matched by identity.
func (r *Result) Assignments(examples []*model.Example) []int {
	index := make(map[*model.Example]int)
	for i, c := range r.Clusters {
		for e := range c.Members() {
			index[e] = i
		}
	}

	out := make([]int, len(examples))
	for i, e := range examples {
		idx, ok := index[e]
		if !ok {
			idx = -1
		}
		out[i] = idx
	}
	return out
}

// Predict returns the index of the cluster whose centroid is nearest to e.
func (r *Result) Predict(e *model.Example) (int, error) {
	idx, _, err := kmeans.Nearest(e, r.Clusters)
	if err != nil {
		return -1, translateError(err)
	}
	return idx, nil
}

// String renders a report of the clustering.
func (r *Result) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Final result has dissimilarity %.3f\n", r.Dissimilarity)
	for _, c := range r.Clusters {
		sb.WriteString(" ")
		sb.WriteString(c.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
