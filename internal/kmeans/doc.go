// Package kmeans implements a single k-means clustering pass.
//
// A pass seeds k singleton clusters from randomly sampled examples, then
// alternates assignment and centroid updates until no centroid moves.
// A pass fails with ErrEmptyCluster when an assignment leaves a cluster
// without members; callers are expected to retry with fresh seeds.
package kmeans
