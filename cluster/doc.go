// Package cluster implements a group of examples sharing a centroid.
//
// A Cluster always holds at least one member. Its centroid is a synthetic
// model.Example whose features are the per-dimension mean of the members.
// Update replaces the membership and reports how far the centroid moved,
// which is the convergence signal used by k-means.
package cluster
