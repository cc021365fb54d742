package testutil

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/hupe1980/kclust/model"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Int63 returns a non-negative pseudo-random 63-bit integer.
func (r *RNG) Int63() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Int63()
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// NormFloat64 returns a standard normally distributed number.
func (r *RNG) NormFloat64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.NormFloat64()
}

// UniformVectors generates random vectors with values in range [0, 1).
// Uses a single backing array for efficiency.
func (r *RNG) UniformVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.Float64()
		}
		vectors[i] = vec
	}

	return vectors
}

// GaussianVectors generates random vectors from a standard normal distribution.
func (r *RNG) GaussianVectors(num int, dimensions int) [][]float64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, num*dimensions)
	vectors := make([][]float64, num)

	for i := range num {
		vec := data[i*dimensions : (i+1)*dimensions]
		for j := range vec {
			vec[j] = r.rand.NormFloat64()
		}
		vectors[i] = vec
	}

	return vectors
}

// GaussianBlob generates n examples named prefix0..prefix{n-1}, labeled
// prefix, with every coordinate drawn from N(center[d], sd).
func (r *RNG) GaussianBlob(prefix string, center []float64, sd float64, n int) []*model.Example {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*model.Example, n)
	for i := range n {
		f := make([]float64, len(center))
		for d, c := range center {
			f[d] = c + r.rand.NormFloat64()*sd
		}
		out[i] = model.MustExample(fmt.Sprintf("%s%d", prefix, i), f, model.WithLabel(prefix))
	}
	return out
}

// ClusteredExamples generates numClusters well-separated Gaussian blobs in
// dim dimensions with perCluster examples each. Centers are spaced 10 units
// apart along the first axis; blob i is labeled "c<i>".
func (r *RNG) ClusteredExamples(numClusters, dim, perCluster int, sd float64) ([]*model.Example, [][]float64) {
	centers := make([][]float64, numClusters)
	var all []*model.Example
	for c := range numClusters {
		center := make([]float64, dim)
		center[0] = float64(c) * 10
		centers[c] = center
		all = append(all, r.GaussianBlob(fmt.Sprintf("c%d", c), center, sd, perCluster)...)
	}
	return all, centers
}

// Square returns the four corners of the axis-aligned square with the given
// center and half side length, labeled prefix. Only the first two
// dimensions are offset.
func Square(prefix string, center []float64, half float64) []*model.Example {
	offsets := [][2]float64{{-half, -half}, {half, -half}, {-half, half}, {half, half}}
	out := make([]*model.Example, len(offsets))
	for i, off := range offsets {
		f := append([]float64(nil), center...)
		f[0] += off[0]
		f[1] += off[1]
		out[i] = model.MustExample(fmt.Sprintf("%s%d", prefix, i), f, model.WithLabel(prefix))
	}
	return out
}

// NearestCenter returns the index of the center closest to e (Euclidean),
// preferring the lowest index on ties.
func NearestCenter(e *model.Example, centers [][]float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, c := range centers {
		var d float64
		for j, v := range c {
			diff := e.At(j) - v
			d += diff * diff
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// SumSquaredDeviation returns the sum of squared distances of the examples
// to their global mean.
func SumSquaredDeviation(examples []*model.Example) float64 {
	if len(examples) == 0 {
		return 0
	}
	dim := examples[0].Dimensionality()
	mean := make([]float64, dim)
	for _, e := range examples {
		for d := range dim {
			mean[d] += e.At(d)
		}
	}
	for d := range mean {
		mean[d] /= float64(len(examples))
	}

	var total float64
	for _, e := range examples {
		for d := range dim {
			diff := e.At(d) - mean[d]
			total += diff * diff
		}
	}
	return total
}
