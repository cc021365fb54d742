package dataset

import (
	"fmt"

	"github.com/hupe1980/kclust/model"
)

// NormalSource draws standard normal variates. *rand.Rand satisfies it.
type NormalSource interface {
	NormFloat64() float64
}

// Gaussian draws n examples named prefix0..prefix<n-1>, each feature i
// normally distributed with mean means[i] and standard deviation sds[i].
// Examples are labeled with prefix.
func Gaussian(rng NormalSource, means, sds []float64, n int, prefix string) ([]*model.Example, error) {
	if len(means) == 0 {
		return nil, model.ErrEmptyFeatures
	}
	if len(sds) != len(means) {
		return nil, fmt.Errorf("dataset: %d means but %d standard deviations", len(means), len(sds))
	}
	if n < 0 {
		return nil, fmt.Errorf("dataset: negative example count %d", n)
	}
	for _, sd := range sds {
		if sd < 0 {
			return nil, fmt.Errorf("dataset: negative standard deviation %v", sd)
		}
	}

	out := make([]*model.Example, n)
	features := make([]float64, len(means))
	for i := range n {
		for j, mean := range means {
			features[j] = mean + sds[j]*rng.NormFloat64()
		}
		e, err := model.NewExample(fmt.Sprintf("%s%d", prefix, i), features, model.WithLabel(prefix))
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}
