package dataset

import (
	"github.com/hupe1980/kclust/distance"
	"github.com/hupe1980/kclust/model"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ZScale returns copies of examples with every feature column shifted to mean
// 0 and scaled to population standard deviation 1. Constant columns become 0.
func ZScale(examples []*model.Example) ([]*model.Example, error) {
	return rescale(examples, func(col []float64) {
		mean, sd := stat.PopMeanStdDev(col, nil)
		if sd == 0 {
			floats.Scale(0, col)
			return
		}
		floats.AddConst(-mean, col)
		floats.Scale(1/sd, col)
	})
}

// MinMax returns copies of examples with every feature column mapped onto
// [0, 1]. Constant columns become 0.
func MinMax(examples []*model.Example) ([]*model.Example, error) {
	return rescale(examples, func(col []float64) {
		lo, hi := floats.Min(col), floats.Max(col)
		if hi == lo {
			floats.Scale(0, col)
			return
		}
		floats.AddConst(-lo, col)
		floats.Scale(1/(hi-lo), col)
	})
}

func rescale(examples []*model.Example, fn func(col []float64)) ([]*model.Example, error) {
	if len(examples) == 0 {
		return nil, nil
	}
	dim := examples[0].Dimensionality()

	cols := make([][]float64, dim)
	for j := range cols {
		cols[j] = make([]float64, len(examples))
	}
	for i, e := range examples {
		if e.Dimensionality() != dim {
			return nil, &distance.ErrDimensionMismatch{Expected: dim, Actual: e.Dimensionality()}
		}
		for j := range dim {
			cols[j][i] = e.At(j)
		}
	}
	for _, col := range cols {
		fn(col)
	}

	out := make([]*model.Example, len(examples))
	features := make([]float64, dim)
	for i, e := range examples {
		for j := range dim {
			features[j] = cols[j][i]
		}
		var opts []model.ExampleOption
		if label, ok := e.Label(); ok {
			opts = append(opts, model.WithLabel(label))
		}
		// NewExample copies features
		scaled, err := model.NewExample(e.Name(), features, opts...)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}
