package model

import (
	"math"
	"testing"

	"github.com/hupe1980/kclust/distance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewExample(t *testing.T) {
	t.Run("CopiesFeatures", func(t *testing.T) {
		src := []float64{1, 2}
		e, err := NewExample("a", src)
		require.NoError(t, err)

		src[0] = 99
		assert.Equal(t, 1.0, e.At(0))
	})

	t.Run("FeaturesReturnsCopy", func(t *testing.T) {
		e := MustExample("a", []float64{1, 2})
		f := e.Features()
		f[0] = 42
		assert.Equal(t, Vector{1, 2}, e.Features())
	})

	t.Run("Label", func(t *testing.T) {
		e := MustExample("a", []float64{1})
		_, ok := e.Label()
		assert.False(t, ok)

		e = MustExample("b", []float64{1}, WithLabel("M"))
		label, ok := e.Label()
		assert.True(t, ok)
		assert.Equal(t, "M", label)
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := NewExample("a", nil)
		assert.ErrorIs(t, err, ErrEmptyFeatures)
	})

	t.Run("NonFinite", func(t *testing.T) {
		_, err := NewExample("a", []float64{1, math.NaN()})
		assert.ErrorIs(t, err, ErrNonFinite)

		_, err = NewExample("a", []float64{math.Inf(-1)})
		assert.ErrorIs(t, err, ErrNonFinite)
	})

	t.Run("MustPanics", func(t *testing.T) {
		assert.Panics(t, func() { MustExample("a", nil) })
	})
}

func TestExample_Distance(t *testing.T) {
	a := MustExample("a", []float64{0, 0})
	b := MustExample("b", []float64{3, 4})

	d, err := a.Distance(b)
	require.NoError(t, err)
	assert.Equal(t, 5.0, d)

	c := MustExample("c", []float64{1, 2, 3})
	_, err = a.Distance(c)
	var dm *distance.ErrDimensionMismatch
	assert.ErrorAs(t, err, &dm)
}

func TestExample_String(t *testing.T) {
	assert.Equal(t, "A0:[3 4.5]", MustExample("A0", []float64{3, 4.5}).String())
	assert.Equal(t, "B1:[1]:pos", MustExample("B1", []float64{1}, WithLabel("pos")).String())
}

func TestVector(t *testing.T) {
	v := Vector{1, 2, 3}
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 2.0, v.At(1))

	c := v.Clone()
	c[0] = 7
	assert.Equal(t, 1.0, v[0])
}
