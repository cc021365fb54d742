package model

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hupe1980/kclust/distance"
)

var (
	// ErrEmptyFeatures is returned when an example is built without features.
	ErrEmptyFeatures = errors.New("example features must not be empty")

	// ErrNonFinite is returned when a feature is NaN or infinite.
	ErrNonFinite = errors.New("example features must be finite")
)

// Example is a single observation: a name, a feature vector and an optional label.
// The label is carried for downstream evaluation and is never read by clustering.
type Example struct {
	name     string
	features Vector
	label    string
	hasLabel bool
}

// ExampleOption configures an Example at construction.
type ExampleOption func(*Example)

// WithLabel attaches a categorical label.
func WithLabel(label string) ExampleOption {
	return func(e *Example) {
		e.label = label
		e.hasLabel = true
	}
}

// NewExample creates an Example. The features slice is copied.
func NewExample(name string, features []float64, opts ...ExampleOption) (*Example, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("example %q: %w", name, ErrEmptyFeatures)
	}
	for i, f := range features {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("example %q: feature %d: %w", name, i, ErrNonFinite)
		}
	}

	e := &Example{
		name:     name,
		features: Vector(features).Clone(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// MustExample is like NewExample but panics on error.
// Intended for tests and static fixtures.
func MustExample(name string, features []float64, opts ...ExampleOption) *Example {
	e, err := NewExample(name, features, opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Name returns the example's name.
func (e *Example) Name() string { return e.name }

// Label returns the label and whether one is set.
func (e *Example) Label() (string, bool) { return e.label, e.hasLabel }

// Dimensionality returns the number of features.
func (e *Example) Dimensionality() int { return len(e.features) }

// Features returns a copy of the feature vector.
func (e *Example) Features() Vector { return e.features.Clone() }

// At returns the i-th feature without copying.
func (e *Example) At(i int) float64 { return e.features[i] }

// Distance returns the Euclidean distance between the feature vectors of e and other.
func (e *Example) Distance(other *Example) (float64, error) {
	return distance.Euclidean(e.features, other.features)
}

// String renders the example as name:[features]:label.
func (e *Example) String() string {
	var sb strings.Builder
	sb.WriteString(e.name)
	sb.WriteString(":[")
	for i, f := range e.features {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%g", f)
	}
	sb.WriteByte(']')
	if e.hasLabel {
		sb.WriteByte(':')
		sb.WriteString(e.label)
	}
	return sb.String()
}

// Raw returns the backing feature slice without copying.
// The slice must not be modified.
func (e *Example) Raw() []float64 { return e.features }
