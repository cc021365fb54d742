package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/hupe1980/kclust/model"
)

var (
	// ErrNoHeader is returned for input without a header row.
	ErrNoHeader = errors.New("dataset: missing header row")
	// ErrUnknownColumn is returned when an option names a column the header lacks.
	ErrUnknownColumn = errors.New("dataset: unknown column")
	// ErrNoFeatures is returned when no feature column remains.
	ErrNoFeatures = errors.New("dataset: no feature columns")
	// ErrNoRows is returned for a header without data rows.
	ErrNoRows = errors.New("dataset: no data rows")
)

// ParseError reports a malformed cell.
type ParseError struct {
	Line   int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("dataset: line %d, column %q: %v", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Options selects the columns of a CSV file.
type Options struct {
	// NameColumn holds example names. If empty, rows are named "e<row>"
	// starting at 0.
	NameColumn string
	// LabelColumn holds optional labels. Empty cells leave the label unset.
	LabelColumn string
	// Features lists the feature columns in order. If empty, every column
	// other than the name and label columns is used.
	Features []string
	// Comma is the field delimiter. Defaults to ','.
	Comma rune
}

// LoadCSV reads examples from r.
func LoadCSV(r io.Reader, opts Options) ([]*model.Example, error) {
	cr := csv.NewReader(r)
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}
	header = slices.Clone(header)
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	index := func(col string) (int, error) {
		i := slices.Index(header, col)
		if i < 0 {
			return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
		return i, nil
	}

	nameIdx, labelIdx := -1, -1
	if opts.NameColumn != "" {
		if nameIdx, err = index(opts.NameColumn); err != nil {
			return nil, err
		}
	}
	if opts.LabelColumn != "" {
		if labelIdx, err = index(opts.LabelColumn); err != nil {
			return nil, err
		}
	}

	var featureIdx []int
	if len(opts.Features) > 0 {
		for _, col := range opts.Features {
			i, err := index(col)
			if err != nil {
				return nil, err
			}
			featureIdx = append(featureIdx, i)
		}
	} else {
		for i := range header {
			if i != nameIdx && i != labelIdx {
				featureIdx = append(featureIdx, i)
			}
		}
	}
	if len(featureIdx) == 0 {
		return nil, ErrNoFeatures
	}

	var examples []*model.Example
	for row := 0; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: %w", err)
		}
		line, _ := cr.FieldPos(0)

		features := make([]float64, len(featureIdx))
		for j, col := range featureIdx {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[col]), 64)
			if err != nil {
				return nil, &ParseError{Line: line, Column: header[col], Err: err}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &ParseError{Line: line, Column: header[col], Err: model.ErrNonFinite}
			}
			features[j] = v
		}

		name := fmt.Sprintf("e%d", row)
		if nameIdx >= 0 {
			name = strings.TrimSpace(record[nameIdx])
		}

		var exOpts []model.ExampleOption
		if labelIdx >= 0 {
			if label := strings.TrimSpace(record[labelIdx]); label != "" {
				exOpts = append(exOpts, model.WithLabel(label))
			}
		}

		e, err := model.NewExample(name, features, exOpts...)
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}
		examples = append(examples, e)
	}

	if len(examples) == 0 {
		return nil, ErrNoRows
	}
	return examples, nil
}

// WriteCSV writes examples with a "name,label,f0..fN" header.
// All examples must share the dimensionality of the first.
func WriteCSV(w io.Writer, examples []*model.Example) error {
	if len(examples) == 0 {
		return ErrNoRows
	}
	dim := examples[0].Dimensionality()

	cw := csv.NewWriter(w)
	header := []string{"name", "label"}
	for i := range dim {
		header = append(header, fmt.Sprintf("f%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, e := range examples {
		if e.Dimensionality() != dim {
			return fmt.Errorf("dataset: %s has %d features, want %d", e.Name(), e.Dimensionality(), dim)
		}
		record[0] = e.Name()
		record[1], _ = e.Label()
		for i := range dim {
			record[2+i] = strconv.FormatFloat(e.At(i), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
