package dataset

import (
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/raonyguimaraes/skater/pkg/errors"
)

// Dataset is an in-memory tabular container of float64 columns with ordered
// feature names and an optional row index. It is the input surface for the
// importance estimator: column access, column replacement, and column
// resampling all operate on it.
//
// The zero value is not usable - use New or FromColumns to build a valid
// Dataset. Dataset is not safe for concurrent mutation without external
// synchronization.
type Dataset struct {
	features []string
	columns  map[string][]float64
	index    []string
	rows     int
}

// New builds a Dataset from row-major data and a feature header.
// Every row must have exactly len(features) values, and feature names must
// be unique and non-empty.
func New(rows [][]float64, features []string) (*Dataset, error) {
	if err := errors.ValidateFeatureNames(features); err != nil {
		return nil, err
	}

	columns := make(map[string][]float64, len(features))
	for _, f := range features {
		columns[f] = make([]float64, 0, len(rows))
	}

	for i, row := range rows {
		if len(row) != len(features) {
			return nil, errors.New(errors.ErrCodeShapeMismatch,
				"row %d has %d values, want %d", i, len(row), len(features))
		}
		for j, f := range features {
			columns[f] = append(columns[f], row[j])
		}
	}

	return &Dataset{
		features: slices.Clone(features),
		columns:  columns,
		rows:     len(rows),
	}, nil
}

// FromColumns builds a Dataset from column-major data.
// All columns must have the same length.
func FromColumns(columns map[string][]float64, features []string) (*Dataset, error) {
	if err := errors.ValidateFeatureNames(features); err != nil {
		return nil, err
	}

	rows := -1
	out := make(map[string][]float64, len(features))
	for _, f := range features {
		col, ok := columns[f]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownFeature, "missing column %q", f)
		}
		if rows == -1 {
			rows = len(col)
		} else if len(col) != rows {
			return nil, errors.New(errors.ErrCodeShapeMismatch,
				"column %q has %d values, want %d", f, len(col), rows)
		}
		out[f] = slices.Clone(col)
	}

	return &Dataset{
		features: slices.Clone(features),
		columns:  out,
		rows:     rows,
	}, nil
}

// Features returns the ordered feature names.
// The returned slice is a copy and can be modified freely.
func (d *Dataset) Features() []string {
	return slices.Clone(d.features)
}

// Rows returns the number of rows.
func (d *Dataset) Rows() int { return d.rows }

// Cols returns the number of feature columns.
func (d *Dataset) Cols() int { return len(d.features) }

// Column returns a copy of the named column.
func (d *Dataset) Column(name string) ([]float64, error) {
	col, ok := d.columns[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownFeature, "unknown feature %q", name)
	}
	return slices.Clone(col), nil
}

// SetColumn replaces the named column. The replacement must have exactly as
// many values as the Dataset has rows.
func (d *Dataset) SetColumn(name string, values []float64) error {
	if _, ok := d.columns[name]; !ok {
		return errors.New(errors.ErrCodeUnknownFeature, "unknown feature %q", name)
	}
	if len(values) != d.rows {
		return errors.New(errors.ErrCodeShapeMismatch,
			"column %q replacement has %d values, want %d", name, len(values), d.rows)
	}
	d.columns[name] = slices.Clone(values)
	return nil
}

// Row returns the i-th row in feature order.
func (d *Dataset) Row(i int) ([]float64, error) {
	if i < 0 || i >= d.rows {
		return nil, errors.New(errors.ErrCodeInvalidInput, "row index %d out of range [0,%d)", i, d.rows)
	}
	row := make([]float64, len(d.features))
	for j, f := range d.features {
		row[j] = d.columns[f][i]
	}
	return row, nil
}

// Matrix materializes the Dataset as row-major data in feature order.
// This is the shape model predict functions consume.
func (d *Dataset) Matrix() [][]float64 {
	out := make([][]float64, d.rows)
	for i := range out {
		row := make([]float64, len(d.features))
		for j, f := range d.features {
			row[j] = d.columns[f][i]
		}
		out[i] = row
	}
	return out
}

// Copy returns a deep copy of the Dataset. Mutating the copy (e.g. via
// SetColumn during perturbation) leaves the original untouched.
func (d *Dataset) Copy() *Dataset {
	columns := make(map[string][]float64, len(d.columns))
	for f, col := range d.columns {
		columns[f] = slices.Clone(col)
	}
	return &Dataset{
		features: slices.Clone(d.features),
		columns:  columns,
		index:    slices.Clone(d.index),
		rows:     d.rows,
	}
}

// SampleColumn draws n values from the named column by sampling with
// replacement (random-choice). The marginal distribution of the column is
// preserved while any relationship to other columns is broken.
func (d *Dataset) SampleColumn(name string, n int, rng *rand.Rand) ([]float64, error) {
	col, ok := d.columns[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeUnknownFeature, "unknown feature %q", name)
	}
	if len(col) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "cannot sample empty column %q", name)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = col[rng.IntN(len(col))]
	}
	return out, nil
}

// SetIndex attaches row labels. Labels must match the row count.
func (d *Dataset) SetIndex(index []string) error {
	if len(index) != d.rows {
		return errors.New(errors.ErrCodeShapeMismatch,
			"index has %d labels, want %d", len(index), d.rows)
	}
	d.index = slices.Clone(index)
	return nil
}

// Index returns the row labels. When no index was set, positional labels
// ("0", "1", ...) are generated on demand.
func (d *Dataset) Index() []string {
	if d.index != nil {
		return slices.Clone(d.index)
	}
	out := make([]string, d.rows)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}
