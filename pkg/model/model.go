package model

import (
	"context"

	"github.com/raonyguimaraes/skater/pkg/errors"
)

// Model is the prediction abstraction the importance estimator explains.
// Implementations wrap anything that can map a row-major feature matrix to
// a row-major prediction matrix: an in-process function, a model served
// over HTTP, or a test stub.
//
// Predict must return one prediction row per input row, each with one value
// per target name. Classification models return one column per class
// (probabilities or scores); regression models return a single column.
type Model interface {
	// Predict computes predictions for the given row-major matrix.
	Predict(ctx context.Context, X [][]float64) ([][]float64, error)

	// TargetNames returns the ordered names of the output dimensions.
	TargetNames() []string
}

// FilterOutputs selects the named output columns from a prediction matrix.
// The classes must be a subset of targetNames; columns are returned in the
// requested order. An empty classes slice returns preds unchanged.
func FilterOutputs(preds [][]float64, targetNames, classes []string) ([][]float64, error) {
	if len(classes) == 0 {
		return preds, nil
	}
	if err := errors.ValidateFilterClasses(targetNames, classes); err != nil {
		return nil, err
	}

	idx := make([]int, len(classes))
	for i, class := range classes {
		for j, name := range targetNames {
			if name == class {
				idx[i] = j
				break
			}
		}
	}

	out := make([][]float64, len(preds))
	for r, row := range preds {
		if len(row) != len(targetNames) {
			return nil, errors.New(errors.ErrCodeShapeMismatch,
				"prediction row %d has %d values, want %d", r, len(row), len(targetNames))
		}
		filtered := make([]float64, len(idx))
		for i, j := range idx {
			filtered[i] = row[j]
		}
		out[r] = filtered
	}
	return out, nil
}

// checkShape validates that a prediction matrix matches the input row count
// and the model's output width.
func checkShape(preds [][]float64, rows, width int) error {
	if len(preds) != rows {
		return errors.New(errors.ErrCodeShapeMismatch,
			"model returned %d prediction rows for %d input rows", len(preds), rows)
	}
	for i, row := range preds {
		if len(row) != width {
			return errors.New(errors.ErrCodeShapeMismatch,
				"prediction row %d has %d values, want %d", i, len(row), width)
		}
	}
	return nil
}
