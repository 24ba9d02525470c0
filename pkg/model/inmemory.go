package model

import (
	"context"
	"slices"

	"github.com/raonyguimaraes/skater/pkg/errors"
)

// PredictFunc is an arbitrary trained prediction function operating on a
// row-major feature matrix.
type PredictFunc func(X [][]float64) [][]float64

// InMemoryModel wraps an in-process prediction function so it can be
// explained. This is the adapter for models trained in the same process
// (or any Go function standing in for one).
type InMemoryModel struct {
	predict     PredictFunc
	targetNames []string
}

// NewInMemoryModel wraps fn as a Model with the given target names.
// The target names define the expected prediction width; Predict fails with
// a shape error when fn returns a different width.
func NewInMemoryModel(fn PredictFunc, targetNames []string) (*InMemoryModel, error) {
	if fn == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "predict function cannot be nil")
	}
	if len(targetNames) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "model must have at least one target name")
	}
	return &InMemoryModel{predict: fn, targetNames: slices.Clone(targetNames)}, nil
}

// NewRegressionModel wraps a single-output row function as a Model with one
// target named "output". This is the common case for regression functions
// of the form y = f(x).
func NewRegressionModel(fn func(x []float64) float64) (*InMemoryModel, error) {
	if fn == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "predict function cannot be nil")
	}
	wrapped := func(X [][]float64) [][]float64 {
		out := make([][]float64, len(X))
		for i, x := range X {
			out[i] = []float64{fn(x)}
		}
		return out
	}
	return &InMemoryModel{predict: wrapped, targetNames: []string{"output"}}, nil
}

// Predict runs the wrapped function and validates the output shape.
func (m *InMemoryModel) Predict(ctx context.Context, X [][]float64) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	preds := m.predict(X)
	if err := checkShape(preds, len(X), len(m.targetNames)); err != nil {
		return nil, err
	}
	return preds, nil
}

// TargetNames returns the ordered output names.
func (m *InMemoryModel) TargetNames() []string {
	return slices.Clone(m.targetNames)
}

// Ensure InMemoryModel implements Model.
var _ Model = (*InMemoryModel)(nil)
