// Package dataset provides the tabular data container consumed by the
// importance estimator.
//
// A [Dataset] holds named float64 columns with a stable feature order and an
// optional row index. The estimator relies on three operations:
//
//   - Column / SetColumn: read and replace one column at a time
//   - SampleColumn: random-choice resampling of a column (perturbation)
//   - Matrix: row-major view passed to model predict functions
//
// # Construction
//
// Build a Dataset from row-major data, column-major data, or a CSV source:
//
//	ds, err := dataset.New(rows, []string{"sepal_length", "sepal_width"})
//	ds, err := dataset.FromColumns(cols, names)
//	ds, err := dataset.ReadCSVFile("iris.csv")
//
// # Concurrency
//
// Dataset is safe for concurrent reads but not concurrent writes.
package dataset
