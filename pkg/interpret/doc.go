// Package interpret implements model-agnostic global interpretation,
// currently permutation-based feature importance.
//
// The estimator treats the model as a black box: it only needs a predict
// call and the names of the output dimensions. Sensitivity to a feature is
// measured by resampling that feature's column (breaking its relationship
// with the output while preserving its marginal distribution) and observing
// how far the prediction distribution shifts.
//
// # Usage
//
//	m, _ := model.NewRegressionModel(func(x []float64) float64 { return 3*x[0] + x[1] })
//	ds, _ := dataset.ReadCSVFile("data.csv")
//
//	scores, err := interpret.FeatureImportance(ctx, ds, m, interpret.Options{Seed: 42})
//	for _, s := range scores.Top(5) {
//	    fmt.Printf("%s: %.3f\n", s.Feature, s.Importance)
//	}
//
// Scores are normalized to sum to 1, so they are comparable across models
// and datasets. Classification models can be measured on a subset of
// classes via Options.FilterClasses.
package interpret
