// Package pkg provides the core libraries for Skater model interpretation.
//
// # Overview
//
// Skater estimates how much each input feature contributes to a prediction
// model's output, without any access to the model's internals. The pkg
// directory is organized into four main areas:
//
//  1. [interpret] - The importance estimator (perturb, re-predict, score)
//  2. [dataset] / [model] - Data access and model abstractions
//  3. [render/chart] - Bar chart rendering of ranked scores
//  4. [pipeline] / [server] / [store] - Orchestration and persistence
//
// # Architecture
//
// The typical data flow through Skater:
//
//	CSV dataset + prediction endpoint
//	         ↓
//	    [dataset] package (columnar frame, resampling)
//	         ↓
//	    [interpret] package (perturbation scoring)
//	         ↓
//	    [render/chart] package (gonum/plot bar charts)
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
// Estimate importances for an in-memory model:
//
//	import (
//	    "context"
//	    "github.com/raonyguimaraes/skater/pkg/dataset"
//	    "github.com/raonyguimaraes/skater/pkg/interpret"
//	    "github.com/raonyguimaraes/skater/pkg/model"
//	)
//
//	ds, _ := dataset.ReadCSVFile("iris.csv")
//	m, _ := model.NewRegressionModel(func(x []float64) float64 {
//	    return 3*x[0] + x[1]
//	})
//	scores, _ := interpret.FeatureImportance(context.Background(), ds, m, interpret.Options{})
//
// # Main Packages
//
// [interpret] - Global feature importance. Each feature column is resampled
// with replacement, the model is re-queried, and the feature is scored by the
// spread of the prediction shift. Scores are normalized to sum to one.
//
// [dataset] - Columnar numeric frame with CSV I/O and seeded resampling.
//
// [model] - The Model interface plus two implementations: InMemoryModel wraps
// a Go function, DeployedModel posts to an HTTP prediction endpoint with
// retry and response caching.
//
// [render/chart] - Horizontal bar charts of ranked scores via gonum/plot.
//
// [pipeline] - Load → explain → render orchestration shared by the CLI and
// the HTTP API, with content-addressed caching of the explain stage.
//
// [server] - chi-based HTTP API exposing the pipeline and stored results.
//
// [store] - Explanation persistence with memory, file, redis, and mongo
// backends.
//
// [httputil] - File-based JSON cache with TTLs plus retry helpers.
//
// [errors] - Structured errors with machine-readable codes.
//
// [observability] - Hook interfaces for instrumenting pipeline, cache, and
// model events without hard dependencies on metrics backends.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/interpret    # Specific package
//	go test -run Example       # Examples only
//
// [interpret]: https://pkg.go.dev/github.com/raonyguimaraes/skater/pkg/interpret
// [dataset]: https://pkg.go.dev/github.com/raonyguimaraes/skater/pkg/dataset
// [model]: https://pkg.go.dev/github.com/raonyguimaraes/skater/pkg/model
// [render/chart]: https://pkg.go.dev/github.com/raonyguimaraes/skater/pkg/render/chart
// [pipeline]: https://pkg.go.dev/github.com/raonyguimaraes/skater/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/raonyguimaraes/skater/pkg/server
// [store]: https://pkg.go.dev/github.com/raonyguimaraes/skater/pkg/store
// [httputil]: https://pkg.go.dev/github.com/raonyguimaraes/skater/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/raonyguimaraes/skater/pkg/errors
// [observability]: https://pkg.go.dev/github.com/raonyguimaraes/skater/pkg/observability
package pkg
