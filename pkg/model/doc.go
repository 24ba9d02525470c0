// Package model defines the prediction abstraction consumed by the
// importance estimator.
//
// A [Model] exposes a predict call over a row-major feature matrix plus the
// ordered names of its output dimensions. Two implementations are provided:
//
//   - [InMemoryModel]: wraps an in-process prediction function
//   - [DeployedModel]: HTTP client for a remote predict endpoint, with
//     retry and optional response caching
//
// [FilterOutputs] restricts a prediction matrix to a named subset of output
// columns, which is how class filtering works for classification models.
package model
