// Package httputil provides HTTP utilities for remote model clients.
//
// # Overview
//
// This package provides infrastructure used by deployed-model clients and
// the explanation pipeline:
//
//   - [Cache]: File-based response caching with TTL
//   - [Retry]: Automatic retry with exponential backoff
//   - [ContentKey]: Content-addressed cache keys for datasets
//
// # Caching
//
// [Cache] stores JSON-marshalable values in the filesystem
// (~/.cache/skater/) with configurable TTL. Re-explaining the same dataset
// against the same model endpoint hits the cache instead of re-posting the
// full matrix.
//
// Cache keys should be namespaced per endpoint to avoid collisions:
//
//	predict := cache.Namespace("predict:")
//	explain := cache.Namespace("explain:")
//
// # Retry
//
// [Retry] wraps predict requests with automatic retry for transient
// failures (network errors, 5xx responses) using exponential backoff.
// Wrap transient errors with [RetryableError] to opt them into retries.
//
// # Configuration
//
// Default settings are suitable for most use cases:
//
//   - Cache directory: ~/.cache/skater/
//   - Max retries: 3
//   - Base backoff: 1 second
//
// The cache can be cleared via `skater cache clear` or by deleting the
// cache directory.
package httputil
