package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/raonyguimaraes/skater/pkg/dataset"
	"github.com/raonyguimaraes/skater/pkg/errors"
	"github.com/raonyguimaraes/skater/pkg/httputil"
	"github.com/raonyguimaraes/skater/pkg/interpret"
	"github.com/raonyguimaraes/skater/pkg/model"
	"github.com/raonyguimaraes/skater/pkg/observability"
	"github.com/raonyguimaraes/skater/pkg/render/chart"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  *httputil.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If cache is nil, caching is disabled.
func NewRunner(c *httputil.Cache, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Logger: logger,
	}
}

// Execute runs the complete load → explain → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	ds, err := r.Load(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "load dataset")
	}
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.Rows = ds.Rows()
	result.Stats.Features = ds.Cols()

	r.Logger.Info("loaded dataset",
		"source", opts.Dataset,
		"rows", ds.Rows(),
		"features", ds.Cols(),
		"duration", result.Stats.LoadTime)

	m, err := r.buildModel(opts)
	if err != nil {
		return nil, err
	}

	// Stage 2: Explain
	explainStart := time.Now()
	scores, explainHit, err := r.ExplainWithCacheInfo(ctx, ds, m, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "estimate importance")
	}
	result.Scores = scores
	result.Stats.ExplainTime = time.Since(explainStart)
	result.CacheInfo.ExplainHit = explainHit

	r.Logger.Info("estimated importances",
		"features", len(scores),
		"cached", explainHit,
		"duration", result.Stats.ExplainTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, scores, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render charts")
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads the evaluation dataset from the configured CSV source.
func (r *Runner) Load(ctx context.Context, opts Options) (*dataset.Dataset, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Dataset)

	ds, err := dataset.ReadCSVFile(opts.Dataset)
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, opts.Dataset, 0, 0, time.Since(start), err)
		return nil, err
	}

	observability.Pipeline().OnLoadComplete(ctx, opts.Dataset, ds.Rows(), ds.Cols(), time.Since(start), nil)
	return ds, nil
}

// ExplainWithCacheInfo estimates feature importances with caching and returns
// cache hit info. The cache key covers the dataset contents, the model
// endpoint, the filter classes, and the seed, so any change invalidates the
// cached scores.
func (r *Runner) ExplainWithCacheInfo(ctx context.Context, ds *dataset.Dataset, m model.Model, opts Options) (interpret.Importances, bool, error) {
	opts.SetExplainDefaults()
	r.applyLogger(&opts)

	cacheKey := httputil.ContentKey(
		"explanation",
		opts.ModelURL,
		m.TargetNames(),
		ds.Features(),
		ds.Matrix(),
		opts.FilterClasses,
		opts.Seed,
	)

	// Try cache first (unless refresh requested)
	if r.Cache != nil && !opts.Refresh {
		var cached interpret.Importances
		if hit, err := r.Cache.Get(cacheKey, &cached); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "explanation")
			return cached, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "explanation")
	}

	start := time.Now()
	observability.Pipeline().OnExplainStart(ctx, opts.Dataset, ds.Cols())

	scores, err := interpret.FeatureImportance(ctx, ds, m, opts.InterpretOptions())
	observability.Pipeline().OnExplainComplete(ctx, opts.Dataset, ds.Cols(), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if r.Cache != nil {
		if err := r.Cache.Set(cacheKey, scores); err == nil {
			observability.Cache().OnCacheSet(ctx, "explanation", len(scores))
		}
	}

	return scores, false, nil
}

// Explain is a convenience wrapper that calls ExplainWithCacheInfo and discards the cache hit info.
func (r *Runner) Explain(ctx context.Context, ds *dataset.Dataset, m model.Model, opts Options) (interpret.Importances, error) {
	scores, _, err := r.ExplainWithCacheInfo(ctx, ds, m, opts)
	return scores, err
}

// Render generates chart artifacts in the requested formats.
func (r *Runner) Render(ctx context.Context, scores interpret.Importances, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	artifacts := make(map[string][]byte)
	for _, format := range opts.Formats {
		data, err := chart.Render(scores, format, opts.ChartOptions()...)
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, err
		}
		artifacts[format] = data
	}

	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)
	return artifacts, nil
}

// buildModel returns the in-process model when one is set, otherwise it
// constructs a client for the deployed model endpoint. Predictions from the
// deployed model share the runner's cache under their own namespace.
func (r *Runner) buildModel(opts Options) (model.Model, error) {
	if opts.Model != nil {
		return opts.Model, nil
	}

	var modelOpts []model.DeployedOption
	if r.Cache != nil {
		modelOpts = append(modelOpts, model.WithPredictionCache(r.Cache.Namespace("predict:")))
	}
	return model.NewDeployedModel(opts.ModelURL, opts.Targets, modelOpts...)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
