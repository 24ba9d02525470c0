// Package pipeline provides the core explanation pipeline for Skater.
//
// This package implements the complete load → explain → render pipeline that
// can be used by CLI, API, and worker components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Read the evaluation dataset from a CSV file
//  2. Explain: Estimate global feature importance by perturbing each feature
//  3. Render: Generate bar charts in various formats (SVG, PNG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, logger)
//	opts := pipeline.Options{
//	    Dataset:  "iris.csv",
//	    ModelURL: "http://localhost:8080/predict",
//	    Targets:  []string{"setosa", "versicolor", "virginica"},
//	    Formats:  []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	ds, err := runner.Load(ctx, opts)
//
//	// Explain with an existing dataset and model
//	scores, err := runner.Explain(ctx, ds, m, opts)
//
//	// Render with existing scores
//	artifacts, err := runner.Render(ctx, scores, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/raonyguimaraes/skater/pkg/errors"
	"github.com/raonyguimaraes/skater/pkg/interpret"
	"github.com/raonyguimaraes/skater/pkg/model"
	"github.com/raonyguimaraes/skater/pkg/render/chart"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = interpret.DefaultSeed

	// DefaultWidth is the default chart width in inches.
	DefaultWidth = 6.0

	// DefaultHeight is the default chart height in inches.
	DefaultHeight = 4.0
)

// Format constants for output formats.
const (
	FormatSVG  = chart.FormatSVG
	FormatPNG  = chart.FormatPNG
	FormatPDF  = chart.FormatPDF
	FormatJSON = chart.FormatJSON
)

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the explanation pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Dataset string `json:"dataset"`

	// Model options
	ModelURL string   `json:"model_url,omitempty"`
	Targets  []string `json:"targets,omitempty"`

	// Explain options
	FilterClasses []string `json:"filter_classes,omitempty"`
	Seed          uint64   `json:"seed,omitempty"`
	Refresh       bool     `json:"refresh,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Title   string   `json:"title,omitempty"`
	Width   float64  `json:"width,omitempty"`
	Height  float64  `json:"height,omitempty"`

	// Runtime options (not serialized)
	Model  model.Model `json:"-"` // in-process model, takes precedence over ModelURL
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Scores holds the normalized feature importances, least important first.
	Scores interpret.Importances

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Rows        int
	Features    int
	LoadTime    time.Duration
	ExplainTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ExplainHit bool // Whether importance scores came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := chart.ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetExplainDefaults()
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading the dataset and model.
func (o *Options) ValidateForLoad() error {
	if o.Dataset == "" {
		return errors.New(errors.ErrCodeInvalidInput, "dataset is required")
	}
	if o.Model == nil {
		if o.ModelURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "model or model_url is required")
		}
		if err := errors.ValidateURL(o.ModelURL); err != nil {
			return err
		}
		if len(o.Targets) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "targets are required for a deployed model")
		}
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetExplainDefaults sets default values for importance estimation.
func (o *Options) SetExplainDefaults() {
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for chart rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// InterpretOptions converts pipeline options into estimator options.
func (o *Options) InterpretOptions() interpret.Options {
	return interpret.Options{
		FilterClasses: o.FilterClasses,
		Seed:          o.Seed,
	}
}

// ChartOptions converts pipeline options into chart rendering options.
func (o *Options) ChartOptions() []chart.Option {
	var opts []chart.Option
	if o.Title != "" {
		opts = append(opts, chart.WithTitle(o.Title))
	}
	if o.Width != 0 || o.Height != 0 {
		opts = append(opts, chart.WithSize(o.Width, o.Height))
	}
	return opts
}
