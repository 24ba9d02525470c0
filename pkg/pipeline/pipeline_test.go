package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/raonyguimaraes/skater/pkg/httputil"
	"github.com/raonyguimaraes/skater/pkg/interpret"
	"github.com/raonyguimaraes/skater/pkg/model"
)

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsValidateForLoad(t *testing.T) {
	// Missing dataset
	opts := Options{ModelURL: "http://localhost:8080/predict", Targets: []string{"y"}}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Missing dataset should fail")
	}

	// Missing model and model_url
	opts = Options{Dataset: "iris.csv"}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Missing model should fail")
	}

	// Deployed model without targets
	opts = Options{Dataset: "iris.csv", ModelURL: "http://localhost:8080/predict"}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Deployed model without targets should fail")
	}

	// Bad URL scheme
	opts = Options{Dataset: "iris.csv", ModelURL: "ftp://host/predict", Targets: []string{"y"}}
	if err := opts.ValidateForLoad(); err == nil {
		t.Error("Non-HTTP URL should fail")
	}

	// Valid with deployed model
	opts = Options{Dataset: "iris.csv", ModelURL: "http://localhost:8080/predict", Targets: []string{"y"}}
	if err := opts.ValidateForLoad(); err != nil {
		t.Errorf("Valid options should pass: %v", err)
	}

	// Valid with in-process model
	m, err := model.NewRegressionModel(func(x []float64) float64 { return x[0] })
	if err != nil {
		t.Fatal(err)
	}
	opts = Options{Dataset: "iris.csv", Model: m}
	if err := opts.ValidateForLoad(); err != nil {
		t.Errorf("In-process model options should pass: %v", err)
	}
}

func TestSetExplainDefaults(t *testing.T) {
	opts := Options{}
	opts.SetExplainDefaults()

	if opts.Seed != DefaultSeed {
		t.Errorf("Seed should be %d, got %d", DefaultSeed, opts.Seed)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatJSON {
		t.Errorf("Formats should be [json], got %v", opts.Formats)
	}
	if opts.Width != DefaultWidth {
		t.Errorf("Width should be %f, got %f", DefaultWidth, opts.Width)
	}
	if opts.Height != DefaultHeight {
		t.Errorf("Height should be %f, got %f", DefaultHeight, opts.Height)
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	m, err := model.NewRegressionModel(func(x []float64) float64 { return x[0] })
	if err != nil {
		t.Fatal(err)
	}
	opts := Options{Dataset: "iris.csv", Model: m}

	// First call
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalSeed := opts.Seed
	originalFormats := len(opts.Formats)

	// Second call should be idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Seed != originalSeed {
		t.Error("Seed changed on second call")
	}
	if len(opts.Formats) != originalFormats {
		t.Error("Formats changed on second call")
	}
}

// writeTestCSV writes a small dataset where only x0 drives the prediction.
func writeTestCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	content := "x0,x1\n"
	for i := 0; i < 40; i++ {
		content += "0.1,5.0\n3.7,5.0\n-2.2,5.0\n9.5,5.0\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunnerExecute(t *testing.T) {
	m, err := model.NewRegressionModel(func(x []float64) float64 { return 10 * x[0] })
	if err != nil {
		t.Fatal(err)
	}

	runner := NewRunner(nil, nil)
	opts := Options{
		Dataset: writeTestCSV(t),
		Model:   m,
		Formats: []string{FormatJSON, FormatSVG},
	}

	result, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Stats.Rows != 160 || result.Stats.Features != 2 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if len(result.Scores) != 2 {
		t.Fatalf("Scores count = %d, want 2", len(result.Scores))
	}
	if top := result.Scores[len(result.Scores)-1]; top.Feature != "x0" {
		t.Errorf("most important feature = %q, want x0", top.Feature)
	}
	if result.CacheInfo.ExplainHit {
		t.Error("first run should not hit the cache")
	}

	// JSON artifact decodes back into scores
	var decoded interpret.Importances
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &decoded); err != nil {
		t.Fatalf("JSON artifact does not decode: %v", err)
	}
	if len(decoded) != 2 {
		t.Errorf("decoded scores count = %d", len(decoded))
	}
	if len(result.Artifacts[FormatSVG]) == 0 {
		t.Error("SVG artifact is empty")
	}
}

func TestRunnerExplainCaching(t *testing.T) {
	m, err := model.NewRegressionModel(func(x []float64) float64 { return 10 * x[0] })
	if err != nil {
		t.Fatal(err)
	}

	cache, err := httputil.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(cache, nil)
	opts := Options{
		Dataset: writeTestCSV(t),
		Model:   m,
		Formats: []string{FormatJSON},
	}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.ExplainHit {
		t.Error("first run should miss the cache")
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ExplainHit {
		t.Error("second run should hit the cache")
	}
	if second.Scores.Sum() == 0 {
		t.Error("cached scores lost their values")
	}

	// Refresh bypasses the cache
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.ExplainHit {
		t.Error("refresh run should not hit the cache")
	}
}

func TestRunnerExecuteInvalidOptions(t *testing.T) {
	runner := NewRunner(nil, nil)

	if _, err := runner.Execute(context.Background(), Options{}); err == nil {
		t.Error("empty options should fail")
	}

	m, _ := model.NewRegressionModel(func(x []float64) float64 { return x[0] })
	opts := Options{Dataset: "nope.csv", Model: m, Formats: []string{"bmp"}}
	if _, err := runner.Execute(context.Background(), opts); err == nil {
		t.Error("invalid format should fail")
	}
}
