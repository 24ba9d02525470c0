package interpret

import (
	"context"
	"math"
	"testing"

	"github.com/raonyguimaraes/skater/pkg/dataset"
	"github.com/raonyguimaraes/skater/pkg/errors"
	"github.com/raonyguimaraes/skater/pkg/model"
)

// testDataset builds a small dataset with three features of distinct ranges.
func testDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	rows := make([][]float64, 60)
	for i := range rows {
		v := float64(i)
		rows[i] = []float64{v, 100 - v, math.Sin(v)}
	}
	ds, err := dataset.New(rows, []string{"x0", "x1", "x2"})
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestFeatureImportanceSumsToOne(t *testing.T) {
	ds := testDataset(t)
	m, _ := model.NewRegressionModel(func(x []float64) float64 {
		return 3*x[0] + 0.5*x[1] + x[2]
	})

	scores, err := FeatureImportance(context.Background(), ds, m, Options{Seed: DefaultSeed})
	if err != nil {
		t.Fatalf("FeatureImportance() error = %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("len(scores) = %d, want 3", len(scores))
	}
	if sum := scores.Sum(); math.Abs(sum-1) > 1e-9 {
		t.Errorf("Sum() = %v, want 1", sum)
	}
}

func TestFeatureImportanceInsensitiveModelIsUniform(t *testing.T) {
	ds := testDataset(t)
	m, _ := model.NewRegressionModel(func(x []float64) float64 { return 7 })

	scores, err := FeatureImportance(context.Background(), ds, m, Options{Seed: DefaultSeed})
	if err != nil {
		t.Fatalf("FeatureImportance() error = %v", err)
	}

	want := 1.0 / 3.0
	for _, s := range scores {
		if math.Abs(s.Importance-want) > 1e-9 {
			t.Errorf("score %s = %v, want uniform %v", s.Feature, s.Importance, want)
		}
	}
	if sum := scores.Sum(); math.Abs(sum-1) > 1e-9 {
		t.Errorf("Sum() = %v, want 1", sum)
	}
}

func TestFeatureImportanceRanksDominantFeatureHighest(t *testing.T) {
	ds := testDataset(t)
	m, _ := model.NewRegressionModel(func(x []float64) float64 {
		return 50*x[0] + 0.01*x[1]
	})

	scores, err := FeatureImportance(context.Background(), ds, m, Options{Seed: DefaultSeed})
	if err != nil {
		t.Fatal(err)
	}

	byFeature := scores.Map()
	if byFeature["x0"] <= byFeature["x1"] {
		t.Errorf("x0 (%v) should outrank x1 (%v)", byFeature["x0"], byFeature["x1"])
	}
	if byFeature["x0"] <= byFeature["x2"] {
		t.Errorf("x0 (%v) should outrank x2 (%v)", byFeature["x0"], byFeature["x2"])
	}

	// Ascending sort: last entry is the most important
	if scores[len(scores)-1].Feature != "x0" {
		t.Errorf("last (most important) = %s, want x0", scores[len(scores)-1].Feature)
	}
}

func TestFeatureImportanceDeterministicWithSeed(t *testing.T) {
	ds := testDataset(t)
	m, _ := model.NewRegressionModel(func(x []float64) float64 {
		return x[0]*x[1] + x[2]
	})

	a, err := FeatureImportance(context.Background(), ds, m, Options{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}
	b, err := FeatureImportance(context.Background(), ds, m, Options{Seed: 7})
	if err != nil {
		t.Fatal(err)
	}

	for i := range a {
		if a[i] != b[i] {
			t.Errorf("run mismatch at %d: %+v vs %+v", i, a[i], b[i])
		}
	}

	c, err := FeatureImportance(context.Background(), ds, m, Options{Seed: 8})
	if err != nil {
		t.Fatal(err)
	}
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Log("different seeds produced identical scores; acceptable but unexpected for this model")
	}
}

func TestFeatureImportanceFilterClasses(t *testing.T) {
	ds := testDataset(t)

	// Output "a" depends only on x0, output "b" only on x1.
	m, err := model.NewInMemoryModel(func(X [][]float64) [][]float64 {
		out := make([][]float64, len(X))
		for i, x := range X {
			out[i] = []float64{5 * x[0], 2 * x[1]}
		}
		return out
	}, []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}

	scores, err := FeatureImportance(context.Background(), ds, m, Options{
		FilterClasses: []string{"a"},
		Seed:          DefaultSeed,
	})
	if err != nil {
		t.Fatal(err)
	}

	byFeature := scores.Map()
	if math.Abs(byFeature["x0"]-1) > 1e-9 {
		t.Errorf("x0 = %v, want 1 (only measured output depends on it)", byFeature["x0"])
	}
	if byFeature["x1"] != 0 {
		t.Errorf("x1 = %v, want 0 (its output is filtered out)", byFeature["x1"])
	}
	if byFeature["x2"] != 0 {
		t.Errorf("x2 = %v, want 0", byFeature["x2"])
	}
}

func TestFeatureImportanceInvalidFilterClass(t *testing.T) {
	ds := testDataset(t)

	calls := 0
	m, _ := model.NewInMemoryModel(func(X [][]float64) [][]float64 {
		calls++
		out := make([][]float64, len(X))
		for i := range out {
			out[i] = []float64{0}
		}
		return out
	}, []string{"output"})

	_, err := FeatureImportance(context.Background(), ds, m, Options{
		FilterClasses: []string{"bogus"},
	})
	if !errors.Is(err, errors.ErrCodeInvalidClass) {
		t.Fatalf("error = %v, want INVALID_CLASS", err)
	}
	if calls != 0 {
		t.Errorf("model was called %d times, want 0 (validation must fail fast)", calls)
	}
}

func TestFeatureImportanceEmptyDataset(t *testing.T) {
	m, _ := model.NewRegressionModel(func(x []float64) float64 { return 0 })

	empty, _ := dataset.New(nil, []string{"x"})
	if _, err := FeatureImportance(context.Background(), empty, m, Options{}); err == nil {
		t.Error("expected error for dataset with no rows")
	}

	if _, err := FeatureImportance(context.Background(), nil, m, Options{}); err == nil {
		t.Error("expected error for nil dataset")
	}
}

func TestFeatureImportanceLeavesDatasetUntouched(t *testing.T) {
	ds := testDataset(t)
	before, _ := ds.Column("x0")

	m, _ := model.NewRegressionModel(func(x []float64) float64 { return x[0] })
	if _, err := FeatureImportance(context.Background(), ds, m, Options{Seed: 1}); err != nil {
		t.Fatal(err)
	}

	after, _ := ds.Column("x0")
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("dataset mutated at row %d: %v != %v", i, before[i], after[i])
		}
	}
}

func TestImportancesTop(t *testing.T) {
	imp := Importances{
		{Feature: "low", Importance: 0.1},
		{Feature: "mid", Importance: 0.3},
		{Feature: "high", Importance: 0.6},
	}

	top := imp.Top(2)
	if len(top) != 2 || top[0].Feature != "high" || top[1].Feature != "mid" {
		t.Errorf("Top(2) = %+v", top)
	}

	all := imp.Top(10)
	if len(all) != 3 {
		t.Errorf("Top(10) length = %d, want 3", len(all))
	}
}
