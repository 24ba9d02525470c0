package interpret

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/raonyguimaraes/skater/pkg/dataset"
	"github.com/raonyguimaraes/skater/pkg/errors"
	"github.com/raonyguimaraes/skater/pkg/model"
)

// DefaultSeed is the default random seed for reproducible perturbation.
const DefaultSeed = uint64(42)

// Options configures a feature importance run.
type Options struct {
	// FilterClasses restricts the measured output dimensions to the named
	// classes. Empty means all outputs. Every entry must be one of the
	// model's target names.
	FilterClasses []string

	// Seed drives column resampling. Runs with the same seed, dataset and
	// model produce identical scores. Zero means DefaultSeed.
	Seed uint64
}

// Score is one feature's normalized importance.
type Score struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// Importances is a ranking of features by normalized importance, sorted
// ascending so the most important feature comes last. Scores always sum
// to 1.
type Importances []Score

// Sum returns the total of all scores. For any non-empty ranking this
// is 1 up to floating point error.
func (imp Importances) Sum() float64 {
	total := 0.0
	for _, s := range imp {
		total += s.Importance
	}
	return total
}

// Map returns the ranking as a feature → score lookup.
func (imp Importances) Map() map[string]float64 {
	out := make(map[string]float64, len(imp))
	for _, s := range imp {
		out[s.Feature] = s.Importance
	}
	return out
}

// Top returns the n most important features, most important first.
// If n exceeds the ranking size the whole ranking is returned.
func (imp Importances) Top(n int) Importances {
	n = min(n, len(imp))
	out := make(Importances, n)
	for i := range n {
		out[i] = imp[len(imp)-1-i]
	}
	return out
}

// FeatureImportance computes permutation-based global importance for every
// feature of ds with respect to the model m.
//
// For each feature, the column is replaced by a random-choice resample of
// its own values (preserving the marginal distribution while breaking any
// relationship with the output), the model is re-run, and the feature's raw
// score is the mean over output dimensions of the per-dimension standard
// deviation of the prediction shift. Raw scores are then normalized to sum
// to 1 and sorted ascending.
//
// When the model is completely insensitive (all raw scores zero), the
// uniform ranking 1/len(features) is returned rather than dividing by zero.
func FeatureImportance(ctx context.Context, ds *dataset.Dataset, m model.Model, opts Options) (Importances, error) {
	if ds == nil || ds.Cols() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "dataset must have at least one feature")
	}
	if ds.Rows() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidDataset, "dataset must have at least one row")
	}

	targetNames := m.TargetNames()
	if err := errors.ValidateFilterClasses(targetNames, opts.FilterClasses); err != nil {
		return nil, err
	}

	baseline, err := predictFiltered(ctx, m, ds.Matrix(), targetNames, opts.FilterClasses)
	if err != nil {
		return nil, err
	}

	seed := opts.Seed
	if seed == 0 {
		seed = DefaultSeed
	}

	n := len(baseline)
	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))

	// One working copy for all perturbations; each column is restored
	// before the next feature is measured.
	perturbed := ds.Copy()

	raw := make(Importances, 0, ds.Cols())
	for _, feature := range ds.Features() {
		original, err := ds.Column(feature)
		if err != nil {
			return nil, err
		}

		samples, err := ds.SampleColumn(feature, n, rng)
		if err != nil {
			return nil, err
		}
		if err := perturbed.SetColumn(feature, samples); err != nil {
			return nil, err
		}

		preds, err := predictFiltered(ctx, m, perturbed.Matrix(), targetNames, opts.FilterClasses)
		if err != nil {
			return nil, err
		}

		raw = append(raw, Score{
			Feature:    feature,
			Importance: predictionShift(baseline, preds),
		})

		if err := perturbed.SetColumn(feature, original); err != nil {
			return nil, err
		}
	}

	return normalize(raw), nil
}

func predictFiltered(ctx context.Context, m model.Model, X [][]float64, targetNames, classes []string) ([][]float64, error) {
	preds, err := m.Predict(ctx, X)
	if err != nil {
		return nil, err
	}
	return model.FilterOutputs(preds, targetNames, classes)
}

// predictionShift measures how far perturbed predictions moved from the
// baseline: the mean over output dimensions of the population standard
// deviation of the per-row delta.
func predictionShift(baseline, perturbed [][]float64) float64 {
	if len(baseline) == 0 || len(baseline[0]) == 0 {
		return 0
	}

	rows := len(baseline)
	dims := len(baseline[0])

	delta := make([]float64, rows)
	total := 0.0
	for d := range dims {
		for r := range rows {
			delta[r] = perturbed[r][d] - baseline[r][d]
		}
		total += stat.PopStdDev(delta, nil)
	}
	return total / float64(dims)
}

// normalize sorts scores ascending and scales them to sum to 1. A ranking
// with zero total becomes uniform.
func normalize(raw Importances) Importances {
	slices.SortFunc(raw, func(a, b Score) int {
		if c := cmp.Compare(a.Importance, b.Importance); c != 0 {
			return c
		}
		return cmp.Compare(a.Feature, b.Feature)
	})

	total := raw.Sum()
	if total == 0 {
		uniform := 1.0 / float64(len(raw))
		for i := range raw {
			raw[i].Importance = uniform
		}
		return raw
	}

	for i := range raw {
		raw[i].Importance /= total
	}
	return raw
}
