package interpret_test

import (
	"context"
	"fmt"

	"github.com/raonyguimaraes/skater/pkg/dataset"
	"github.com/raonyguimaraes/skater/pkg/interpret"
	"github.com/raonyguimaraes/skater/pkg/model"
)

func ExampleFeatureImportance() {
	// A model that depends only on its first feature.
	m, _ := model.NewRegressionModel(func(x []float64) float64 {
		return 10 * x[0]
	})

	rows := make([][]float64, 50)
	for i := range rows {
		rows[i] = []float64{float64(i), float64(i % 5)}
	}
	ds, _ := dataset.New(rows, []string{"signal", "noise"})

	scores, _ := interpret.FeatureImportance(context.Background(), ds, m, interpret.Options{
		Seed: interpret.DefaultSeed,
	})

	fmt.Println("most important:", scores.Top(1)[0].Feature)
	fmt.Printf("sum: %.1f\n", scores.Sum())
	// Output:
	// most important: signal
	// sum: 1.0
}
