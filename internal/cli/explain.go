package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raonyguimaraes/skater/pkg/pipeline"
	"github.com/raonyguimaraes/skater/pkg/store"
)

// explainCommand creates the explain command for estimating feature importance.
func (c *CLI) explainCommand() *cobra.Command {
	var (
		modelURL   string
		targetsStr string
		classesStr string
		seed       uint64
		output     string
		formatsStr string
		title      string
		noCache    bool
		refresh    bool
		persist    bool
	)

	cmd := &cobra.Command{
		Use:   "explain [data.csv]",
		Short: "Estimate global feature importance for a dataset",
		Long: `Estimate global feature importance for a dataset.

The explain command perturbs each feature column in turn (resampling it with
replacement), re-queries the model, and scores the feature by how much the
predictions shift. Scores are normalized to sum to one and printed ranked,
most important first.

The model is addressed by its prediction endpoint (--model-url), which must
accept POST requests with {"data": [[...]]} and answer {"predictions": [[...]]}.
For classifiers, --classes restricts scoring to a subset of output classes.

Results are cached locally, keyed by dataset contents, model and options, so
repeated runs are fast. Use --refresh to force recomputation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Dataset:       args[0],
				ModelURL:      modelURL,
				Targets:       parseClasses(targetsStr),
				FilterClasses: parseClasses(classesStr),
				Seed:          seed,
				Refresh:       refresh,
				Formats:       parseFormats(formatsStr),
				Title:         title,
			}
			if opts.ModelURL == "" {
				opts.ModelURL = c.Config.ModelURL
			}
			if len(opts.Targets) == 0 {
				opts.Targets = c.Config.Targets
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runExplain(cmd.Context(), opts, output, noCache, persist)
		},
	}

	// Model flags
	cmd.Flags().StringVar(&modelURL, "model-url", "", "prediction endpoint of the deployed model")
	cmd.Flags().StringVar(&targetsStr, "targets", "", "model output names (comma-separated)")
	cmd.Flags().StringVar(&classesStr, "classes", "", "restrict scoring to these output classes (comma-separated)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for reproducible perturbation")

	// Output flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), svg, png, pdf (comma-separated)")
	cmd.Flags().StringVar(&title, "title", "", "chart title")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached result exists")
	cmd.Flags().BoolVar(&persist, "store", false, "persist the result to the local explanation store")

	return cmd
}

// runExplain executes the pipeline and writes output artifacts.
func (c *CLI) runExplain(ctx context.Context, opts pipeline.Options, output string, noCache, persist bool) error {
	runner := c.newRunner(noCache)
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Explaining %s...", filepath.Base(opts.Dataset)))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Explanation failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Explanation complete")
	printStats(result.Stats.Rows, result.Stats.Features, result.CacheInfo.ExplainHit)
	printNewline()
	printScores(result.Scores)
	printNewline()

	paths, err := writeArtifacts(result.Artifacts, opts.Formats, opts.Dataset, output)
	if err != nil {
		return err
	}
	for _, p := range paths {
		printFile(p)
	}

	if persist {
		id, err := c.persistExplanation(ctx, opts, result)
		if err != nil {
			return err
		}
		printDetail("Stored as %s", id)
	}

	for i, format := range opts.Formats {
		if format == pipeline.FormatJSON {
			printNextStep("Re-render", "skater render "+paths[i])
			break
		}
	}

	return nil
}

// persistExplanation saves the result to the local file store.
func (c *CLI) persistExplanation(ctx context.Context, opts pipeline.Options, result *pipeline.Result) (string, error) {
	st, err := store.NewFileStore("")
	if err != nil {
		return "", fmt.Errorf("open explanation store: %w", err)
	}
	defer st.Close()

	rec := store.New(filepath.Base(opts.Dataset), result.Scores, store.DefaultTTL)
	rec.ModelURL = opts.ModelURL
	rec.FilterClasses = opts.FilterClasses
	rec.Seed = opts.Seed

	if err := st.Set(ctx, rec); err != nil {
		return "", fmt.Errorf("persist explanation: %w", err)
	}
	return rec.ID, nil
}

// writeArtifacts writes rendered outputs to disk and returns the paths written.
// With a single format, output names the file directly; with multiple formats,
// output (or the input basename) is used as the base path and the format is
// appended as the extension.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	single := len(formats) == 1 && output != ""
	base := output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input)) + ".importance"
	}

	var paths []string
	for _, format := range formats {
		path := base
		if !single {
			path = base + "." + format
		}
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
