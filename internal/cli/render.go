package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raonyguimaraes/skater/pkg/interpret"
	"github.com/raonyguimaraes/skater/pkg/pipeline"
)

// renderCommand creates the render command for charting exported scores.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		title      string
	)

	cmd := &cobra.Command{
		Use:   "render [scores.json]",
		Short: "Render exported importance scores as a chart",
		Long: `Render exported importance scores as a chart.

The render command takes a scores.json file (produced by 'explain -f json')
and renders it to SVG, PNG, or PDF without recomputing the explanation. The
scores contain everything needed for charting, so no model access is required.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], formats, output, title)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "svg", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().StringVar(&title, "title", "", "chart title")

	return cmd
}

// runRender loads the scores and renders them.
func (c *CLI) runRender(ctx context.Context, input string, formats []string, output, title string) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	scores, err := readScoresFile(input)
	if err != nil {
		return fmt.Errorf("load scores %s: %w", input, err)
	}

	runner := c.newRunner(true)
	opts := pipeline.Options{
		Formats: formats,
		Title:   title,
		Logger:  logger,
	}

	artifacts, err := runner.Render(ctx, scores, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %d feature scores", len(scores)))

	paths, err := writeArtifacts(artifacts, formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	return nil
}

// readScoresFile parses an exported score set from disk.
func readScoresFile(path string) (interpret.Importances, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var scores interpret.Importances
	if err := json.Unmarshal(data, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}
