// Package cli implements the skater command-line interface.
//
// This package provides commands for estimating global feature importance
// against in-memory or deployed models, rendering importance charts, serving
// the HTTP API, and managing the local cache. The CLI is built using cobra
// and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - explain: Estimate feature importance for a dataset against a model
//   - render: Re-render exported importance scores as a chart
//   - serve: Run the HTTP API server
//   - cache: Manage the prediction and explanation cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/raonyguimaraes/skater/pkg/buildinfo"
	"github.com/raonyguimaraes/skater/pkg/httputil"
	"github.com/raonyguimaraes/skater/pkg/pipeline"
	"github.com/raonyguimaraes/skater/pkg/render/chart"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "skater"

	// defaultCacheTTL is how long cached predictions and explanations stay valid.
	defaultCacheTTL = 24 * time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and the config file
// loaded when one exists.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
		Config: LoadConfigOrDefault(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "skater",
		Short:        "Skater explains black-box model predictions",
		Long:         `Skater estimates global feature importance for any prediction model by perturbing one feature at a time and measuring how much the model's output shifts, then renders the result as ranked bar charts.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.explainCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.newCache(noCache), c.Logger)
}

func (c *CLI) newCache(noCache bool) *httputil.Cache {
	if noCache || c.Config.CacheTTLHours < 0 {
		return nil
	}
	dir, err := cacheDir()
	if err != nil {
		return nil
	}
	cache, err := httputil.NewCache(dir, c.Config.CacheTTL())
	if err != nil {
		return nil
	}
	return cache
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/skater/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{chart.FormatJSON}
	}
	return strings.Split(s, ",")
}

// parseClasses parses a comma-separated class filter into a slice.
// Empty input means no filtering.
func parseClasses(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	classes := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			classes = append(classes, trimmed)
		}
	}
	return classes
}
