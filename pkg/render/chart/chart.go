package chart

import (
	"bytes"
	"encoding/json"
	"image/color"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/raonyguimaraes/skater/pkg/errors"
	"github.com/raonyguimaraes/skater/pkg/interpret"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, svg, pdf, json)", format)
	}
	return nil
}

// defaultBarColor matches the first entry of the palette the charts cycle
// through.
var defaultBarColor = color.RGBA{R: 50, G: 110, B: 230, A: 255}

const (
	defaultWidth  = 6 * vg.Inch
	defaultHeight = 4 * vg.Inch
)

var barThickness = vg.Points(14)

// Option configures chart rendering.
type Option func(*config)

type config struct {
	title  string
	width  vg.Length
	height vg.Length
	color  color.Color
}

// WithTitle sets the chart title.
func WithTitle(title string) Option {
	return func(c *config) { c.title = title }
}

// WithSize sets the chart dimensions in inches.
func WithSize(width, height float64) Option {
	return func(c *config) {
		c.width = vg.Length(width) * vg.Inch
		c.height = vg.Length(height) * vg.Inch
	}
}

// WithBarColor sets the bar fill color.
func WithBarColor(col color.Color) Option {
	return func(c *config) { c.color = col }
}

// Render draws an importance ranking as a horizontal bar chart and encodes
// it in the given format. Features are placed on the Y axis with the most
// important feature on top; the X axis carries the normalized score.
//
// The "json" format skips drawing entirely and returns the scores
// themselves, which is useful for piping into other tools or re-rendering
// later without recomputation.
func Render(imp interpret.Importances, format string, opts ...Option) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if len(imp) == 0 {
		return nil, errors.New(errors.ErrCodeRender, "nothing to render: empty importance ranking")
	}

	if format == FormatJSON {
		return json.MarshalIndent(imp, "", "  ")
	}

	cfg := config{
		title:  "Feature importance",
		width:  defaultWidth,
		height: defaultHeight,
		color:  defaultBarColor,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	p, err := buildBarChart(imp, cfg)
	if err != nil {
		return nil, err
	}

	wt, err := p.WriterTo(cfg.width, cfg.height, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderUnavailable, err, "charting backend cannot produce %s", format)
	}

	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "write %s chart", format)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the ranking and writes it to path, inferring the format
// from the file extension.
func WriteFile(imp interpret.Importances, path string, opts ...Option) error {
	format := strings.TrimPrefix(strings.ToLower(ext(path)), ".")
	data, err := Render(imp, format, opts...)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

func buildBarChart(imp interpret.Importances, cfg config) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = cfg.title
	p.X.Label.Text = "Importance"

	// Importances arrive sorted ascending; NominalY places the first label
	// at the bottom, which puts the most important feature on top.
	values := make(plotter.Values, len(imp))
	names := make([]string, len(imp))
	for i, s := range imp {
		values[i] = s.Importance
		names[i] = s.Feature
	}

	bars, err := plotter.NewBarChart(values, barThickness)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderUnavailable, err, "build bar chart")
	}
	bars.Horizontal = true
	bars.Color = cfg.color
	bars.LineStyle.Width = 0

	p.Add(bars)
	p.NominalY(names...)
	p.X.Min = 0
	return p, nil
}
