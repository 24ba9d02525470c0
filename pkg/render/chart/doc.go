// Package chart renders importance rankings as horizontal bar charts.
//
// Rendering is built on gonum.org/v1/plot. Supported formats are png, svg
// and pdf for drawn charts, plus json for the raw scores:
//
//	data, err := chart.Render(scores, chart.FormatPNG, chart.WithTitle("Iris"))
//	err = chart.WriteFile(scores, "importance.svg")
//
// Rendering failures are structured errors: INVALID_FORMAT for unsupported
// formats, RENDER_UNAVAILABLE when the charting backend cannot produce the
// requested output, RENDER_ERROR for everything else.
package chart
