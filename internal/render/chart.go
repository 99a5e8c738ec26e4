package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"fullset/internal/collector"
)

// Reference chart geometry, in pixels.
const (
	DefaultChartWidth  = 1280
	DefaultChartHeight = 720
)

// chartDPI converts pixel options into vg lengths.
const chartDPI = 96

// ChartOptions adjust the PNG histogram.
type ChartOptions struct {
	// Width and Height are the image size in pixels. Zero selects the
	// defaults.
	Width  int
	Height int
	// Title overrides the generated title.
	Title string
}

// SaveChart writes the summary histogram as a PNG bar chart: blue filled
// bars over the full draw-count axis, y axis padded above the tallest
// bucket. The parent directory is created if needed.
func SaveChart(path string, s *collector.Summary, opts ChartOptions) error {
	if s == nil || s.Trials == 0 {
		return fmt.Errorf("nothing to chart: summary is empty")
	}
	for length := range s.Histogram {
		if length < axisMin || length > axisMax {
			return fmt.Errorf("histogram key %d outside axis [%d, %d]", length, axisMin, axisMax)
		}
	}

	width := opts.Width
	if width <= 0 {
		width = DefaultChartWidth
	}
	height := opts.Height
	if height <= 0 {
		height = DefaultChartHeight
	}
	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("Draws to earn all prizes (%d trials)", s.Trials)
	}

	values := make(plotter.Values, axisMax-axisMin+1)
	labels := make([]string, axisMax-axisMin+1)
	maxCount := 0
	for i := range values {
		count := s.Histogram[axisMin+i]
		values[i] = float64(count)
		labels[i] = fmt.Sprintf("%d", axisMin+i)
		if count > maxCount {
			maxCount = count
		}
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Draws"
	p.Y.Label.Text = "Trials"
	p.Y.Min = 0
	p.Y.Max = float64(maxCount + maxCount/20 + 5)

	barWidth := vg.Length(float64(width)/float64(len(values))) * vg.Inch / (chartDPI * 2)
	bars, err := plotter.NewBarChart(values, barWidth)
	if err != nil {
		return fmt.Errorf("building bar chart: %w", err)
	}
	bars.Color = color.RGBA{B: 0xff, A: 0xff}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.NominalX(labels...)

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating chart directory: %w", err)
		}
	}

	w := vg.Length(width) * vg.Inch / chartDPI
	h := vg.Length(height) * vg.Inch / chartDPI
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("writing chart: %w", err)
	}
	return nil
}
