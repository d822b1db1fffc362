// Package chart renders per-generation statistics of two experiment settings
// side by side: one figure per metric, each series drawn as a centre line
// with a shaded band (mean ± std, or the interquartile range).
package chart

import (
	"fmt"
	"image/color"
	"io"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/harrison/genscrape/internal/filelock"
	"github.com/harrison/genscrape/internal/models"
)

// Series colours
var (
	SeriesBlack = color.RGBA{A: 0xff}
	SeriesBlue  = color.RGBA{R: 0x00, G: 0xaa, B: 0xff, A: 0xff}
)

// bandAlpha is the opacity of the shaded band (0.2)
const bandAlpha = 51

// Supported output formats
var formats = []string{"pdf", "png", "svg", "eps"}

// Figure describes one output chart
type Figure struct {
	Metric models.Metric
	Suffix string
	YLabel string
	// Scaled figures divide every value by Options.DiversityScale and clamp the y axis to [0, 1].
	Scaled bool
}

// Figures lists every chart that can be produced, in output order.
var Figures = []Figure{
	{Metric: models.MetricCodeSizeMean, Suffix: "mean_code_size", YLabel: "Mean Size"},
	{Metric: models.MetricCodeSizeMedian, Suffix: "median_code_size", YLabel: "Median Size"},
	{Metric: models.MetricGenomeSizeMean, Suffix: "mean_genome_size", YLabel: "Mean Genome Size"},
	{Metric: models.MetricGenomeSizeMedian, Suffix: "median_genome_size", YLabel: "Median Genome Size"},
	{Metric: models.MetricUniqueBehaviors, Suffix: "diversity", YLabel: "Diversity (Unique Behaviors / %g)", Scaled: true},
}

// Series is one experiment setting to draw
type Series struct {
	Label   string
	Color   color.Color
	Metrics []models.Metric // metrics present in the source table
	Rows    []models.GroupedStat
}

func (s *Series) has(m models.Metric) bool {
	for _, candidate := range s.Metrics {
		if candidate == m {
			return true
		}
	}
	return false
}

// Options control where and how charts are written
type Options struct {
	OutDir         string
	Prefix         string
	Format         string
	DiversityScale float64
	Width          vg.Length
	Height         vg.Length
}

// DefaultOptions returns the options used when a caller sets nothing
func DefaultOptions() Options {
	return Options{
		OutDir:         "images",
		Prefix:         "plot",
		Format:         "pdf",
		DiversityScale: 1000,
		Width:          10 * vg.Inch,
		Height:         6 * vg.Inch,
	}
}

// ValidateFormat checks that a chart format is supported
func ValidateFormat(format string) error {
	f := strings.ToLower(strings.TrimSpace(format))
	for _, candidate := range formats {
		if f == candidate {
			return nil
		}
	}
	return fmt.Errorf("invalid chart format %q: must be one of %s", format, strings.Join(formats, ", "))
}

// Path returns the output file of a figure: <OutDir>/<Prefix>_<Suffix>.<Format>
func (o Options) Path(f Figure) string {
	return filepath.Join(o.OutDir, fmt.Sprintf("%s_%s.%s", o.Prefix, f.Suffix, strings.ToLower(o.Format)))
}

// Render writes one chart per figure whose metric has data in at least one
// series, and returns the written paths in figure order.
func Render(series []Series, opts Options) ([]string, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("no series to plot")
	}
	if err := ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	if opts.DiversityScale <= 0 {
		return nil, fmt.Errorf("diversity scale must be positive, got %g", opts.DiversityScale)
	}
	defaults := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = defaults.Width
	}
	if opts.Height <= 0 {
		opts.Height = defaults.Height
	}

	var written []string
	for _, fig := range Figures {
		present := false
		for i := range series {
			if !series[i].has(fig.Metric) {
				continue
			}
			if center, _, _ := Points(series[i].Rows, fig.Metric, 1); len(center) > 0 {
				present = true
				break
			}
		}
		if !present {
			continue
		}

		p, err := Build(fig, series, opts.DiversityScale)
		if err != nil {
			return written, fmt.Errorf("failed to build %s chart: %w", fig.Suffix, err)
		}

		path := opts.Path(fig)
		wt, err := p.WriterTo(opts.Width, opts.Height, strings.ToLower(opts.Format))
		if err != nil {
			return written, fmt.Errorf("failed to render %s: %w", path, err)
		}
		if err := filelock.WriteAtomic(path, func(w io.Writer) error {
			_, err := wt.WriteTo(w)
			return err
		}); err != nil {
			return written, fmt.Errorf("failed to save %s: %w", path, err)
		}
		written = append(written, path)
	}

	return written, nil
}

// Build assembles the plot of one figure without writing it.
func Build(fig Figure, series []Series, scale float64) (*plot.Plot, error) {
	p := plot.New()
	p.X.Label.Text = "Generation"
	p.Y.Label.Text = fig.YLabel
	if fig.Scaled {
		p.Y.Label.Text = fmt.Sprintf(fig.YLabel, scale)
	}

	grid := plotter.NewGrid()
	grid.Vertical.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(1), vg.Points(2)}
	grid.Vertical.Color = color.Gray{Y: 0x80}
	grid.Horizontal.Color = color.Gray{Y: 0x80}
	p.Add(grid)

	divisor := 1.0
	if fig.Scaled {
		divisor = scale
	}

	for i := range series {
		s := &series[i]
		if !s.has(fig.Metric) {
			continue
		}
		center, lower, upper := Points(s.Rows, fig.Metric, divisor)
		if len(center) == 0 {
			continue
		}

		c := s.Color
		if c == nil {
			c = SeriesBlack
		}

		band, err := bandPolygon(lower, upper, c)
		if err != nil {
			return nil, err
		}
		line, err := plotter.NewLine(center)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = c
		line.LineStyle.Width = vg.Points(1)

		p.Add(band, line)
		p.Legend.Add(s.Label, line)
	}

	if fig.Scaled {
		p.Y.Min = 0
		p.Y.Max = 1
	}
	p.Legend.Top = true

	return p, nil
}

// Points extracts the centre line and band edges of one metric, divided by
// divisor. Generations without samples for the metric are left out.
func Points(rows []models.GroupedStat, m models.Metric, divisor float64) (center, lower, upper plotter.XYs) {
	for i := range rows {
		c, lo, hi, ok := rows[i].Band(m)
		if !ok {
			continue
		}
		x := float64(rows[i].Generation)
		center = append(center, plotter.XY{X: x, Y: c / divisor})
		lower = append(lower, plotter.XY{X: x, Y: lo / divisor})
		upper = append(upper, plotter.XY{X: x, Y: hi / divisor})
	}
	return center, lower, upper
}

// bandPolygon closes the area between the upper edge (left to right) and the
// lower edge (right to left).
func bandPolygon(lower, upper plotter.XYs, c color.Color) (*plotter.Polygon, error) {
	ring := make(plotter.XYs, 0, len(lower)+len(upper))
	ring = append(ring, upper...)
	for i := len(lower) - 1; i >= 0; i-- {
		ring = append(ring, lower[i])
	}

	poly, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil, err
	}
	r, g, b, _ := c.RGBA()
	poly.Color = color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: bandAlpha}
	poly.LineStyle.Width = 0
	return poly, nil
}
