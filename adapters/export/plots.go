package export

import (
	"fmt"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"morpho/domain/profile"
	"morpho/internal"
	"morpho/internal/errors"
	"morpho/internal/stats"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// DefaultPlotDPI is the raster resolution used when none is configured.
const DefaultPlotDPI = 800

// defaultPalette cycles when a condition has no configured color.
var defaultPalette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff},
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff},
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff},
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff},
}

// PlotExporter renders bar, box and frequency plots styled from a profile's
// plot configuration.
type PlotExporter struct {
	style    profile.PlotConfig
	scatter  bool
	jitter   float64
	dpi      int
	formats  []string
	binWidth float64
	logger   *internal.Logger
}

// NewPlotExporter builds an exporter from a profile. Unset DPI falls back
// to the default; unset formats fall back to png.
func NewPlotExporter(p *profile.Profile, logger *internal.Logger) *PlotExporter {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	dpi := p.PlotDPI
	if dpi <= 0 {
		dpi = DefaultPlotDPI
	}
	formats := p.PlotFormats
	if len(formats) == 0 {
		formats = []string{"png"}
	}
	binWidth := p.FrequencyBinWidth
	if binWidth <= 0 {
		binWidth = 10
	}
	return &PlotExporter{
		style:    p.PlotConfig,
		scatter:  p.ShowScatterDots,
		jitter:   p.ScatterJitter,
		dpi:      dpi,
		formats:  formats,
		binWidth: binWidth,
		logger:   logger,
	}
}

// ExportBarPlots writes one mean±SEM bar plot per parameter and returns the
// created paths.
func (e *PlotExporter) ExportBarPlots(outputDir string, data []ParameterData) ([]string, error) {
	var paths []string
	for _, pd := range data {
		p := plot.New()
		p.Title.Text = pd.Parameter
		p.Y.Label.Text = pd.Parameter

		series := e.orderSeries(pd.Series)
		labels := make([]string, len(series))
		jitterSrc := rand.New(rand.NewSource(1))
		for i, s := range series {
			labels[i] = e.displayName(s.Condition)
			summary := stats.Summarize(s.Values)

			bar, err := plotter.NewBarChart(plotter.Values{summary.Mean}, vg.Points(24))
			if err != nil {
				return nil, errors.Wrapf(err, "failed to build bar for %s", s.Condition)
			}
			bar.Color = e.conditionColor(s.Condition, i)
			bar.Offset = 0
			bar.XMin = float64(i)
			p.Add(bar)

			errBars, err := plotter.NewYErrorBars(errorBarData{
				x: float64(i), y: summary.Mean, err: summary.SEM,
			})
			if err != nil {
				return nil, errors.Wrapf(err, "failed to build error bars for %s", s.Condition)
			}
			p.Add(errBars)

			if e.scatter {
				scatter, err := e.scatterOverlay(float64(i), s.Values, jitterSrc)
				if err != nil {
					return nil, err
				}
				p.Add(scatter)
			}
		}

		p.NominalX(labels...)
		e.applyYRange(p)

		written, err := e.write(outputDir, "barplot_"+slug(pd.Parameter), p)
		if err != nil {
			return nil, err
		}
		paths = append(paths, written...)
	}
	return paths, nil
}

// ExportBoxPlots writes one box plot per parameter.
func (e *PlotExporter) ExportBoxPlots(outputDir string, data []ParameterData) ([]string, error) {
	var paths []string
	for _, pd := range data {
		p := plot.New()
		p.Title.Text = pd.Parameter
		p.Y.Label.Text = pd.Parameter

		series := e.orderSeries(pd.Series)
		labels := make([]string, len(series))
		for i, s := range series {
			labels[i] = e.displayName(s.Condition)
			box, err := plotter.NewBoxPlot(vg.Points(24), float64(i), plotter.Values(s.Values))
			if err != nil {
				return nil, errors.Wrapf(err, "failed to build box for %s", s.Condition)
			}
			box.FillColor = e.conditionColor(s.Condition, i)
			p.Add(box)
		}

		p.NominalX(labels...)
		e.applyYRange(p)

		written, err := e.write(outputDir, "boxplot_"+slug(pd.Parameter), p)
		if err != nil {
			return nil, err
		}
		paths = append(paths, written...)
	}
	return paths, nil
}

// ExportFrequencyPlots writes one grouped frequency bar chart per
// parameter, one bar group per condition over the union of bins.
func (e *PlotExporter) ExportFrequencyPlots(outputDir string, data []ParameterData) ([]string, error) {
	var paths []string
	for _, pd := range data {
		p := plot.New()
		p.Title.Text = pd.Parameter + " frequency"
		p.X.Label.Text = "Bin center"
		p.Y.Label.Text = "Count"

		series := e.orderSeries(pd.Series)
		distributions := make(map[string]stats.Distribution, len(series))
		for _, s := range series {
			dist, err := stats.FrequencyDistribution(s.Values, e.binWidth)
			if err != nil {
				return nil, err
			}
			distributions[s.Condition] = dist
		}
		lowers := unionBinLowers(distributions)

		width := vg.Points(20 / float64(len(series)))
		for i, s := range series {
			values := make(plotter.Values, len(lowers))
			for bi, lower := range lowers {
				count, _ := binAt(distributions[s.Condition], lower)
				values[bi] = float64(count)
			}
			bars, err := plotter.NewBarChart(values, width)
			if err != nil {
				return nil, errors.Wrapf(err, "failed to build frequency bars for %s", s.Condition)
			}
			bars.Color = e.conditionColor(s.Condition, i)
			bars.Offset = width * vg.Length(i)
			p.Add(bars)
			p.Legend.Add(e.displayName(s.Condition), bars)
		}

		labels := make([]string, len(lowers))
		for i, lower := range lowers {
			labels[i] = fmt.Sprintf("%g", lower+e.binWidth/2)
		}
		p.NominalX(labels...)

		written, err := e.write(outputDir, "frequency_"+slug(pd.Parameter), p)
		if err != nil {
			return nil, err
		}
		paths = append(paths, written...)
	}
	return paths, nil
}

// write renders a plot into every configured format.
func (e *PlotExporter) write(outputDir, prefix string, p *plot.Plot) ([]string, error) {
	var paths []string
	for _, format := range e.formats {
		c := vgimg.NewWith(
			vgimg.UseWH(6*vg.Inch, 4*vg.Inch),
			vgimg.UseDPI(e.dpi),
		)
		p.Draw(draw.New(c))

		path := filepath.Join(outputDir, artifactName(prefix, format))
		f, err := os.Create(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create %s", path)
		}

		switch strings.ToLower(format) {
		case "png":
			_, err = vgimg.PngCanvas{Canvas: c}.WriteTo(f)
		case "tif", "tiff":
			_, err = vgimg.TiffCanvas{Canvas: c}.WriteTo(f)
		case "jpg", "jpeg":
			_, err = vgimg.JpegCanvas{Canvas: c}.WriteTo(f)
		default:
			f.Close()
			os.Remove(path)
			return nil, errors.UnsupportedFormat(format)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to render %s", path)
		}
		paths = append(paths, path)
		e.logger.Debug("wrote plot %s", path)
	}
	return paths, nil
}

func (e *PlotExporter) scatterOverlay(x float64, values []float64, src *rand.Rand) (*plotter.Scatter, error) {
	pts := make(plotter.XYs, len(values))
	for i, v := range values {
		pts[i].X = x + (src.Float64()*2-1)*e.jitter
		pts[i].Y = v
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build scatter overlay")
	}
	scatter.GlyphStyle.Radius = vg.Points(1.5)
	scatter.GlyphStyle.Color = color.RGBA{A: 0x99}
	return scatter, nil
}

// orderSeries applies the configured condition order; unlisted conditions
// keep their incoming name order after the listed ones.
func (e *PlotExporter) orderSeries(series []ConditionSeries) []ConditionSeries {
	if len(e.style.ConditionOrder) == 0 {
		return series
	}
	rank := make(map[string]int, len(e.style.ConditionOrder))
	for i, c := range e.style.ConditionOrder {
		rank[c] = i
	}
	ordered := append([]ConditionSeries(nil), series...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return seriesLess(ordered[i], ordered[j], rank)
	})
	return ordered
}

func seriesLess(a, b ConditionSeries, rank map[string]int) bool {
	ra, aOK := rank[a.Condition]
	rb, bOK := rank[b.Condition]
	switch {
	case aOK && bOK:
		return ra < rb
	case aOK:
		return true
	default:
		return false
	}
}

func (e *PlotExporter) displayName(condition string) string {
	if name, ok := e.style.DisplayNames[condition]; ok {
		return name
	}
	return condition
}

func (e *PlotExporter) conditionColor(condition string, i int) color.Color {
	if hex, ok := e.style.Colors[condition]; ok {
		if c, err := parseHexColor(hex); err == nil {
			return c
		}
	}
	return defaultPalette[i%len(defaultPalette)]
}

func (e *PlotExporter) applyYRange(p *plot.Plot) {
	if e.style.YMin != nil {
		p.Y.Min = *e.style.YMin
	}
	if e.style.YMax != nil {
		p.Y.Max = *e.style.YMax
	}
}

// errorBarData adapts one point with a symmetric error to the plotter
// interfaces.
type errorBarData struct {
	x, y, err float64
}

func (d errorBarData) Len() int                      { return 1 }
func (d errorBarData) XY(int) (float64, float64)     { return d.x, d.y }
func (d errorBarData) YError(int) (float64, float64) { return d.err, d.err }

func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, err
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

func slug(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, " ", "_"))
}
