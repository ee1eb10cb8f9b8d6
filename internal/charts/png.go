package charts

import (
	"bytes"
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/lox/bikedash/internal/bikeshare"
	"github.com/lox/bikedash/internal/metrics"
)

// PNG canvas sizes in inches, the same figure sizes as the analysis notebook.
var (
	weatherSize = [2]vg.Length{8 * vg.Inch, 5 * vg.Inch}
	hourlySize  = [2]vg.Length{10 * vg.Inch, 5 * vg.Inch}
	yearlySize  = [2]vg.Length{6 * vg.Inch, 5 * vg.Inch}
)

// PNG renders the chart of the given kind from t.
func PNG(kind Kind, t *bikeshare.Table) ([]byte, error) {
	switch kind {
	case Weather:
		s, err := bikeshare.ByWeather(t)
		if err != nil {
			return nil, err
		}
		return WeatherPNG(s)
	case Hourly:
		h, err := bikeshare.ByHourAndDayType(t)
		if err != nil {
			return nil, err
		}
		return HourlyPNG(h)
	case Yearly:
		s, err := bikeshare.ByYear(t)
		if err != nil {
			return nil, err
		}
		return YearlyPNG(s)
	}
	return nil, fmt.Errorf("unknown chart %q", kind)
}

// WeatherPNG renders the weather bar chart as PNG.
func WeatherPNG(s bikeshare.Series[float64]) ([]byte, error) {
	labels := make([]string, s.Len())
	colors := make([]string, s.Len())
	for i, code := range s.Keys {
		labels[i] = bikeshare.WeatherLabel(code)
		colors[i] = weatherColor(code)
	}
	p, err := barPlot(WeatherTitle, WeatherXLabel, CountLabel, labels, s.Values, colors)
	if err != nil {
		return nil, err
	}
	metrics.ChartRenders.WithLabelValues(string(Weather), "png").Inc()
	return encode(p, weatherSize)
}

// YearlyPNG renders the yearly totals bar chart as PNG.
func YearlyPNG(s bikeshare.Series[int64]) ([]byte, error) {
	labels := make([]string, s.Len())
	colors := make([]string, s.Len())
	values := make([]float64, s.Len())
	for i, yr := range s.Keys {
		labels[i] = bikeshare.YearLabel(yr)
		colors[i] = yearColor(yr)
		values[i] = float64(s.Values[i])
	}
	p, err := barPlot(YearlyTitle, YearlyXLabel, TotalLabel, labels, values, colors)
	if err != nil {
		return nil, err
	}
	metrics.ChartRenders.WithLabelValues(string(Yearly), "png").Inc()
	return encode(p, yearlySize)
}

// HourlyPNG renders the hourly day-type lines as PNG. Empty series are left
// out of the plot and the legend.
func HourlyPNG(h bikeshare.HourlyByDayType) ([]byte, error) {
	p := plot.New()
	p.Title.Text = HourlyTitle
	p.X.Label.Text = HourlyXLabel
	p.Y.Label.Text = CountLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for _, dt := range dayTypes {
		s := h.ByDayType(dt)
		if s.Empty() {
			continue
		}
		xys := make(plotter.XYs, s.Len())
		for i, hr := range s.Keys {
			xys[i].X = float64(hr)
			xys[i].Y = s.Values[i]
		}
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return nil, fmt.Errorf("hourly %s: %w", dt, err)
		}
		c := rgba(dayTypeColors[dt])
		line.Color = c
		line.Width = vg.Points(1.5)
		points.Color = c
		points.Shape = draw.CircleGlyph{}
		points.Radius = vg.Points(3)
		p.Add(line, points)
		p.Legend.Add(dt.Label(), line, points)
	}

	p.X.Min, p.X.Max = 0, 23
	p.Y.Min = 0
	p.X.Tick.Marker = hourTicks{}

	metrics.ChartRenders.WithLabelValues(string(Hourly), "png").Inc()
	return encode(p, hourlySize)
}

func barPlot(title, xLabel, yLabel string, labels []string, values []float64, colors []string) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	for i, v := range values {
		bar, err := plotter.NewBarChart(plotter.Values{v}, vg.Points(48))
		if err != nil {
			return nil, fmt.Errorf("bar %s: %w", labels[i], err)
		}
		bar.XMin = float64(i)
		bar.Color = rgba(colors[i])
		bar.LineStyle.Width = vg.Length(0)
		p.Add(bar)
	}
	if len(values) > 0 {
		p.NominalX(labels...)
	}
	p.Y.Min = 0
	return p, nil
}

func encode(p *plot.Plot, size [2]vg.Length) ([]byte, error) {
	w, err := p.WriterTo(size[0], size[1], "png")
	if err != nil {
		return nil, fmt.Errorf("png writer: %w", err)
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// hourTicks labels every third hour.
type hourTicks struct{}

func (hourTicks) Ticks(_, _ float64) []plot.Tick {
	var ticks []plot.Tick
	for h := 0; h <= 23; h++ {
		t := plot.Tick{Value: float64(h)}
		if h%3 == 0 {
			t.Label = fmt.Sprint(h)
		}
		ticks = append(ticks, t)
	}
	return ticks
}
