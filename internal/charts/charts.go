package charts

import (
	"html/template"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"

	"github.com/lox/bikedash/internal/bikeshare"
	"github.com/lox/bikedash/internal/metrics"
	"github.com/lox/bikedash/internal/models"
)

// Kind names one of the three dashboard charts.
type Kind string

const (
	Weather Kind = "weather"
	Hourly  Kind = "hourly"
	Yearly  Kind = "yearly"
)

// Kinds lists the charts in dashboard order.
var Kinds = []Kind{Weather, Hourly, Yearly}

func ParseKind(s string) (Kind, bool) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return "", false
}

// Chart titles and axis labels.
const (
	WeatherTitle  = "Rata-rata Peminjaman Berdasarkan Kondisi Cuaca"
	WeatherXLabel = "Kondisi Cuaca"
	HourlyTitle   = "Pola Peminjaman Sepeda Berdasarkan Waktu"
	HourlyXLabel  = "Jam"
	YearlyTitle   = "Total Peminjaman Sepeda per Tahun"
	YearlyXLabel  = "Tahun"
	CountLabel    = "Jumlah Peminjaman"
	TotalLabel    = "Total Peminjaman"
)

var dayTypes = []models.DayType{models.DayTypeWorking, models.DayTypeWeekend, models.DayTypeHoliday}

type snippetRenderer interface {
	RenderSnippet() render.ChartSnippet
}

func snippet(c snippetRenderer) template.HTML {
	s := c.RenderSnippet()
	return template.HTML(s.Element + "\n" + s.Script)
}

func boolPtr(b bool) *bool { return &b }

func baseOpts(id, title, xLabel, yLabel string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{ChartID: id, Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithXAxisOpts(opts.XAxis{Name: xLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: yLabel}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true), Trigger: "axis"}),
	}
}

// WeatherHTML renders mean rentals per weather situation as a bar chart.
func WeatherHTML(s bikeshare.Series[float64]) template.HTML {
	bar := charts.NewBar()
	bar.SetGlobalOptions(baseOpts("chart-weather", WeatherTitle, WeatherXLabel, CountLabel)...)

	labels := make([]string, s.Len())
	data := make([]opts.BarData, s.Len())
	for i, code := range s.Keys {
		labels[i] = bikeshare.WeatherLabel(code)
		data[i] = opts.BarData{
			Name:      labels[i],
			Value:     round2(s.Values[i]),
			ItemStyle: &opts.ItemStyle{Color: weatherColor(code)},
		}
	}
	bar.SetXAxis(labels).AddSeries(CountLabel, data)

	metrics.ChartRenders.WithLabelValues(string(Weather), "html").Inc()
	return snippet(bar)
}

// HourlyHTML renders the three day-type series as a line chart over hours
// 0-23. Hours missing from a series are left as gaps.
func HourlyHTML(h bikeshare.HourlyByDayType) template.HTML {
	line := charts.NewLine()
	line.SetGlobalOptions(append(baseOpts("chart-hourly", HourlyTitle, HourlyXLabel, CountLabel),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(true), Top: "bottom"}),
	)...)

	hours := make([]string, 24)
	for i := range hours {
		hours[i] = strconv.Itoa(i)
	}
	line.SetXAxis(hours)

	for _, dt := range dayTypes {
		s := h.ByDayType(dt)
		data := make([]opts.LineData, 24)
		for hr := range data {
			if v, ok := s.Value(hr); ok {
				data[hr] = opts.LineData{Value: round2(v)}
			} else {
				data[hr] = opts.LineData{Value: "-"}
			}
		}
		color := dayTypeColors[dt]
		line.AddSeries(dt.Label(), data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: boolPtr(true), Symbol: "circle"}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: color}),
		)
	}

	metrics.ChartRenders.WithLabelValues(string(Hourly), "html").Inc()
	return snippet(line)
}

// YearlyHTML renders total rentals per year as a bar chart.
func YearlyHTML(s bikeshare.Series[int64]) template.HTML {
	bar := charts.NewBar()
	bar.SetGlobalOptions(baseOpts("chart-yearly", YearlyTitle, YearlyXLabel, TotalLabel)...)

	labels := make([]string, s.Len())
	data := make([]opts.BarData, s.Len())
	for i, yr := range s.Keys {
		labels[i] = bikeshare.YearLabel(yr)
		data[i] = opts.BarData{
			Name:      labels[i],
			Value:     s.Values[i],
			ItemStyle: &opts.ItemStyle{Color: yearColor(yr)},
		}
	}
	bar.SetXAxis(labels).AddSeries(TotalLabel, data)

	metrics.ChartRenders.WithLabelValues(string(Yearly), "html").Inc()
	return snippet(bar)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
