package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DatasetLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikedash_dataset_loads_total",
			Help: "Dataset load attempts by result (ok, missing, error)",
		},
		[]string{"result"},
	)

	DatasetLoadSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bikedash_dataset_load_seconds",
			Help:    "Time spent reading and parsing the dataset CSV",
			Buckets: prometheus.DefBuckets,
		},
	)

	DatasetRows = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bikedash_dataset_rows",
			Help: "Rows in the cached dataset",
		},
	)

	PageRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikedash_page_renders_total",
			Help: "Page renders by page and outcome",
		},
		[]string{"page", "outcome"},
	)

	ChartRenders = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikedash_chart_renders_total",
			Help: "Charts rendered by chart and format",
		},
		[]string{"chart", "format"},
	)

	NotebookCells = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikedash_notebook_cells_rendered_total",
			Help: "Notebook cells rendered by kind",
		},
		[]string{"kind"},
	)
)
