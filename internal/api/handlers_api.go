package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/lox/bikedash/internal/bikeshare"
	"github.com/lox/bikedash/internal/charts"
	"github.com/lox/bikedash/internal/dataset"
	"github.com/lox/bikedash/internal/models"
	"github.com/lox/bikedash/internal/notebook"
)

// AggregationsResponse is the /api/aggregations payload. Map keys are the
// weathersit code, the hour and the yr indicator respectively. Weather maps
// each weathersit code present to its English name.
type AggregationsResponse struct {
	Start      string                        `json:"start"`
	End        string                        `json:"end"`
	Rows       int                           `json:"rows"`
	TotalRides int64                         `json:"total_rides"`
	Days       int                           `json:"days"`
	Clamped    bool                          `json:"clamped"`
	ByWeather  map[string]float64            `json:"by_weather"`
	Weather    map[string]string             `json:"weather_names"`
	ByHour     map[string]map[string]float64 `json:"by_hour"`
	ByYear     map[string]int64              `json:"by_year"`
}

// NotebookCell is one cell of the /api/notebook payload.
type NotebookCell struct {
	Kind   string `json:"kind"`
	Source string `json:"source"`
	Text   string `json:"text"`
}

type NotebookResponse struct {
	Path     string         `json:"path"`
	Language string         `json:"language"`
	Skipped  int            `json:"skipped"`
	Cells    []NotebookCell `json:"cells"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// filteredTable loads the dataset and applies the request range. It writes
// the error response itself and returns ok=false when the caller should stop.
func (s *Server) filteredTable(w http.ResponseWriter, r *http.Request) (*bikeshare.Table, selection, bool) {
	ds, err := s.data.Get()
	if err != nil {
		if errors.Is(err, dataset.ErrMissingDataset) {
			writeJSONError(w, http.StatusServiceUnavailable, err.Error())
			return nil, selection{}, false
		}
		s.logger.Error("load dataset", slog.Any("error", err))
		writeJSONError(w, http.StatusInternalServerError, "failed to load dataset")
		return nil, selection{}, false
	}

	bounds, ok := ds.Table.Bounds()
	if !ok {
		return ds.Table, selection{}, true
	}
	sel, err := s.parseRange(r.URL.Query(), bounds)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return nil, selection{}, false
	}
	t, err := ds.Table.Filter(sel.Range)
	if err != nil {
		s.logger.Error("filter dataset", slog.String("range", sel.Range.String()), slog.Any("error", err))
		writeJSONError(w, http.StatusInternalServerError, "failed to filter dataset")
		return nil, selection{}, false
	}
	return t, sel, true
}

func (s *Server) handleAPIAggregations(w http.ResponseWriter, r *http.Request) {
	t, sel, ok := s.filteredTable(w, r)
	if !ok {
		return
	}

	weather, err := bikeshare.ByWeather(t)
	if err != nil {
		s.aggregationError(w, err)
		return
	}
	yearly, err := bikeshare.ByYear(t)
	if err != nil {
		s.aggregationError(w, err)
		return
	}
	hourly, err := bikeshare.ByHourAndDayType(t)
	if err != nil {
		s.aggregationError(w, err)
		return
	}

	sum := bikeshare.Summarize(t)
	resp := AggregationsResponse{
		Rows:       sum.Rows,
		TotalRides: sum.TotalRides,
		Days:       sum.Days,
		Clamped:    sel.Clamped,
		ByWeather:  keyed(weather),
		Weather:    make(map[string]string),
		ByHour:     make(map[string]map[string]float64, 3),
		ByYear:     keyed(yearly),
	}
	if !sel.Range.Start.IsZero() {
		resp.Start = sel.Range.Start.Format(models.DateLayout)
		resp.End = sel.Range.End.Format(models.DateLayout)
	}
	for code := range resp.ByWeather {
		n, _ := strconv.Atoi(code)
		resp.Weather[code] = bikeshare.WeatherName(n)
	}
	for _, dt := range []models.DayType{models.DayTypeWorking, models.DayTypeWeekend, models.DayTypeHoliday} {
		resp.ByHour[dt.String()] = keyed(hourly.ByDayType(dt))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) aggregationError(w http.ResponseWriter, err error) {
	s.logger.Error("aggregate dataset", slog.Any("error", err))
	writeJSONError(w, http.StatusInternalServerError, "failed to aggregate dataset")
}

func keyed[V bikeshare.Number](s bikeshare.Series[V]) map[string]V {
	m := make(map[string]V, s.Len())
	for i, k := range s.Keys {
		m[strconv.Itoa(k)] = s.Values[i]
	}
	return m
}

func (s *Server) handleAPINotebook(w http.ResponseWriter, r *http.Request) {
	nb, err := notebook.Open(s.notebookPath)
	if err != nil {
		if errors.Is(err, notebook.ErrMissingNotebook) {
			writeJSONError(w, http.StatusNotFound, err.Error())
			return
		}
		s.logger.Error("open notebook", slog.Any("error", err))
		writeJSONError(w, http.StatusInternalServerError, "failed to read notebook")
		return
	}
	blocks, err := notebook.Render(nb)
	if err != nil {
		s.logger.Error("render notebook", slog.Any("error", err))
		writeJSONError(w, http.StatusInternalServerError, "failed to render notebook")
		return
	}

	resp := NotebookResponse{
		Path:     s.notebookPath,
		Language: nb.Language,
		Skipped:  nb.Skipped,
		Cells:    make([]NotebookCell, len(blocks)),
	}
	for i, b := range blocks {
		resp.Cells[i] = NotebookCell{Kind: string(b.Kind), Source: b.Source, Text: b.Text()}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	kind, ok := charts.ParseKind(chi.URLParam(r, "name"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	t, sel, ok := s.filteredTable(w, r)
	if !ok {
		return
	}

	png, err := s.pngs.Render(kind, sel.Range, t)
	if err != nil {
		s.logger.Error("render chart", slog.String("chart", string(kind)), slog.Any("error", err))
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ds, err := s.data.Get()
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, HealthStatus{Status: "degraded", Error: err.Error()})
		return
	}
	h := HealthStatus{Status: "ok", Rows: ds.Table.Len()}
	if b, ok := ds.Table.Bounds(); ok {
		h.Start = b.Start.Format(models.DateLayout)
		h.End = b.End.Format(models.DateLayout)
	}
	writeJSON(w, http.StatusOK, h)
}
