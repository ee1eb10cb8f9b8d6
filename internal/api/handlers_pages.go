package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/lox/bikedash/internal/bikeshare"
	"github.com/lox/bikedash/internal/charts"
	"github.com/lox/bikedash/internal/dataset"
	"github.com/lox/bikedash/internal/metrics"
	"github.com/lox/bikedash/internal/models"
	"github.com/lox/bikedash/internal/notebook"
)

const (
	dashboardTitle = "📊 Dashboard Analisis Peminjaman Sepeda"
	notebookTitle  = "📘 Lihat Notebook Analisis Data"
	dataTitle      = "Profil Dataset"

	missingDatasetMessage  = "Dataset tidak ditemukan. Pastikan file 'hour_df.csv' ada dalam direktori yang sama dengan aplikasi."
	missingNotebookMessage = "File .ipynb tidak ditemukan. Pastikan file tersedia atau sesuaikan path."
)

// sectionText is the fixed subheader and insight of each dashboard chart.
var sectionText = map[charts.Kind]struct{ Subheader, Insight string }{
	charts.Weather: {
		"Pengaruh Cuaca terhadap Jumlah Peminjaman Sepeda",
		"Cuaca cerah meningkatkan peminjaman, sedangkan hujan dan badai menurunkannya.",
	},
	charts.Hourly: {
		"Perbandingan Peminjaman: Hari Kerja vs Akhir Pekan vs Hari Libur",
		"Hari kerja memiliki dua puncak peminjaman (pagi & sore), sementara akhir pekan dan hari libur lebih merata sepanjang hari.",
	},
	charts.Yearly: {
		"Perbandingan Peminjaman Sepeda Tahun 2011 vs 2012",
		"Peminjaman sepeda meningkat signifikan di tahun 2012 dibanding 2011.",
	},
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	switch ParsePage(r.URL.Query().Get("page")) {
	case PageNotebook:
		s.renderNotebook(w, r)
	default:
		s.renderDashboard(w, r)
	}
}

// rangeView is the resolved date range of a page plus the notice to show
// when the requested range was adjusted or rejected.
type rangeView struct {
	sel    selection
	notice string
	ok     bool // dataset has at least one row
}

func (s *Server) resolveRange(r *http.Request, t *bikeshare.Table) rangeView {
	bounds, ok := t.Bounds()
	if !ok {
		return rangeView{}
	}
	sel, err := s.parseRange(r.URL.Query(), bounds)
	rv := rangeView{sel: sel, ok: true}
	switch {
	case err != nil:
		rv.notice = rangeNotice(err)
	case sel.Clamped:
		rv.notice = clampedNotice
	}
	return rv
}

func (rv rangeView) dates() (lo, hi, start, end string) {
	if !rv.ok {
		return "", "", "", ""
	}
	return rv.sel.Bounds.Start.Format(models.DateLayout),
		rv.sel.Bounds.End.Format(models.DateLayout),
		rv.sel.Range.Start.Format(models.DateLayout),
		rv.sel.Range.End.Format(models.DateLayout)
}

func (s *Server) renderDashboard(w http.ResponseWriter, r *http.Request) {
	nav := newNav(PageDashboard, r.URL.Query())
	nav.ShowRange = true
	data := DashboardData{Nav: nav, Title: dashboardTitle}

	ds, err := s.data.Get()
	if err != nil {
		if !errors.Is(err, dataset.ErrMissingDataset) {
			s.logger.Error("load dataset", slog.Any("error", err))
			metrics.PageRenders.WithLabelValues(PageDashboard.Slug(), "error").Inc()
			s.renderError(w, r, http.StatusInternalServerError, "Gagal memuat dataset.")
			return
		}
		data.Missing = missingView(err)
		metrics.PageRenders.WithLabelValues(PageDashboard.Slug(), "missing").Inc()
		s.render(w, http.StatusOK, "dashboard.html", data)
		return
	}

	rv := s.resolveRange(r, ds.Table)
	data.Notice = rv.notice
	data.Min, data.Max, data.Start, data.End = rv.dates()

	filtered := ds.Table
	if rv.ok {
		filtered, err = ds.Table.Filter(rv.sel.Range)
	}
	if err == nil {
		data.Sections, err = s.sections(filtered, rangeQueryString(data.Start, data.End))
	}
	if err != nil {
		s.logger.Error("aggregate dataset", slog.Any("error", err))
		metrics.PageRenders.WithLabelValues(PageDashboard.Slug(), "error").Inc()
		s.renderError(w, r, http.StatusInternalServerError, "Gagal mengolah dataset.")
		return
	}
	data.KPIs = s.kpis(bikeshare.Summarize(filtered))

	metrics.PageRenders.WithLabelValues(PageDashboard.Slug(), "ok").Inc()
	s.render(w, http.StatusOK, "dashboard.html", data)
}

func (s *Server) kpis(sum bikeshare.Summary) []KPI {
	var avg float64
	if sum.Rows > 0 {
		avg = float64(sum.TotalRides) / float64(sum.Rows)
	}
	return []KPI{
		{Label: "Total Peminjaman", Value: s.formatInt(sum.TotalRides)},
		{Label: "Jumlah Hari", Value: s.formatInt(int64(sum.Days))},
		{Label: "Jumlah Data (jam)", Value: s.formatInt(int64(sum.Rows))},
		{Label: "Rata-rata per Jam", Value: s.formatFloat(avg)},
	}
}

func (s *Server) sections(t *bikeshare.Table, query string) ([]Section, error) {
	weather, err := bikeshare.ByWeather(t)
	if err != nil {
		return nil, err
	}
	hourly, err := bikeshare.ByHourAndDayType(t)
	if err != nil {
		return nil, err
	}
	yearly, err := bikeshare.ByYear(t)
	if err != nil {
		return nil, err
	}

	out := make([]Section, 0, len(charts.Kinds))
	for _, k := range charts.Kinds {
		sec := Section{
			Kind:      k,
			Subheader: sectionText[k].Subheader,
			Insight:   sectionText[k].Insight,
			PNGLink:   "/charts/" + string(k) + ".png" + query,
		}
		switch k {
		case charts.Weather:
			sec.Empty = weather.Empty()
			if !sec.Empty {
				sec.Chart = charts.WeatherHTML(weather)
			}
		case charts.Hourly:
			sec.Empty = t.Len() == 0
			if !sec.Empty {
				sec.Chart = charts.HourlyHTML(hourly)
			}
		case charts.Yearly:
			sec.Empty = yearly.Empty()
			if !sec.Empty {
				sec.Chart = charts.YearlyHTML(yearly)
			}
		}
		out = append(out, sec)
	}
	return out, nil
}

func missingView(err error) *MissingDataset {
	m := &MissingDataset{Message: missingDatasetMessage}
	var mde *dataset.MissingDatasetError
	if !errors.As(err, &mde) {
		return m
	}
	m.Dir = mde.Dir
	if mde.ListErr != nil {
		m.ListErr = mde.ListErr.Error()
	}
	names := mde.Names()
	for i, ent := range mde.Entries {
		fe := FileEntry{Name: names[i]}
		if !ent.IsDir {
			fe.Size = humanize.Bytes(uint64(ent.Size))
		}
		m.Files = append(m.Files, fe)
	}
	return m
}

func (s *Server) renderNotebook(w http.ResponseWriter, r *http.Request) {
	data := NotebookData{
		Nav:   newNav(PageNotebook, r.URL.Query()),
		Title: notebookTitle,
		Path:  s.notebookPath,
	}

	nb, err := notebook.Open(s.notebookPath)
	if err != nil {
		if !errors.Is(err, notebook.ErrMissingNotebook) {
			s.logger.Error("open notebook", slog.String("path", s.notebookPath), slog.Any("error", err))
			metrics.PageRenders.WithLabelValues(PageNotebook.Slug(), "error").Inc()
			s.renderError(w, r, http.StatusInternalServerError, "Gagal membaca notebook.")
			return
		}
		data.Missing = missingNotebookMessage
		metrics.PageRenders.WithLabelValues(PageNotebook.Slug(), "missing").Inc()
		s.render(w, http.StatusOK, "notebook.html", data)
		return
	}

	blocks, err := notebook.Render(nb)
	if err != nil {
		s.logger.Error("render notebook", slog.Any("error", err))
		metrics.PageRenders.WithLabelValues(PageNotebook.Slug(), "error").Inc()
		s.renderError(w, r, http.StatusInternalServerError, "Gagal merender notebook.")
		return
	}
	data.Blocks = blocks
	data.Skipped = nb.Skipped

	metrics.PageRenders.WithLabelValues(PageNotebook.Slug(), "ok").Inc()
	s.render(w, http.StatusOK, "notebook.html", data)
}

func (s *Server) handleData(w http.ResponseWriter, r *http.Request) {
	nav := newNav(PageDashboard, r.URL.Query())
	nav.ShowRange = true
	data := DataPageData{Nav: nav, Title: dataTitle}

	ds, err := s.data.Get()
	if err != nil {
		if !errors.Is(err, dataset.ErrMissingDataset) {
			s.logger.Error("load dataset", slog.Any("error", err))
			metrics.PageRenders.WithLabelValues("data", "error").Inc()
			s.renderError(w, r, http.StatusInternalServerError, "Gagal memuat dataset.")
			return
		}
		data.Missing = missingView(err)
		metrics.PageRenders.WithLabelValues("data", "missing").Inc()
		s.render(w, http.StatusOK, "data.html", data)
		return
	}

	rv := s.resolveRange(r, ds.Table)
	data.Notice = rv.notice
	data.Min, data.Max, data.Start, data.End = rv.dates()
	if rv.ok {
		data.RangeDays = rv.sel.Range.Days()
	}
	data.Path = ds.Path
	if ds.Size > 0 {
		data.FileSize = humanize.Bytes(uint64(ds.Size))
	}
	data.LoadedAgo = humanize.Time(ds.LoadedAt)
	data.TotalRows = s.formatInt(int64(ds.Table.Len()))

	if recs := ds.Describe(); len(recs) > 0 {
		data.Describe = DescribeTable{Header: recs[0], Rows: recs[1:]}
	}

	switch {
	case s.store == nil:
		data.StoreNote = "Profil SQL tidak tersedia."
	case s.data.HookErr() != nil:
		data.StoreNote = "Gagal membaca profil SQL."
	case !rv.ok:
		data.StoreNote = "Dataset kosong."
	default:
		s.fillStoreTables(&data, rv.sel.Range)
	}

	metrics.PageRenders.WithLabelValues("data", "ok").Inc()
	s.render(w, http.StatusOK, "data.html", data)
}

func (s *Server) fillStoreTables(data *DataPageData, r bikeshare.DateRange) {
	monthly, err := s.store.MonthlyTotals(r)
	if err != nil {
		s.logger.Error("monthly totals", slog.Any("error", err))
		data.StoreNote = "Gagal membaca profil SQL."
		return
	}
	for _, m := range monthly {
		data.Monthly = append(data.Monthly, MonthlyRow{
			Month: m.Month,
			Rows:  s.formatInt(int64(m.Rows)),
			Total: s.formatInt(m.Total),
		})
	}

	counts, err := s.store.DayTypeCounts(r)
	if err != nil {
		s.logger.Error("day type counts", slog.Any("error", err))
		data.StoreNote = "Gagal membaca profil SQL."
		return
	}
	data.DayTypes = []DayTypeRow{
		{Label: models.DayTypeWorking.Label(), Rows: s.formatInt(int64(counts.WorkingRows)), Total: s.formatInt(counts.WorkingTotal)},
		{Label: models.DayTypeWeekend.Label(), Rows: s.formatInt(int64(counts.WeekendRows)), Total: s.formatInt(counts.WeekendTotal)},
		{Label: models.DayTypeHoliday.Label(), Rows: s.formatInt(int64(counts.HolidayRows)), Total: s.formatInt(counts.HolidayTotal)},
	}
}
