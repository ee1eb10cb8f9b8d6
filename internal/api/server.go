package api

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/lox/bikedash/internal/charts"
	"github.com/lox/bikedash/internal/dataset"
	"github.com/lox/bikedash/internal/store"
)

type Server struct {
	data         *dataset.Cache
	store        *store.Store
	notebookPath string
	port         string
	tmpl         *template.Template
	logger       *slog.Logger
	validate     *validator.Validate
	printer      *message.Printer
	pngs         *charts.Cache
}

// NewServer wires the dashboard handlers. st may be nil, in which case the
// data page omits the SQL-backed tables.
func NewServer(data *dataset.Cache, st *store.Store, notebookPath, port string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		data:         data,
		store:        st,
		notebookPath: notebookPath,
		port:         port,
		tmpl:         newTemplates(),
		logger:       logger,
		validate:     validator.New(),
		printer:      message.NewPrinter(language.Indonesian),
		pngs:         charts.NewCache(64),
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(s.recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/data", s.handleData)
	r.Get("/health", s.handleHealth)
	r.Get("/charts/{name}.png", s.handleChartPNG)
	r.Handle(assetsPrefix+"*", assetsHandler())
	r.Get("/api/aggregations", s.handleAPIAggregations)
	r.Get("/api/notebook", s.handleAPINotebook)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("http server listening", slog.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// recoverer turns a panic in a render into an error page instead of a
// dropped connection.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.logger.Error("panic serving request",
				slog.Any("panic", rec),
				slog.String("path", r.URL.Path),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("stack", string(debug.Stack())))
			s.renderError(w, r, http.StatusInternalServerError, "Terjadi kesalahan saat merender halaman.")
		}()
		next.ServeHTTP(w, r)
	})
}

// render executes a template into a buffer first so a template error never
// leaves a half-written page.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template error", slog.String("template", name), slog.Any("error", err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.render(w, status, "error.html", ErrorData{
		Nav:     newNav(PageDashboard, r.URL.Query()),
		Title:   "Terjadi Kesalahan",
		Message: msg,
	})
}

func (s *Server) formatInt(n int64) string {
	return s.printer.Sprintf("%d", n)
}

func (s *Server) formatFloat(f float64) string {
	return s.printer.Sprintf("%.2f", f)
}
