package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"beqc/app"
	"beqc/internal/lookup"
	"beqc/internal/metrics"
)

//go:embed templates/* static/* about.md
var embeddedFiles embed.FS

// App represents the QC dashboard application
type App struct {
	router    *chi.Mux
	service   *app.QCService
	catalog   *lookup.Catalog
	metrics   *metrics.Metrics
	templates *template.Template
	config    Config
}

// Config holds UI application configuration
type Config struct {
	Port         string
	HistoryLimit int
	Version      string
}

// NewApp creates the dashboard application
func NewApp(service *app.QCService, catalog *lookup.Catalog, m *metrics.Metrics, config Config) (*App, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"mul": func(a, b float64) float64 { return a * b },
		"pct": func(part, total int) string {
			if total == 0 {
				return "0%"
			}
			return fmt.Sprintf("%.0f%%", float64(part)/float64(total)*100)
		},
		"lower": strings.ToLower,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html", "templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		service:   service,
		catalog:   catalog,
		metrics:   m,
		templates: templates,
		config:    config,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RealIP)
	a.router.Use(a.requestLogger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))

	staticFS := http.FileServer(http.FS(embeddedFiles))
	a.router.Handle("/static/*", staticFS)
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	// Main pages
	a.router.Get("/", a.handleIndex)
	a.router.Get("/single", a.handleSinglePage)
	a.router.Get("/batch", a.handleBatchPage)
	a.router.Get("/about", a.handleAbout)

	// QC actions
	a.router.Post("/single/run", a.handleSingleRun)
	a.router.Post("/batch/upload", a.handleBatchPreview)
	a.router.Post("/batch/run", a.handleBatchRun)
	a.router.Get("/batch/{runID}/download", a.handleBatchDownload)

	// HTMX fragments for cascading form selects
	a.router.Get("/fragments/subsectors", a.handleFragmentSubsectors)
	a.router.Get("/fragments/msic", a.handleFragmentMSIC)
	a.router.Get("/fragments/districts", a.handleFragmentDistricts)
	a.router.Get("/fragments/features", a.handleFragmentFeatures)

	// JSON API
	a.router.Get("/api/lookup/sectors", a.handleAPISectors)
	a.router.Get("/api/lookup/subsectors", a.handleAPISubsectors)
	a.router.Get("/api/lookup/msic", a.handleAPIMSIC)
	a.router.Get("/api/lookup/states", a.handleAPIStates)
	a.router.Get("/api/lookup/districts", a.handleAPIDistricts)
	a.router.Get("/api/runs", a.handleAPIRuns)

	// Operational endpoints
	a.router.Get("/healthz", a.handleHealthz)
	if a.metrics != nil {
		a.router.Handle("/metrics", a.metrics.Handler())
	}
}

// requestLogger logs each request and feeds the duration histogram
func (a *App) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		if a.metrics != nil {
			a.metrics.ObserveRequest(r.Method, route, ww.Status(), elapsed)
		}
		log.WithFields(log.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"status":  ww.Status(),
			"elapsed": elapsed.Round(time.Millisecond),
		}).Debug("request")
	})
}

// Router exposes the handler tree for embedding in tests
func (a *App) Router() http.Handler {
	return a.router
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := ":" + a.config.Port
	log.WithField("addr", addr).Info("starting QC dashboard")
	return http.ListenAndServe(addr, a.router)
}
