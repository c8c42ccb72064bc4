// Package http wires the dashboard's HTTP surface: the JSON analytics API,
// the embedded single-page dashboard, the websocket endpoint and
// Prometheus metrics.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gradepulse/internal/config"
	"gradepulse/internal/middleware"
	"gradepulse/internal/services"
	"gradepulse/internal/websocket"
)

// RouterOptions carries the dependencies the router needs.
type RouterOptions struct {
	Service *services.AnalyticsService
	Hub     *websocket.Hub
	Config  *config.Config
	Logger  *slog.Logger
	Version string
}

// NewRouter assembles the full route tree.
func NewRouter(opts RouterOptions) chi.Router {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	paths := opts.Config.GetPaths()

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(middleware.Metrics)
	r.Use(middleware.RateLimit(opts.Config.Server.RateLimitRPS, opts.Config.Server.RateLimitBurst))

	var notifier RefreshNotifier
	if opts.Hub != nil {
		notifier = opts.Hub
	}
	analytics := NewAnalyticsHandler(opts.Service, paths.TransformedCSV, notifier, logger)
	health := NewHealthHandler(opts.Service, opts.Version)

	api := analytics.Routes()
	api.Get("/healthz", health.Healthz)

	r.Get("/", DashboardPage)
	r.Mount("/api", api)
	r.Handle("/metrics", promhttp.Handler())

	if opts.Hub != nil {
		r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
			websocket.ServeWS(opts.Hub, w, req)
		})
	}

	return r
}
