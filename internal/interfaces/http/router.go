// Package http wires the chi route tree and the HTTP server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/logging"
	"github.com/verdictio/lexcompare/internal/infrastructure/monitoring/prometheus"
	"github.com/verdictio/lexcompare/internal/interfaces/http/handlers"
	"github.com/verdictio/lexcompare/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies needed to
// build the full route tree.  Nil handlers leave their routes unmounted.
type RouterConfig struct {
	DocumentHandler     *handlers.DocumentHandler
	ComparisonHandler   *handlers.ComparisonHandler
	ExportHandler       *handlers.ExportHandler
	JurisdictionHandler *handlers.JurisdictionHandler
	HealthHandler       *handlers.HealthHandler

	Logger           logging.Logger
	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
}

// NewRouter constructs the complete route tree: global middleware, public
// health and metrics endpoints, and the /api/v1 resource groups.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, middleware.DefaultLoggingConfig()))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}
	if cfg.MetricsCollector != nil {
		r.Handle("/metrics", cfg.MetricsCollector.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerDocumentRoutes(api, cfg.DocumentHandler)
		registerComparisonRoutes(api, cfg.ComparisonHandler, cfg.ExportHandler)
		registerJurisdictionRoutes(api, cfg.JurisdictionHandler)
	})

	return r
}

func registerDocumentRoutes(r chi.Router, h *handlers.DocumentHandler) {
	if h == nil {
		return
	}
	r.Route("/documents", func(dr chi.Router) {
		dr.Get("/", h.List)
		dr.Post("/", h.Create)

		dr.Route("/{documentID}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Delete("/", h.Delete)
			item.Post("/content", h.UploadContent)
			item.Get("/content-url", h.ContentURL)
		})
	})
}

func registerComparisonRoutes(r chi.Router, h *handlers.ComparisonHandler, eh *handlers.ExportHandler) {
	if h == nil {
		return
	}
	r.Route("/comparisons", func(cr chi.Router) {
		cr.Get("/", h.List)
		cr.Post("/", h.Create)

		cr.Route("/{comparisonID}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Delete("/", h.Delete)
			item.Get("/view", h.View)
			item.Get("/metrics", h.Metrics)
			item.Get("/sections", h.Sections)
			if eh != nil {
				item.Post("/export", eh.Create)
			}
		})
	})
}

func registerJurisdictionRoutes(r chi.Router, h *handlers.JurisdictionHandler) {
	if h == nil {
		return
	}
	r.Route("/jurisdictions", func(jr chi.Router) {
		jr.Get("/", h.List)
		jr.Get("/{state}", h.Get)
	})
}
