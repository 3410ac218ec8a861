// Package http wires the HTTP transport: routing, middleware, and the
// server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/prometheus"
	"github.com/iamrodrigodev/smartcomparemarket/internal/interfaces/http/handlers"
	"github.com/iamrodrigodev/smartcomparemarket/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies required
// to construct the complete HTTP route tree.
type RouterConfig struct {
	// Handlers
	ProductHandler        *handlers.ProductHandler
	ComparisonHandler     *handlers.ComparisonHandler
	RecommendationHandler *handlers.RecommendationHandler
	AnalysisHandler       *handlers.AnalysisHandler
	HealthHandler         *handlers.HealthHandler

	// Infrastructure
	Logger        logging.Logger
	Metrics       *prometheus.Metrics
	MetricsPath   string
	LoggingConfig *middleware.LoggingConfig
}

// NewRouter constructs the complete route tree: global middleware, public
// health and metrics endpoints, and the versioned API resource groups.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	if cfg.Logger != nil {
		logCfg := middleware.DefaultLoggingConfig()
		if cfg.LoggingConfig != nil {
			logCfg = *cfg.LoggingConfig
		}
		r.Use(middleware.RequestLogging(cfg.Logger, logCfg))
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))

		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, cfg.Metrics.Handler())
	}

	if cfg.HealthHandler != nil {
		r.Get("/healthz", cfg.HealthHandler.Liveness)
		r.Get("/readyz", cfg.HealthHandler.Readiness)
	}

	r.Route("/api/v1", func(api chi.Router) {
		registerProductRoutes(api, cfg.ProductHandler)
		registerComparisonRoutes(api, cfg.ComparisonHandler)
		registerRecommendationRoutes(api, cfg.RecommendationHandler)
		registerAnalysisRoutes(api, cfg.AnalysisHandler)
	})

	return r
}

// registerProductRoutes mounts product resource endpoints under /products.
func registerProductRoutes(r chi.Router, h *handlers.ProductHandler) {
	if h == nil {
		return
	}
	r.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.List)
		pr.Get("/search", h.Search)

		pr.Route("/{productID}", func(item chi.Router) {
			item.Get("/", h.Get)
			item.Get("/similar", h.Similar)
			item.Get("/compatible", h.Compatible)
			item.Get("/incompatible", h.Incompatible)
		})
	})
}

// registerComparisonRoutes mounts comparison endpoints under /comparisons.
func registerComparisonRoutes(r chi.Router, h *handlers.ComparisonHandler) {
	if h == nil {
		return
	}
	r.Route("/comparisons", func(cr chi.Router) {
		cr.Post("/", h.Compare)
		cr.Post("/by-specs", h.CompareBySpecs)
		cr.Get("/best-value/{category}", h.BestValue)
	})
}

// registerRecommendationRoutes mounts recommendation endpoints under
// /recommendations.
func registerRecommendationRoutes(r chi.Router, h *handlers.RecommendationHandler) {
	if h == nil {
		return
	}
	r.Route("/recommendations/users/{userID}", func(ur chi.Router) {
		ur.Get("/", h.ForUser)
		ur.Get("/budget", h.Budget)
		ur.Get("/personalized", h.Personalized)
	})
}

// registerAnalysisRoutes mounts market analytics endpoints under /analysis.
func registerAnalysisRoutes(r chi.Router, h *handlers.AnalysisHandler) {
	if h == nil {
		return
	}
	r.Route("/analysis", func(ar chi.Router) {
		ar.Get("/price-ranges", h.PriceRanges)
		ar.Get("/vendors", h.Vendors)
		ar.Get("/brands", h.Brands)
		ar.Get("/overview", h.Overview)
		ar.Get("/categories/{category}/insights", h.CategoryInsights)
	})
}
