package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iamrodrigodev/smartcomparemarket/internal/application/analysis"
	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/market"
)

// AnalysisService is the application-layer surface the analysis handler
// needs.
type AnalysisService interface {
	CategoryStats(ctx context.Context) ([]market.MarketStats, error)
	VendorStats(ctx context.Context) ([]market.VendorStats, error)
	BrandStats(ctx context.Context) ([]market.BrandStats, error)
	MarketOverview(ctx context.Context) (*analysis.Overview, error)
	CategoryInsights(ctx context.Context, category string) (*analysis.Insights, error)
}

// AnalysisHandler serves the market analytics endpoints.
type AnalysisHandler struct {
	service AnalysisService
}

// NewAnalysisHandler creates an AnalysisHandler.
func NewAnalysisHandler(service AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{service: service}
}

// PriceRanges handles GET /analysis/price-ranges.
func (h *AnalysisHandler) PriceRanges(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.CategoryStats(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toMarketStatsResponses(stats))
}

// Vendors handles GET /analysis/vendors.
func (h *AnalysisHandler) Vendors(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.VendorStats(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toVendorStatsResponses(stats))
}

// Brands handles GET /analysis/brands.
func (h *AnalysisHandler) Brands(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.BrandStats(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBrandStatsResponses(stats))
}

// Overview handles GET /analysis/overview.
func (h *AnalysisHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.service.MarketOverview(r.Context())
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOverviewResponse(overview))
}

// CategoryInsights handles GET /analysis/categories/{category}/insights.
// An unknown category is a valid answer, reported with encontrada=false.
func (h *AnalysisHandler) CategoryInsights(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	insights, err := h.service.CategoryInsights(r.Context(), category)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInsightsResponse(insights))
}
