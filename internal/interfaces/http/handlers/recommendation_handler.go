package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/catalog"
)

// RecommendationService is the application-layer surface the recommendation
// handler needs.
type RecommendationService interface {
	Recommend(ctx context.Context, userID string, limit int) ([]catalog.Recommendation, error)
	PersonalizedRecommend(ctx context.Context, userID, category string, maxPrice *decimal.Decimal, limit int) ([]catalog.Recommendation, error)
	BudgetProducts(ctx context.Context, userID string) ([]*catalog.Product, error)
}

// RecommendationHandler serves the per-user recommendation endpoints.
type RecommendationHandler struct {
	service RecommendationService
}

// NewRecommendationHandler creates a RecommendationHandler.
func NewRecommendationHandler(service RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

// ForUser handles GET /recommendations/users/{userID}.
func (h *RecommendationHandler) ForUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := parseLimit(r, 10)

	recs, err := h.service.Recommend(r.Context(), userID, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecommendationListResponse(userID, recs))
}

// Budget handles GET /recommendations/users/{userID}/budget.
func (h *RecommendationHandler) Budget(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	products, err := h.service.BudgetProducts(r.Context(), userID)
	if err != nil {
		writeAppError(w, err)
		return
	}
	pageSize := len(products)
	if pageSize == 0 {
		pageSize = 1
	}
	writeJSON(w, http.StatusOK, toProductListResponse(products, 1, pageSize))
}

// Personalized handles GET /recommendations/users/{userID}/personalized.
// Optional categoria and max_precio query parameters narrow the set.
func (h *RecommendationHandler) Personalized(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := parseLimit(r, 10)
	q := r.URL.Query()

	category := q.Get("categoria")
	var maxPrice *decimal.Decimal
	if v := q.Get("max_precio"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			writeAppError(w, invalidPrice("max_precio", v))
			return
		}
		maxPrice = &d
	}

	recs, err := h.service.PersonalizedRecommend(r.Context(), userID, category, maxPrice, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecommendationListResponse(userID, recs))
}
