package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iamrodrigodev/smartcomparemarket/internal/application/comparison"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/sparql"
	"github.com/iamrodrigodev/smartcomparemarket/pkg/errors"
)

// ComparisonService is the application-layer surface the comparison handler
// needs.
type ComparisonService interface {
	Compare(ctx context.Context, ids []string) (*comparison.Result, error)
	CompareBySpecs(ctx context.Context, ids []string) (*comparison.SpecTable, error)
	BestValue(ctx context.Context, category string, limit int) ([]sparql.BestValueEntry, error)
}

// ComparisonHandler serves the product comparison endpoints.
type ComparisonHandler struct {
	service ComparisonService
}

// NewComparisonHandler creates a ComparisonHandler.
func NewComparisonHandler(service ComparisonService) *ComparisonHandler {
	return &ComparisonHandler{service: service}
}

// Compare handles POST /comparisons.
func (h *ComparisonHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var req ComparisonRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}

	result, err := h.service.Compare(r.Context(), req.ProductIDs)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ComparisonResponse{
		Productos:   toProductResponses(result.Products),
		Diferencias: result.Differences,
		MejorPrecio: toProductResponse(result.BestPrice),
		Timestamp:   time.Now(),
	})
}

// CompareBySpecs handles POST /comparisons/by-specs. The response is keyed
// by specification, then by product ID, so clients can render one row per
// requested attribute.
func (h *ComparisonHandler) CompareBySpecs(w http.ResponseWriter, r *http.Request) {
	var req ComparisonBySpecsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeAppError(w, err)
		return
	}
	if len(req.Specifications) == 0 {
		writeAppError(w, errors.InvalidParam("at least one specification is required"))
		return
	}

	table, err := h.service.CompareBySpecs(r.Context(), req.ProductIDs)
	if err != nil {
		writeAppError(w, err)
		return
	}

	// A specification the knowledge base never asserts still gets a row,
	// with a null cell per product.
	out := make(map[string]map[string]*string, len(req.Specifications))
	for _, spec := range req.Specifications {
		cells := table.Rows[spec]
		byProduct := make(map[string]*string, len(table.Products))
		for i, p := range table.Products {
			if cells != nil {
				byProduct[p.ID] = cells[i]
			} else {
				byProduct[p.ID] = nil
			}
		}
		out[spec] = byProduct
	}
	writeJSON(w, http.StatusOK, out)
}

// BestValue handles GET /comparisons/best-value/{category}.
func (h *ComparisonHandler) BestValue(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	limit := parseLimit(r, 10)

	entries, err := h.service.BestValue(r.Context(), category, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toBestValueResponses(entries))
}
