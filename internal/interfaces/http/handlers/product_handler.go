package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/catalog"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/sparql"
)

// ProductService is the application-layer surface the product handler needs.
type ProductService interface {
	List(ctx context.Context, limit, offset int) ([]*catalog.Product, error)
	GetByID(ctx context.Context, id string) (*catalog.Product, error)
	Search(ctx context.Context, params sparql.SearchParams) ([]*catalog.Product, error)
	Similar(ctx context.Context, id string, limit int) ([]*catalog.Product, error)
	Compatible(ctx context.Context, id string) ([]*catalog.Product, error)
	Incompatible(ctx context.Context, id string) ([]sparql.Incompatibility, error)
}

// ProductHandler serves the product catalog endpoints.
type ProductHandler struct {
	service ProductService
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(service ProductService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List handles GET /products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	offset := (page - 1) * pageSize

	products, err := h.service.List(r.Context(), pageSize, offset)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductListResponse(products, page, pageSize))
}

// Get handles GET /products/{productID}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(product))
}

// Search handles GET /products/search. All filters combine with logical AND.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePagination(r)
	q := r.URL.Query()

	params := sparql.SearchParams{
		Category: q.Get("categoria"),
		Brand:    q.Get("marca"),
		Keyword:  q.Get("keyword"),
		Limit:    pageSize,
		Offset:   (page - 1) * pageSize,
	}
	if v := q.Get("min_precio"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			writeAppError(w, invalidPrice("min_precio", v))
			return
		}
		params.MinPrice = &d
	}
	if v := q.Get("max_precio"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			writeAppError(w, invalidPrice("max_precio", v))
			return
		}
		params.MaxPrice = &d
	}

	products, err := h.service.Search(r.Context(), params)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductListResponse(products, page, pageSize))
}

// Similar handles GET /products/{productID}/similar.
func (h *ProductHandler) Similar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	limit := parseLimit(r, 10)

	origin, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	similar, err := h.service.Similar(r.Context(), id, limit)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SimilarProductsResponse{
		ProductoOrigen:     toProductResponse(origin),
		ProductosSimilares: toProductResponses(similar),
	})
}

// Compatible handles GET /products/{productID}/compatible.
func (h *ProductHandler) Compatible(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	origin, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	compatible, err := h.service.Compatible(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CompatibleProductsResponse{
		ProductoOrigen:       toProductResponse(origin),
		ProductosCompatibles: toProductResponses(compatible),
	})
}

// Incompatible handles GET /products/{productID}/incompatible.
func (h *ProductHandler) Incompatible(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	origin, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	incompatible, err := h.service.Incompatible(r.Context(), id)
	if err != nil {
		writeAppError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, IncompatibleProductsResponse{
		ProductoOrigen:         toProductResponse(origin),
		ProductosIncompatibles: toIncompatibilityResponses(incompatible),
	})
}
