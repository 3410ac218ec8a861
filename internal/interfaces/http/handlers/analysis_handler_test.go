package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamrodrigodev/smartcomparemarket/internal/application/analysis"
	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/market"
)

type mockAnalysisService struct {
	categoryStats    func(ctx context.Context) ([]market.MarketStats, error)
	vendorStats      func(ctx context.Context) ([]market.VendorStats, error)
	brandStats       func(ctx context.Context) ([]market.BrandStats, error)
	marketOverview   func(ctx context.Context) (*analysis.Overview, error)
	categoryInsights func(ctx context.Context, category string) (*analysis.Insights, error)
}

func (m *mockAnalysisService) CategoryStats(ctx context.Context) ([]market.MarketStats, error) {
	return m.categoryStats(ctx)
}

func (m *mockAnalysisService) VendorStats(ctx context.Context) ([]market.VendorStats, error) {
	return m.vendorStats(ctx)
}

func (m *mockAnalysisService) BrandStats(ctx context.Context) ([]market.BrandStats, error) {
	return m.brandStats(ctx)
}

func (m *mockAnalysisService) MarketOverview(ctx context.Context) (*analysis.Overview, error) {
	return m.marketOverview(ctx)
}

func (m *mockAnalysisService) CategoryInsights(ctx context.Context, category string) (*analysis.Insights, error) {
	return m.categoryInsights(ctx, category)
}

func analysisRouter(h *AnalysisHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/analysis", func(ar chi.Router) {
		ar.Get("/price-ranges", h.PriceRanges)
		ar.Get("/vendors", h.Vendors)
		ar.Get("/brands", h.Brands)
		ar.Get("/overview", h.Overview)
		ar.Get("/categories/{category}/insights", h.CategoryInsights)
	})
	return r
}

func TestPriceRanges(t *testing.T) {
	svc := &mockAnalysisService{
		categoryStats: func(ctx context.Context) ([]market.MarketStats, error) {
			return []market.MarketStats{{
				Category:     "Laptop",
				MinPrice:     decimal.NewFromInt(500),
				MaxPrice:     decimal.NewFromInt(2000),
				AvgPrice:     decimal.NewFromInt(1100),
				ProductCount: 12,
			}}, nil
		},
	}
	router := analysisRouter(NewAnalysisHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analysis/price-ranges", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []MarketStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Laptop", resp[0].Categoria)
	assert.Equal(t, 12, resp[0].TotalProductos)
	assert.True(t, resp[0].RangoPrecio.Equal(decimal.NewFromInt(1500)))
}

func TestVendors(t *testing.T) {
	svc := &mockAnalysisService{
		vendorStats: func(ctx context.Context) ([]market.VendorStats, error) {
			return []market.VendorStats{{
				Vendor:       "TiendaTec",
				ProductCount: 30,
				AvgPrice:     decimal.NewFromInt(600),
				MinPrice:     decimal.NewFromInt(100),
				MaxPrice:     decimal.NewFromInt(2000),
			}}, nil
		},
	}
	router := analysisRouter(NewAnalysisHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analysis/vendors", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []VendorStatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "TiendaTec", resp[0].Vendedor)
	assert.True(t, resp[0].PrecioCompetitivo)
}

func TestOverview(t *testing.T) {
	svc := &mockAnalysisService{
		marketOverview: func(ctx context.Context) (*analysis.Overview, error) {
			return &analysis.Overview{
				TotalCategories: 4,
				TotalVendors:    7,
				TotalBrands:     9,
				GlobalAvgPrice:  decimal.NewFromInt(850),
				TopCategory:     &analysis.TopEntry{Name: "Laptop", ProductCount: 12},
				TopVendor:       &analysis.TopEntry{Name: "TiendaTec", ProductCount: 30},
			}, nil
		},
	}
	router := analysisRouter(NewAnalysisHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analysis/overview", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp OverviewResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.TotalCategorias)
	require.NotNil(t, resp.CategoriaTop)
	assert.Equal(t, "Laptop", resp.CategoriaTop.Nombre)
	require.NotNil(t, resp.VendedorTop)
	assert.Equal(t, 30, resp.VendedorTop.Productos)
}

func TestOverviewEmptyMarket(t *testing.T) {
	svc := &mockAnalysisService{
		marketOverview: func(ctx context.Context) (*analysis.Overview, error) {
			return &analysis.Overview{GlobalAvgPrice: decimal.Zero}, nil
		},
	}
	router := analysisRouter(NewAnalysisHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analysis/overview", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Nil(t, resp["categoria_top"])
	assert.Nil(t, resp["vendedor_top"])
}

func TestCategoryInsights(t *testing.T) {
	svc := &mockAnalysisService{
		categoryInsights: func(ctx context.Context, category string) (*analysis.Insights, error) {
			assert.Equal(t, "Laptop", category)
			return &analysis.Insights{
				Category:        "Laptop",
				Found:           true,
				MinPrice:        decimal.NewFromInt(500),
				MaxPrice:        decimal.NewFromInt(2000),
				AvgPrice:        decimal.NewFromInt(1100),
				PriceRange:      decimal.NewFromInt(1500),
				ProductCount:    12,
				PricePercentile: 25,
				Competitive:     true,
			}, nil
		},
	}
	router := analysisRouter(NewAnalysisHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analysis/categories/Laptop/insights", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp InsightsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Encontrada)
	assert.Equal(t, 25.0, resp.PercentilPrecio)
	assert.True(t, resp.PrecioCompetitivo)
}

func TestCategoryInsightsUnknownCategory(t *testing.T) {
	svc := &mockAnalysisService{
		categoryInsights: func(ctx context.Context, category string) (*analysis.Insights, error) {
			return &analysis.Insights{Category: category, Found: false}, nil
		},
	}
	router := analysisRouter(NewAnalysisHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/analysis/categories/Inexistente/insights", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp InsightsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Encontrada)
	assert.Equal(t, "Inexistente", resp.Categoria)
}
