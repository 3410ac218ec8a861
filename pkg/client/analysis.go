package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"
)

// AnalysisClient accesses the market analytics endpoints.
type AnalysisClient struct {
	client *Client
}

// MarketStats is one category's price aggregation.
type MarketStats struct {
	Categoria      string          `json:"categoria"`
	PrecioMinimo   decimal.Decimal `json:"precio_minimo"`
	PrecioMaximo   decimal.Decimal `json:"precio_maximo"`
	PrecioPromedio decimal.Decimal `json:"precio_promedio"`
	TotalProductos int             `json:"total_productos"`
	RangoPrecio    decimal.Decimal `json:"rango_precio"`
}

// VendorStats is one vendor's aggregation.
type VendorStats struct {
	Vendedor          string          `json:"vendedor"`
	TotalProductos    int             `json:"total_productos"`
	PrecioPromedio    decimal.Decimal `json:"precio_promedio"`
	PrecioMinimo      decimal.Decimal `json:"precio_minimo"`
	PrecioMaximo      decimal.Decimal `json:"precio_maximo"`
	PrecioCompetitivo bool            `json:"precio_competitivo"`
}

// BrandStats is one brand's aggregation.
type BrandStats struct {
	Marca          string          `json:"marca"`
	TotalProductos int             `json:"total_productos"`
	PrecioPromedio decimal.Decimal `json:"precio_promedio"`
}

// TopEntry names the leader of one market dimension.
type TopEntry struct {
	Nombre    string `json:"nombre"`
	Productos int    `json:"productos"`
}

// Overview is the condensed market summary.
type Overview struct {
	TotalCategorias      int             `json:"total_categorias"`
	TotalVendedores      int             `json:"total_vendedores"`
	TotalMarcas          int             `json:"total_marcas"`
	PrecioPromedioGlobal decimal.Decimal `json:"precio_promedio_global"`
	CategoriaTop         *TopEntry       `json:"categoria_top"`
	VendedorTop          *TopEntry       `json:"vendedor_top"`
}

// CategoryInsights positions one category inside the market.
type CategoryInsights struct {
	Categoria         string          `json:"categoria"`
	Encontrada        bool            `json:"encontrada"`
	PrecioMinimo      decimal.Decimal `json:"precio_minimo"`
	PrecioMaximo      decimal.Decimal `json:"precio_maximo"`
	PrecioPromedio    decimal.Decimal `json:"precio_promedio"`
	RangoPrecio       decimal.Decimal `json:"rango_precio"`
	TotalProductos    int             `json:"total_productos"`
	PercentilPrecio   float64         `json:"percentil_precio"`
	PrecioCompetitivo bool            `json:"precio_competitivo"`
}

// PriceRanges returns the per-category price aggregations.
func (ac *AnalysisClient) PriceRanges(ctx context.Context) ([]MarketStats, error) {
	var out []MarketStats
	if err := ac.client.do(ctx, http.MethodGet, "/api/v1/analysis/price-ranges", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Vendors returns the per-vendor aggregations.
func (ac *AnalysisClient) Vendors(ctx context.Context) ([]VendorStats, error) {
	var out []VendorStats
	if err := ac.client.do(ctx, http.MethodGet, "/api/v1/analysis/vendors", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Brands returns the per-brand aggregations.
func (ac *AnalysisClient) Brands(ctx context.Context) ([]BrandStats, error) {
	var out []BrandStats
	if err := ac.client.do(ctx, http.MethodGet, "/api/v1/analysis/brands", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarketOverview returns the condensed market summary.
func (ac *AnalysisClient) MarketOverview(ctx context.Context) (*Overview, error) {
	var out Overview
	if err := ac.client.do(ctx, http.MethodGet, "/api/v1/analysis/overview", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Insights returns the market position of one category.
func (ac *AnalysisClient) Insights(ctx context.Context, category string) (*CategoryInsights, error) {
	var out CategoryInsights
	path := "/api/v1/analysis/categories/" + url.PathEscape(category) + "/insights"
	if err := ac.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
