package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iamrodrigodev/smartcomparemarket/internal/application/analysis"
	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/catalog"
	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/market"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/sparql"
)

// The wire vocabulary is Spanish, matching the ontology the knowledge base
// is modeled in. Field names here are the public API contract.

// ProductResponse is the wire form of a product.
type ProductResponse struct {
	ID               string                 `json:"id"`
	Nombre           string                 `json:"nombre"`
	Precio           decimal.Decimal        `json:"precio"`
	Descripcion      string                 `json:"descripcion,omitempty"`
	Stock            *int                   `json:"stock,omitempty"`
	Categoria        string                 `json:"categoria,omitempty"`
	Marca            string                 `json:"marca,omitempty"`
	Vendedor         string                 `json:"vendedor,omitempty"`
	Especificaciones map[string]interface{} `json:"especificaciones"`
	URI              string                 `json:"uri,omitempty"`
}

func toProductResponse(p *catalog.Product) ProductResponse {
	specs := p.Specs
	if specs == nil {
		specs = map[string]interface{}{}
	}
	return ProductResponse{
		ID:               p.ID,
		Nombre:           p.Name,
		Precio:           p.Price,
		Descripcion:      p.Description,
		Stock:            p.Stock,
		Categoria:        p.Category,
		Marca:            p.Brand,
		Vendedor:         p.Vendor,
		Especificaciones: specs,
		URI:              p.URI,
	}
}

func toProductResponses(products []*catalog.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

// ProductListResponse is a paginated product collection.
type ProductListResponse struct {
	Items      []ProductResponse `json:"items"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

func toProductListResponse(products []*catalog.Product, page, pageSize int) ProductListResponse {
	total := len(products)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	return ProductListResponse{
		Items:      toProductResponses(products),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// SimilarProductsResponse pairs the origin product with its matches.
type SimilarProductsResponse struct {
	ProductoOrigen     ProductResponse   `json:"producto_origen"`
	ProductosSimilares []ProductResponse `json:"productos_similares"`
}

// CompatibleProductsResponse pairs the origin product with compatible ones.
type CompatibleProductsResponse struct {
	ProductoOrigen       ProductResponse   `json:"producto_origen"`
	ProductosCompatibles []ProductResponse `json:"productos_compatibles"`
}

// IncompatibilityResponse is one incompatible product with its reason.
type IncompatibilityResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Razon  string `json:"razon"`
}

// IncompatibleProductsResponse pairs the origin with its conflicts.
type IncompatibleProductsResponse struct {
	ProductoOrigen         ProductResponse           `json:"producto_origen"`
	ProductosIncompatibles []IncompatibilityResponse `json:"productos_incompatibles"`
}

func toIncompatibilityResponses(items []sparql.Incompatibility) []IncompatibilityResponse {
	out := make([]IncompatibilityResponse, 0, len(items))
	for _, it := range items {
		out = append(out, IncompatibilityResponse{ID: it.ProductID, Nombre: it.Name, Razon: it.Reason})
	}
	return out
}

// ComparisonRequest carries the IDs of the products to compare.
type ComparisonRequest struct {
	ProductIDs []string `json:"product_ids"`
}

// ComparisonResponse is the full comparison result.
type ComparisonResponse struct {
	Productos   []ProductResponse        `json:"productos"`
	Diferencias map[string][]interface{} `json:"diferencias"`
	MejorPrecio ProductResponse          `json:"mejor_precio"`
	Timestamp   time.Time                `json:"timestamp"`
}

// ComparisonBySpecsRequest narrows a comparison to selected specifications.
type ComparisonBySpecsRequest struct {
	ProductIDs     []string `json:"product_ids"`
	Specifications []string `json:"specifications"`
}

// BestValueEntryResponse is one ranked best-value product.
type BestValueEntryResponse struct {
	ID               string          `json:"id"`
	Nombre           string          `json:"nombre"`
	Precio           decimal.Decimal `json:"precio"`
	RAMGB            int             `json:"ram_gb"`
	AlmacenamientoGB int             `json:"almacenamiento_gb"`
	ValorScore       float64         `json:"valor_score"`
}

func toBestValueResponses(entries []sparql.BestValueEntry) []BestValueEntryResponse {
	out := make([]BestValueEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, BestValueEntryResponse{
			ID:               e.ProductID,
			Nombre:           e.Name,
			Precio:           e.Price,
			RAMGB:            e.RAMGB,
			AlmacenamientoGB: e.StorageGB,
			ValorScore:       e.ValueScore,
		})
	}
	return out
}

// RecommendationResponse is one scored recommendation.
type RecommendationResponse struct {
	Producto ProductResponse `json:"producto"`
	Razon    string          `json:"razon"`
	Score    *float64        `json:"score,omitempty"`
}

// RecommendationListResponse is the recommendation set for one user.
type RecommendationListResponse struct {
	Items     []RecommendationResponse `json:"items"`
	UsuarioID string                   `json:"usuario_id"`
	Timestamp time.Time                `json:"timestamp"`
}

func toRecommendationListResponse(userID string, recs []catalog.Recommendation) RecommendationListResponse {
	items := make([]RecommendationResponse, 0, len(recs))
	for _, rec := range recs {
		items = append(items, RecommendationResponse{
			Producto: toProductResponse(rec.Product),
			Razon:    rec.Reason,
			Score:    rec.Score,
		})
	}
	return RecommendationListResponse{Items: items, UsuarioID: userID, Timestamp: time.Now()}
}

// MarketStatsResponse is one category's price aggregation.
type MarketStatsResponse struct {
	Categoria      string          `json:"categoria"`
	PrecioMinimo   decimal.Decimal `json:"precio_minimo"`
	PrecioMaximo   decimal.Decimal `json:"precio_maximo"`
	PrecioPromedio decimal.Decimal `json:"precio_promedio"`
	TotalProductos int             `json:"total_productos"`
	RangoPrecio    decimal.Decimal `json:"rango_precio"`
}

func toMarketStatsResponses(stats []market.MarketStats) []MarketStatsResponse {
	out := make([]MarketStatsResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, MarketStatsResponse{
			Categoria:      s.Category,
			PrecioMinimo:   s.MinPrice,
			PrecioMaximo:   s.MaxPrice,
			PrecioPromedio: s.AvgPrice,
			TotalProductos: s.ProductCount,
			RangoPrecio:    s.PriceRange(),
		})
	}
	return out
}

// VendorStatsResponse is one vendor's aggregation.
type VendorStatsResponse struct {
	Vendedor          string          `json:"vendedor"`
	TotalProductos    int             `json:"total_productos"`
	PrecioPromedio    decimal.Decimal `json:"precio_promedio"`
	PrecioMinimo      decimal.Decimal `json:"precio_minimo"`
	PrecioMaximo      decimal.Decimal `json:"precio_maximo"`
	PrecioCompetitivo bool            `json:"precio_competitivo"`
}

func toVendorStatsResponses(stats []market.VendorStats) []VendorStatsResponse {
	out := make([]VendorStatsResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, VendorStatsResponse{
			Vendedor:          s.Vendor,
			TotalProductos:    s.ProductCount,
			PrecioPromedio:    s.AvgPrice,
			PrecioMinimo:      s.MinPrice,
			PrecioMaximo:      s.MaxPrice,
			PrecioCompetitivo: s.Competitive(),
		})
	}
	return out
}

// BrandStatsResponse is one brand's aggregation.
type BrandStatsResponse struct {
	Marca          string          `json:"marca"`
	TotalProductos int             `json:"total_productos"`
	PrecioPromedio decimal.Decimal `json:"precio_promedio"`
}

func toBrandStatsResponses(stats []market.BrandStats) []BrandStatsResponse {
	out := make([]BrandStatsResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, BrandStatsResponse{
			Marca:          s.Brand,
			TotalProductos: s.ProductCount,
			PrecioPromedio: s.AvgPrice,
		})
	}
	return out
}

// TopEntryResponse names the leader of one market dimension.
type TopEntryResponse struct {
	Nombre    string `json:"nombre"`
	Productos int    `json:"productos"`
}

// OverviewResponse is the condensed market summary.
type OverviewResponse struct {
	TotalCategorias      int               `json:"total_categorias"`
	TotalVendedores      int               `json:"total_vendedores"`
	TotalMarcas          int               `json:"total_marcas"`
	PrecioPromedioGlobal decimal.Decimal   `json:"precio_promedio_global"`
	CategoriaTop         *TopEntryResponse `json:"categoria_top"`
	VendedorTop          *TopEntryResponse `json:"vendedor_top"`
}

func toOverviewResponse(o *analysis.Overview) OverviewResponse {
	resp := OverviewResponse{
		TotalCategorias:      o.TotalCategories,
		TotalVendedores:      o.TotalVendors,
		TotalMarcas:          o.TotalBrands,
		PrecioPromedioGlobal: o.GlobalAvgPrice,
	}
	if o.TopCategory != nil {
		resp.CategoriaTop = &TopEntryResponse{Nombre: o.TopCategory.Name, Productos: o.TopCategory.ProductCount}
	}
	if o.TopVendor != nil {
		resp.VendedorTop = &TopEntryResponse{Nombre: o.TopVendor.Name, Productos: o.TopVendor.ProductCount}
	}
	return resp
}

// InsightsResponse positions one category inside the market.
type InsightsResponse struct {
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

func toInsightsResponse(in *analysis.Insights) InsightsResponse {
	return InsightsResponse{
		Categoria:         in.Category,
		Encontrada:        in.Found,
		PrecioMinimo:      in.MinPrice,
		PrecioMaximo:      in.MaxPrice,
		PrecioPromedio:    in.AvgPrice,
		RangoPrecio:       in.PriceRange,
		TotalProductos:    in.ProductCount,
		PercentilPrecio:   in.PricePercentile,
		PrecioCompetitivo: in.Competitive,
	}
}
