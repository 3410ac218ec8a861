package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"
)

// ProductsClient accesses the product catalog endpoints.
type ProductsClient struct {
	client *Client
}

// Product is the wire form of a product.
type Product struct {
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

// ProductList is a paginated product collection.
type ProductList struct {
	Items      []Product `json:"items"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// SimilarProducts pairs the origin product with its matches.
type SimilarProducts struct {
	ProductoOrigen     Product   `json:"producto_origen"`
	ProductosSimilares []Product `json:"productos_similares"`
}

// CompatibleProducts pairs the origin product with compatible ones.
type CompatibleProducts struct {
	ProductoOrigen       Product   `json:"producto_origen"`
	ProductosCompatibles []Product `json:"productos_compatibles"`
}

// Incompatibility is one incompatible product with its reason.
type Incompatibility struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
	Razon  string `json:"razon"`
}

// IncompatibleProducts pairs the origin product with its conflicts.
type IncompatibleProducts struct {
	ProductoOrigen         Product           `json:"producto_origen"`
	ProductosIncompatibles []Incompatibility `json:"productos_incompatibles"`
}

// SearchOptions are the product search filters. All filters combine with
// logical AND; zero values are omitted.
type SearchOptions struct {
	Categoria string
	Marca     string
	Keyword   string
	MinPrecio *decimal.Decimal
	MaxPrecio *decimal.Decimal
	Page      int
	PageSize  int
}

// List returns one page of the product catalog.
func (pc *ProductsClient) List(ctx context.Context, page, pageSize int) (*ProductList, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}

	var out ProductList
	if err := pc.client.do(ctx, http.MethodGet, withQuery("/api/v1/products/", q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches one product by its ID.
func (pc *ProductsClient) Get(ctx context.Context, id string) (*Product, error) {
	var out Product
	if err := pc.client.do(ctx, http.MethodGet, "/api/v1/products/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search filters the catalog.
func (pc *ProductsClient) Search(ctx context.Context, opts SearchOptions) (*ProductList, error) {
	q := url.Values{}
	if opts.Categoria != "" {
		q.Set("categoria", opts.Categoria)
	}
	if opts.Marca != "" {
		q.Set("marca", opts.Marca)
	}
	if opts.Keyword != "" {
		q.Set("keyword", opts.Keyword)
	}
	if opts.MinPrecio != nil {
		q.Set("min_precio", opts.MinPrecio.String())
	}
	if opts.MaxPrecio != nil {
		q.Set("max_precio", opts.MaxPrecio.String())
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		q.Set("page_size", strconv.Itoa(opts.PageSize))
	}

	var out ProductList
	if err := pc.client.do(ctx, http.MethodGet, withQuery("/api/v1/products/search", q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Similar returns semantically similar products.
func (pc *ProductsClient) Similar(ctx context.Context, id string, limit int) (*SimilarProducts, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out SimilarProducts
	path := fmt.Sprintf("/api/v1/products/%s/similar", url.PathEscape(id))
	if err := pc.client.do(ctx, http.MethodGet, withQuery(path, q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Compatible returns products declared compatible with the given one.
func (pc *ProductsClient) Compatible(ctx context.Context, id string) (*CompatibleProducts, error) {
	var out CompatibleProducts
	path := fmt.Sprintf("/api/v1/products/%s/compatible", url.PathEscape(id))
	if err := pc.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Incompatible returns products that conflict with the given one.
func (pc *ProductsClient) Incompatible(ctx context.Context, id string) (*IncompatibleProducts, error) {
	var out IncompatibleProducts
	path := fmt.Sprintf("/api/v1/products/%s/incompatible", url.PathEscape(id))
	if err := pc.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}
