package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ComparisonsClient accesses the product comparison endpoints.
type ComparisonsClient struct {
	client *Client
}

// Comparison is the full comparison result.
type Comparison struct {
	Productos   []Product                `json:"productos"`
	Diferencias map[string][]interface{} `json:"diferencias"`
	MejorPrecio Product                  `json:"mejor_precio"`
	Timestamp   time.Time                `json:"timestamp"`
}

// BestValueEntry is one ranked best-value product.
type BestValueEntry struct {
	ID               string          `json:"id"`
	Nombre           string          `json:"nombre"`
	Precio           decimal.Decimal `json:"precio"`
	RAMGB            int             `json:"ram_gb"`
	AlmacenamientoGB int             `json:"almacenamiento_gb"`
	ValorScore       float64         `json:"valor_score"`
}

type comparisonRequest struct {
	ProductIDs []string `json:"product_ids"`
}

type comparisonBySpecsRequest struct {
	ProductIDs     []string `json:"product_ids"`
	Specifications []string `json:"specifications"`
}

// Compare compares between 2 and 10 products.
func (cc *ComparisonsClient) Compare(ctx context.Context, productIDs []string) (*Comparison, error) {
	var out Comparison
	req := comparisonRequest{ProductIDs: productIDs}
	if err := cc.client.do(ctx, http.MethodPost, "/api/v1/comparisons/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompareBySpecs compares products on selected specifications only. The
// result maps each requested specification to the per-product values; a
// nil value means the product does not assert that specification.
func (cc *ComparisonsClient) CompareBySpecs(ctx context.Context, productIDs, specifications []string) (map[string]map[string]*string, error) {
	var out map[string]map[string]*string
	req := comparisonBySpecsRequest{ProductIDs: productIDs, Specifications: specifications}
	if err := cc.client.do(ctx, http.MethodPost, "/api/v1/comparisons/by-specs", req, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BestValue ranks a category's products by value score, best first.
func (cc *ComparisonsClient) BestValue(ctx context.Context, category string, limit int) ([]BestValueEntry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out []BestValueEntry
	path := "/api/v1/comparisons/best-value/" + url.PathEscape(category)
	if err := cc.client.do(ctx, http.MethodGet, withQuery(path, q), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
