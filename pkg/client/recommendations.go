package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// RecommendationsClient accesses the per-user recommendation endpoints.
type RecommendationsClient struct {
	client *Client
}

// Recommendation is one scored recommendation.
type Recommendation struct {
	Producto Product  `json:"producto"`
	Razon    string   `json:"razon"`
	Score    *float64 `json:"score,omitempty"`
}

// RecommendationList is the recommendation set for one user.
type RecommendationList struct {
	Items     []Recommendation `json:"items"`
	UsuarioID string           `json:"usuario_id"`
	Timestamp time.Time        `json:"timestamp"`
}

// PersonalizedOptions narrow a personalized recommendation request.
type PersonalizedOptions struct {
	Categoria string
	MaxPrecio *decimal.Decimal
	Limit     int
}

// ForUser returns the scored recommendations for a user.
func (rc *RecommendationsClient) ForUser(ctx context.Context, userID string, limit int) (*RecommendationList, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out RecommendationList
	path := "/api/v1/recommendations/users/" + url.PathEscape(userID) + "/"
	if err := rc.client.do(ctx, http.MethodGet, withQuery(path, q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Budget returns the products within the user's declared budget.
func (rc *RecommendationsClient) Budget(ctx context.Context, userID string) (*ProductList, error) {
	var out ProductList
	path := "/api/v1/recommendations/users/" + url.PathEscape(userID) + "/budget"
	if err := rc.client.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Personalized returns recommendations narrowed by category and price
// ceiling.
func (rc *RecommendationsClient) Personalized(ctx context.Context, userID string, opts PersonalizedOptions) (*RecommendationList, error) {
	q := url.Values{}
	if opts.Categoria != "" {
		q.Set("categoria", opts.Categoria)
	}
	if opts.MaxPrecio != nil {
		q.Set("max_precio", opts.MaxPrecio.String())
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}

	var out RecommendationList
	path := "/api/v1/recommendations/users/" + url.PathEscape(userID) + "/personalized"
	if err := rc.client.do(ctx, http.MethodGet, withQuery(path, q), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
