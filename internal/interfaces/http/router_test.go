package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/catalog"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/prometheus"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/sparql"
	"github.com/iamrodrigodev/smartcomparemarket/internal/interfaces/http/handlers"
	"github.com/shopspring/decimal"
)

// stubProducts answers every product operation with a single fixed product.
type stubProducts struct{}

func (stubProducts) fixed() *catalog.Product {
	p, _ := catalog.NewProduct("Laptop_1", "Laptop Uno", decimal.NewFromInt(1200))
	return p
}

func (s stubProducts) List(ctx context.Context, limit, offset int) ([]*catalog.Product, error) {
	return []*catalog.Product{s.fixed()}, nil
}

func (s stubProducts) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	return s.fixed(), nil
}

func (s stubProducts) Search(ctx context.Context, params sparql.SearchParams) ([]*catalog.Product, error) {
	return []*catalog.Product{s.fixed()}, nil
}

func (s stubProducts) Similar(ctx context.Context, id string, limit int) ([]*catalog.Product, error) {
	return nil, nil
}

func (s stubProducts) Compatible(ctx context.Context, id string) ([]*catalog.Product, error) {
	return nil, nil
}

func (s stubProducts) Incompatible(ctx context.Context, id string) ([]sparql.Incompatibility, error) {
	return nil, nil
}

func newTestRouter() http.Handler {
	return NewRouter(RouterConfig{
		ProductHandler: handlers.NewProductHandler(stubProducts{}),
		HealthHandler:  handlers.NewHealthHandler("test"),
		Logger:         logging.NewNopLogger(),
		Metrics:        prometheus.New(),
	})
}

func TestRouterHealthEndpoints(t *testing.T) {
	router := newTestRouter()

	for _, target := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestRouterAPIRoutes(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/Laptop_1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouterUnknownRoute(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v2/nothing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouterSetsRequestID(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouterUnregisteredHandlersAre404(t *testing.T) {
	router := NewRouter(RouterConfig{Logger: logging.NewNopLogger()})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/comparisons/best-value/Laptop", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
