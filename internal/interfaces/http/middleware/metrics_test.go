package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/prometheus"
)

func TestMetricsRecordsRoutePattern(t *testing.T) {
	m := prometheus.New()

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/products/{productID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, target := range []string{"/products/Laptop_1", "/products/Laptop_2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	count := testutil.ToFloat64(
		m.HTTPRequestsTotal.WithLabelValues("GET", "/products/{productID}", "200"),
	)
	assert.Equal(t, 2.0, count)
}

func TestMetricsRecordsStatus(t *testing.T) {
	m := prometheus.New()

	r := chi.NewRouter()
	r.Use(Metrics(m))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	count := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "500"))
	assert.Equal(t, 1.0, count)
}

func TestMetricsNilCollectorPassesThrough(t *testing.T) {
	handler := Metrics(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
