package reasoner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/pkg/errors"
)

func newHTTPRunner(t *testing.T, url string, timeout time.Duration) *HTTPRunner {
	t.Helper()
	r, err := NewHTTPRunner(HTTPRunnerConfig{RunURL: url, Timeout: timeout}, logging.NewNopLogger())
	require.NoError(t, err)
	return r
}

func TestNewHTTPRunnerRequiresURL(t *testing.T) {
	_, err := NewHTTPRunner(HTTPRunnerConfig{}, logging.NewNopLogger())
	assert.True(t, errors.IsValidation(err))
}

func TestHTTPRunnerSuccess(t *testing.T) {
	var method string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	r := newHTTPRunner(t, srv.URL+"/reasoner/run", 0)
	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, http.MethodPost, method)
}

func TestHTTPRunnerInconsistencyByStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))
	defer srv.Close()

	err := newHTTPRunner(t, srv.URL, 0).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeReasonerInconsistency))
	assert.False(t, errors.IsRetryable(err))
}

func TestHTTPRunnerInconsistencyByBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "InconsistentOntologyException: class Nothing is non-empty", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newHTTPRunner(t, srv.URL, 0).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeReasonerInconsistency))
}

func TestHTTPRunnerEngineError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "out of memory", http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := newHTTPRunner(t, srv.URL, 0).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeReasonerEngine))
	assert.False(t, errors.IsRetryable(err))
}

func TestHTTPRunnerTimeoutRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := newHTTPRunner(t, srv.URL, time.Minute).Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeReasonerTimeout))
	assert.True(t, errors.IsRetryable(err))
}
