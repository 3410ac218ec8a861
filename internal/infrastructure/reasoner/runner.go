package reasoner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/pkg/errors"
)

// HTTPRunnerConfig holds the inference engine sidecar endpoint parameters.
type HTTPRunnerConfig struct {
	// RunURL is the endpoint a POST triggers a synchronous inference pass on.
	RunURL  string        `mapstructure:"run_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// HTTPRunner triggers inference through the engine's HTTP control endpoint.
type HTTPRunner struct {
	client *http.Client
	runURL string
	logger logging.Logger
}

// NewHTTPRunner builds a runner for the configured sidecar endpoint.
func NewHTTPRunner(cfg HTTPRunnerConfig, logger logging.Logger) (*HTTPRunner, error) {
	if cfg.RunURL == "" {
		return nil, errors.InvalidParam("reasoner run url must not be empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &HTTPRunner{
		client: &http.Client{Timeout: timeout},
		runURL: cfg.RunURL,
		logger: logger.Named("reasoner.http"),
	}, nil
}

// Run triggers one inference pass and maps the failure modes: deadline and
// cancellation are retryable timeouts, an inconsistency report is fatal
// because re-running cannot repair the ontology, anything else is an engine
// failure.
func (r *HTTPRunner) Run(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.runURL, nil)
	if err != nil {
		return errors.Wrap(err, errors.CodeReasonerEngine, "failed to build inference request")
	}

	resp, err := r.client.Do(req)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return errors.Wrap(err, errors.CodeReasonerTimeout, "inference run timed out")
		}
		return errors.Wrap(err, errors.CodeReasonerEngine, "inference engine unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	detail := fmt.Sprintf("status=%d body=%s", resp.StatusCode, string(body))

	if resp.StatusCode == http.StatusConflict || containsInconsistency(string(body)) {
		return errors.New(errors.CodeReasonerInconsistency, "ontology is inconsistent").
			WithDetail(detail)
	}
	return errors.New(errors.CodeReasonerEngine, "inference run failed").
		WithDetail(detail)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func containsInconsistency(body string) bool {
	return strings.Contains(strings.ToLower(body), "inconsisten")
}
