// Package reasoner controls when ontology inference is recomputed. The
// knowledge base only returns entailed triples after a reasoner run, and
// runs are expensive, so query services ask the controller for freshness
// instead of triggering the engine directly.
package reasoner

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/prometheus"
)

// InferenceRunner executes one synchronous inference pass over the
// knowledge base.
type InferenceRunner interface {
	Run(ctx context.Context) error
}

// RunnerFunc adapts a function to the InferenceRunner interface.
type RunnerFunc func(ctx context.Context) error

func (f RunnerFunc) Run(ctx context.Context) error { return f(ctx) }

// Config tunes the freshness controller.
type Config struct {
	// TTL is how long a successful run stays fresh. Non-positive values
	// fall back to the default.
	TTL time.Duration `mapstructure:"ttl"`
}

// DefaultTTL bounds staleness when no TTL is configured.
const DefaultTTL = 5 * time.Minute

// Controller tracks inference freshness. A successful run is fresh for the
// configured TTL; a failed run leaves the state stale so the next caller
// retries. Concurrent EnsureFresh calls collapse into one in-flight run.
// Safe for concurrent use.
type Controller struct {
	runner  InferenceRunner
	ttl     time.Duration
	metrics *prometheus.Metrics
	logger  logging.Logger

	group singleflight.Group

	mu      sync.RWMutex
	lastRun time.Time

	// now is replaceable for tests
	now func() time.Time
}

// NewController wraps runner with freshness tracking. The initial state is
// stale. metrics may be nil.
func NewController(runner InferenceRunner, cfg Config, metrics *prometheus.Metrics, logger logging.Logger) *Controller {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Controller{
		runner:  runner,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger.Named("reasoner"),
		now:     time.Now,
	}
}

// Fresh reports whether the last successful run is still within the TTL.
func (c *Controller) Fresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.lastRun.IsZero() && c.now().Sub(c.lastRun) < c.ttl
}

// LastRun returns the time of the last successful run, zero when none.
func (c *Controller) LastRun() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastRun
}

// Invalidate forces the state to stale. The next EnsureFresh call runs the
// engine regardless of the TTL.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	c.lastRun = time.Time{}
	c.mu.Unlock()
	c.logger.Info("inference state invalidated")
}

// EnsureFresh returns immediately when the state is fresh; otherwise it runs
// the engine exactly once regardless of how many goroutines arrive here
// concurrently, and every waiter shares the run's outcome. A failed run does
// not advance the freshness timestamp.
func (c *Controller) EnsureFresh(ctx context.Context) error {
	if c.Fresh() {
		return nil
	}

	_, err, _ := c.group.Do("inference", func() (interface{}, error) {
		// a run that completed while this caller waited counts
		if c.Fresh() {
			return nil, nil
		}

		start := c.now()
		err := c.runner.Run(ctx)
		if c.metrics != nil {
			c.metrics.ObserveInferenceRun(c.now().Sub(start), err)
		}
		if err != nil {
			c.logger.Error("inference run failed", logging.Err(err))
			return nil, err
		}

		c.mu.Lock()
		c.lastRun = c.now()
		c.mu.Unlock()

		c.logger.Info("inference run completed",
			logging.Duration("elapsed", c.now().Sub(start)),
		)
		return nil, nil
	})
	return err
}
