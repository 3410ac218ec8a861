// Package product implements the product query use cases: listing, lookup,
// filtered search, and the semantic neighbor relations derived by the
// reasoner.
package product

import (
	"context"
	"time"

	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/catalog"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/prometheus"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/sparql"
	"github.com/iamrodrigodev/smartcomparemarket/pkg/errors"
)

// FreshnessEnsurer guards queries that depend on inferred triples.
type FreshnessEnsurer interface {
	EnsureFresh(ctx context.Context) error
}

// CategorySchema answers class-hierarchy questions from the loaded
// ontology, so an unknown category is rejected before a query is composed.
type CategorySchema interface {
	HasClass(name string) bool
	IsSubclassOf(child, ancestor string) bool
}

// rootProductClass anchors the category hierarchy; every valid category
// descends from it.
const rootProductClass = "Producto"

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

// Service answers product queries against the knowledge base. Plain
// queries run over asserted triples; the semantic relations (similar,
// compatible, incompatible) require fresh inference and run with entailment
// enabled.
type Service struct {
	exec      sparql.QueryExecutor
	freshness FreshnessEnsurer
	schema    CategorySchema
	metrics   *prometheus.Metrics
	logger    logging.Logger
}

// NewService wires the product query service. schema and metrics may be
// nil; a nil schema disables category validation.
func NewService(exec sparql.QueryExecutor, freshness FreshnessEnsurer, schema CategorySchema, metrics *prometheus.Metrics, logger logging.Logger) *Service {
	return &Service{
		exec:      exec,
		freshness: freshness,
		schema:    schema,
		metrics:   metrics,
		logger:    logger.Named("product"),
	}
}

// validateCategory checks name against the ontology's class hierarchy.
func (s *Service) validateCategory(name string) error {
	if name == "" || s.schema == nil {
		return nil
	}
	if !s.schema.HasClass(name) || !s.schema.IsSubclassOf(name, rootProductClass) {
		return errors.New(errors.CodeCategoryNotFound, "category not found").
			WithDetailf("categoria=%s", name)
	}
	return nil
}

// query runs one SELECT and records its outcome.
func (s *Service) query(ctx context.Context, operation, q string, inference bool) (*sparql.ResultSet, error) {
	start := time.Now()
	rs, err := s.exec.Select(ctx, q, inference)
	if s.metrics != nil {
		s.metrics.ObserveSPARQLQuery(operation, time.Since(start), err)
	}
	return rs, err
}

// recordSkips logs and counts rows the binder dropped.
func (s *Service) recordSkips(operation string, stats sparql.BindStats) {
	if stats.Skipped == 0 {
		return
	}
	s.logger.Warn("dropped malformed result rows",
		logging.String("operation", operation),
		logging.Int("skipped", stats.Skipped),
		logging.Int("bound", stats.Bound),
	)
	if s.metrics != nil {
		s.metrics.AddSkippedRows(operation, stats.Skipped)
	}
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}

// List returns a page of the full catalog ordered by name.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*catalog.Product, error) {
	if offset < 0 {
		offset = 0
	}
	rs, err := s.query(ctx, "list", sparql.AllProducts(clampLimit(limit), offset), false)
	if err != nil {
		return nil, err
	}
	products, stats := sparql.BindProducts(rs.Rows, "producto")
	s.recordSkips("list", stats)
	return products, nil
}

// GetByID reconstructs one product from its property facts. Zero rows means
// the individual does not exist in the knowledge base.
func (s *Service) GetByID(ctx context.Context, id string) (*catalog.Product, error) {
	q, err := sparql.ProductByID(id)
	if err != nil {
		return nil, err
	}
	rs, err := s.query(ctx, "get_by_id", q, false)
	if err != nil {
		return nil, err
	}
	if len(rs.Rows) == 0 {
		return nil, errors.New(errors.CodeProductNotFound, "product not found").
			WithDetailf("id=%s", id)
	}
	return sparql.ProductFromProperties(id, rs.Rows), nil
}

// Search runs the filtered catalog search ordered by ascending price. A
// category filter naming a class the ontology does not declare fails
// without touching the store.
func (s *Service) Search(ctx context.Context, params sparql.SearchParams) ([]*catalog.Product, error) {
	if err := s.validateCategory(params.Category); err != nil {
		return nil, err
	}
	params.Limit = clampLimit(params.Limit)
	if params.Offset < 0 {
		params.Offset = 0
	}
	q, err := sparql.SearchProducts(params)
	if err != nil {
		return nil, err
	}
	rs, err := s.query(ctx, "search", q, false)
	if err != nil {
		return nil, err
	}
	products, stats := sparql.BindProducts(rs.Rows, "producto")
	s.recordSkips("search", stats)
	return products, nil
}

// Similar returns products related through similarity or technical
// equivalence. These relations are materialized by the reasoner, so the
// service ensures freshness and queries with entailment on.
func (s *Service) Similar(ctx context.Context, id string, limit int) ([]*catalog.Product, error) {
	q, err := sparql.SimilarProducts(id, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	if err := s.freshness.EnsureFresh(ctx); err != nil {
		return nil, err
	}
	rs, err := s.query(ctx, "similar", q, true)
	if err != nil {
		return nil, err
	}
	products, stats := sparql.BindProducts(rs.Rows, "similar")
	s.recordSkips("similar", stats)
	return products, nil
}

// Compatible returns products declared compatible with id in either
// direction.
func (s *Service) Compatible(ctx context.Context, id string) ([]*catalog.Product, error) {
	q, err := sparql.CompatibleProducts(id)
	if err != nil {
		return nil, err
	}
	if err := s.freshness.EnsureFresh(ctx); err != nil {
		return nil, err
	}
	rs, err := s.query(ctx, "compatible", q, true)
	if err != nil {
		return nil, err
	}
	products, stats := sparql.BindProducts(rs.Rows, "compatible")
	s.recordSkips("compatible", stats)
	return products, nil
}

// Incompatible returns products that cannot be combined with id, each with
// a derived reason when one exists.
func (s *Service) Incompatible(ctx context.Context, id string) ([]sparql.Incompatibility, error) {
	q, err := sparql.IncompatibleProducts(id)
	if err != nil {
		return nil, err
	}
	if err := s.freshness.EnsureFresh(ctx); err != nil {
		return nil, err
	}
	rs, err := s.query(ctx, "incompatible", q, true)
	if err != nil {
		return nil, err
	}
	out, stats := sparql.BindIncompatibilities(rs.Rows)
	s.recordSkips("incompatible", stats)
	return out, nil
}
