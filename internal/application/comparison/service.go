// Package comparison implements the side-by-side product comparison and
// value ranking use cases.
package comparison

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/catalog"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/prometheus"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/sparql"
	"github.com/iamrodrigodev/smartcomparemarket/pkg/errors"
)

const (
	// MinCompareProducts and MaxCompareProducts bound one comparison request.
	MinCompareProducts = 2
	MaxCompareProducts = 10
)

// ProductGetter supplies full products for the dense specification
// cross-tabulation.
type ProductGetter interface {
	GetByID(ctx context.Context, id string) (*catalog.Product, error)
}

// Result is one resolved comparison: the compared products, the cheapest
// one, and the specification keys whose values differ across the set.
type Result struct {
	Products    []*catalog.Product
	BestPrice   *catalog.Product
	Differences map[string][]interface{}
}

// Service resolves comparison requests against the knowledge base.
type Service struct {
	exec     sparql.QueryExecutor
	products ProductGetter
	metrics  *prometheus.Metrics
	logger   logging.Logger
}

// NewService wires the comparison service. metrics may be nil.
func NewService(exec sparql.QueryExecutor, products ProductGetter, metrics *prometheus.Metrics, logger logging.Logger) *Service {
	return &Service{
		exec:     exec,
		products: products,
		metrics:  metrics,
		logger:   logger.Named("comparison"),
	}
}

func (s *Service) query(ctx context.Context, operation, q string) (*sparql.ResultSet, error) {
	start := time.Now()
	rs, err := s.exec.Select(ctx, q, false)
	if s.metrics != nil {
		s.metrics.ObserveSPARQLQuery(operation, time.Since(start), err)
	}
	return rs, err
}

func validateIDCount(ids []string) error {
	if len(ids) < MinCompareProducts || len(ids) > MaxCompareProducts {
		return errors.InvalidParam("comparison requires between 2 and 10 product ids").
			WithDetailf("got=%d", len(ids))
	}
	return nil
}

// missingIDs returns the requested ids absent from the bound products, in
// request order.
func missingIDs(ids []string, products []*catalog.Product) []string {
	found := make(map[string]bool, len(products))
	for _, p := range products {
		found[p.ID] = true
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

// Compare fetches the requested products in one query and derives the
// comparison. Every requested id must exist; otherwise the missing set is
// reported so the caller can correct the request.
func (s *Service) Compare(ctx context.Context, ids []string) (*Result, error) {
	if err := validateIDCount(ids); err != nil {
		return nil, err
	}
	q, err := sparql.CompareProducts(ids)
	if err != nil {
		return nil, err
	}
	rs, err := s.query(ctx, "compare", q)
	if err != nil {
		return nil, err
	}

	products, stats := sparql.BindComparisonProducts(rs.Rows)
	if stats.Skipped > 0 {
		s.logger.Warn("dropped malformed comparison rows", logging.Int("skipped", stats.Skipped))
		if s.metrics != nil {
			s.metrics.AddSkippedRows("compare", stats.Skipped)
		}
	}

	if missing := missingIDs(ids, products); len(missing) > 0 {
		return nil, errors.New(errors.CodeProductNotFound, "products not found").
			WithDetailf("missing=%s", strings.Join(missing, ","))
	}

	cmp, err := catalog.NewComparison(products)
	if err != nil {
		return nil, err
	}
	return &Result{
		Products:    cmp.Products,
		BestPrice:   cmp.BestPrice(),
		Differences: cmp.Differences(),
	}, nil
}

// SpecTable is the dense cross-tabulation: one row per specification key,
// one cell per product, nil where a product lacks the key.
type SpecTable struct {
	Products []*catalog.Product
	Rows     map[string][]*string
}

// CompareBySpecs fetches each product in full and tabulates every
// specification key across the set. Unlike Compare, specs here include
// everything the knowledge base asserts about each product, not only the
// fixed comparable columns.
func (s *Service) CompareBySpecs(ctx context.Context, ids []string) (*SpecTable, error) {
	if err := validateIDCount(ids); err != nil {
		return nil, err
	}

	products := make([]*catalog.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.products.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	keys := make(map[string]struct{})
	for _, p := range products {
		for k := range p.Specs {
			keys[k] = struct{}{}
		}
	}

	rows := make(map[string][]*string, len(keys))
	for k := range keys {
		cells := make([]*string, len(products))
		for i, p := range products {
			if v, ok := p.Specs[k]; ok {
				cell := fmt.Sprint(v)
				cells[i] = &cell
			}
		}
		rows[k] = cells
	}

	return &SpecTable{Products: products, Rows: rows}, nil
}

// BestValue ranks a category's products by their value score, best first.
func (s *Service) BestValue(ctx context.Context, category string, limit int) ([]sparql.BestValueEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	q, err := sparql.BestValueInCategory(category, limit)
	if err != nil {
		return nil, err
	}
	rs, err := s.query(ctx, "best_value", q)
	if err != nil {
		return nil, err
	}
	entries, stats := sparql.BindBestValue(rs.Rows)
	if stats.Skipped > 0 {
		s.logger.Warn("dropped malformed value rows", logging.Int("skipped", stats.Skipped))
		if s.metrics != nil {
			s.metrics.AddSkippedRows("best_value", stats.Skipped)
		}
	}
	return entries, nil
}
