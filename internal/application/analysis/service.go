// Package analysis implements the market analytics use cases: aggregate
// statistics by category, vendor, and brand, plus the derived overview and
// per-category insights.
package analysis

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/market"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/prometheus"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/sparql"
)

// Service computes market analytics from grouped knowledge-base queries.
type Service struct {
	exec    sparql.QueryExecutor
	metrics *prometheus.Metrics
	logger  logging.Logger
}

// NewService wires the analytics service. metrics may be nil.
func NewService(exec sparql.QueryExecutor, metrics *prometheus.Metrics, logger logging.Logger) *Service {
	return &Service{
		exec:    exec,
		metrics: metrics,
		logger:  logger.Named("analysis"),
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

func (s *Service) recordSkips(operation string, stats sparql.BindStats) {
	if stats.Skipped == 0 {
		return
	}
	s.logger.Warn("dropped malformed aggregation rows",
		logging.String("operation", operation),
		logging.Int("skipped", stats.Skipped),
	)
	if s.metrics != nil {
		s.metrics.AddSkippedRows(operation, stats.Skipped)
	}
}

// CategoryStats returns per-category price statistics.
func (s *Service) CategoryStats(ctx context.Context) ([]market.MarketStats, error) {
	rs, err := s.query(ctx, "category_stats", sparql.PriceRangeByCategory())
	if err != nil {
		return nil, err
	}
	out, stats := sparql.BindMarketStats(rs.Rows)
	s.recordSkips("category_stats", stats)
	return out, nil
}

// VendorStats returns per-vendor price statistics.
func (s *Service) VendorStats(ctx context.Context) ([]market.VendorStats, error) {
	rs, err := s.query(ctx, "vendor_stats", sparql.VendorStatistics())
	if err != nil {
		return nil, err
	}
	out, stats := sparql.BindVendorStats(rs.Rows)
	s.recordSkips("vendor_stats", stats)
	return out, nil
}

// BrandStats returns per-brand statistics.
func (s *Service) BrandStats(ctx context.Context) ([]market.BrandStats, error) {
	rs, err := s.query(ctx, "brand_stats", sparql.BrandComparison())
	if err != nil {
		return nil, err
	}
	out, stats := sparql.BindBrandStats(rs.Rows)
	s.recordSkips("brand_stats", stats)
	return out, nil
}

// TopEntry names the group with the most products.
type TopEntry struct {
	Name         string
	ProductCount int
}

// Overview is the condensed market summary.
type Overview struct {
	TotalCategories int
	TotalVendors    int
	TotalBrands     int
	// GlobalAvgPrice is the mean of the per-category average prices, so
	// small categories weigh the same as large ones.
	GlobalAvgPrice decimal.Decimal
	TopCategory    *TopEntry
	TopVendor      *TopEntry
}

// MarketOverview fans the three aggregations out concurrently and condenses
// them. The first failing query cancels the rest.
func (s *Service) MarketOverview(ctx context.Context) (*Overview, error) {
	var (
		categories []market.MarketStats
		vendors    []market.VendorStats
		brands     []market.BrandStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.CategoryStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		vendors, err = s.VendorStats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		brands, err = s.BrandStats(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview := &Overview{
		TotalCategories: len(categories),
		TotalVendors:    len(vendors),
		TotalBrands:     len(brands),
		GlobalAvgPrice:  meanOfAverages(categories),
	}

	if top := topCategory(categories); top != nil {
		overview.TopCategory = top
	}
	if top := topVendor(vendors); top != nil {
		overview.TopVendor = top
	}
	return overview, nil
}

func meanOfAverages(categories []market.MarketStats) decimal.Decimal {
	if len(categories) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, c := range categories {
		sum = sum.Add(c.AvgPrice)
	}
	return sum.Div(decimal.NewFromInt(int64(len(categories))))
}

// topCategory picks the category with the most products; the first one wins
// a tie.
func topCategory(categories []market.MarketStats) *TopEntry {
	var top *TopEntry
	for _, c := range categories {
		if top == nil || c.ProductCount > top.ProductCount {
			top = &TopEntry{Name: c.Category, ProductCount: c.ProductCount}
		}
	}
	return top
}

func topVendor(vendors []market.VendorStats) *TopEntry {
	var top *TopEntry
	for _, v := range vendors {
		if top == nil || v.ProductCount > top.ProductCount {
			top = &TopEntry{Name: v.Vendor, ProductCount: v.ProductCount}
		}
	}
	return top
}

// Insights describes one category against the rest of the market. Found is
// false when the category has no products; that is an answer, not an error.
type Insights struct {
	Category        string
	Found           bool
	MinPrice        decimal.Decimal
	MaxPrice        decimal.Decimal
	AvgPrice        decimal.Decimal
	PriceRange      decimal.Decimal
	ProductCount    int
	PricePercentile float64
	Competitive     bool
}

// CategoryInsights positions one category's average price among all
// categories. The percentile is the category's rank in the ascending list of
// averages; below the 50th percentile counts as competitively priced.
func (s *Service) CategoryInsights(ctx context.Context, category string) (*Insights, error) {
	all, err := s.CategoryStats(ctx)
	if err != nil {
		return nil, err
	}

	var found *market.MarketStats
	for i := range all {
		if all[i].Category == category {
			found = &all[i]
			break
		}
	}
	if found == nil {
		return &Insights{Category: category, Found: false}, nil
	}

	averages := make([]decimal.Decimal, len(all))
	for i, c := range all {
		averages[i] = c.AvgPrice
	}
	sort.Slice(averages, func(i, j int) bool { return averages[i].LessThan(averages[j]) })

	rank := 0
	for i, avg := range averages {
		if avg.Equal(found.AvgPrice) {
			rank = i
			break
		}
	}
	percentile := float64(rank) / float64(len(averages)) * 100

	return &Insights{
		Category:        category,
		Found:           true,
		MinPrice:        found.MinPrice,
		MaxPrice:        found.MaxPrice,
		AvgPrice:        found.AvgPrice,
		PriceRange:      found.PriceRange(),
		ProductCount:    found.ProductCount,
		PricePercentile: percentile,
		Competitive:     percentile < 50,
	}, nil
}
