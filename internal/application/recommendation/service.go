// Package recommendation implements the semantic recommendation use cases.
// Candidates come from rule-derived relations in the knowledge base; the
// ranking happens here, driven by each candidate's recommendation reason.
package recommendation

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iamrodrigodev/smartcomparemarket/internal/domain/catalog"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/logging"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/monitoring/prometheus"
	"github.com/iamrodrigodev/smartcomparemarket/internal/infrastructure/sparql"
)

// FreshnessEnsurer guards queries that depend on inferred triples.
type FreshnessEnsurer interface {
	EnsureFresh(ctx context.Context) error
}

// ReasonScorer assigns a relevance score to a recommendation reason.
type ReasonScorer interface {
	Score(reason string) float64
}

// KeywordScorer scores reasons by case-insensitive substring match against
// the known reason phrases. Unknown reasons get the default score.
type KeywordScorer struct{}

// DefaultScore applies when no known phrase matches.
const DefaultScore = 0.5

var reasonScores = []struct {
	phrase string
	score  float64
}{
	{"recomendado por perfil", 1.0},
	{"similar a compras anteriores", 0.9},
	{"dentro de presupuesto", 0.8},
	{"categoría preferida", 0.6},
}

// Score implements ReasonScorer.
func (KeywordScorer) Score(reason string) float64 {
	lower := strings.ToLower(reason)
	for _, rs := range reasonScores {
		if strings.Contains(lower, rs.phrase) {
			return rs.score
		}
	}
	return DefaultScore
}

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Service ranks rule-derived product recommendations.
type Service struct {
	exec      sparql.QueryExecutor
	freshness FreshnessEnsurer
	scorer    ReasonScorer
	metrics   *prometheus.Metrics
	logger    logging.Logger
}

// NewService wires the recommendation service. A nil scorer falls back to
// the keyword scorer; metrics may be nil.
func NewService(exec sparql.QueryExecutor, freshness FreshnessEnsurer, scorer ReasonScorer, metrics *prometheus.Metrics, logger logging.Logger) *Service {
	if scorer == nil {
		scorer = KeywordScorer{}
	}
	return &Service{
		exec:      exec,
		freshness: freshness,
		scorer:    scorer,
		metrics:   metrics,
		logger:    logger.Named("recommendation"),
	}
}

func (s *Service) query(ctx context.Context, operation, q string, inference bool) (*sparql.ResultSet, error) {
	start := time.Now()
	rs, err := s.exec.Select(ctx, q, inference)
	if s.metrics != nil {
		s.metrics.ObserveSPARQLQuery(operation, time.Since(start), err)
	}
	return rs, err
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultLimit
	case limit > maxLimit:
		return maxLimit
	default:
		return limit
	}
}

// Recommend returns the user's recommendations, best first. The three
// semantic sources are unioned in one query; each candidate's reason decides
// its score, and the sort is stable so same-score candidates keep their
// query order.
func (s *Service) Recommend(ctx context.Context, userID string, limit int) ([]catalog.Recommendation, error) {
	q, err := sparql.RecommendationsForUser(userID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	if err := s.freshness.EnsureFresh(ctx); err != nil {
		return nil, err
	}
	rs, err := s.query(ctx, "recommend", q, true)
	if err != nil {
		return nil, err
	}

	rows, stats := sparql.BindRecommendationRows(rs.Rows)
	if stats.Skipped > 0 {
		s.logger.Warn("dropped malformed recommendation rows",
			logging.String("user_id", userID),
			logging.Int("skipped", stats.Skipped),
		)
		if s.metrics != nil {
			s.metrics.AddSkippedRows("recommend", stats.Skipped)
		}
	}

	recs := make([]catalog.Recommendation, 0, len(rows))
	for _, row := range rows {
		score := s.scorer.Score(row.Reason)
		recs = append(recs, catalog.Recommendation{
			Product: row.Product,
			Reason:  row.Reason,
			Score:   &score,
			UserID:  userID,
		})
	}
	catalog.SortRecommendations(recs)
	return recs, nil
}

// PersonalizedRecommend refines Recommend with a category and price ceiling
// filter. It over-fetches twice the limit and filters down; when too many
// candidates are filtered out the result under-fills rather than re-query,
// keeping the cost of one request bounded.
func (s *Service) PersonalizedRecommend(ctx context.Context, userID, category string, maxPrice *decimal.Decimal, limit int) ([]catalog.Recommendation, error) {
	limit = clampLimit(limit)
	recs, err := s.Recommend(ctx, userID, 2*limit)
	if err != nil {
		return nil, err
	}

	filtered := make([]catalog.Recommendation, 0, limit)
	for _, rec := range recs {
		if category != "" && rec.Product.Category != category {
			continue
		}
		if maxPrice != nil && rec.Product.Price.GreaterThan(*maxPrice) {
			continue
		}
		filtered = append(filtered, rec)
		if len(filtered) >= limit {
			break
		}
	}
	return filtered, nil
}

// BudgetProducts returns every product whose price fits the user's stated
// maximum budget, most expensive first. Works over asserted triples only.
func (s *Service) BudgetProducts(ctx context.Context, userID string) ([]*catalog.Product, error) {
	q, err := sparql.UserBudgetProducts(userID)
	if err != nil {
		return nil, err
	}
	rs, err := s.query(ctx, "budget_products", q, false)
	if err != nil {
		return nil, err
	}
	products, stats := sparql.BindProducts(rs.Rows, "producto")
	if stats.Skipped > 0 {
		s.logger.Warn("dropped malformed budget rows",
			logging.String("user_id", userID),
			logging.Int("skipped", stats.Skipped),
		)
		if s.metrics != nil {
			s.metrics.AddSkippedRows("budget_products", stats.Skipped)
		}
	}
	return products, nil
}
