package application

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/internal/domain/repository"
	"github.com/cscx/riskwatch/pkg/errors"
	"github.com/cscx/riskwatch/pkg/logger"
)

// AtRiskEntry is one row of the at-risk view: a customer whose latest
// assessment sits in the high or critical bucket.
type AtRiskEntry struct {
	CustomerID   string           `json:"customer_id"`
	CustomerName string           `json:"customer_name"`
	Score        int              `json:"score"`
	Level        models.RiskLevel `json:"level"`
	AssessedAt   time.Time        `json:"assessed_at"`
}

// LevelBucket is one row of the portfolio rollup.
type LevelBucket struct {
	Level        models.RiskLevel `json:"level"`
	Customers    int              `json:"customers"`
	TotalRevenue float64          `json:"total_revenue"`
	AverageScore float64          `json:"average_score"`
}

// PortfolioService serves the derived read-only views. Results are computed
// from committed state and may be a short-TTL snapshot; the views never
// mutate history or alerts.
type PortfolioService interface {
	// LatestForCustomer returns the customer's current assessment. Not-found
	// when the customer has never been assessed.
	LatestForCustomer(ctx context.Context, customerID string) (*models.RiskAssessment, error)

	// AssessmentsForCustomer returns the customer's assessments, newest first.
	AssessmentsForCustomer(ctx context.Context, customerID string) ([]*models.RiskAssessment, error)

	// AtRisk returns the at-risk subset of the portfolio, score descending.
	AtRisk(ctx context.Context) ([]AtRiskEntry, error)

	// Summary returns the portfolio rollup grouped by level.
	Summary(ctx context.Context) ([]LevelBucket, error)
}

type portfolioService struct {
	assessments repository.AssessmentRepository
	customers   repository.CustomerRepository
	viewCache   ViewCache
	cacheTTL    time.Duration
	group       singleflight.Group
	logger      logger.Logger
}

// NewPortfolioService creates a PortfolioService. viewCache may be nil, in
// which case every call recomputes from storage.
func NewPortfolioService(
	assessments repository.AssessmentRepository,
	customers repository.CustomerRepository,
	viewCache ViewCache,
	cacheTTL time.Duration,
	log logger.Logger,
) PortfolioService {
	return &portfolioService{
		assessments: assessments,
		customers:   customers,
		viewCache:   viewCache,
		cacheTTL:    cacheTTL,
		logger:      log.WithComponent("portfolio_service"),
	}
}

func (s *portfolioService) LatestForCustomer(ctx context.Context, customerID string) (*models.RiskAssessment, error) {
	latest, err := s.assessments.LatestByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, errors.ErrNotFound("latest assessment for customer", customerID)
	}
	return latest, nil
}

func (s *portfolioService) AssessmentsForCustomer(ctx context.Context, customerID string) ([]*models.RiskAssessment, error) {
	return s.assessments.ListByCustomer(ctx, customerID)
}

func (s *portfolioService) AtRisk(ctx context.Context) ([]AtRiskEntry, error) {
	var cached []AtRiskEntry
	if hit := s.cacheGet(ctx, cacheKeyAtRisk, &cached); hit {
		return cached, nil
	}

	v, err, _ := s.group.Do(cacheKeyAtRisk, func() (interface{}, error) {
		entries, err := s.computeAtRisk(ctx)
		if err != nil {
			return nil, err
		}
		s.cacheSet(ctx, cacheKeyAtRisk, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]AtRiskEntry), nil
}

func (s *portfolioService) Summary(ctx context.Context) ([]LevelBucket, error) {
	var cached []LevelBucket
	if hit := s.cacheGet(ctx, cacheKeySummary, &cached); hit {
		return cached, nil
	}

	v, err, _ := s.group.Do(cacheKeySummary, func() (interface{}, error) {
		buckets, err := s.computeSummary(ctx)
		if err != nil {
			return nil, err
		}
		s.cacheSet(ctx, cacheKeySummary, buckets)
		return buckets, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]LevelBucket), nil
}

func (s *portfolioService) computeAtRisk(ctx context.Context) ([]AtRiskEntry, error) {
	latest, err := s.assessments.LatestPerCustomer(ctx)
	if err != nil {
		return nil, err
	}
	names, _, err := s.customerAttributes(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]AtRiskEntry, 0)
	for _, a := range latest {
		if a.Level != models.RiskLevelHigh && a.Level != models.RiskLevelCritical {
			continue
		}
		name := names[a.CustomerID]
		if name == "" {
			name = a.CustomerID
		}
		entries = append(entries, AtRiskEntry{
			CustomerID:   a.CustomerID,
			CustomerName: name,
			Score:        a.Score,
			Level:        a.Level,
			AssessedAt:   a.AssessedAt,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Score > entries[j].Score })
	return entries, nil
}

func (s *portfolioService) computeSummary(ctx context.Context) ([]LevelBucket, error) {
	latest, err := s.assessments.LatestPerCustomer(ctx)
	if err != nil {
		return nil, err
	}
	_, revenues, err := s.customerAttributes(ctx)
	if err != nil {
		return nil, err
	}

	type acc struct {
		customers int
		revenue   float64
		scoreSum  int
	}
	byLevel := map[models.RiskLevel]*acc{}
	for _, a := range latest {
		bucket, ok := byLevel[a.Level]
		if !ok {
			bucket = &acc{}
			byLevel[a.Level] = bucket
		}
		bucket.customers++
		bucket.revenue += revenues[a.CustomerID]
		bucket.scoreSum += a.Score
	}

	buckets := make([]LevelBucket, 0, len(RiskLevelOrderHighFirst))
	for _, level := range RiskLevelOrderHighFirst {
		bucket, ok := byLevel[level]
		if !ok {
			continue
		}
		buckets = append(buckets, LevelBucket{
			Level:        level,
			Customers:    bucket.customers,
			TotalRevenue: bucket.revenue,
			AverageScore: float64(bucket.scoreSum) / float64(bucket.customers),
		})
	}
	return buckets, nil
}

// RiskLevelOrderHighFirst fixes the presentation order of the rollup.
var RiskLevelOrderHighFirst = []models.RiskLevel{
	models.RiskLevelCritical,
	models.RiskLevelHigh,
	models.RiskLevelMedium,
	models.RiskLevelLow,
}

func (s *portfolioService) customerAttributes(ctx context.Context) (map[string]string, map[string]float64, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		return nil, nil, err
	}
	names := make(map[string]string, len(customers))
	revenues := make(map[string]float64, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
		revenues[c.ID] = c.Revenue
	}
	return names, revenues, nil
}

func (s *portfolioService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.viewCache == nil {
		return false
	}
	hit, err := s.viewCache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn(ctx, "view cache read failed, recomputing", logger.Fields{"key": key, "error": err.Error()})
		return false
	}
	return hit
}

func (s *portfolioService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.viewCache == nil {
		return
	}
	if err := s.viewCache.Set(ctx, key, value, s.cacheTTL); err != nil {
		s.logger.Warn(ctx, "view cache write failed", logger.Fields{"key": key, "error": err.Error()})
	}
}
