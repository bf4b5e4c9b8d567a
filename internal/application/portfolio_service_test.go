package application

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/internal/domain/service"
	"github.com/cscx/riskwatch/pkg/errors"
	"github.com/cscx/riskwatch/pkg/logger"
)

// memoryViewCache is an in-process ViewCache for exercising the snapshot
// path without a Redis instance. TTLs are ignored; tests drop keys explicitly.
type memoryViewCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryViewCache() *memoryViewCache {
	return &memoryViewCache{entries: make(map[string][]byte)}
}

func (c *memoryViewCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	payload, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(payload, dest)
}

func (c *memoryViewCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
	return nil
}

func (c *memoryViewCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.entries, key)
	}
	return nil
}

func registerCustomer(t *testing.T, env *testEnv, id, name string, revenue float64) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, env.customers.Upsert(context.Background(), &models.Customer{
		ID: id, Name: name, Revenue: revenue, CreatedAt: now, UpdatedAt: now,
	}))
}

func newPortfolio(env *testEnv, cache ViewCache) PortfolioService {
	return NewPortfolioService(env.assessments, env.customers, cache, time.Minute, logger.NewNoop())
}

func TestLatestForCustomerNotFound(t *testing.T) {
	env := newTestEnv(t)
	portfolio := newPortfolio(env, nil)

	_, err := portfolio.LatestForCustomer(context.Background(), "never-assessed")
	assert.True(t, errors.IsNotFound(err))
}

func TestLatestForCustomerTracksNewestAssessment(t *testing.T) {
	env := newTestEnv(t)
	portfolio := newPortfolio(env, nil)
	ctx := context.Background()

	ingest(t, env, "cust-1", 30)
	ingest(t, env, "cust-1", 75)

	latest, err := portfolio.LatestForCustomer(ctx, "cust-1")
	require.NoError(t, err)
	assert.Equal(t, 75, latest.Score)
	assert.Equal(t, models.RiskLevelHigh, latest.Level)
}

func TestAtRiskViewFiltersAndSorts(t *testing.T) {
	env := newTestEnv(t)
	portfolio := newPortfolio(env, nil)
	ctx := context.Background()

	registerCustomer(t, env, "cust-low", "Low Corp", 1000)
	registerCustomer(t, env, "cust-high", "High Corp", 2000)
	registerCustomer(t, env, "cust-critical", "Critical Corp", 3000)

	ingest(t, env, "cust-low", 20)
	ingest(t, env, "cust-high", 75)
	ingest(t, env, "cust-critical", 92)
	// cust-improved was high once, but the latest assessment is medium.
	ingest(t, env, "cust-improved", 80)
	ingest(t, env, "cust-improved", 55)

	entries, err := portfolio.AtRisk(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "cust-critical", entries[0].CustomerID)
	assert.Equal(t, "Critical Corp", entries[0].CustomerName)
	assert.Equal(t, "cust-high", entries[1].CustomerID)
}

func TestSummaryBucketsByLevel(t *testing.T) {
	env := newTestEnv(t)
	portfolio := newPortfolio(env, nil)
	ctx := context.Background()

	registerCustomer(t, env, "cust-a", "A", 1000)
	registerCustomer(t, env, "cust-b", "B", 2000)
	registerCustomer(t, env, "cust-c", "C", 4000)

	ingest(t, env, "cust-a", 75) // high
	ingest(t, env, "cust-b", 80) // high
	ingest(t, env, "cust-c", 10) // low

	buckets, err := portfolio.Summary(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 2)

	// Ordered most severe first.
	assert.Equal(t, models.RiskLevelHigh, buckets[0].Level)
	assert.Equal(t, 2, buckets[0].Customers)
	assert.InDelta(t, 3000, buckets[0].TotalRevenue, 0.001)
	assert.InDelta(t, 77.5, buckets[0].AverageScore, 0.001)

	assert.Equal(t, models.RiskLevelLow, buckets[1].Level)
	assert.Equal(t, 1, buckets[1].Customers)
	assert.InDelta(t, 4000, buckets[1].TotalRevenue, 0.001)
}

func TestSummaryCountsEachCustomerOnce(t *testing.T) {
	env := newTestEnv(t)
	portfolio := newPortfolio(env, nil)

	ingest(t, env, "cust-1", 75)
	ingest(t, env, "cust-1", 78)
	ingest(t, env, "cust-1", 80)

	buckets, err := portfolio.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, 1, buckets[0].Customers)
}

func TestViewsServeSnapshotUntilInvalidated(t *testing.T) {
	env := newTestEnv(t)
	cache := newMemoryViewCache()
	portfolio := newPortfolio(env, cache)
	ctx := context.Background()

	ingest(t, env, "cust-1", 92)

	entries, err := portfolio.AtRisk(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	// Write a second critical assessment directly through the repository,
	// bypassing the ingest path, so the snapshot stays stale.
	require.NoError(t, env.assessments.Create(ctx, &models.RiskAssessment{
		ID:         uuid.New(),
		CustomerID: "cust-2",
		Score:      95,
		Level:      models.RiskLevelCritical,
		AssessedAt: time.Now().UTC(),
	}))

	entries, err = portfolio.AtRisk(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "stale snapshot expected until invalidation")

	require.NoError(t, cache.Delete(ctx, "views:at_risk", "views:portfolio_summary"))
	entries, err = portfolio.AtRisk(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestIngestInvalidatesViewSnapshots(t *testing.T) {
	env := newTestEnv(t)
	cache := newMemoryViewCache()
	portfolio := newPortfolio(env, cache)
	ctx := context.Background()

	ingestion := NewIngestionService(
		env.assessments, env.history, env.alerts, env.customers,
		env.txManager, env.configSvc, service.NewTransitionEvaluator(),
		nil, cache, 16, logger.NewNoop(),
	)

	_, err := ingestion.RecordAssessment(ctx, RecordAssessmentInput{CustomerID: "cust-1", Score: 92})
	require.NoError(t, err)

	entries, err := portfolio.AtRisk(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = ingestion.RecordAssessment(ctx, RecordAssessmentInput{CustomerID: "cust-2", Score: 88})
	require.NoError(t, err)

	entries, err = portfolio.AtRisk(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "ingest must drop the cached snapshot")
}
