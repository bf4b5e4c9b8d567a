package postgres

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cscx/riskwatch/internal/domain/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "riskwatch.db")),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func appendEntry(t *testing.T, repo *GormHistoryRepository, customerID string, score int, recordedAt time.Time) *models.RiskHistoryEntry {
	t.Helper()
	entry := &models.RiskHistoryEntry{
		CustomerID: customerID,
		Score:      score,
		Level:      models.DefaultAlertThresholds().LevelFor(score),
		RecordedAt: recordedAt,
	}
	require.NoError(t, repo.Append(context.Background(), entry))
	require.NotZero(t, entry.ID)
	return entry
}

func TestLatestBeforePicksNewestOlderEntry(t *testing.T) {
	repo := NewGormHistoryRepository(newTestDB(t)).(*GormHistoryRepository)
	ctx := context.Background()
	now := time.Now().UTC()

	appendEntry(t, repo, "cust-1", 10, now.Add(-3*time.Hour))
	appendEntry(t, repo, "cust-1", 40, now.Add(-90*time.Minute))
	appendEntry(t, repo, "cust-1", 70, now.Add(-5*time.Minute))
	appendEntry(t, repo, "cust-2", 99, now.Add(-2*time.Hour))

	baseline, err := repo.LatestBefore(ctx, "cust-1", now.Add(-time.Hour))
	require.NoError(t, err)
	require.NotNil(t, baseline)
	assert.Equal(t, 40, baseline.Score)
}

func TestLatestBeforeCutoffIsExclusive(t *testing.T) {
	repo := NewGormHistoryRepository(newTestDB(t)).(*GormHistoryRepository)
	ctx := context.Background()

	cutoff := time.Now().UTC().Truncate(time.Second)
	appendEntry(t, repo, "cust-1", 30, cutoff)

	baseline, err := repo.LatestBefore(ctx, "cust-1", cutoff)
	require.NoError(t, err)
	assert.Nil(t, baseline, "an entry recorded exactly at the cutoff is not strictly before it")

	baseline, err = repo.LatestBefore(ctx, "cust-1", cutoff.Add(time.Second))
	require.NoError(t, err)
	require.NotNil(t, baseline)
	assert.Equal(t, 30, baseline.Score)
}

func TestLatestBeforeNoEntries(t *testing.T) {
	repo := NewGormHistoryRepository(newTestDB(t)).(*GormHistoryRepository)

	baseline, err := repo.LatestBefore(context.Background(), "cust-1", time.Now().UTC())
	require.NoError(t, err)
	assert.Nil(t, baseline)
}

func TestLatestBeforeBreaksTimestampTiesByInsertion(t *testing.T) {
	repo := NewGormHistoryRepository(newTestDB(t)).(*GormHistoryRepository)
	ctx := context.Background()

	recordedAt := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Second)
	appendEntry(t, repo, "cust-1", 10, recordedAt)
	second := appendEntry(t, repo, "cust-1", 20, recordedAt)

	baseline, err := repo.LatestBefore(ctx, "cust-1", time.Now().UTC())
	require.NoError(t, err)
	require.NotNil(t, baseline)
	assert.Equal(t, second.ID, baseline.ID)
	assert.Equal(t, 20, baseline.Score)
}

func TestListAndCountByCustomer(t *testing.T) {
	repo := NewGormHistoryRepository(newTestDB(t)).(*GormHistoryRepository)
	ctx := context.Background()
	now := time.Now().UTC()

	appendEntry(t, repo, "cust-1", 10, now.Add(-2*time.Hour))
	appendEntry(t, repo, "cust-1", 50, now.Add(-time.Hour))
	appendEntry(t, repo, "cust-2", 90, now)

	entries, err := repo.ListByCustomer(ctx, "cust-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 50, entries[0].Score, "newest first")

	count, err := repo.CountByCustomer(ctx, "cust-1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}
