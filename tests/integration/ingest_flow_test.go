//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cscx/riskwatch/internal/application"
	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/internal/domain/service"
	pginfra "github.com/cscx/riskwatch/internal/infrastructure/persistence/postgres"
	"github.com/cscx/riskwatch/pkg/logger"
)

// TestIngestFlowAgainstPostgres runs the full ingest path against a real
// PostgreSQL instance, covering the pieces SQLite cannot exercise faithfully:
// jsonb columns and the window-function latest-per-customer query.
func TestIngestFlowAgainstPostgres(t *testing.T) {
	if testing.Short() || os.Getenv("SKIP_DOCKER_TESTS") == "true" {
		t.Skip("skipping Docker-dependent test")
	}

	ctx := context.Background()
	pgContainer, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("riskwatch"),
		tcpostgres.WithUsername("riskwatch"),
		tcpostgres.WithPassword("riskwatch"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Minute),
		),
	)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, pgContainer.Terminate(ctx))
	}()

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(connStr), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, pginfra.Migrate(db))

	log := logger.NewNoop()
	assessmentRepo := pginfra.NewGormAssessmentRepository(db)
	historyRepo := pginfra.NewGormHistoryRepository(db)
	alertRepo := pginfra.NewGormAlertRepository(db)
	customerRepo := pginfra.NewGormCustomerRepository(db)
	configSvc := application.NewConfigService(pginfra.NewGormConfigRepository(db), log)
	ingestion := application.NewIngestionService(
		assessmentRepo, historyRepo, alertRepo, customerRepo,
		pginfra.NewGormTransactionManager(db), configSvc,
		service.NewTransitionEvaluator(), nil, nil, 16, log,
	)

	now := time.Now().UTC()
	require.NoError(t, customerRepo.Upsert(ctx, &models.Customer{
		ID: "cust-1", Name: "Acme Corp", Revenue: 500000, CreatedAt: now, UpdatedAt: now,
	}))

	// Plant a baseline outside the comparison window, then ingest a score
	// that crosses into high.
	require.NoError(t, historyRepo.Append(ctx, &models.RiskHistoryEntry{
		CustomerID: "cust-1",
		Score:      50,
		Level:      models.RiskLevelMedium,
		RecordedAt: now.Add(-2 * time.Hour),
	}))

	result, err := ingestion.RecordAssessment(ctx, application.RecordAssessmentInput{
		CustomerID: "cust-1",
		Score:      78,
		Findings: []models.RiskFinding{
			{Category: "engagement", Severity: 0.7, Description: "login frequency down 60%"},
		},
		Mitigations: []byte(`{"playbook":"exec-sync"}`),
	})
	require.NoError(t, err)
	require.NotNil(t, result.Alert)
	assert.Equal(t, models.AlertTypeThresholdCrossed, result.Alert.Type)
	assert.Equal(t, "Acme Corp", result.Alert.CustomerName)

	stored, err := assessmentRepo.GetByID(ctx, result.AssessmentID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.JSONEq(t, `{"playbook":"exec-sync"}`, string(stored.Mitigations))
	require.Len(t, stored.Findings, 1)

	// Second customer, first observation critical.
	secondResult, err := ingestion.RecordAssessment(ctx, application.RecordAssessmentInput{
		CustomerID: "cust-2",
		Score:      95,
	})
	require.NoError(t, err)
	require.NotNil(t, secondResult.Alert)
	assert.Equal(t, models.AlertTypeNewCriticalRisk, secondResult.Alert.Type)

	latest, err := assessmentRepo.LatestPerCustomer(ctx)
	require.NoError(t, err)
	assert.Len(t, latest, 2)
}
