package application

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/cscx/riskwatch/internal/domain/repository"
	"github.com/cscx/riskwatch/internal/domain/service"
	"github.com/cscx/riskwatch/internal/infrastructure/persistence/postgres"
	"github.com/cscx/riskwatch/pkg/logger"
)

// testEnv wires the application services over a throwaway SQLite database so
// the full ingest path runs against real repositories and transactions.
type testEnv struct {
	db          *gorm.DB
	assessments repository.AssessmentRepository
	history     repository.HistoryRepository
	alerts      repository.AlertRepository
	customers   repository.CustomerRepository
	txManager   repository.TransactionManager
	configSvc   ConfigService
	ingestion   IngestionService
	alertSvc    AlertService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(
		sqlite.Open(filepath.Join(t.TempDir(), "riskwatch.db")),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)},
	)
	require.NoError(t, err)
	require.NoError(t, postgres.Migrate(db))

	log := logger.NewNoop()
	env := &testEnv{
		db:          db,
		assessments: postgres.NewGormAssessmentRepository(db),
		history:     postgres.NewGormHistoryRepository(db),
		alerts:      postgres.NewGormAlertRepository(db),
		customers:   postgres.NewGormCustomerRepository(db),
		txManager:   postgres.NewGormTransactionManager(db),
	}
	env.configSvc = NewConfigService(postgres.NewGormConfigRepository(db), log)
	env.ingestion = NewIngestionService(
		env.assessments, env.history, env.alerts, env.customers,
		env.txManager, env.configSvc, service.NewTransitionEvaluator(),
		nil, nil, 16, log,
	)
	env.alertSvc = NewAlertService(env.alerts, log)
	return env
}
