package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/cscx/riskwatch/internal/application"
	"github.com/cscx/riskwatch/internal/config"
	"github.com/cscx/riskwatch/internal/domain/service"
	"github.com/cscx/riskwatch/internal/infrastructure/events"
	"github.com/cscx/riskwatch/internal/infrastructure/monitoring"
	"github.com/cscx/riskwatch/internal/infrastructure/persistence/postgres"
	redisinfra "github.com/cscx/riskwatch/internal/infrastructure/persistence/redis"
	"github.com/cscx/riskwatch/internal/interfaces/http/handlers"
	"github.com/cscx/riskwatch/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLogger, err := monitoring.NewZapLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := monitoring.InitTracer(ctx, &cfg.Tracing, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "failed to initialize tracer", err)
	}
	defer shutdownTracer(context.Background())

	dbConn, err := postgres.NewDBConnection(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "failed to connect to database", err)
	}
	defer dbConn.Close()

	redisClient, err := redisinfra.NewClient(ctx, &cfg.Redis, appLogger)
	if err != nil {
		appLogger.Fatal(ctx, "failed to connect to redis", err)
	}
	defer redisClient.Close()

	metrics := monitoring.NewMetrics()
	viewCache := redisinfra.NewViewCache(redisClient)
	publisher := events.NewKafkaAlertPublisher(&cfg.Kafka, appLogger)

	db := dbConn.DB()
	assessmentRepo := postgres.NewGormAssessmentRepository(db)
	historyRepo := postgres.NewGormHistoryRepository(db)
	alertRepo := postgres.NewGormAlertRepository(db)
	configRepo := postgres.NewGormConfigRepository(db)
	customerRepo := postgres.NewGormCustomerRepository(db)
	txManager := postgres.NewGormTransactionManager(db)

	configSvc := application.NewConfigService(configRepo, appLogger)
	ingestionSvc := application.NewIngestionService(
		assessmentRepo, historyRepo, alertRepo, customerRepo,
		txManager, configSvc, service.NewTransitionEvaluator(),
		publisher, viewCache, cfg.Engine.LockShards, appLogger,
	)
	alertSvc := application.NewAlertService(alertRepo, appLogger)
	customerSvc := application.NewCustomerService(customerRepo, appLogger)
	portfolioSvc := application.NewPortfolioService(
		assessmentRepo, customerRepo, viewCache, cfg.Engine.ViewCacheTTL, appLogger,
	)

	srv := router.NewRouter(&cfg.Server, appLogger, router.Handlers{
		Assessment: handlers.NewAssessmentHandler(ingestionSvc, metrics),
		Alert:      handlers.NewAlertHandler(alertSvc, metrics),
		Config:     handlers.NewConfigHandler(configSvc, metrics),
		Customer:   handlers.NewCustomerHandler(customerSvc, portfolioSvc, alertSvc),
		Portfolio:  handlers.NewPortfolioHandler(portfolioSvc, metrics),
		Health: handlers.NewHealthHandler(map[string]handlers.Pinger{
			"postgres": dbConn,
			"redis": handlers.PingerFunc(func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			}),
		}),
	}, handlers.NewMiddleware(appLogger))

	if err := srv.Start(ctx); err != nil {
		appLogger.Fatal(ctx, "http server failed", err)
	}
	appLogger.Info(context.Background(), "server stopped")
}
