package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/internal/domain/repository"
	"github.com/cscx/riskwatch/internal/domain/service"
	"github.com/cscx/riskwatch/pkg/logger"
)

// RecordAssessmentInput is the payload the upstream scorer submits. The
// engine validates the ranged fields and treats everything else as opaque.
type RecordAssessmentInput struct {
	CustomerID    string
	DealID        *string
	DealType      *string
	DealValue     *float64
	DealCloseDate *time.Time
	Score         int
	Level         *models.RiskLevel
	Confidence    *float64
	Findings      []models.RiskFinding
	Mitigations   json.RawMessage
	AssessedAt    *time.Time
}

// RecordAssessmentResult reports the stored assessment id and the alert
// raised by this ingestion, if any.
type RecordAssessmentResult struct {
	AssessmentID uuid.UUID
	Alert        *models.RiskAlert
}

// IngestionService records assessments and drives the transition evaluator.
type IngestionService interface {
	RecordAssessment(ctx context.Context, input RecordAssessmentInput) (*RecordAssessmentResult, error)
}

type ingestionService struct {
	assessments repository.AssessmentRepository
	history     repository.HistoryRepository
	alerts      repository.AlertRepository
	customers   repository.CustomerRepository
	txManager   repository.TransactionManager
	configSvc   ConfigService
	evaluator   *service.TransitionEvaluator
	publisher   AlertPublisher
	viewCache   ViewCache
	locks       *keyedMutex
	logger      logger.Logger
}

// NewIngestionService creates an IngestionService. publisher and viewCache
// may be nil; alert fan-out and snapshot invalidation are then skipped.
func NewIngestionService(
	assessments repository.AssessmentRepository,
	history repository.HistoryRepository,
	alerts repository.AlertRepository,
	customers repository.CustomerRepository,
	txManager repository.TransactionManager,
	configSvc ConfigService,
	evaluator *service.TransitionEvaluator,
	publisher AlertPublisher,
	viewCache ViewCache,
	lockShards int,
	log logger.Logger,
) IngestionService {
	return &ingestionService{
		assessments: assessments,
		history:     history,
		alerts:      alerts,
		customers:   customers,
		txManager:   txManager,
		configSvc:   configSvc,
		evaluator:   evaluator,
		publisher:   publisher,
		viewCache:   viewCache,
		locks:       newKeyedMutex(lockShards),
		logger:      log.WithComponent("ingestion_service"),
	}
}

// RecordAssessment validates and persists an assessment, appends its history
// entry, and runs the transition evaluator — all inside one transaction, so a
// second assessment for the same customer arriving right behind this one sees
// the first already reflected in history. Same-customer calls are serialized;
// distinct customers proceed in parallel.
func (s *ingestionService) RecordAssessment(ctx context.Context, input RecordAssessmentInput) (*RecordAssessmentResult, error) {
	now := time.Now().UTC()

	assessedAt := now
	if input.AssessedAt != nil {
		assessedAt = input.AssessedAt.UTC()
	}

	assessment := &models.RiskAssessment{
		ID:            uuid.New(),
		CustomerID:    input.CustomerID,
		DealID:        input.DealID,
		DealType:      input.DealType,
		DealValue:     input.DealValue,
		DealCloseDate: input.DealCloseDate,
		Score:         input.Score,
		Confidence:    input.Confidence,
		Findings:      input.Findings,
		Mitigations:   input.Mitigations,
		AssessedAt:    assessedAt,
	}
	if err := assessment.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(input.CustomerID)
	defer unlock()

	// Latest committed values, read after taking the lock so two queued
	// ingestions for one customer each see the freshest parameters.
	cfg := s.configSvc.EvaluatorConfig(ctx)

	// The level is derived, never trusted: a caller-supplied level computed
	// against stale thresholds is silently recomputed.
	assessment.Level = cfg.Thresholds.LevelFor(assessment.Score)
	if input.Level != nil && *input.Level != assessment.Level {
		s.logger.Warn(ctx, "caller-supplied risk level recomputed from current thresholds", logger.Fields{
			"customer_id": input.CustomerID,
			"supplied":    string(*input.Level),
			"derived":     string(assessment.Level),
		})
	}

	var alert *models.RiskAlert
	err := s.txManager.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.assessments.Create(txCtx, assessment); err != nil {
			return err
		}

		entry := &models.RiskHistoryEntry{
			CustomerID: assessment.CustomerID,
			DealID:     assessment.DealID,
			Score:      assessment.Score,
			Level:      assessment.Level,
			RecordedAt: now,
		}
		if err := s.history.Append(txCtx, entry); err != nil {
			return err
		}

		cutoff := now.Add(-cfg.ComparisonWindow.Duration())
		baseline, err := s.history.LatestBefore(txCtx, assessment.CustomerID, cutoff)
		if err != nil {
			return err
		}

		draft := s.evaluator.Evaluate(baseline, service.Observation{
			CustomerID: assessment.CustomerID,
			DealID:     assessment.DealID,
			Score:      assessment.Score,
			Level:      assessment.Level,
		}, cfg)
		if draft == nil {
			return nil
		}

		alert = &models.RiskAlert{
			ID:            uuid.New(),
			CustomerID:    assessment.CustomerID,
			CustomerName:  s.displayName(txCtx, assessment.CustomerID),
			Type:          draft.Type,
			PreviousLevel: draft.PreviousLevel,
			CurrentLevel:  draft.CurrentLevel,
			PreviousScore: draft.PreviousScore,
			CurrentScore:  draft.CurrentScore,
			TriggeredAt:   now,
		}
		return s.alerts.Create(txCtx, alert)
	})
	if err != nil {
		return nil, err
	}

	s.afterCommit(ctx, alert)

	return &RecordAssessmentResult{AssessmentID: assessment.ID, Alert: alert}, nil
}

// displayName captures the customer's current name for denormalization into
// the alert. An unregistered customer falls back to its id.
func (s *ingestionService) displayName(ctx context.Context, customerID string) string {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil || customer == nil {
		return customerID
	}
	return customer.Name
}

// afterCommit runs the best-effort side effects: alert fan-out and view
// snapshot invalidation. Neither failure unwinds the committed ingest.
func (s *ingestionService) afterCommit(ctx context.Context, alert *models.RiskAlert) {
	if s.viewCache != nil {
		if err := s.viewCache.Delete(ctx, cacheKeyAtRisk, cacheKeySummary); err != nil {
			s.logger.Warn(ctx, "failed to invalidate view snapshots", logger.Fields{"error": err.Error()})
		}
	}

	if alert == nil {
		return
	}
	s.logger.Info(ctx, "risk alert raised", logger.Fields{
		"alert_id":    alert.ID.String(),
		"customer_id": alert.CustomerID,
		"type":        string(alert.Type),
		"score":       alert.CurrentScore,
	})
	if s.publisher != nil {
		if err := s.publisher.PublishAlert(ctx, alert); err != nil {
			// Delivery is the downstream consumer's responsibility; the alert
			// is already durable and pollable over the API.
			s.logger.Error(ctx, "failed to publish alert event", err, logger.Fields{
				"alert_id": alert.ID.String(),
			})
		}
	}
}
