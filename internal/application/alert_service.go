package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/internal/domain/repository"
	"github.com/cscx/riskwatch/pkg/errors"
	"github.com/cscx/riskwatch/pkg/logger"
)

// AlertService manages the alert lifecycle and listings.
type AlertService interface {
	// Acknowledge records who handled an alert. Acknowledging an already
	// acknowledged alert succeeds without changing anything.
	Acknowledge(ctx context.Context, alertID uuid.UUID, actorID string) error

	// List returns alerts matching the filter, most recently triggered first.
	List(ctx context.Context, filter repository.AlertFilter) ([]*models.RiskAlert, error)

	// ListByCustomer returns a customer's alerts, most recent first.
	ListByCustomer(ctx context.Context, customerID string) ([]*models.RiskAlert, error)
}

type alertService struct {
	alerts repository.AlertRepository
	logger logger.Logger
}

// NewAlertService creates an AlertService.
func NewAlertService(alerts repository.AlertRepository, log logger.Logger) AlertService {
	return &alertService{alerts: alerts, logger: log.WithComponent("alert_service")}
}

func (s *alertService) Acknowledge(ctx context.Context, alertID uuid.UUID, actorID string) error {
	if actorID == "" {
		return errors.ErrValidation("actor_id is required")
	}

	alert, err := s.alerts.GetByID(ctx, alertID)
	if err != nil {
		return err
	}
	if alert == nil {
		return errors.ErrNotFound("alert", alertID.String())
	}

	if !alert.Acknowledge(actorID, time.Now().UTC()) {
		// Already acknowledged; idempotent success.
		return nil
	}

	if err := s.alerts.UpdateAcknowledgement(ctx, alert); err != nil {
		return err
	}

	s.logger.Info(ctx, "alert acknowledged", logger.Fields{
		"alert_id": alertID.String(),
		"actor_id": actorID,
	})
	return nil
}

func (s *alertService) List(ctx context.Context, filter repository.AlertFilter) ([]*models.RiskAlert, error) {
	return s.alerts.List(ctx, filter)
}

func (s *alertService) ListByCustomer(ctx context.Context, customerID string) ([]*models.RiskAlert, error) {
	return s.alerts.ListByCustomer(ctx, customerID)
}
