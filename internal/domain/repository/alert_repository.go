package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/cscx/riskwatch/internal/domain/models"
)

// AlertFilter narrows alert listings. A nil Acknowledged returns all alerts.
type AlertFilter struct {
	Acknowledged *bool
}

// AlertRepository stores raised alerts and their acknowledgement state.
type AlertRepository interface {
	// Create persists a newly raised alert.
	Create(ctx context.Context, alert *models.RiskAlert) error

	// GetByID retrieves an alert. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*models.RiskAlert, error)

	// UpdateAcknowledgement persists the acknowledgement fields of an alert.
	UpdateAcknowledgement(ctx context.Context, alert *models.RiskAlert) error

	// List returns alerts matching the filter, most recently triggered first.
	List(ctx context.Context, filter AlertFilter) ([]*models.RiskAlert, error)

	// ListByCustomer returns a customer's alerts, most recently triggered first.
	ListByCustomer(ctx context.Context, customerID string) ([]*models.RiskAlert, error)
}
