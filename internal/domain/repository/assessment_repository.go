// Package repository defines the persistence interfaces of the risk
// monitoring engine. Implementations live under
// internal/infrastructure/persistence.
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/cscx/riskwatch/internal/domain/models"
)

// AssessmentRepository stores immutable risk assessments.
type AssessmentRepository interface {
	// Create persists a new assessment.
	Create(ctx context.Context, assessment *models.RiskAssessment) error

	// GetByID retrieves an assessment. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*models.RiskAssessment, error)

	// ListByCustomer returns a customer's assessments, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]*models.RiskAssessment, error)

	// LatestByCustomer returns the customer's assessment with the maximum
	// assessed_at, ties broken by most recent insertion. (nil, nil) when the
	// customer has no assessments.
	LatestByCustomer(ctx context.Context, customerID string) (*models.RiskAssessment, error)

	// LatestPerCustomer returns, for every customer with at least one
	// assessment, that customer's latest assessment.
	LatestPerCustomer(ctx context.Context) ([]*models.RiskAssessment, error)
}
