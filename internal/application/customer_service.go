package application

import (
	"context"
	"time"

	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/internal/domain/repository"
	"github.com/cscx/riskwatch/pkg/errors"
	"github.com/cscx/riskwatch/pkg/logger"
)

// CustomerService maintains the minimal customer registry the engine needs
// for alert display names and the portfolio revenue rollup.
type CustomerService interface {
	Upsert(ctx context.Context, id, name string, revenue float64) error
	Get(ctx context.Context, id string) (*models.Customer, error)
	// Delete removes the customer and cascades to assessments and history.
	// Alerts survive and keep serving the denormalized name.
	Delete(ctx context.Context, id string) error
}

type customerService struct {
	customers repository.CustomerRepository
	logger    logger.Logger
}

// NewCustomerService creates a CustomerService.
func NewCustomerService(customers repository.CustomerRepository, log logger.Logger) CustomerService {
	return &customerService{customers: customers, logger: log.WithComponent("customer_service")}
}

func (s *customerService) Upsert(ctx context.Context, id, name string, revenue float64) error {
	if id == "" {
		return errors.ErrValidation("customer id is required")
	}
	if name == "" {
		return errors.ErrValidation("customer name is required")
	}
	now := time.Now().UTC()
	return s.customers.Upsert(ctx, &models.Customer{
		ID:        id,
		Name:      name,
		Revenue:   revenue,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

func (s *customerService) Get(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, errors.ErrNotFound("customer", id)
	}
	return customer, nil
}

func (s *customerService) Delete(ctx context.Context, id string) error {
	return s.customers.Delete(ctx, id)
}
