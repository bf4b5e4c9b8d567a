package repository

import (
	"context"

	"github.com/cscx/riskwatch/internal/domain/models"
)

// CustomerRepository stores the minimal customer registry.
type CustomerRepository interface {
	// Upsert creates or replaces a registry entry.
	Upsert(ctx context.Context, customer *models.Customer) error

	// GetByID retrieves a customer. Returns (nil, nil) when absent.
	GetByID(ctx context.Context, id string) (*models.Customer, error)

	// List returns all registry entries.
	List(ctx context.Context) ([]*models.Customer, error)

	// Delete removes a customer and cascades to its assessments and history
	// entries. Alerts referencing the customer are kept.
	Delete(ctx context.Context, id string) error
}
