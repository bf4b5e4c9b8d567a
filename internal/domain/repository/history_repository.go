package repository

import (
	"context"
	"time"

	"github.com/cscx/riskwatch/internal/domain/models"
)

// HistoryRepository stores the append-only per-customer risk timeline. The
// backing index must make "most recent entry before T for customer C" cheap.
type HistoryRepository interface {
	// Append records a new timeline entry and fills in its assigned ID.
	Append(ctx context.Context, entry *models.RiskHistoryEntry) error

	// LatestBefore returns the customer's most recent entry recorded strictly
	// before cutoff, or (nil, nil) when no such entry exists. This is the
	// baseline lookup for the transition evaluator: entries younger than the
	// comparison window are deliberately skipped.
	LatestBefore(ctx context.Context, customerID string, cutoff time.Time) (*models.RiskHistoryEntry, error)

	// ListByCustomer returns a customer's timeline, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]*models.RiskHistoryEntry, error)

	// CountByCustomer returns the number of entries in a customer's timeline.
	CountByCustomer(ctx context.Context, customerID string) (int64, error)
}
