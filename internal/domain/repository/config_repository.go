package repository

import (
	"context"

	"github.com/cscx/riskwatch/internal/domain/models"
)

// ConfigRepository stores the engine configuration values. Reads performed by
// the evaluator must observe the latest committed value; implementations must
// not cache.
type ConfigRepository interface {
	// Get retrieves the committed entry for a key. Returns (nil, nil) when the
	// key has never been set, letting the service layer fall back to defaults.
	Get(ctx context.Context, key string) (*models.ConfigEntry, error)

	// Set replaces the whole value for a key and touches its update timestamp.
	Set(ctx context.Context, key string, value []byte) error
}
