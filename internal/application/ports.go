// Package application wires the domain logic to storage, cache, and event
// infrastructure: assessment ingestion, alert lifecycle, engine
// configuration, the customer registry, and the derived portfolio views.
package application

import (
	"context"
	"time"

	"github.com/cscx/riskwatch/internal/domain/models"
)

// AlertPublisher pushes raised alerts to the downstream notification
// pipeline. Delivery beyond the publish is the consumer's responsibility;
// the engine does not retry.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert *models.RiskAlert) error
}

// ViewCache holds short-lived snapshots of the derived portfolio views.
// The views tolerate staleness, so cache failures degrade to recomputation.
type ViewCache interface {
	// Get unmarshals the snapshot under key into dest. The bool reports a hit.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Set stores a snapshot with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Delete drops snapshots, typically right after an ingest commits.
	Delete(ctx context.Context, keys ...string) error
}

// Cache keys for the derived views.
const (
	cacheKeyAtRisk  = "views:at_risk"
	cacheKeySummary = "views:portfolio_summary"
)
