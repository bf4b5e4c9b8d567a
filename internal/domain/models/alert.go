package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertType classifies the state transition that raised an alert.
type AlertType string

const (
	// AlertTypeThresholdCrossed marks a rise in discrete level into high or
	// critical.
	AlertTypeThresholdCrossed AlertType = "threshold_crossed"
	// AlertTypeRapidIncrease marks a score jump exceeding the configured
	// delta, regardless of level change.
	AlertTypeRapidIncrease AlertType = "rapid_increase"
	// AlertTypeNewCriticalRisk marks a first-ever observation already in the
	// critical bucket.
	AlertTypeNewCriticalRisk AlertType = "new_critical_risk"
)

// RiskAlert is an event raised by the transition evaluator. Alerts are
// immutable except for the acknowledgement fields, and are never deleted.
// CustomerName is denormalized at trigger time; when the customer has since
// been removed it is served as-is, stale.
type RiskAlert struct {
	ID             uuid.UUID  `json:"id"`
	CustomerID     string     `json:"customer_id"`
	CustomerName   string     `json:"customer_name"`
	Type           AlertType  `json:"type"`
	PreviousLevel  *RiskLevel `json:"previous_level,omitempty"`
	CurrentLevel   RiskLevel  `json:"current_level"`
	PreviousScore  *int       `json:"previous_score,omitempty"`
	CurrentScore   int        `json:"current_score"`
	TriggeredAt    time.Time  `json:"triggered_at"`
	AcknowledgedAt *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy *string    `json:"acknowledged_by,omitempty"`
}

// Acknowledged reports whether the alert has been acknowledged.
func (a *RiskAlert) Acknowledged() bool {
	return a.AcknowledgedAt != nil
}

// Acknowledge records the acknowledgement. It returns false without touching
// the record when the alert is already acknowledged, making repeated calls
// idempotent.
func (a *RiskAlert) Acknowledge(actorID string, at time.Time) bool {
	if a.Acknowledged() {
		return false
	}
	a.AcknowledgedAt = &at
	a.AcknowledgedBy = &actorID
	return true
}
