// Package models defines the domain entities of the risk monitoring engine:
// assessments, the per-customer history timeline, alerts, the customer
// registry, and the engine configuration values.
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/cscx/riskwatch/pkg/constants"
	"github.com/cscx/riskwatch/pkg/errors"
)

// RiskLevel is the discrete severity bucket derived from an overall score.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "low"
	RiskLevelMedium   RiskLevel = "medium"
	RiskLevelHigh     RiskLevel = "high"
	RiskLevelCritical RiskLevel = "critical"
)

// Rank orders levels by severity: low=0 .. critical=3.
func (l RiskLevel) Rank() int {
	switch l {
	case RiskLevelMedium:
		return 1
	case RiskLevelHigh:
		return 2
	case RiskLevelCritical:
		return 3
	default:
		return 0
	}
}

// Valid reports whether l is one of the four defined levels.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelCritical:
		return true
	}
	return false
}

// AlertThresholds holds the score cutoffs that derive a RiskLevel from a
// score. A score at or above a cutoff lands in that bucket.
type AlertThresholds struct {
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// DefaultAlertThresholds returns the documented engine defaults.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		Medium:   constants.DefaultMediumThreshold,
		High:     constants.DefaultHighThreshold,
		Critical: constants.DefaultCriticalThreshold,
	}
}

// Validate rejects threshold sets that are out of range or not strictly
// increasing; such a set would make level derivation ambiguous.
func (t AlertThresholds) Validate() error {
	if t.Medium < constants.MinScore || t.Critical > constants.MaxScore {
		return errors.ErrValidation("thresholds must lie within [%d,%d]", constants.MinScore, constants.MaxScore)
	}
	if !(t.Medium < t.High && t.High < t.Critical) {
		return errors.ErrValidation("thresholds must be strictly increasing: medium < high < critical")
	}
	return nil
}

// LevelFor derives the risk level implied by score under these thresholds.
func (t AlertThresholds) LevelFor(score int) RiskLevel {
	switch {
	case score >= t.Critical:
		return RiskLevelCritical
	case score >= t.High:
		return RiskLevelHigh
	case score >= t.Medium:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// RiskFinding is one contributing factor inside an assessment. The engine
// stores findings verbatim and never interprets them.
type RiskFinding struct {
	Category    string  `json:"category"`
	Severity    float64 `json:"severity"`
	Description string  `json:"description"`
}

// RiskAssessment is one point-in-time risk evaluation for a customer and,
// optionally, a specific deal. Assessments are immutable once recorded;
// corrections arrive as new assessments.
type RiskAssessment struct {
	ID            uuid.UUID       `json:"id"`
	CustomerID    string          `json:"customer_id"`
	DealID        *string         `json:"deal_id,omitempty"`
	DealType      *string         `json:"deal_type,omitempty"`
	DealValue     *float64        `json:"deal_value,omitempty"`
	DealCloseDate *time.Time      `json:"deal_close_date,omitempty"`
	Score         int             `json:"score"`
	Level         RiskLevel       `json:"level"`
	Confidence    *float64        `json:"confidence,omitempty"`
	Findings      []RiskFinding   `json:"findings,omitempty"`
	Mitigations   json.RawMessage `json:"mitigations,omitempty"`
	AssessedAt    time.Time       `json:"assessed_at"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Validate checks the ranged fields. All other fields are opaque payloads
// and accepted as-is.
func (a *RiskAssessment) Validate() error {
	if a.CustomerID == "" {
		return errors.ErrValidation("customer_id is required")
	}
	if a.Score < constants.MinScore || a.Score > constants.MaxScore {
		return errors.ErrValidation("score %d out of range [%d,%d]", a.Score, constants.MinScore, constants.MaxScore)
	}
	if a.Confidence != nil && (*a.Confidence < constants.MinConfidence || *a.Confidence > constants.MaxConfidence) {
		return errors.ErrValidation("confidence %v out of range [0,1]", *a.Confidence)
	}
	return nil
}
