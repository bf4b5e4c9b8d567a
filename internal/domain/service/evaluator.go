// Package service holds the domain logic of the risk monitoring engine. The
// transition evaluator is a pure function over (baseline, observation,
// parameters) so its rules can be tested without any storage in play.
package service

import (
	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/pkg/constants"
)

// Observation is the freshly ingested data point evaluated against the
// baseline.
type Observation struct {
	CustomerID string
	DealID     *string
	Score      int
	Level      models.RiskLevel
}

// EvaluatorConfig carries the parameters in effect for one evaluation,
// resolved from the Configuration Store immediately before the call.
type EvaluatorConfig struct {
	Thresholds         models.AlertThresholds
	ComparisonWindow   ComparisonWindow
	RapidIncreaseDelta int
}

// ComparisonWindow aliases the model type for call-site readability.
type ComparisonWindow = models.ComparisonWindow

// DefaultEvaluatorConfig returns the documented engine defaults.
func DefaultEvaluatorConfig() EvaluatorConfig {
	return EvaluatorConfig{
		Thresholds:         models.DefaultAlertThresholds(),
		ComparisonWindow:   models.DefaultComparisonWindow(),
		RapidIncreaseDelta: constants.RapidIncreaseDelta,
	}
}

// AlertDraft is the evaluator's verdict before the application layer attaches
// identity, display name, and timestamps.
type AlertDraft struct {
	Type          models.AlertType
	PreviousLevel *models.RiskLevel
	PreviousScore *int
	CurrentLevel  models.RiskLevel
	CurrentScore  int
}

// TransitionEvaluator decides whether a state transition between the baseline
// and a new observation warrants an alert.
type TransitionEvaluator struct{}

// NewTransitionEvaluator creates a TransitionEvaluator.
func NewTransitionEvaluator() *TransitionEvaluator {
	return &TransitionEvaluator{}
}

// Evaluate applies the alert rules in priority order and returns the first
// match, or nil when no rule fires. At most one alert results from any single
// evaluation.
//
// baseline is the customer's most recent history entry older than the
// comparison window; callers pass nil when no such entry exists. Entries
// younger than the window never reach this function, so a customer whose only
// history is minutes old is treated as having no baseline.
//
// Rule order is deliberate: a qualifying threshold crossing outranks a
// simultaneous large score jump because the discrete level change is the more
// structurally significant transition.
func (e *TransitionEvaluator) Evaluate(baseline *models.RiskHistoryEntry, current Observation, cfg EvaluatorConfig) *AlertDraft {
	if baseline != nil {
		if baseline.Level != current.Level &&
			current.Level.Rank() > baseline.Level.Rank() &&
			current.Level.Rank() >= models.RiskLevelHigh.Rank() {
			return draft(models.AlertTypeThresholdCrossed, baseline, current)
		}
		if current.Score-baseline.Score > cfg.RapidIncreaseDelta {
			return draft(models.AlertTypeRapidIncrease, baseline, current)
		}
		return nil
	}

	if current.Level == models.RiskLevelCritical {
		return draft(models.AlertTypeNewCriticalRisk, nil, current)
	}
	return nil
}

func draft(alertType models.AlertType, baseline *models.RiskHistoryEntry, current Observation) *AlertDraft {
	d := &AlertDraft{
		Type:         alertType,
		CurrentLevel: current.Level,
		CurrentScore: current.Score,
	}
	if baseline != nil {
		prevLevel := baseline.Level
		prevScore := baseline.Score
		d.PreviousLevel = &prevLevel
		d.PreviousScore = &prevScore
	}
	return d
}
