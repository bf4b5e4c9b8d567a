// Package constants defines shared constants for the riskwatch engine:
// engine configuration keys, context keys, and documented defaults.
package constants

import "time"

// ContextKey is the type used for values stored in request contexts.
type ContextKey string

const (
	// ContextKeyRequestID carries the per-request identifier.
	ContextKeyRequestID ContextKey = "request_id"
	// ContextKeyTraceID carries the distributed trace identifier.
	ContextKeyTraceID ContextKey = "trace_id"
)

// Keys of the engine Configuration Store. Values for these keys are whole-value
// replacements; unknown/unset keys resolve to the documented defaults below.
const (
	// ConfigKeyAlertThresholds holds the score cutoffs for medium/high/critical.
	ConfigKeyAlertThresholds = "alert_thresholds"
	// ConfigKeyCategoryWeights holds scorer category multipliers. The engine
	// stores them for the upstream scorer but never interprets them.
	ConfigKeyCategoryWeights = "category_weights"
	// ConfigKeyComparisonWindow holds the minimum age an assessment must have
	// to serve as a baseline for transition evaluation.
	ConfigKeyComparisonWindow = "comparison_window"
)

// Documented engine defaults, used whenever the Configuration Store has no
// committed value for a key.
const (
	DefaultMediumThreshold   = 50
	DefaultHighThreshold     = 70
	DefaultCriticalThreshold = 85

	DefaultComparisonWindow = time.Hour

	// RapidIncreaseDelta is the score jump that qualifies as a rapid increase.
	// A new score must exceed the baseline by strictly more than this value.
	RapidIncreaseDelta = 15
)

// Score and confidence bounds accepted by ingestion.
const (
	MinScore      = 0
	MaxScore      = 100
	MinConfidence = 0.0
	MaxConfidence = 1.0
)
