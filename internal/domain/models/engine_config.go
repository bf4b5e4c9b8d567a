package models

import (
	"time"

	"github.com/cscx/riskwatch/pkg/constants"
	"github.com/cscx/riskwatch/pkg/errors"
)

// ConfigEntry is one committed value in the engine Configuration Store.
// Updates replace the whole value and touch UpdatedAt.
type ConfigEntry struct {
	Key       string    `json:"key"`
	Value     []byte    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryWeights are the scorer multipliers the engine stores on behalf of
// the upstream scorer. Opaque beyond storage.
type CategoryWeights map[string]float64

// DefaultCategoryWeights returns the default (empty) weight set: absent an
// explicit configuration the upstream scorer applies uniform weighting.
func DefaultCategoryWeights() CategoryWeights {
	return CategoryWeights{}
}

// ComparisonWindow is the minimum age an assessment must have to serve as a
// baseline for transition evaluation.
type ComparisonWindow struct {
	Seconds int `json:"seconds"`
}

// DefaultComparisonWindow returns the documented one-hour default.
func DefaultComparisonWindow() ComparisonWindow {
	return ComparisonWindow{Seconds: int(constants.DefaultComparisonWindow.Seconds())}
}

// Duration converts the window to a time.Duration.
func (w ComparisonWindow) Duration() time.Duration {
	return time.Duration(w.Seconds) * time.Second
}

// Validate rejects non-positive windows.
func (w ComparisonWindow) Validate() error {
	if w.Seconds <= 0 {
		return errors.ErrValidation("comparison window must be positive, got %d seconds", w.Seconds)
	}
	return nil
}
