package application

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/pkg/constants"
	"github.com/cscx/riskwatch/pkg/errors"
)

func TestGetReturnsDefaultsForUnsetEngineKeys(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	value, err := env.configSvc.Get(ctx, constants.ConfigKeyAlertThresholds)
	require.NoError(t, err)

	var thresholds models.AlertThresholds
	require.NoError(t, json.Unmarshal(value, &thresholds))
	assert.Equal(t, models.DefaultAlertThresholds(), thresholds)

	value, err = env.configSvc.Get(ctx, constants.ConfigKeyComparisonWindow)
	require.NoError(t, err)
	var window models.ComparisonWindow
	require.NoError(t, json.Unmarshal(value, &window))
	assert.Equal(t, 3600, window.Seconds)
}

func TestGetUnknownKeyIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.configSvc.Get(context.Background(), "never_written")
	assert.True(t, errors.IsNotFound(err))
}

func TestSetRejectsInvalidEngineValues(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.configSvc.Set(ctx, constants.ConfigKeyAlertThresholds, json.RawMessage(`{"medium":70,"high":50,"critical":85}`))
	assert.True(t, errors.IsValidation(err))

	err = env.configSvc.Set(ctx, constants.ConfigKeyComparisonWindow, json.RawMessage(`{"seconds":0}`))
	assert.True(t, errors.IsValidation(err))

	err = env.configSvc.Set(ctx, constants.ConfigKeyAlertThresholds, json.RawMessage(`not json`))
	assert.True(t, errors.IsValidation(err))
}

func TestSetThenGetRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := json.RawMessage(`{"seconds":7200}`)
	require.NoError(t, env.configSvc.Set(ctx, constants.ConfigKeyComparisonWindow, payload))

	value, err := env.configSvc.Get(ctx, constants.ConfigKeyComparisonWindow)
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(value))

	// Replacing the value is a whole-value overwrite.
	replacement := json.RawMessage(`{"seconds":600}`)
	require.NoError(t, env.configSvc.Set(ctx, constants.ConfigKeyComparisonWindow, replacement))
	value, err = env.configSvc.Get(ctx, constants.ConfigKeyComparisonWindow)
	require.NoError(t, err)
	assert.JSONEq(t, string(replacement), string(value))
}

func TestSetAcceptsOpaqueKeys(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.configSvc.Set(ctx, "scorer_model_version", json.RawMessage(`"v4"`)))
	value, err := env.configSvc.Get(ctx, "scorer_model_version")
	require.NoError(t, err)
	assert.JSONEq(t, `"v4"`, string(value))
}

func TestEvaluatorConfigFallsBackPerKey(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Only the window is configured; thresholds resolve to defaults.
	require.NoError(t, env.configSvc.Set(ctx, constants.ConfigKeyComparisonWindow, json.RawMessage(`{"seconds":1800}`)))

	cfg := env.configSvc.EvaluatorConfig(ctx)
	assert.Equal(t, models.DefaultAlertThresholds(), cfg.Thresholds)
	assert.Equal(t, 1800, cfg.ComparisonWindow.Seconds)
	assert.Equal(t, constants.RapidIncreaseDelta, cfg.RapidIncreaseDelta)
}

func TestCategoryWeightsRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	weights := json.RawMessage(`{"support":1.5,"billing":0.5}`)
	require.NoError(t, env.configSvc.Set(ctx, constants.ConfigKeyCategoryWeights, weights))

	value, err := env.configSvc.Get(ctx, constants.ConfigKeyCategoryWeights)
	require.NoError(t, err)
	assert.JSONEq(t, string(weights), string(value))
}
