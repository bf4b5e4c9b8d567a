package application

import (
	"context"
	"encoding/json"

	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/internal/domain/repository"
	"github.com/cscx/riskwatch/internal/domain/service"
	"github.com/cscx/riskwatch/pkg/constants"
	"github.com/cscx/riskwatch/pkg/errors"
	"github.com/cscx/riskwatch/pkg/logger"
)

// ConfigService exposes the engine Configuration Store. Unknown engine keys
// resolve to documented defaults so the engine is operable before any
// explicit configuration is written.
type ConfigService interface {
	// Get returns the committed value for key, or the encoded engine default
	// for the three engine keys. Keys outside the engine set that were never
	// written return a not-found error.
	Get(ctx context.Context, key string) (json.RawMessage, error)

	// Set validates known engine keys and replaces the whole value.
	Set(ctx context.Context, key string, value json.RawMessage) error

	// EvaluatorConfig resolves the parameter set for one evaluation, reading
	// the latest committed values and falling back to defaults per key.
	EvaluatorConfig(ctx context.Context) service.EvaluatorConfig
}

type configService struct {
	repo   repository.ConfigRepository
	logger logger.Logger
}

// NewConfigService creates a ConfigService.
func NewConfigService(repo repository.ConfigRepository, log logger.Logger) ConfigService {
	return &configService{repo: repo, logger: log.WithComponent("config_service")}
}

func (s *configService) Get(ctx context.Context, key string) (json.RawMessage, error) {
	entry, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		return json.RawMessage(entry.Value), nil
	}

	switch key {
	case constants.ConfigKeyAlertThresholds:
		return json.Marshal(models.DefaultAlertThresholds())
	case constants.ConfigKeyCategoryWeights:
		return json.Marshal(models.DefaultCategoryWeights())
	case constants.ConfigKeyComparisonWindow:
		return json.Marshal(models.DefaultComparisonWindow())
	}
	return nil, errors.ErrNotFound("config key", key)
}

func (s *configService) Set(ctx context.Context, key string, value json.RawMessage) error {
	switch key {
	case constants.ConfigKeyAlertThresholds:
		var t models.AlertThresholds
		if err := json.Unmarshal(value, &t); err != nil {
			return errors.ErrValidation("alert_thresholds: %v", err)
		}
		if err := t.Validate(); err != nil {
			return err
		}
	case constants.ConfigKeyCategoryWeights:
		var w models.CategoryWeights
		if err := json.Unmarshal(value, &w); err != nil {
			return errors.ErrValidation("category_weights: %v", err)
		}
	case constants.ConfigKeyComparisonWindow:
		var w models.ComparisonWindow
		if err := json.Unmarshal(value, &w); err != nil {
			return errors.ErrValidation("comparison_window: %v", err)
		}
		if err := w.Validate(); err != nil {
			return err
		}
	default:
		if !json.Valid(value) {
			return errors.ErrValidation("value for key %q is not valid JSON", key)
		}
	}

	return s.repo.Set(ctx, key, []byte(value))
}

// EvaluatorConfig never fails: a missing or unreadable value falls back to
// the engine default for that key, logged at warn level.
func (s *configService) EvaluatorConfig(ctx context.Context) service.EvaluatorConfig {
	cfg := service.DefaultEvaluatorConfig()

	if entry, err := s.repo.Get(ctx, constants.ConfigKeyAlertThresholds); err != nil || entry == nil {
		s.warnFallback(ctx, constants.ConfigKeyAlertThresholds, err)
	} else {
		var t models.AlertThresholds
		if jsonErr := json.Unmarshal(entry.Value, &t); jsonErr != nil || t.Validate() != nil {
			s.warnFallback(ctx, constants.ConfigKeyAlertThresholds, jsonErr)
		} else {
			cfg.Thresholds = t
		}
	}

	if entry, err := s.repo.Get(ctx, constants.ConfigKeyComparisonWindow); err != nil || entry == nil {
		s.warnFallback(ctx, constants.ConfigKeyComparisonWindow, err)
	} else {
		var w models.ComparisonWindow
		if jsonErr := json.Unmarshal(entry.Value, &w); jsonErr != nil || w.Validate() != nil {
			s.warnFallback(ctx, constants.ConfigKeyComparisonWindow, jsonErr)
		} else {
			cfg.ComparisonWindow = w
		}
	}

	return cfg
}

func (s *configService) warnFallback(ctx context.Context, key string, err error) {
	if err == nil {
		// Never configured; defaults are the documented behavior, not a fault.
		return
	}
	s.logger.Warn(ctx, "falling back to engine default for config key", logger.Fields{
		"key":   key,
		"error": err.Error(),
	})
}
