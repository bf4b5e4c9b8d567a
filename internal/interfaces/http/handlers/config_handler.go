package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cscx/riskwatch/internal/application"
	"github.com/cscx/riskwatch/internal/infrastructure/monitoring"
	"github.com/cscx/riskwatch/pkg/errors"
)

// ConfigHandler serves the engine Configuration Store.
type ConfigHandler struct {
	config  application.ConfigService
	metrics *monitoring.Metrics
}

// NewConfigHandler creates a ConfigHandler.
func NewConfigHandler(config application.ConfigService, metrics *monitoring.Metrics) *ConfigHandler {
	return &ConfigHandler{config: config, metrics: metrics}
}

// Get handles GET /api/v1/config/:key. Engine keys that were never written
// return their documented default.
func (h *ConfigHandler) Get(c *gin.Context) {
	key := c.Param("key")
	value, err := h.config.Get(c.Request.Context(), key)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "value": json.RawMessage(value)})
}

// Set handles PUT /api/v1/config/:key. The body is the raw JSON value; known
// engine keys are validated before the write.
func (h *ConfigHandler) Set(c *gin.Context) {
	key := c.Param("key")
	value, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, errors.ErrValidation("unreadable request body: %v", err))
		return
	}
	if len(value) == 0 {
		respondError(c, errors.ErrValidation("request body must carry the JSON value for key %q", key))
		return
	}

	if err := h.config.Set(c.Request.Context(), key, value); err != nil {
		respondError(c, err)
		return
	}

	h.metrics.RecordConfigUpdate(key)
	c.Status(http.StatusNoContent)
}
