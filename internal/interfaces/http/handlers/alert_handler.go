package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cscx/riskwatch/internal/application"
	"github.com/cscx/riskwatch/internal/domain/repository"
	"github.com/cscx/riskwatch/internal/infrastructure/monitoring"
	"github.com/cscx/riskwatch/pkg/errors"
)

// AlertHandler serves alert listings and acknowledgement.
type AlertHandler struct {
	alerts  application.AlertService
	metrics *monitoring.Metrics
}

// NewAlertHandler creates an AlertHandler.
func NewAlertHandler(alerts application.AlertService, metrics *monitoring.Metrics) *AlertHandler {
	return &AlertHandler{alerts: alerts, metrics: metrics}
}

// List handles GET /api/v1/alerts. The optional acknowledged query parameter
// narrows the listing.
func (h *AlertHandler) List(c *gin.Context) {
	var filter repository.AlertFilter
	if raw, ok := c.GetQuery("acknowledged"); ok {
		acknowledged, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, errors.ErrValidation("acknowledged must be a boolean, got %q", raw))
			return
		}
		filter.Acknowledged = &acknowledged
	}

	alerts, err := h.alerts.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

type acknowledgeRequest struct {
	ActorID string `json:"actor_id" binding:"required"`
}

// Acknowledge handles POST /api/v1/alerts/:id/ack. Re-acknowledging an
// already acknowledged alert returns the same success status.
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, errors.ErrValidation("invalid alert id: %v", err))
		return
	}

	var req acknowledgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ErrValidation("invalid request body: %v", err))
		return
	}

	if err := h.alerts.Acknowledge(c.Request.Context(), alertID, req.ActorID); err != nil {
		respondError(c, err)
		return
	}

	h.metrics.RecordAck()
	c.Status(http.StatusNoContent)
}
