package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cscx/riskwatch/internal/application"
	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/internal/infrastructure/monitoring"
	"github.com/cscx/riskwatch/pkg/errors"
)

// AssessmentHandler serves assessment ingestion.
type AssessmentHandler struct {
	ingestion application.IngestionService
	metrics   *monitoring.Metrics
}

// NewAssessmentHandler creates an AssessmentHandler.
func NewAssessmentHandler(ingestion application.IngestionService, metrics *monitoring.Metrics) *AssessmentHandler {
	return &AssessmentHandler{ingestion: ingestion, metrics: metrics}
}

type recordAssessmentRequest struct {
	CustomerID    string                `json:"customer_id" binding:"required"`
	DealID        *string               `json:"deal_id"`
	DealType      *string               `json:"deal_type"`
	DealValue     *float64              `json:"deal_value"`
	DealCloseDate *time.Time            `json:"deal_close_date"`
	Score         *int                  `json:"score" binding:"required"`
	Level         *models.RiskLevel     `json:"level"`
	Confidence    *float64              `json:"confidence"`
	Findings      []models.RiskFinding  `json:"findings"`
	Mitigations   json.RawMessage       `json:"mitigations"`
	AssessedAt    *time.Time            `json:"assessed_at"`
}

type recordAssessmentResponse struct {
	AssessmentID string            `json:"assessment_id"`
	Alert        *models.RiskAlert `json:"alert,omitempty"`
}

// Record handles POST /api/v1/assessments.
func (h *AssessmentHandler) Record(c *gin.Context) {
	startTime := time.Now()

	var req recordAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordIngest("rejected", time.Since(startTime))
		respondError(c, errors.ErrValidation("invalid request body: %v", err))
		return
	}

	result, err := h.ingestion.RecordAssessment(c.Request.Context(), application.RecordAssessmentInput{
		CustomerID:    req.CustomerID,
		DealID:        req.DealID,
		DealType:      req.DealType,
		DealValue:     req.DealValue,
		DealCloseDate: req.DealCloseDate,
		Score:         *req.Score,
		Level:         req.Level,
		Confidence:    req.Confidence,
		Findings:      req.Findings,
		Mitigations:   req.Mitigations,
		AssessedAt:    req.AssessedAt,
	})
	if err != nil {
		result := "failure"
		if errors.IsValidation(err) {
			result = "rejected"
		}
		h.metrics.RecordIngest(result, time.Since(startTime))
		respondError(c, err)
		return
	}

	h.metrics.RecordIngest("success", time.Since(startTime))
	if result.Alert != nil {
		h.metrics.RecordAlert(string(result.Alert.Type))
	}

	c.JSON(http.StatusCreated, recordAssessmentResponse{
		AssessmentID: result.AssessmentID.String(),
		Alert:        result.Alert,
	})
}
