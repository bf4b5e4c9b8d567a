package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cscx/riskwatch/internal/application"
	"github.com/cscx/riskwatch/internal/infrastructure/monitoring"
)

// PortfolioHandler serves the derived portfolio views.
type PortfolioHandler struct {
	portfolio application.PortfolioService
	metrics   *monitoring.Metrics
}

// NewPortfolioHandler creates a PortfolioHandler.
func NewPortfolioHandler(portfolio application.PortfolioService, metrics *monitoring.Metrics) *PortfolioHandler {
	return &PortfolioHandler{portfolio: portfolio, metrics: metrics}
}

// Summary handles GET /api/v1/portfolio/summary.
func (h *PortfolioHandler) Summary(c *gin.Context) {
	h.metrics.RecordView("summary")
	buckets, err := h.portfolio.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"buckets": buckets})
}

// AtRisk handles GET /api/v1/portfolio/at-risk.
func (h *PortfolioHandler) AtRisk(c *gin.Context) {
	h.metrics.RecordView("at_risk")
	entries, err := h.portfolio.AtRisk(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": entries})
}
