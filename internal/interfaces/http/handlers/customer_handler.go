package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cscx/riskwatch/internal/application"
	"github.com/cscx/riskwatch/pkg/errors"
)

// CustomerHandler serves the customer registry and per-customer views.
type CustomerHandler struct {
	customers application.CustomerService
	portfolio application.PortfolioService
	alerts    application.AlertService
}

// NewCustomerHandler creates a CustomerHandler.
func NewCustomerHandler(
	customers application.CustomerService,
	portfolio application.PortfolioService,
	alerts application.AlertService,
) *CustomerHandler {
	return &CustomerHandler{customers: customers, portfolio: portfolio, alerts: alerts}
}

type upsertCustomerRequest struct {
	Name    string  `json:"name" binding:"required"`
	Revenue float64 `json:"revenue"`
}

// Upsert handles PUT /api/v1/customers/:id.
func (h *CustomerHandler) Upsert(c *gin.Context) {
	var req upsertCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.ErrValidation("invalid request body: %v", err))
		return
	}
	if err := h.customers.Upsert(c.Request.Context(), c.Param("id"), req.Name, req.Revenue); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get handles GET /api/v1/customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// Delete handles DELETE /api/v1/customers/:id.
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LatestAssessment handles GET /api/v1/customers/:id/assessments/latest.
func (h *CustomerHandler) LatestAssessment(c *gin.Context) {
	latest, err := h.portfolio.LatestForCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, latest)
}

// Assessments handles GET /api/v1/customers/:id/assessments.
func (h *CustomerHandler) Assessments(c *gin.Context) {
	assessments, err := h.portfolio.AssessmentsForCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessments": assessments})
}

// Alerts handles GET /api/v1/customers/:id/alerts.
func (h *CustomerHandler) Alerts(c *gin.Context) {
	alerts, err := h.alerts.ListByCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}
