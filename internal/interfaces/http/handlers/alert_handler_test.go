package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cscx/riskwatch/internal/domain/models"
	"github.com/cscx/riskwatch/internal/domain/repository"
	"github.com/cscx/riskwatch/pkg/errors"
)

type stubAlerts struct {
	listed     []*models.RiskAlert
	lastFilter repository.AlertFilter
	ackErr     error
	ackedID    uuid.UUID
	ackedBy    string
}

func (s *stubAlerts) Acknowledge(_ context.Context, alertID uuid.UUID, actorID string) error {
	s.ackedID = alertID
	s.ackedBy = actorID
	return s.ackErr
}

func (s *stubAlerts) List(_ context.Context, filter repository.AlertFilter) ([]*models.RiskAlert, error) {
	s.lastFilter = filter
	return s.listed, nil
}

func (s *stubAlerts) ListByCustomer(context.Context, string) ([]*models.RiskAlert, error) {
	return s.listed, nil
}

func newAlertRouter(handler *AlertHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/api/v1/alerts", handler.List)
	engine.POST("/api/v1/alerts/:id/ack", handler.Acknowledge)
	return engine
}

func TestListAlertsParsesAcknowledgedFilter(t *testing.T) {
	stub := &stubAlerts{}
	engine := newAlertRouter(NewAlertHandler(stub, nil))

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/alerts?acknowledged=false", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, stub.lastFilter.Acknowledged)
	assert.False(t, *stub.lastFilter.Acknowledged)

	recorder = httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, stub.lastFilter.Acknowledged)

	recorder = httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/alerts?acknowledged=banana", nil))
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAcknowledgeAlert(t *testing.T) {
	stub := &stubAlerts{}
	engine := newAlertRouter(NewAlertHandler(stub, nil))
	alertID := uuid.New()

	body := bytes.NewBufferString(`{"actor_id":"cs-rep-7"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/"+alertID.String()+"/ack", body)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)

	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, alertID, stub.ackedID)
	assert.Equal(t, "cs-rep-7", stub.ackedBy)
}

func TestAcknowledgeRejectsBadInput(t *testing.T) {
	engine := newAlertRouter(NewAlertHandler(&stubAlerts{}, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/not-a-uuid/ack", bytes.NewBufferString(`{"actor_id":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/alerts/"+uuid.NewString()+"/ack", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	recorder = httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestAcknowledgeUnknownAlert(t *testing.T) {
	stub := &stubAlerts{ackErr: errors.ErrNotFound("alert", "x")}
	engine := newAlertRouter(NewAlertHandler(stub, nil))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/alerts/"+uuid.NewString()+"/ack", bytes.NewBufferString(`{"actor_id":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
