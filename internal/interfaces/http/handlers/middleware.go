package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/cscx/riskwatch/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// Middleware bundles the cross-cutting HTTP middleware.
type Middleware struct {
	logger logger.Logger
}

// NewMiddleware creates the middleware bundle.
func NewMiddleware(log logger.Logger) *Middleware {
	return &Middleware{logger: log.WithComponent("http")}
}

// RequestID assigns a request identifier when the caller did not send one.
func (m *Middleware) RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// Logging logs one structured line per request.
func (m *Middleware) Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()

		fields := logger.Fields{
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(startTime).Milliseconds(),
			"request_id":  c.GetString("request_id"),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		m.logger.Info(c.Request.Context(), "request completed", fields)
	}
}

// Recovery converts panics into 500 responses with a logged stack.
func (m *Middleware) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		m.logger.Error(c.Request.Context(), "panic recovered", nil, logger.Fields{
			"panic":      recovered,
			"path":       c.FullPath(),
			"request_id": c.GetString("request_id"),
		})
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}
