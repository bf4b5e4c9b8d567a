// Package handlers implements the HTTP surface of the riskwatch engine.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cscx/riskwatch/pkg/errors"
)

// errorBody is the uniform error envelope.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an application error to its HTTP status and envelope.
// Errors outside the taxonomy are reported as opaque internal failures.
func respondError(c *gin.Context, err error) {
	if appErr, ok := errors.AsAppError(err); ok {
		c.JSON(appErr.HTTPStatus, gin.H{"error": errorBody{
			Code:    string(appErr.Code),
			Message: appErr.Message,
		}})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": errorBody{
		Code:    string(errors.CodeInternal),
		Message: "internal error",
	}})
}
