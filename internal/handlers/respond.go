package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/middleware"
	"nanitech-backend/internal/models"
)

// respond writes the standard success envelope.
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, models.Envelope{
		Data:      data,
		Success:   true,
		RequestID: middleware.GetRequestID(c),
		Timestamp: time.Now().UTC(),
	})
}

// fail maps any error to the standard error envelope; untyped errors
// become 500s without leaking internals beyond the message string.
func fail(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	c.JSON(appErr.StatusCode, models.ErrorEnvelope{
		Error: models.ErrorDetail{
			Message:    appErr.Message,
			Code:       appErr.Code,
			StatusCode: appErr.StatusCode,
			RequestID:  middleware.GetRequestID(c),
			Timestamp:  time.Now().UTC(),
		},
		Success: false,
	})
}
