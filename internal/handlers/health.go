package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nanitech-backend/internal/models"
)

// HealthHandler reports liveness; no auth, no envelope.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status: "ok",
	})
}
