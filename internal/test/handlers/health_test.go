package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"nanitech-backend/internal/handlers"
)

func TestHealthHandler(t *testing.T) {
	router := newRouter(nil)
	router.GET("/health", handlers.HealthHandler)

	w := doJSON(router, "GET", "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
