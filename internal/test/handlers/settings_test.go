package handlers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanitech-backend/internal/handlers"
)

func TestValidateSettingKey(t *testing.T) {
	valid := []string{"site.title", "valid.key-1", "a", "under_score", "UPPER.case"}
	for _, key := range valid {
		assert.NoError(t, handlers.ValidateSettingKey(key), key)
	}

	invalid := []string{"", "invalid key!", "semi;colon", "sla/sh", "spa ce", "tab\tkey"}
	for _, key := range invalid {
		assert.Error(t, handlers.ValidateSettingKey(key), key)
	}
}

func TestCreateSetting_NonAdminForbidden(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewSettingsHandler(client)

	router := newRouter(editorProfile())
	router.POST("/settings", handler.CreateSetting)

	w := doJSON(router, "POST", "/settings", gin.H{
		"key":   "site.title",
		"value": "NaniTech",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSetting_RejectsMalformedKey(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewSettingsHandler(client)

	router := newRouter(adminProfile())
	router.POST("/settings", handler.CreateSetting)

	w := doJSON(router, "POST", "/settings", gin.H{
		"key":   "invalid key!",
		"value": true,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSetting_AdminPersistsRow(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewSettingsHandler(client)

	admin := adminProfile()

	mock.ExpectQuery(`INSERT INTO settings`).
		WillReturnRows(sqlmock.NewRows([]string{
			"key", "value", "is_public", "category", "last_updated_by", "created_at", "updated_at",
		}).AddRow("valid.key-1", `"hello"`, true, nil, admin.ID.String(), time.Now(), time.Now()))
	mock.ExpectExec(`INSERT INTO audit_logs`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	router := newRouter(admin)
	router.POST("/settings", handler.CreateSetting)

	w := doJSON(router, "POST", "/settings", gin.H{
		"key":       "valid.key-1",
		"value":     "hello",
		"is_public": true,
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "valid.key-1")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpdateSettings_TooManyEntriesWritesNothing(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewSettingsHandler(client)

	entries := make([]gin.H, 0, handlers.MaxBulkSettings+1)
	for i := 0; i <= handlers.MaxBulkSettings; i++ {
		entries = append(entries, gin.H{
			"key":   fmt.Sprintf("batch.key%d", i),
			"value": i,
		})
	}

	router := newRouter(adminProfile())
	router.PATCH("/settings", handler.BulkUpdateSettings)

	w := doJSON(router, "PATCH", "/settings", gin.H{"settings": entries})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpdateSettings_EmptyListRejected(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewSettingsHandler(client)

	router := newRouter(adminProfile())
	router.PATCH("/settings", handler.BulkUpdateSettings)

	w := doJSON(router, "PATCH", "/settings", gin.H{"settings": []gin.H{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpdateSettings_OneBadKeyBlocksAllWrites(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewSettingsHandler(client)

	router := newRouter(adminProfile())
	router.PATCH("/settings", handler.BulkUpdateSettings)

	w := doJSON(router, "PATCH", "/settings", gin.H{"settings": []gin.H{
		{"key": "fine.key", "value": 1},
		{"key": "broken key!", "value": 2},
	}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	// Validation rejected the batch before the first upsert.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBulkUpdateSettings_UpsertsEveryEntry(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewSettingsHandler(client)

	mock.ExpectExec(`INSERT INTO settings (.+) ON CONFLICT \(key\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO settings (.+) ON CONFLICT \(key\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_logs`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	router := newRouter(adminProfile())
	router.PATCH("/settings", handler.BulkUpdateSettings)

	w := doJSON(router, "PATCH", "/settings", gin.H{"settings": []gin.H{
		{"key": "booking.enabled", "value": true},
		{"key": "site.tagline", "value": "Build different"},
	}})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"updated":2`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSetting_CriticalKeyRefused(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewSettingsHandler(client)

	router := newRouter(adminProfile())
	router.DELETE("/settings/:key", handler.DeleteSetting)

	w := doJSON(router, "DELETE", "/settings/site.title", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "critical")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetSettings_AnonymousGetsOnlyPublicRows(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewSettingsHandler(client)

	mock.ExpectQuery(`SELECT (.+) FROM settings WHERE is_public`).
		WillReturnRows(sqlmock.NewRows([]string{
			"key", "value", "is_public", "category", "last_updated_by", "created_at", "updated_at",
		}).AddRow("site.title", `"NaniTech"`, true, nil, nil, time.Now(), time.Now()))

	router := newRouter(nil)
	router.GET("/settings", handler.GetSettings)

	w := doJSON(router, "GET", "/settings", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "site.title")
	assert.NoError(t, mock.ExpectationsWereMet())
}
