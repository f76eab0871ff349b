package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/auth"
	"nanitech-backend/internal/middleware"
	"nanitech-backend/internal/models"
	"nanitech-backend/internal/supabase"
)

// MaxBulkSettings caps one PATCH call.
const MaxBulkSettings = 50

var settingKeyPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// criticalSettingKeys cannot be deleted.
var criticalSettingKeys = map[string]bool{
	"site.title":        true,
	"site.maintenance":  true,
	"contact.email":     true,
	"booking.enabled":   true,
	"analytics.enabled": true,
}

// ValidateSettingKey enforces the [a-zA-Z0-9._-]+ key format.
func ValidateSettingKey(key string) error {
	if key == "" {
		return apperrors.Validation("setting key is required")
	}
	if !settingKeyPattern.MatchString(key) {
		return apperrors.Validation(fmt.Sprintf("invalid setting key %q: only letters, digits, '.', '_' and '-' are allowed", key))
	}
	return nil
}

type SettingsHandler struct {
	dbClient *supabase.DatabaseClient
}

func NewSettingsHandler(dbClient *supabase.DatabaseClient) *SettingsHandler {
	return &SettingsHandler{dbClient: dbClient}
}

// GetSettings serves the public read path. Anonymous callers and
// non-admins only see public rows; admins see everything unless
// public_only is set.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	user := middleware.CurrentProfile(c)

	publicOnly := true
	if user != nil && auth.IsAdmin(user) {
		explicit, _ := strconv.ParseBool(c.DefaultQuery("public_only", "false"))
		publicOnly = explicit
	}

	if key := c.Query("key"); key != "" {
		setting, err := h.dbClient.GetSetting(key)
		if err != nil {
			fail(c, err)
			return
		}
		if publicOnly && !setting.IsPublic {
			fail(c, apperrors.NotFound("setting not found"))
			return
		}
		respond(c, http.StatusOK, models.NewSettingResponse(setting))
		return
	}

	settings, err := h.dbClient.ListSettings(publicOnly)
	if err != nil {
		fail(c, err)
		return
	}

	responses := make([]models.SettingResponse, 0, len(settings))
	for i := range settings {
		responses = append(responses, models.NewSettingResponse(&settings[i]))
	}

	respond(c, http.StatusOK, gin.H{"settings": responses})
}

func (h *SettingsHandler) CreateSetting(c *gin.Context) {
	user, err := requireAdmin(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req models.CreateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}

	if err := ValidateSettingKey(req.Key); err != nil {
		fail(c, err)
		return
	}
	if len(req.Value) == 0 || !json.Valid(req.Value) {
		fail(c, apperrors.Validation("setting value must be valid JSON"))
		return
	}

	setting := &models.Setting{
		Key:      req.Key,
		Value:    req.Value,
		IsPublic: req.IsPublic,
	}
	if req.Category != "" {
		setting.Category.String = req.Category
		setting.Category.Valid = true
	}
	setting.LastUpdatedBy.UUID = user.ID
	setting.LastUpdatedBy.Valid = true

	created, err := h.dbClient.CreateSetting(setting)
	if err != nil {
		fail(c, err)
		return
	}

	h.dbClient.Audit(user.ID, "create", "setting", created.Key, nil)

	respond(c, http.StatusCreated, models.NewSettingResponse(created))
}

func (h *SettingsHandler) UpdateSetting(c *gin.Context) {
	user, err := requireAdmin(c)
	if err != nil {
		fail(c, err)
		return
	}

	key := c.Param("key")
	if err := ValidateSettingKey(key); err != nil {
		fail(c, err)
		return
	}

	var req models.UpdateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}
	if len(req.Value) == 0 || !json.Valid(req.Value) {
		fail(c, apperrors.Validation("setting value must be valid JSON"))
		return
	}

	updated, err := h.dbClient.UpdateSetting(key, req.Value, req.IsPublic, req.Category, user.ID)
	if err != nil {
		fail(c, err)
		return
	}

	h.dbClient.Audit(user.ID, "update", "setting", key, nil)

	respond(c, http.StatusOK, models.NewSettingResponse(updated))
}

// BulkUpdateSettings validates every entry before writing anything,
// then applies per-row upserts. At most MaxBulkSettings entries.
func (h *SettingsHandler) BulkUpdateSettings(c *gin.Context) {
	user, err := requireAdmin(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req models.BulkUpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}

	if len(req.Settings) == 0 {
		fail(c, apperrors.Validation("settings list is empty"))
		return
	}
	if len(req.Settings) > MaxBulkSettings {
		fail(c, apperrors.Validation(fmt.Sprintf("bulk update is limited to %d settings per call", MaxBulkSettings)))
		return
	}

	// All-or-nothing validation: no write happens until every entry
	// passes.
	for _, entry := range req.Settings {
		if err := ValidateSettingKey(entry.Key); err != nil {
			fail(c, err)
			return
		}
		if len(entry.Value) == 0 || !json.Valid(entry.Value) {
			fail(c, apperrors.Validation(fmt.Sprintf("setting %q value must be valid JSON", entry.Key)))
			return
		}
	}

	updated := 0
	for _, entry := range req.Settings {
		if err := h.dbClient.UpsertSetting(entry, user.ID); err != nil {
			fail(c, err)
			return
		}
		updated++
	}

	h.dbClient.Audit(user.ID, "bulk_update", "setting", "", map[string]interface{}{
		"count": updated,
	})

	respond(c, http.StatusOK, gin.H{"updated": updated})
}

func (h *SettingsHandler) DeleteSetting(c *gin.Context) {
	user, err := requireAdmin(c)
	if err != nil {
		fail(c, err)
		return
	}

	key := c.Param("key")
	if err := ValidateSettingKey(key); err != nil {
		fail(c, err)
		return
	}

	if criticalSettingKeys[key] {
		fail(c, apperrors.Validation(fmt.Sprintf("setting %q is critical and cannot be deleted", key)))
		return
	}

	if err := h.dbClient.DeleteSetting(key); err != nil {
		fail(c, err)
		return
	}

	h.dbClient.Audit(user.ID, "delete", "setting", key, nil)

	respond(c, http.StatusOK, gin.H{"message": "setting deleted"})
}

func requireAdmin(c *gin.Context) (*models.UserProfile, error) {
	user := middleware.CurrentProfile(c)
	if user == nil {
		return nil, apperrors.Authentication("user profile not resolved")
	}
	if err := auth.Authorize(user, auth.RoleAdmin); err != nil {
		return nil, err
	}
	return user, nil
}
