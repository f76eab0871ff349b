package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/auth"
	"nanitech-backend/internal/models"
	"nanitech-backend/internal/supabase"
)

// IAMHandler manages user profiles and role assignments. Every
// operation here requires the admin role.
type IAMHandler struct {
	dbClient *supabase.DatabaseClient
}

func NewIAMHandler(dbClient *supabase.DatabaseClient) *IAMHandler {
	return &IAMHandler{dbClient: dbClient}
}

func (h *IAMHandler) ListUsers(c *gin.Context) {
	if _, err := requireAdmin(c); err != nil {
		fail(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	profiles, total, err := h.dbClient.ListProfiles(page, limit)
	if err != nil {
		fail(c, err)
		return
	}

	responses := make([]models.UserProfileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, models.NewUserProfileResponse(&profiles[i]))
	}

	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}

	respond(c, http.StatusOK, models.UserListResponse{
		Users: responses,
		Pagination: models.Pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	})
}

// ProvisionUser creates a profile row for an existing auth user.
func (h *IAMHandler) ProvisionUser(c *gin.Context) {
	admin, err := requireAdmin(c)
	if err != nil {
		fail(c, err)
		return
	}

	var req models.ProvisionUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}
	if req.UserID == uuid.Nil {
		fail(c, apperrors.Validation("user_id is required"))
		return
	}

	role, err := auth.ParseRole(req.Role)
	if err != nil {
		fail(c, apperrors.Validation("role must be one of admin, editor, viewer"))
		return
	}

	profile, err := h.dbClient.CreateProfile(req.UserID, string(role), req.FullName)
	if err != nil {
		fail(c, err)
		return
	}

	h.dbClient.Audit(admin.ID, "provision", "user", profile.ID.String(), map[string]interface{}{
		"role": profile.Role,
	})

	respond(c, http.StatusCreated, models.NewUserProfileResponse(profile))
}

// UpdateUserRole changes a user's role. Only admins reach this, and
// an admin cannot demote themselves (locking the last admin out is
// not worth supporting).
func (h *IAMHandler) UpdateUserRole(c *gin.Context) {
	admin, err := requireAdmin(c)
	if err != nil {
		fail(c, err)
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		fail(c, apperrors.Validation("invalid user id"))
		return
	}

	var req models.UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}

	role, err := auth.ParseRole(req.Role)
	if err != nil {
		fail(c, apperrors.Validation("role must be one of admin, editor, viewer"))
		return
	}

	if userID == admin.ID && role != auth.RoleAdmin {
		fail(c, apperrors.Validation("admins cannot demote themselves"))
		return
	}

	profile, err := h.dbClient.UpdateProfileRole(userID, string(role))
	if err != nil {
		fail(c, err)
		return
	}

	h.dbClient.Audit(admin.ID, "update_role", "user", profile.ID.String(), map[string]interface{}{
		"role": profile.Role,
	})

	respond(c, http.StatusOK, models.NewUserProfileResponse(profile))
}

// SetUserActive reactivates or deactivates a profile.
func (h *IAMHandler) SetUserActive(c *gin.Context) {
	admin, err := requireAdmin(c)
	if err != nil {
		fail(c, err)
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		fail(c, apperrors.Validation("invalid user id"))
		return
	}

	var req models.SetUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}
	if req.IsActive == nil {
		fail(c, apperrors.Validation("is_active is required"))
		return
	}
	if userID == admin.ID && !*req.IsActive {
		fail(c, apperrors.Validation("admins cannot deactivate themselves"))
		return
	}

	profile, err := h.dbClient.SetProfileActive(userID, *req.IsActive)
	if err != nil {
		fail(c, err)
		return
	}

	h.dbClient.Audit(admin.ID, "set_active", "user", profile.ID.String(), map[string]interface{}{
		"is_active": profile.IsActive,
	})

	respond(c, http.StatusOK, models.NewUserProfileResponse(profile))
}

// DeactivateUser is the DELETE verb: profiles are never hard-deleted,
// only soft-deactivated.
func (h *IAMHandler) DeactivateUser(c *gin.Context) {
	admin, err := requireAdmin(c)
	if err != nil {
		fail(c, err)
		return
	}

	userID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		fail(c, apperrors.Validation("invalid user id"))
		return
	}

	if userID == admin.ID {
		fail(c, apperrors.Validation("admins cannot deactivate themselves"))
		return
	}

	profile, err := h.dbClient.SetProfileActive(userID, false)
	if err != nil {
		fail(c, err)
		return
	}

	h.dbClient.Audit(admin.ID, "deactivate", "user", profile.ID.String(), nil)

	respond(c, http.StatusOK, gin.H{"message": "user deactivated"})
}
