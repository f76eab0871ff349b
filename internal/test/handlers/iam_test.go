package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanitech-backend/internal/handlers"
)

var profileCols = []string{
	"id", "role", "full_name", "avatar_url", "is_active", "created_at", "updated_at",
}

func profileRow(id uuid.UUID, role string, active bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(profileCols).AddRow(id.String(), role, nil, nil, active, now, now)
}

func TestListUsers_EditorForbidden(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewIAMHandler(client)

	router := newRouter(editorProfile())
	router.GET("/iam/users", handler.ListUsers)

	w := doJSON(router, "GET", "/iam/users", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProvisionUser_InvalidRoleRejected(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewIAMHandler(client)

	router := newRouter(adminProfile())
	router.POST("/iam/users", handler.ProvisionUser)

	w := doJSON(router, "POST", "/iam/users", gin.H{
		"user_id": uuid.New().String(),
		"role":    "superuser",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "role must be one of")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProvisionUser_CreatesProfile(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewIAMHandler(client)

	newUserID := uuid.New()

	mock.ExpectQuery(`INSERT INTO profiles`).
		WillReturnRows(profileRow(newUserID, "editor", true))
	mock.ExpectExec(`INSERT INTO audit_logs`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	router := newRouter(adminProfile())
	router.POST("/iam/users", handler.ProvisionUser)

	w := doJSON(router, "POST", "/iam/users", gin.H{
		"user_id": newUserID.String(),
		"role":    "editor",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), newUserID.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUserRole_SelfDemotionBlocked(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewIAMHandler(client)

	admin := adminProfile()

	router := newRouter(admin)
	router.PUT("/iam/users/:user_id/role", handler.UpdateUserRole)

	w := doJSON(router, "PUT", "/iam/users/"+admin.ID.String()+"/role", gin.H{
		"role": "viewer",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot demote themselves")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetUserActive_SelfDeactivationBlocked(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewIAMHandler(client)

	admin := adminProfile()

	router := newRouter(admin)
	router.PATCH("/iam/users/:user_id", handler.SetUserActive)

	w := doJSON(router, "PATCH", "/iam/users/"+admin.ID.String(), gin.H{
		"is_active": false,
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot deactivate themselves")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateUser_SelfDeactivationBlocked(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewIAMHandler(client)

	admin := adminProfile()

	router := newRouter(admin)
	router.DELETE("/iam/users/:user_id", handler.DeactivateUser)

	w := doJSON(router, "DELETE", "/iam/users/"+admin.ID.String(), nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeactivateUser_SoftDeactivatesTarget(t *testing.T) {
	client, mock := newTestClient(t)
	handler := handlers.NewIAMHandler(client)

	target := uuid.New()

	mock.ExpectQuery(`UPDATE profiles SET is_active = \$1`).
		WithArgs(false, sqlmock.AnyArg()).
		WillReturnRows(profileRow(target, "editor", false))
	mock.ExpectExec(`INSERT INTO audit_logs`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	router := newRouter(adminProfile())
	router.DELETE("/iam/users/:user_id", handler.DeactivateUser)

	w := doJSON(router, "DELETE", "/iam/users/"+target.String(), nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user deactivated")
	assert.NoError(t, mock.ExpectationsWereMet())
}
