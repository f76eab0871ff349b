package auth_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/auth"
	"nanitech-backend/internal/models"
)

func profileWithRole(role string) *models.UserProfile {
	return &models.UserProfile{
		ID:       uuid.New(),
		Role:     role,
		IsActive: true,
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"admin", "editor", "viewer"} {
		role, err := auth.ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, string(role))
	}

	for _, invalid := range []string{"", "superuser", "Admin", "EDITOR"} {
		_, err := auth.ParseRole(invalid)
		assert.Error(t, err, "role %q should be rejected", invalid)
	}
}

func TestCanPerform_ViewerNeverMutates(t *testing.T) {
	viewer := profileWithRole("viewer")
	ownID := viewer.ID
	otherID := uuid.New()

	for _, owner := range []*uuid.UUID{nil, &ownID, &otherID} {
		assert.False(t, auth.CanPerform(viewer, auth.ActionEdit, owner))
		assert.False(t, auth.CanPerform(viewer, auth.ActionDelete, owner))
		assert.False(t, auth.CanPerform(viewer, auth.ActionCreate, owner))
		assert.True(t, auth.CanPerform(viewer, auth.ActionRead, owner))
	}
}

func TestCanPerform_EditorOwnershipScoped(t *testing.T) {
	editor := profileWithRole("editor")
	ownID := editor.ID
	otherID := uuid.New()

	assert.True(t, auth.CanPerform(editor, auth.ActionCreate, nil))
	assert.True(t, auth.CanPerform(editor, auth.ActionRead, &otherID))

	assert.True(t, auth.CanPerform(editor, auth.ActionEdit, &ownID))
	assert.True(t, auth.CanPerform(editor, auth.ActionDelete, &ownID))

	assert.False(t, auth.CanPerform(editor, auth.ActionEdit, &otherID))
	assert.False(t, auth.CanPerform(editor, auth.ActionDelete, &otherID))

	// No target resource means no ownership to prove.
	assert.False(t, auth.CanPerform(editor, auth.ActionEdit, nil))
	assert.False(t, auth.CanPerform(editor, auth.ActionDelete, nil))
}

func TestCanPerform_AdminUnconditional(t *testing.T) {
	admin := profileWithRole("admin")
	otherID := uuid.New()

	actions := []auth.Action{auth.ActionCreate, auth.ActionRead, auth.ActionEdit, auth.ActionDelete}
	for _, action := range actions {
		assert.True(t, auth.CanPerform(admin, action, nil))
		assert.True(t, auth.CanPerform(admin, action, &otherID))
	}
}

func TestCanPerform_UnknownRoleDenied(t *testing.T) {
	unknown := profileWithRole("superuser")
	ownID := unknown.ID

	actions := []auth.Action{auth.ActionCreate, auth.ActionRead, auth.ActionEdit, auth.ActionDelete}
	for _, action := range actions {
		assert.False(t, auth.CanPerform(unknown, action, &ownID))
	}
}

func TestAuthorize(t *testing.T) {
	editor := profileWithRole("editor")

	assert.NoError(t, auth.Authorize(editor, auth.RoleAdmin, auth.RoleEditor))

	err := auth.Authorize(editor, auth.RoleAdmin)
	require.Error(t, err)
	appErr := apperrors.From(err)
	assert.Equal(t, 403, appErr.StatusCode)
	assert.Equal(t, apperrors.CodeAuthorization, appErr.Code)
}
