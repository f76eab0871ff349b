// Package auth holds the role/permission decision table. It is pure:
// no state, no database, just a function of the caller's role, the
// requested action and (for ownership-scoped actions) the resource
// owner.
package auth

import (
	"fmt"

	"github.com/google/uuid"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/models"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleViewer Role = "viewer"
)

// ParseRole validates a role string coming from the database or an
// IAM request body.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleEditor, RoleViewer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Authorize gates an entire endpoint on role membership.
func Authorize(user *models.UserProfile, allowed ...Role) error {
	role, err := ParseRole(user.Role)
	if err != nil {
		return apperrors.Authorization("role not permitted for this operation")
	}
	for _, a := range allowed {
		if role == a {
			return nil
		}
	}
	return apperrors.Authorization("role not permitted for this operation")
}

// CanPerform is the role-keyed permission table. ownerID identifies
// the resource owner for ownership-scoped actions and may be nil when
// no target resource exists (e.g. create).
func CanPerform(user *models.UserProfile, action Action, ownerID *uuid.UUID) bool {
	role, err := ParseRole(user.Role)
	if err != nil {
		return false
	}

	switch role {
	case RoleAdmin:
		return true
	case RoleEditor:
		switch action {
		case ActionCreate, ActionRead:
			return true
		case ActionEdit, ActionDelete:
			return ownerID != nil && *ownerID == user.ID
		default:
			return false
		}
	case RoleViewer:
		return action == ActionRead
	default:
		return false
	}
}

// IsAdmin reports whether the profile carries the admin role.
func IsAdmin(user *models.UserProfile) bool {
	return Role(user.Role) == RoleAdmin
}
