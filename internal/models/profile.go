package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// UserProfile is the role-bearing identity record loaded for every
// authenticated request. Profiles are provisioned through the IAM
// endpoints (or by Supabase triggers) and are never hard-deleted,
// only deactivated.
type UserProfile struct {
	ID        uuid.UUID
	Role      string
	FullName  sql.NullString
	AvatarURL sql.NullString
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
