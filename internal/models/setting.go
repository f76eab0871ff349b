package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Setting is a key/value configuration row. Public rows are readable
// without authentication; all writes are admin-gated.
type Setting struct {
	Key           string
	Value         json.RawMessage
	IsPublic      bool
	Category      sql.NullString
	LastUpdatedBy uuid.NullUUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
