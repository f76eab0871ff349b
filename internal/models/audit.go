package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AuditLog records every mutating operation. Writes are best-effort
// and never block the primary operation.
type AuditLog struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Action       string
	ResourceType string
	ResourceID   string
	Details      json.RawMessage
	CreatedAt    time.Time
}
