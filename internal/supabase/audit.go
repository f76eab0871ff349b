package supabase

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// InsertAuditLog records one mutating operation.
func (d *DatabaseClient) InsertAuditLog(userID uuid.UUID, action, resourceType, resourceID string, details map[string]interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("failed to serialize audit details: %w", err)
	}

	_, err = d.db.Exec(`
		INSERT INTO audit_logs (user_id, action, resource_type, resource_id, details)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
	`, userID, action, resourceType, resourceID, detailsJSON)
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

// Audit is the best-effort wrapper used on every mutating path.
// Audit failures are logged and swallowed, never surfaced.
func (d *DatabaseClient) Audit(userID uuid.UUID, action, resourceType, resourceID string, details map[string]interface{}) {
	if err := d.InsertAuditLog(userID, action, resourceType, resourceID, details); err != nil {
		log.Printf("audit log write failed (action=%s resource=%s/%s): %v", action, resourceType, resourceID, err)
	}
}
