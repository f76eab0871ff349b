package supabase

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"
)

// RealtimeClient notifies dashboard subscribers about lifecycle
// changes. Database writes already trigger Supabase Realtime change
// feeds; this wrapper exists for explicit broadcast events and is
// always best-effort.
type RealtimeClient struct {
	client *supabase.Client
}

func NewRealtimeClient(client *supabase.Client) *RealtimeClient {
	return &RealtimeClient{
		client: client,
	}
}

func (r *RealtimeClient) PublishEvent(channel string, event string, payload map[string]interface{}) error {
	// The Go client has no direct Realtime publish; subscribers
	// observe the postgres_changes feed on the mutated tables.
	return nil
}

func (r *RealtimeClient) PublishProjectEvent(projectID uuid.UUID, event string, payload map[string]interface{}) error {
	channel := fmt.Sprintf("project:%s", projectID.String())
	return r.PublishEvent(channel, event, payload)
}

// Event payloads
func ProjectCreatedPayload(projectID uuid.UUID, title string) map[string]interface{} {
	return map[string]interface{}{
		"project_id": projectID.String(),
		"title":      title,
		"status":     "draft",
	}
}

func ProjectUpdatedPayload(projectID uuid.UUID, status string) map[string]interface{} {
	return map[string]interface{}{
		"project_id": projectID.String(),
		"status":     status,
	}
}

func ProjectDeletedPayload(projectID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"project_id": projectID.String(),
		"status":     "deleted",
	}
}

func JobEnqueuedPayload(projectID, jobID uuid.UUID, jobType string) map[string]interface{} {
	return map[string]interface{}{
		"project_id": projectID.String(),
		"job_id":     jobID.String(),
		"job_type":   jobType,
		"status":     "pending",
	}
}
