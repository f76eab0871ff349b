package supabase

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"nanitech-backend/internal/models"
)

// EnqueueProjectJob inserts a pending job row for the external queue
// worker. This service only produces jobs; no consumer lives here.
func (d *DatabaseClient) EnqueueProjectJob(projectID uuid.UUID, jobType string, payload map[string]interface{}) (*models.ProjectQueueJob, error) {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize job payload: %w", err)
	}

	var job models.ProjectQueueJob
	err = d.db.QueryRow(`
		INSERT INTO project_queue (project_id, job_type, status, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING id, project_id, job_type, status, payload, attempts, last_error, last_attempt_at, created_at
	`, projectID, jobType, models.JobStatusPending, payloadJSON).Scan(
		&job.ID, &job.ProjectID, &job.JobType, &job.Status,
		&job.Payload, &job.Attempts, &job.LastError, &job.LastAttemptAt, &job.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue job: %w", err)
	}

	return &job, nil
}
