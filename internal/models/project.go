package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Project lifecycle states.
const (
	ProjectStatusDraft     = "draft"
	ProjectStatusPublished = "published"
	ProjectStatusArchived  = "archived"
)

// Queue processing states mirrored onto the project row. The queue
// consumer is external; this service only ever writes "none" and
// "queued".
const (
	QueueStatusNone       = "none"
	QueueStatusQueued     = "queued"
	QueueStatusProcessing = "processing"
	QueueStatusPublished  = "published"
)

type Project struct {
	ID          uuid.UUID
	Title       string
	Description string
	TechStack   []string
	CreatedBy   uuid.UUID
	Status      string
	QueueStatus string
	Featured    bool
	ViewCount   int
	LikeCount   int
	CategoryID  uuid.NullUUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DeletedProject is the archive snapshot written when a live project
// row is removed. OriginalData holds the full pre-delete row as JSON.
type DeletedProject struct {
	ID           uuid.UUID
	ProjectID    uuid.UUID
	OriginalData json.RawMessage
	DeletedBy    uuid.UUID
	Reason       sql.NullString
	DeletedAt    time.Time
}

// ProjectQueueJob is a durable post-creation job for an external
// worker. This service is a producer only.
type ProjectQueueJob struct {
	ID            uuid.UUID
	ProjectID     uuid.UUID
	JobType       string
	Status        string
	Payload       json.RawMessage
	Attempts      int
	LastError     sql.NullString
	LastAttemptAt sql.NullTime
	CreatedAt     time.Time
}

const JobTypeNewProjectProcessing = "new_project_processing"

const (
	JobStatusPending    = "pending"
	JobStatusProcessing = "processing"
	JobStatusCompleted  = "completed"
	JobStatusFailed     = "failed"
)
