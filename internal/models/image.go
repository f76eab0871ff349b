package models

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ImageMetadata tracks an uploaded project image along with its
// placement data. At most one row per project carries IsPrimary.
type ImageMetadata struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	ImagePath string
	AltText   sql.NullString
	Caption   sql.NullString
	PositionX float64
	PositionY float64
	Scale     float64
	Rotation  float64
	CropData  json.RawMessage
	IsPrimary bool
	SortOrder int
	CreatedAt time.Time
	UpdatedAt time.Time
}
