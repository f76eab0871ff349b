package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

type CreateProjectRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	TechStack   []string  `json:"tech_stack,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Featured    bool      `json:"featured,omitempty"`
}

type UpdateProjectRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	TechStack   []string   `json:"tech_stack,omitempty"`
	CategoryID  *uuid.UUID `json:"category_id,omitempty"`
	Featured    *bool      `json:"featured,omitempty"`
	Status      *string    `json:"status,omitempty"`
}

type DeleteProjectRequest struct {
	Reason string `json:"reason,omitempty"`
}

type CreateSettingRequest struct {
	Key      string          `json:"key"`
	Value    json.RawMessage `json:"value"`
	IsPublic bool            `json:"is_public"`
	Category string          `json:"category,omitempty"`
}

type UpdateSettingRequest struct {
	Value    json.RawMessage `json:"value"`
	IsPublic *bool           `json:"is_public,omitempty"`
	Category *string         `json:"category,omitempty"`
}

type BulkSettingEntry struct {
	Key      string          `json:"key"`
	Value    json.RawMessage `json:"value"`
	IsPublic *bool           `json:"is_public,omitempty"`
	Category *string         `json:"category,omitempty"`
}

type BulkUpdateSettingsRequest struct {
	Settings []BulkSettingEntry `json:"settings"`
}

// ImageActionRequest is the dispatch envelope for POST /projects/:id/images.
type ImageActionRequest struct {
	Action string `json:"action"`

	// generate-upload-url
	FileName    string `json:"file_name,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"`
	ContentType string `json:"content_type,omitempty"`

	// create-metadata / update-metadata
	ImageID   *uuid.UUID      `json:"image_id,omitempty"`
	ImagePath string          `json:"image_path,omitempty"`
	AltText   string          `json:"alt_text,omitempty"`
	Caption   string          `json:"caption,omitempty"`
	PositionX *float64        `json:"position_x,omitempty"`
	PositionY *float64        `json:"position_y,omitempty"`
	Scale     *float64        `json:"scale,omitempty"`
	Rotation  *float64        `json:"rotation,omitempty"`
	CropData  json.RawMessage `json:"crop_data,omitempty"`
	IsPrimary *bool           `json:"is_primary,omitempty"`
	SortOrder *int            `json:"sort_order,omitempty"`

	// reorder-images
	Order []ImageOrderEntry `json:"order,omitempty"`
}

type ImageOrderEntry struct {
	ID        uuid.UUID `json:"id"`
	SortOrder int       `json:"sort_order"`
}

type ProvisionUserRequest struct {
	UserID   uuid.UUID `json:"user_id"`
	Role     string    `json:"role"`
	FullName string    `json:"full_name,omitempty"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role"`
}

type SetUserActiveRequest struct {
	IsActive *bool `json:"is_active"`
}
