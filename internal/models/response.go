package models

import (
	"encoding/json"
	"time"
)

// Envelope is the standard success wrapper returned by every handler.
type Envelope struct {
	Data      interface{} `json:"data"`
	Success   bool        `json:"success"`
	RequestID string      `json:"request_id"`
	Timestamp time.Time   `json:"timestamp"`
}

type ErrorDetail struct {
	Message    string    `json:"message"`
	Code       string    `json:"code"`
	StatusCode int       `json:"status_code"`
	RequestID  string    `json:"request_id"`
	Timestamp  time.Time `json:"timestamp"`
}

type ErrorEnvelope struct {
	Error   ErrorDetail `json:"error"`
	Success bool        `json:"success"`
}

type ProjectResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	TechStack   []string        `json:"tech_stack"`
	CreatedBy   string          `json:"created_by"`
	Status      string          `json:"status"`
	QueueStatus string          `json:"queue_status"`
	Featured    bool            `json:"featured"`
	ViewCount   int             `json:"view_count"`
	LikeCount   int             `json:"like_count"`
	CategoryID  string          `json:"category_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type ProjectListResponse struct {
	Projects   []ProjectResponse `json:"projects"`
	Pagination Pagination        `json:"pagination"`
}

type SettingResponse struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	IsPublic  bool            `json:"is_public"`
	Category  string          `json:"category,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type ImageResponse struct {
	ID        string          `json:"id"`
	ProjectID string          `json:"project_id"`
	ImagePath string          `json:"image_path"`
	AltText   string          `json:"alt_text,omitempty"`
	Caption   string          `json:"caption,omitempty"`
	PositionX float64         `json:"position_x"`
	PositionY float64         `json:"position_y"`
	Scale     float64         `json:"scale"`
	Rotation  float64         `json:"rotation"`
	CropData  json.RawMessage `json:"crop_data,omitempty"`
	IsPrimary bool            `json:"is_primary"`
	SortOrder int             `json:"sort_order"`
	CreatedAt time.Time       `json:"created_at"`
}

type UploadURLResponse struct {
	UploadURL   string `json:"upload_url"`
	StoragePath string `json:"storage_path"`
	Token       string `json:"token,omitempty"`
}

type UserProfileResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	FullName  string    `json:"full_name,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type UserListResponse struct {
	Users      []UserProfileResponse `json:"users"`
	Pagination Pagination            `json:"pagination"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// NewProjectResponse flattens a Project row for the wire.
func NewProjectResponse(p *Project) ProjectResponse {
	resp := ProjectResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		TechStack:   p.TechStack,
		CreatedBy:   p.CreatedBy.String(),
		Status:      p.Status,
		QueueStatus: p.QueueStatus,
		Featured:    p.Featured,
		ViewCount:   p.ViewCount,
		LikeCount:   p.LikeCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if resp.TechStack == nil {
		resp.TechStack = []string{}
	}
	if p.CategoryID.Valid {
		resp.CategoryID = p.CategoryID.UUID.String()
	}
	return resp
}

// NewUserProfileResponse flattens a profile row for the wire.
func NewUserProfileResponse(u *UserProfile) UserProfileResponse {
	resp := UserProfileResponse{
		ID:        u.ID.String(),
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
	if u.FullName.Valid {
		resp.FullName = u.FullName.String
	}
	if u.AvatarURL.Valid {
		resp.AvatarURL = u.AvatarURL.String
	}
	return resp
}

// NewImageResponse flattens an image metadata row for the wire.
func NewImageResponse(img *ImageMetadata) ImageResponse {
	resp := ImageResponse{
		ID:        img.ID.String(),
		ProjectID: img.ProjectID.String(),
		ImagePath: img.ImagePath,
		PositionX: img.PositionX,
		PositionY: img.PositionY,
		Scale:     img.Scale,
		Rotation:  img.Rotation,
		CropData:  img.CropData,
		IsPrimary: img.IsPrimary,
		SortOrder: img.SortOrder,
		CreatedAt: img.CreatedAt,
	}
	if img.AltText.Valid {
		resp.AltText = img.AltText.String
	}
	if img.Caption.Valid {
		resp.Caption = img.Caption.String
	}
	return resp
}

// NewSettingResponse flattens a setting row for the wire.
func NewSettingResponse(s *Setting) SettingResponse {
	resp := SettingResponse{
		Key:       s.Key,
		Value:     s.Value,
		IsPublic:  s.IsPublic,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Category.Valid {
		resp.Category = s.Category.String
	}
	return resp
}
