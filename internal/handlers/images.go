package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/auth"
	"nanitech-backend/internal/middleware"
	"nanitech-backend/internal/models"
	"nanitech-backend/internal/supabase"
)

// MaxImageSizeBytes caps upload size at 50MB.
const MaxImageSizeBytes = 50 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

var imageExtensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ValidateImageUpload checks size and MIME type ahead of issuing a
// signed upload URL. When content type is omitted it is inferred
// from the file extension.
func ValidateImageUpload(fileName string, fileSize int64, contentType string) error {
	if strings.TrimSpace(fileName) == "" {
		return apperrors.Validation("file_name is required")
	}
	if fileSize <= 0 {
		return apperrors.Validation("file_size must be positive")
	}
	if fileSize > MaxImageSizeBytes {
		return apperrors.Validation("file exceeds the 50MB upload limit")
	}

	if contentType == "" {
		contentType = imageExtensionTypes[strings.ToLower(path.Ext(fileName))]
	}
	if !allowedImageTypes[contentType] {
		return apperrors.Validation("unsupported image type: only JPEG, PNG, WebP and GIF are allowed")
	}

	return nil
}

type ImagesHandler struct {
	dbClient      *supabase.DatabaseClient
	storageClient *supabase.StorageClient
}

func NewImagesHandler(dbClient *supabase.DatabaseClient, storageClient *supabase.StorageClient) *ImagesHandler {
	return &ImagesHandler{
		dbClient:      dbClient,
		storageClient: storageClient,
	}
}

// ListImages returns a project's image metadata in sort order.
func (h *ImagesHandler) ListImages(c *gin.Context) {
	user := middleware.CurrentProfile(c)
	if user == nil {
		fail(c, apperrors.Authentication("user profile not resolved"))
		return
	}

	project, err := h.loadProject(c)
	if err != nil {
		fail(c, err)
		return
	}

	if project.Status != models.ProjectStatusPublished {
		ownerID := project.CreatedBy
		if !auth.CanPerform(user, auth.ActionEdit, &ownerID) {
			fail(c, apperrors.NotFound("project not found"))
			return
		}
	}

	images, err := h.dbClient.ListProjectImages(project.ID)
	if err != nil {
		fail(c, err)
		return
	}

	responses := make([]models.ImageResponse, 0, len(images))
	for i := range images {
		responses = append(responses, models.NewImageResponse(&images[i]))
	}

	respond(c, http.StatusOK, gin.H{"images": responses})
}

// HandleImageAction dispatches the POST body's action field:
// generate-upload-url, create-metadata, update-metadata or
// reorder-images. All actions require edit permission on the target
// project.
func (h *ImagesHandler) HandleImageAction(c *gin.Context) {
	user := middleware.CurrentProfile(c)
	if user == nil {
		fail(c, apperrors.Authentication("user profile not resolved"))
		return
	}

	project, err := h.loadProject(c)
	if err != nil {
		fail(c, err)
		return
	}

	ownerID := project.CreatedBy
	if !auth.CanPerform(user, auth.ActionEdit, &ownerID) {
		fail(c, apperrors.Authorization("you do not have permission to manage images for this project"))
		return
	}

	var req models.ImageActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}

	switch req.Action {
	case "generate-upload-url":
		h.generateUploadURL(c, user, project, &req)
	case "create-metadata":
		h.createMetadata(c, user, project, &req)
	case "update-metadata":
		h.updateMetadata(c, user, project, &req)
	case "reorder-images":
		h.reorderImages(c, user, project, &req)
	default:
		fail(c, apperrors.Validation(fmt.Sprintf("unknown action %q", req.Action)))
	}
}

func (h *ImagesHandler) generateUploadURL(c *gin.Context, user *models.UserProfile, project *models.Project, req *models.ImageActionRequest) {
	if err := ValidateImageUpload(req.FileName, req.FileSize, req.ContentType); err != nil {
		fail(c, err)
		return
	}

	storagePath := supabase.BuildImagePath(project.ID, req.FileName)
	uploadURL, err := h.storageClient.CreateSignedUploadURL(storagePath)
	if err != nil {
		fail(c, err)
		return
	}

	h.dbClient.Audit(user.ID, "generate_upload_url", "project_image", storagePath, map[string]interface{}{
		"project_id": project.ID.String(),
	})

	respond(c, http.StatusOK, models.UploadURLResponse{
		UploadURL:   uploadURL,
		StoragePath: storagePath,
	})
}

func (h *ImagesHandler) createMetadata(c *gin.Context, user *models.UserProfile, project *models.Project, req *models.ImageActionRequest) {
	if strings.TrimSpace(req.ImagePath) == "" {
		fail(c, apperrors.Validation("image_path is required"))
		return
	}

	img := &models.ImageMetadata{
		ProjectID: project.ID,
		ImagePath: req.ImagePath,
		Scale:     1,
	}
	if req.AltText != "" {
		img.AltText.String = req.AltText
		img.AltText.Valid = true
	}
	if req.Caption != "" {
		img.Caption.String = req.Caption
		img.Caption.Valid = true
	}
	if req.PositionX != nil {
		img.PositionX = *req.PositionX
	}
	if req.PositionY != nil {
		img.PositionY = *req.PositionY
	}
	if req.Scale != nil {
		img.Scale = *req.Scale
	}
	if req.Rotation != nil {
		img.Rotation = *req.Rotation
	}
	if req.CropData != nil {
		img.CropData = req.CropData
	}
	if req.IsPrimary != nil {
		img.IsPrimary = *req.IsPrimary
	}
	if req.SortOrder != nil {
		img.SortOrder = *req.SortOrder
	}

	created, err := h.dbClient.CreateImage(img)
	if err != nil {
		fail(c, err)
		return
	}

	h.dbClient.Audit(user.ID, "create", "project_image", created.ID.String(), map[string]interface{}{
		"project_id": project.ID.String(),
	})

	respond(c, http.StatusCreated, models.NewImageResponse(created))
}

func (h *ImagesHandler) updateMetadata(c *gin.Context, user *models.UserProfile, project *models.Project, req *models.ImageActionRequest) {
	if req.ImageID == nil {
		fail(c, apperrors.Validation("image_id is required"))
		return
	}

	existing, err := h.dbClient.GetImage(*req.ImageID)
	if err != nil {
		fail(c, err)
		return
	}
	if existing.ProjectID != project.ID {
		fail(c, apperrors.NotFound("image not found"))
		return
	}

	upd := supabase.ImageUpdate{
		PositionX: req.PositionX,
		PositionY: req.PositionY,
		Scale:     req.Scale,
		Rotation:  req.Rotation,
		IsPrimary: req.IsPrimary,
		SortOrder: req.SortOrder,
	}
	if req.AltText != "" {
		upd.AltText = &req.AltText
	}
	if req.Caption != "" {
		upd.Caption = &req.Caption
	}
	if req.CropData != nil {
		upd.CropData = req.CropData
	}

	updated, err := h.dbClient.UpdateImage(*req.ImageID, upd)
	if err != nil {
		fail(c, err)
		return
	}

	h.dbClient.Audit(user.ID, "update", "project_image", updated.ID.String(), map[string]interface{}{
		"project_id": project.ID.String(),
	})

	respond(c, http.StatusOK, models.NewImageResponse(updated))
}

func (h *ImagesHandler) reorderImages(c *gin.Context, user *models.UserProfile, project *models.Project, req *models.ImageActionRequest) {
	if len(req.Order) == 0 {
		fail(c, apperrors.Validation("order list is empty"))
		return
	}

	if err := h.dbClient.ReorderImages(project.ID, req.Order); err != nil {
		fail(c, err)
		return
	}

	h.dbClient.Audit(user.ID, "reorder", "project_image", project.ID.String(), map[string]interface{}{
		"count": len(req.Order),
	})

	respond(c, http.StatusOK, gin.H{"reordered": len(req.Order)})
}

// DeleteImage removes a metadata row and best-effort removes the
// stored object.
func (h *ImagesHandler) DeleteImage(c *gin.Context) {
	user := middleware.CurrentProfile(c)
	if user == nil {
		fail(c, apperrors.Authentication("user profile not resolved"))
		return
	}

	project, err := h.loadProject(c)
	if err != nil {
		fail(c, err)
		return
	}

	ownerID := project.CreatedBy
	if !auth.CanPerform(user, auth.ActionEdit, &ownerID) {
		fail(c, apperrors.Authorization("you do not have permission to manage images for this project"))
		return
	}

	imageID, err := uuid.Parse(c.Param("image_id"))
	if err != nil {
		fail(c, apperrors.Validation("invalid image id"))
		return
	}

	imagePath, err := h.dbClient.DeleteImage(project.ID, imageID)
	if err != nil {
		fail(c, err)
		return
	}

	if h.storageClient != nil {
		if err := h.storageClient.DeleteFile(imagePath); err != nil {
			log.Printf("failed to delete stored object %s: %v", imagePath, err)
		}
	}

	h.dbClient.Audit(user.ID, "delete", "project_image", imageID.String(), map[string]interface{}{
		"project_id": project.ID.String(),
	})

	respond(c, http.StatusOK, gin.H{"message": "image deleted"})
}

func (h *ImagesHandler) loadProject(c *gin.Context) (*models.Project, error) {
	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		return nil, apperrors.Validation("invalid project id")
	}
	return h.dbClient.GetProject(projectID)
}
