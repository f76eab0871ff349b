package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/auth"
	"nanitech-backend/internal/middleware"
	"nanitech-backend/internal/models"
	"nanitech-backend/internal/supabase"
)

type ProjectsHandler struct {
	dbClient       *supabase.DatabaseClient
	storageClient  *supabase.StorageClient
	realtimeClient *supabase.RealtimeClient
}

func NewProjectsHandler(dbClient *supabase.DatabaseClient, storageClient *supabase.StorageClient, realtimeClient *supabase.RealtimeClient) *ProjectsHandler {
	return &ProjectsHandler{
		dbClient:       dbClient,
		storageClient:  storageClient,
		realtimeClient: realtimeClient,
	}
}

// ListProjects returns a role-scoped, filtered, paginated project
// list: viewers see only published rows, editors additionally see
// their own, admins see everything.
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	user := middleware.CurrentProfile(c)
	if user == nil {
		fail(c, apperrors.Authentication("user profile not resolved"))
		return
	}

	filter := supabase.ProjectFilter{
		Status:   c.Query("status"),
		Search:   strings.TrimSpace(c.Query("search")),
		SortBy:   c.Query("sort_by"),
		SortDesc: c.Query("sort_order") != "asc",
	}

	if raw := c.Query("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			fail(c, apperrors.Validation("invalid category_id"))
			return
		}
		filter.CategoryID = &categoryID
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			fail(c, apperrors.Validation("invalid featured flag"))
			return
		}
		filter.Featured = &featured
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}

	switch auth.Role(user.Role) {
	case auth.RoleAdmin:
		// unrestricted
	case auth.RoleEditor:
		ownerID := user.ID
		filter.PublishedOrOwnedBy = &ownerID
	default:
		filter.PublishedOnly = true
	}

	projects, total, err := h.dbClient.ListProjects(filter)
	if err != nil {
		fail(c, err)
		return
	}

	responses := make([]models.ProjectResponse, 0, len(projects))
	for i := range projects {
		responses = append(responses, models.NewProjectResponse(&projects[i]))
	}

	pages := 0
	if total > 0 {
		pages = (total + filter.Limit - 1) / filter.Limit
	}

	respond(c, http.StatusOK, models.ProjectListResponse{
		Projects: responses,
		Pagination: models.Pagination{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
			Pages: pages,
		},
	})
}

// GetProject returns a single project, subject to the same
// visibility rules as the list.
func (h *ProjectsHandler) GetProject(c *gin.Context) {
	user := middleware.CurrentProfile(c)
	if user == nil {
		fail(c, apperrors.Authentication("user profile not resolved"))
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		fail(c, apperrors.Validation("invalid project id"))
		return
	}

	project, err := h.dbClient.GetProject(projectID)
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

	respond(c, http.StatusOK, models.NewProjectResponse(project))
}

// CreateProject validates input, persists the draft row and fires
// the best-effort side effects (queue job, audit log, realtime
// event). Side-effect failures never fail the create.
func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	user := middleware.CurrentProfile(c)
	if user == nil {
		fail(c, apperrors.Authentication("user profile not resolved"))
		return
	}

	if err := auth.Authorize(user, auth.RoleAdmin, auth.RoleEditor); err != nil {
		fail(c, err)
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if req.Title == "" {
		fail(c, apperrors.Validation("title is required"))
		return
	}
	if req.Description == "" {
		fail(c, apperrors.Validation("description is required"))
		return
	}

	project := &models.Project{
		Title:       req.Title,
		Description: req.Description,
		TechStack:   req.TechStack,
		CreatedBy:   user.ID,
		Status:      models.ProjectStatusDraft,
		QueueStatus: models.QueueStatusNone,
		Featured:    req.Featured,
	}
	if project.TechStack == nil {
		project.TechStack = []string{}
	}

	if req.CategoryID != nil {
		active, err := h.dbClient.CategoryIsActive(*req.CategoryID)
		if err != nil {
			fail(c, err)
			return
		}
		if !active {
			fail(c, apperrors.Validation("category does not exist or is inactive"))
			return
		}
		project.CategoryID = uuid.NullUUID{UUID: *req.CategoryID, Valid: true}
	}

	created, err := h.dbClient.CreateProject(project)
	if err != nil {
		fail(c, err)
		return
	}

	// Queue insert is best-effort: a failed enqueue must not fail the
	// create.
	job, err := h.dbClient.EnqueueProjectJob(created.ID, models.JobTypeNewProjectProcessing, map[string]interface{}{
		"project_id": created.ID.String(),
		"title":      created.Title,
	})
	if err != nil {
		log.Printf("failed to enqueue %s job for project %s: %v", models.JobTypeNewProjectProcessing, created.ID, err)
	} else if h.realtimeClient != nil {
		h.realtimeClient.PublishProjectEvent(created.ID, "queue_enqueued",
			supabase.JobEnqueuedPayload(created.ID, job.ID, job.JobType))
	}

	h.dbClient.Audit(user.ID, "create", "project", created.ID.String(), map[string]interface{}{
		"title": created.Title,
	})
	if h.realtimeClient != nil {
		h.realtimeClient.PublishProjectEvent(created.ID, "project_created",
			supabase.ProjectCreatedPayload(created.ID, created.Title))
	}

	respond(c, http.StatusCreated, models.NewProjectResponse(created))
}

// UpdateProject mutates a project the caller may edit. The update
// payload cannot touch id, created_by or created_at.
func (h *ProjectsHandler) UpdateProject(c *gin.Context) {
	user := middleware.CurrentProfile(c)
	if user == nil {
		fail(c, apperrors.Authentication("user profile not resolved"))
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		fail(c, apperrors.Validation("invalid project id"))
		return
	}

	existing, err := h.dbClient.GetProject(projectID)
	if err != nil {
		fail(c, err)
		return
	}

	ownerID := existing.CreatedBy
	if !auth.CanPerform(user, auth.ActionEdit, &ownerID) {
		fail(c, apperrors.Authorization("you do not have permission to edit this project"))
		return
	}

	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apperrors.Validation("invalid request body: "+err.Error()))
		return
	}

	upd := supabase.ProjectUpdate{
		TechStack:  req.TechStack,
		CategoryID: req.CategoryID,
		Featured:   req.Featured,
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			fail(c, apperrors.Validation("title cannot be empty"))
			return
		}
		upd.Title = &title
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			fail(c, apperrors.Validation("description cannot be empty"))
			return
		}
		upd.Description = &description
	}
	if req.Status != nil {
		switch *req.Status {
		case models.ProjectStatusDraft, models.ProjectStatusPublished, models.ProjectStatusArchived:
			upd.Status = req.Status
		default:
			fail(c, apperrors.Validation("invalid status"))
			return
		}
	}
	if req.CategoryID != nil {
		active, err := h.dbClient.CategoryIsActive(*req.CategoryID)
		if err != nil {
			fail(c, err)
			return
		}
		if !active {
			fail(c, apperrors.Validation("category does not exist or is inactive"))
			return
		}
	}

	updated, err := h.dbClient.UpdateProject(projectID, upd)
	if err != nil {
		fail(c, err)
		return
	}

	h.dbClient.Audit(user.ID, "update", "project", updated.ID.String(), map[string]interface{}{
		"status": updated.Status,
	})
	if h.realtimeClient != nil {
		h.realtimeClient.PublishProjectEvent(updated.ID, "project_updated",
			supabase.ProjectUpdatedPayload(updated.ID, updated.Status))
	}

	respond(c, http.StatusOK, models.NewProjectResponse(updated))
}

// DeleteProject archives the full row snapshot and removes the live
// row in one transaction, then cleans up stored objects best-effort.
func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	user := middleware.CurrentProfile(c)
	if user == nil {
		fail(c, apperrors.Authentication("user profile not resolved"))
		return
	}

	projectID, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		fail(c, apperrors.Validation("invalid project id"))
		return
	}

	existing, err := h.dbClient.GetProject(projectID)
	if err != nil {
		fail(c, err)
		return
	}

	ownerID := existing.CreatedBy
	if !auth.CanPerform(user, auth.ActionDelete, &ownerID) {
		fail(c, apperrors.Authorization("you do not have permission to delete this project"))
		return
	}

	var req models.DeleteProjectRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, apperrors.Validation("invalid request body: "+err.Error()))
			return
		}
	}

	if err := h.dbClient.DeleteProjectWithArchive(projectID, user.ID, req.Reason); err != nil {
		fail(c, err)
		return
	}

	if h.storageClient != nil {
		if err := h.storageClient.DeleteProjectFiles(projectID); err != nil {
			log.Printf("failed to delete stored files for project %s: %v", projectID, err)
		}
	}

	h.dbClient.Audit(user.ID, "delete", "project", projectID.String(), map[string]interface{}{
		"reason": req.Reason,
	})
	if h.realtimeClient != nil {
		h.realtimeClient.PublishProjectEvent(projectID, "project_deleted",
			supabase.ProjectDeletedPayload(projectID))
	}

	respond(c, http.StatusOK, gin.H{"message": "project deleted and archived"})
}
