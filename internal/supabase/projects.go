package supabase

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/models"
)

const projectColumns = `id, title, description, tech_stack, created_by, status, queue_status,
		featured, view_count, like_count, category_id, created_at, updated_at`

// ProjectFilter drives the list query. Visibility restrictions are
// set by the handler from the caller's role: PublishedOnly for
// viewers and anonymous reads, PublishedOrOwnedBy for editors.
type ProjectFilter struct {
	Status             string
	CategoryID         *uuid.UUID
	Featured           *bool
	Search             string
	SortBy             string
	SortDesc           bool
	Page               int
	Limit              int
	PublishedOnly      bool
	PublishedOrOwnedBy *uuid.UUID
}

var projectSortColumns = map[string]string{
	"title":      "title",
	"status":     "status",
	"featured":   "featured",
	"view_count": "view_count",
	"like_count": "like_count",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

func (f *ProjectFilter) whereClause() (string, []interface{}) {
	var conds []string
	var args []interface{}

	next := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.PublishedOnly {
		conds = append(conds, fmt.Sprintf("status = %s", next(models.ProjectStatusPublished)))
	} else if f.PublishedOrOwnedBy != nil {
		conds = append(conds, fmt.Sprintf("(status = %s OR created_by = %s)",
			next(models.ProjectStatusPublished), next(*f.PublishedOrOwnedBy)))
	}
	if f.Status != "" {
		conds = append(conds, fmt.Sprintf("status = %s", next(f.Status)))
	}
	if f.CategoryID != nil {
		conds = append(conds, fmt.Sprintf("category_id = %s", next(*f.CategoryID)))
	}
	if f.Featured != nil {
		conds = append(conds, fmt.Sprintf("featured = %s", next(*f.Featured)))
	}
	if f.Search != "" {
		p := next("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListProjects returns the matching page plus the unpaginated total.
func (d *DatabaseClient) ListProjects(filter ProjectFilter) ([]models.Project, int, error) {
	where, args := filter.whereClause()

	var total int
	if err := d.db.QueryRow("SELECT COUNT(*) FROM projects"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	sortCol, ok := projectSortColumns[filter.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	direction := "ASC"
	if filter.SortDesc || filter.SortBy == "" {
		direction = "DESC"
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`SELECT %s FROM projects%s ORDER BY %s %s LIMIT %d OFFSET %d`,
		projectColumns, where, sortCol, direction, limit, offset)

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []models.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *project)
	}

	return projects, total, nil
}

func (d *DatabaseClient) GetProject(projectID uuid.UUID) (*models.Project, error) {
	row := d.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = $1`, projectID)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("project not found")
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return project, nil
}

func (d *DatabaseClient) CreateProject(p *models.Project) (*models.Project, error) {
	row := d.db.QueryRow(`
		INSERT INTO projects (title, description, tech_stack, created_by, status, queue_status, featured, category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+projectColumns,
		p.Title, p.Description, pq.Array(p.TechStack), p.CreatedBy,
		p.Status, p.QueueStatus, p.Featured, p.CategoryID,
	)

	created, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return created, nil
}

// ProjectUpdate carries the mutable columns. id, created_by and
// created_at are not represented here, so identity invariants hold by
// construction.
type ProjectUpdate struct {
	Title       *string
	Description *string
	TechStack   []string
	CategoryID  *uuid.UUID
	Featured    *bool
	Status      *string
}

func (d *DatabaseClient) UpdateProject(projectID uuid.UUID, upd ProjectUpdate) (*models.Project, error) {
	var sets []string
	var args []interface{}

	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.Title != nil {
		set("title", *upd.Title)
	}
	if upd.Description != nil {
		set("description", *upd.Description)
	}
	if upd.TechStack != nil {
		set("tech_stack", pq.Array(upd.TechStack))
	}
	if upd.CategoryID != nil {
		set("category_id", *upd.CategoryID)
	}
	if upd.Featured != nil {
		set("featured", *upd.Featured)
	}
	if upd.Status != nil {
		set("status", *upd.Status)
	}

	if len(sets) == 0 {
		return d.GetProject(projectID)
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, projectID)

	query := fmt.Sprintf(`UPDATE projects SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), projectColumns)

	project, err := scanProject(d.db.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("project not found")
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return project, nil
}

// projectSnapshot serializes the full live row into the archive's
// original_data column.
type projectSnapshot struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TechStack   []string   `json:"tech_stack"`
	CreatedBy   uuid.UUID  `json:"created_by"`
	Status      string     `json:"status"`
	QueueStatus string     `json:"queue_status"`
	Featured    bool       `json:"featured"`
	ViewCount   int        `json:"view_count"`
	LikeCount   int        `json:"like_count"`
	CategoryID  *uuid.UUID `json:"category_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// DeleteProjectWithArchive snapshots the live row into
// deleted_projects and removes it, atomically. A failure at any step
// rolls the whole operation back, so the archive and the live table
// can never disagree.
func (d *DatabaseClient) DeleteProjectWithArchive(projectID, deletedBy uuid.UUID, reason string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = $1 FOR UPDATE`, projectID)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.NotFound("project not found")
		}
		return fmt.Errorf("failed to load project for deletion: %w", err)
	}

	snapshot := projectSnapshot{
		ID:          project.ID,
		Title:       project.Title,
		Description: project.Description,
		TechStack:   project.TechStack,
		CreatedBy:   project.CreatedBy,
		Status:      project.Status,
		QueueStatus: project.QueueStatus,
		Featured:    project.Featured,
		ViewCount:   project.ViewCount,
		LikeCount:   project.LikeCount,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
	if snapshot.TechStack == nil {
		snapshot.TechStack = []string{}
	}
	if project.CategoryID.Valid {
		id := project.CategoryID.UUID
		snapshot.CategoryID = &id
	}

	originalData, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to serialize project snapshot: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO deleted_projects (project_id, original_data, deleted_by, reason)
		VALUES ($1, $2, $3, NULLIF($4, ''))
	`, projectID, originalData, deletedBy, reason); err != nil {
		return fmt.Errorf("failed to archive project: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM projects WHERE id = $1`, projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project deletion: %w", err)
	}

	return nil
}

// CategoryIsActive reports whether the category exists and is active.
func (d *DatabaseClient) CategoryIsActive(categoryID uuid.UUID) (bool, error) {
	var active bool
	err := d.db.QueryRow(
		`SELECT EXISTS(SELECT 1 FROM project_categories WHERE id = $1 AND is_active)`,
		categoryID,
	).Scan(&active)
	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return active, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, pq.Array(&p.TechStack), &p.CreatedBy,
		&p.Status, &p.QueueStatus, &p.Featured, &p.ViewCount, &p.LikeCount,
		&p.CategoryID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
