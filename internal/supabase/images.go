package supabase

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/models"
)

const imageColumns = `id, project_id, image_path, alt_text, caption, position_x, position_y,
		scale, rotation, crop_data, is_primary, sort_order, created_at, updated_at`

func (d *DatabaseClient) ListProjectImages(projectID uuid.UUID) ([]models.ImageMetadata, error) {
	rows, err := d.db.Query(
		`SELECT `+imageColumns+` FROM project_images WHERE project_id = $1 ORDER BY sort_order ASC, created_at ASC`,
		projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	defer rows.Close()

	var images []models.ImageMetadata
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan image: %w", err)
		}
		images = append(images, *img)
	}

	return images, nil
}

func (d *DatabaseClient) GetImage(imageID uuid.UUID) (*models.ImageMetadata, error) {
	row := d.db.QueryRow(`SELECT `+imageColumns+` FROM project_images WHERE id = $1`, imageID)
	img, err := scanImage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("image not found")
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return img, nil
}

// CreateImage inserts a metadata row. When the new row is primary the
// sibling demotion and the insert happen in one transaction, so the
// project ends up with exactly one primary image.
func (d *DatabaseClient) CreateImage(img *models.ImageMetadata) (*models.ImageMetadata, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if img.IsPrimary {
		if _, err := tx.Exec(
			`UPDATE project_images SET is_primary = FALSE, updated_at = NOW() WHERE project_id = $1 AND is_primary`,
			img.ProjectID,
		); err != nil {
			return nil, fmt.Errorf("failed to demote primary image: %w", err)
		}
	}

	row := tx.QueryRow(`
		INSERT INTO project_images
			(project_id, image_path, alt_text, caption, position_x, position_y, scale, rotation, crop_data, is_primary, sort_order)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+imageColumns,
		img.ProjectID, img.ImagePath, nullStringValue(img.AltText), nullStringValue(img.Caption),
		img.PositionX, img.PositionY, img.Scale, img.Rotation,
		nullableJSON(img.CropData), img.IsPrimary, img.SortOrder,
	)

	created, err := scanImage(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create image metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit image metadata: %w", err)
	}

	return created, nil
}

// ImageUpdate carries the mutable metadata columns.
type ImageUpdate struct {
	AltText   *string
	Caption   *string
	PositionX *float64
	PositionY *float64
	Scale     *float64
	Rotation  *float64
	CropData  []byte
	IsPrimary *bool
	SortOrder *int
}

// UpdateImage mutates a metadata row. Promoting a row to primary
// demotes its siblings inside the same transaction.
func (d *DatabaseClient) UpdateImage(imageID uuid.UUID, upd ImageUpdate) (*models.ImageMetadata, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if upd.IsPrimary != nil && *upd.IsPrimary {
		if _, err := tx.Exec(`
			UPDATE project_images SET is_primary = FALSE, updated_at = NOW()
			WHERE project_id = (SELECT project_id FROM project_images WHERE id = $1) AND id <> $1 AND is_primary
		`, imageID); err != nil {
			return nil, fmt.Errorf("failed to demote primary image: %w", err)
		}
	}

	var sets []string
	var args []interface{}

	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if upd.AltText != nil {
		set("alt_text", *upd.AltText)
	}
	if upd.Caption != nil {
		set("caption", *upd.Caption)
	}
	if upd.PositionX != nil {
		set("position_x", *upd.PositionX)
	}
	if upd.PositionY != nil {
		set("position_y", *upd.PositionY)
	}
	if upd.Scale != nil {
		set("scale", *upd.Scale)
	}
	if upd.Rotation != nil {
		set("rotation", *upd.Rotation)
	}
	if upd.CropData != nil {
		set("crop_data", upd.CropData)
	}
	if upd.IsPrimary != nil {
		set("is_primary", *upd.IsPrimary)
	}
	if upd.SortOrder != nil {
		set("sort_order", *upd.SortOrder)
	}

	if len(sets) == 0 {
		img, err := d.GetImage(imageID)
		if err != nil {
			return nil, err
		}
		return img, tx.Commit()
	}

	sets = append(sets, "updated_at = NOW()")
	args = append(args, imageID)

	query := fmt.Sprintf(`UPDATE project_images SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), imageColumns)

	img, err := scanImage(tx.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("image not found")
		}
		return nil, fmt.Errorf("failed to update image metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit image metadata: %w", err)
	}

	return img, nil
}

// ReorderImages applies {id, sort_order} pairs in one transaction.
func (d *DatabaseClient) ReorderImages(projectID uuid.UUID, order []models.ImageOrderEntry) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, entry := range order {
		if _, err := tx.Exec(
			`UPDATE project_images SET sort_order = $1, updated_at = NOW() WHERE id = $2 AND project_id = $3`,
			entry.SortOrder, entry.ID, projectID,
		); err != nil {
			return fmt.Errorf("failed to reorder image %s: %w", entry.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reorder: %w", err)
	}

	return nil
}

// DeleteImage removes the row, scoped to its owning project, and
// returns its storage path so the caller can clean up the object.
// The project_id constraint keeps an image id from another project's
// gallery from matching.
func (d *DatabaseClient) DeleteImage(projectID, imageID uuid.UUID) (string, error) {
	var imagePath string
	err := d.db.QueryRow(
		`DELETE FROM project_images WHERE id = $1 AND project_id = $2 RETURNING image_path`,
		imageID, projectID,
	).Scan(&imagePath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperrors.NotFound("image not found")
		}
		return "", fmt.Errorf("failed to delete image: %w", err)
	}
	return imagePath, nil
}

func scanImage(row rowScanner) (*models.ImageMetadata, error) {
	var img models.ImageMetadata
	var cropData sql.NullString
	err := row.Scan(
		&img.ID, &img.ProjectID, &img.ImagePath, &img.AltText, &img.Caption,
		&img.PositionX, &img.PositionY, &img.Scale, &img.Rotation,
		&cropData, &img.IsPrimary, &img.SortOrder, &img.CreatedAt, &img.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cropData.Valid {
		img.CropData = []byte(cropData.String)
	}
	return &img, nil
}

func nullStringValue(s sql.NullString) string {
	if s.Valid {
		return s.String
	}
	return ""
}

func nullableJSON(data []byte) interface{} {
	if len(data) == 0 {
		return nil
	}
	return data
}
