package supabase

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/models"
)

const settingColumns = `key, value, is_public, category, last_updated_by, created_at, updated_at`

func (d *DatabaseClient) ListSettings(publicOnly bool) ([]models.Setting, error) {
	query := `SELECT ` + settingColumns + ` FROM settings`
	if publicOnly {
		query += ` WHERE is_public`
	}
	query += ` ORDER BY key ASC`

	rows, err := d.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		setting, err := scanSetting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, *setting)
	}

	return settings, nil
}

func (d *DatabaseClient) GetSetting(key string) (*models.Setting, error) {
	row := d.db.QueryRow(`SELECT `+settingColumns+` FROM settings WHERE key = $1`, key)
	setting, err := scanSetting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("setting not found")
		}
		return nil, fmt.Errorf("failed to get setting: %w", err)
	}
	return setting, nil
}

func (d *DatabaseClient) CreateSetting(s *models.Setting) (*models.Setting, error) {
	row := d.db.QueryRow(`
		INSERT INTO settings (key, value, is_public, category, last_updated_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+settingColumns,
		s.Key, []byte(s.Value), s.IsPublic, s.Category, s.LastUpdatedBy,
	)
	created, err := scanSetting(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Validation("setting key already exists")
		}
		return nil, fmt.Errorf("failed to create setting: %w", err)
	}
	return created, nil
}

func (d *DatabaseClient) UpdateSetting(key string, value []byte, isPublic *bool, category *string, updatedBy uuid.UUID) (*models.Setting, error) {
	row := d.db.QueryRow(`
		UPDATE settings SET
			value = $1,
			is_public = COALESCE($2, is_public),
			category = COALESCE($3, category),
			last_updated_by = $4,
			updated_at = NOW()
		WHERE key = $5
		RETURNING `+settingColumns,
		value, isPublic, category, updatedBy, key,
	)
	setting, err := scanSetting(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("setting not found")
		}
		return nil, fmt.Errorf("failed to update setting: %w", err)
	}
	return setting, nil
}

func (d *DatabaseClient) DeleteSetting(key string) error {
	result, err := d.db.Exec(`DELETE FROM settings WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete setting: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return apperrors.NotFound("setting not found")
	}

	return nil
}

// UpsertSetting applies one bulk-update entry. Bulk writes are
// per-row upserts; validation happens up front in the handler.
func (d *DatabaseClient) UpsertSetting(entry models.BulkSettingEntry, updatedBy uuid.UUID) error {
	_, err := d.db.Exec(`
		INSERT INTO settings (key, value, is_public, category, last_updated_by)
		VALUES ($1, $2, COALESCE($3, FALSE), $4, $5)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			is_public = COALESCE($3, settings.is_public),
			category = COALESCE($4, settings.category),
			last_updated_by = EXCLUDED.last_updated_by,
			updated_at = NOW()
	`, entry.Key, []byte(entry.Value), entry.IsPublic, entry.Category, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to upsert setting %s: %w", entry.Key, err)
	}
	return nil
}

func scanSetting(row rowScanner) (*models.Setting, error) {
	var s models.Setting
	var value sql.NullString
	err := row.Scan(&s.Key, &value, &s.IsPublic, &s.Category, &s.LastUpdatedBy, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if value.Valid {
		s.Value = []byte(value.String)
	}
	return &s, nil
}
