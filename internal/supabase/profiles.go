package supabase

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/models"
)

const profileColumns = `id, role, full_name, avatar_url, is_active, created_at, updated_at`

func (d *DatabaseClient) GetProfileByUserID(userID uuid.UUID) (*models.UserProfile, error) {
	row := d.db.QueryRow(`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, userID)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.Authentication("no profile exists for this user")
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return profile, nil
}

func (d *DatabaseClient) ListProfiles(page, limit int) ([]models.UserProfile, int, error) {
	var total int
	if err := d.db.QueryRow(`SELECT COUNT(*) FROM profiles`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count profiles: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	rows, err := d.db.Query(
		`SELECT `+profileColumns+` FROM profiles ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, (page-1)*limit,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.UserProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *profile)
	}

	return profiles, total, nil
}

func (d *DatabaseClient) CreateProfile(userID uuid.UUID, role, fullName string) (*models.UserProfile, error) {
	row := d.db.QueryRow(`
		INSERT INTO profiles (id, role, full_name)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING `+profileColumns,
		userID, role, fullName,
	)
	profile, err := scanProfile(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict("profile already exists for this user")
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return profile, nil
}

func (d *DatabaseClient) UpdateProfileRole(userID uuid.UUID, role string) (*models.UserProfile, error) {
	row := d.db.QueryRow(`
		UPDATE profiles SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+profileColumns,
		role, userID,
	)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return profile, nil
}

// SetProfileActive soft-deactivates or reactivates a profile.
// Profiles are never hard-deleted.
func (d *DatabaseClient) SetProfileActive(userID uuid.UUID, active bool) (*models.UserProfile, error) {
	row := d.db.QueryRow(`
		UPDATE profiles SET is_active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+profileColumns,
		active, userID,
	)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

func scanProfile(row rowScanner) (*models.UserProfile, error) {
	var p models.UserProfile
	err := row.Scan(&p.ID, &p.Role, &p.FullName, &p.AvatarURL, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
