package supabase_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanitech-backend/internal/apperrors"
	"nanitech-backend/internal/models"
)

var settingCols = []string{
	"key", "value", "is_public", "category", "last_updated_by", "created_at", "updated_at",
}

func settingRow(key string, value string, isPublic bool) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(settingCols).AddRow(key, value, isPublic, nil, nil, now, now)
}

func TestListSettings_PublicOnlyFiltersRows(t *testing.T) {
	client, mock := setupMockDB(t)

	mock.ExpectQuery(`SELECT (.+) FROM settings WHERE is_public ORDER BY key ASC`).
		WillReturnRows(settingRow("site.title", `"NaniTech"`, true))

	settings, err := client.ListSettings(true)
	require.NoError(t, err)
	require.Len(t, settings, 1)
	assert.Equal(t, "site.title", settings[0].Key)
	assert.True(t, settings[0].IsPublic)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSetting_DuplicateKeyIsValidationError(t *testing.T) {
	client, mock := setupMockDB(t)

	mock.ExpectQuery(`INSERT INTO settings`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := client.CreateSetting(&models.Setting{
		Key:   "site.title",
		Value: []byte(`"NaniTech"`),
	})
	require.Error(t, err)

	appErr := apperrors.From(err)
	assert.Equal(t, 400, appErr.StatusCode)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSetting_MissingKeyIsNotFound(t *testing.T) {
	client, mock := setupMockDB(t)

	mock.ExpectQuery(`UPDATE settings SET`).
		WillReturnRows(sqlmock.NewRows(settingCols))

	_, err := client.UpdateSetting("missing.key", []byte(`1`), nil, nil, uuid.New())
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.From(err).StatusCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSetting_NotFoundWhenNoRows(t *testing.T) {
	client, mock := setupMockDB(t)

	mock.ExpectExec(`DELETE FROM settings WHERE key = \$1`).
		WithArgs("missing.key").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := client.DeleteSetting("missing.key")
	require.Error(t, err)
	assert.Equal(t, 404, apperrors.From(err).StatusCode)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSetting_WritesRow(t *testing.T) {
	client, mock := setupMockDB(t)

	mock.ExpectExec(`INSERT INTO settings (.+) ON CONFLICT \(key\) DO UPDATE`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := client.UpsertSetting(models.BulkSettingEntry{
		Key:   "booking.enabled",
		Value: []byte(`true`),
	}, uuid.New())
	require.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertSetting_SurfacesDatabaseError(t *testing.T) {
	client, mock := setupMockDB(t)

	mock.ExpectExec(`INSERT INTO settings`).
		WillReturnError(fmt.Errorf("connection reset"))

	err := client.UpsertSetting(models.BulkSettingEntry{
		Key:   "booking.enabled",
		Value: []byte(`true`),
	}, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to upsert setting")

	assert.NoError(t, mock.ExpectationsWereMet())
}
