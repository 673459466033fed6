package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
)

func creatorRows(startDate time.Time) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "handle", "full_name", "email", "instagram_url", "tiktok_url", "bio",
		"package_tier", "mix_name", "status", "start_date", "created_at", "updated_at",
	}).AddRow("cr-1", "user-1", "retro_jane", "Jane Doe", "jane@example.com", "", "", "",
		2, "balanced", models.CreatorStatusActive, startDate, now, now)
}

func TestCreatorRepositoryUpsertFromApplication(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCreatorRepository(db)

	startDate := time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO creators`).
		WithArgs(sqlmock.AnyArg(), "user-1", "retro_jane", "Jane Doe", "jane@example.com",
			"", "", "", 2, "balanced", models.CreatorStatusActive, startDate, sqlmock.AnyArg()).
		WillReturnRows(creatorRows(startDate))

	app := &models.CreatorApplication{
		UserID:      "user-1",
		Handle:      "retro_jane",
		FullName:    "Jane Doe",
		Email:       "jane@example.com",
		PackageTier: 2,
		MixName:     "balanced",
	}
	creator, err := repo.UpsertFromApplication(context.Background(), app, models.CreatorStatusActive, startDate)
	require.NoError(t, err)
	assert.Equal(t, "cr-1", creator.ID)
	assert.Equal(t, models.CreatorStatusActive, creator.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatorRepositoryUpsertPreservesExistingRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCreatorRepository(db)

	// The conflict update path returns the pre-existing row: its id and start
	// date survive the re-approval.
	originalStart := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO creators`).
		WillReturnRows(creatorRows(originalStart))

	creator, err := repo.UpsertFromApplication(context.Background(), &models.CreatorApplication{
		UserID:      "user-1",
		Handle:      "retro_jane",
		FullName:    "Jane Doe",
		Email:       "jane@example.com",
		PackageTier: 2,
		MixName:     "balanced",
	}, models.CreatorStatusActive, time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "cr-1", creator.ID)
	assert.Equal(t, originalStart, creator.StartDate.UTC())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatorRepositoryFindByUserID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCreatorRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM creators WHERE user_id = \$1`).
		WithArgs("user-1").
		WillReturnRows(creatorRows(time.Now()))

	creator, err := repo.FindByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", creator.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
