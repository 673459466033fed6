package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
)

type fakeIntakeRepo struct {
	app        *models.CreatorApplication
	findErr    error
	saved      *models.CreatorApplication
	submits    int
	listStatus models.ApplicationStatus
	listPage   int
	listSize   int
}

func (f *fakeIntakeRepo) FindByUserID(context.Context, string) (*models.CreatorApplication, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.app, nil
}

func (f *fakeIntakeRepo) SaveDraft(_ context.Context, app *models.CreatorApplication) (*models.CreatorApplication, error) {
	f.saved = app
	saved := *app
	saved.ID = "app-1"
	return &saved, nil
}

func (f *fakeIntakeRepo) Submit(_ context.Context, userID string) (*models.CreatorApplication, error) {
	f.submits++
	submitted := *f.app
	submitted.Status = models.ApplicationStatusPendingReview
	return &submitted, nil
}

func (f *fakeIntakeRepo) ListByStatus(_ context.Context, status models.ApplicationStatus, page, pageSize int) ([]models.CreatorApplication, int, error) {
	f.listStatus = status
	f.listPage = page
	f.listSize = pageSize
	return []models.CreatorApplication{*f.app}, 1, nil
}

func validSaveRequest() SaveApplicationRequest {
	return SaveApplicationRequest{
		UserID:      "user-1",
		Handle:      "retro_jane",
		FullName:    "Jane Doe",
		Email:       "jane@example.com",
		PackageTier: 2,
		MixName:     "balanced",
	}
}

func TestApplicationGetNotFound(t *testing.T) {
	svc := NewApplicationService(&fakeIntakeRepo{findErr: sql.ErrNoRows}, nil, nil)

	_, err := svc.Get(context.Background(), "user-1")

	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestApplicationSaveDraftNew(t *testing.T) {
	repo := &fakeIntakeRepo{findErr: sql.ErrNoRows}
	svc := NewApplicationService(repo, nil, nil)

	saved, err := svc.SaveDraft(context.Background(), validSaveRequest())

	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusDraft, saved.Status)
	assert.Equal(t, "retro_jane", repo.saved.Handle)
}

func TestApplicationSaveDraftRejectsInvalidPayload(t *testing.T) {
	svc := NewApplicationService(&fakeIntakeRepo{findErr: sql.ErrNoRows}, nil, nil)

	req := validSaveRequest()
	req.Email = "not-an-email"
	_, err := svc.SaveDraft(context.Background(), req)

	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestApplicationSaveDraftRefusedAfterSubmission(t *testing.T) {
	repo := &fakeIntakeRepo{app: &models.CreatorApplication{UserID: "user-1", Status: models.ApplicationStatusPendingReview}}
	svc := NewApplicationService(repo, nil, nil)

	_, err := svc.SaveDraft(context.Background(), validSaveRequest())

	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidState))
}

func TestApplicationSubmitDraft(t *testing.T) {
	repo := &fakeIntakeRepo{app: &models.CreatorApplication{UserID: "user-1", Status: models.ApplicationStatusDraft}}
	svc := NewApplicationService(repo, nil, nil)

	submitted, err := svc.Submit(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPendingReview, submitted.Status)
	assert.Equal(t, 1, repo.submits)
}

func TestApplicationSubmitNonDraftRefused(t *testing.T) {
	repo := &fakeIntakeRepo{app: &models.CreatorApplication{UserID: "user-1", Status: models.ApplicationStatusApproved}}
	svc := NewApplicationService(repo, nil, nil)

	_, err := svc.Submit(context.Background(), "user-1")

	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidState))
	assert.Zero(t, repo.submits)
}

func TestApplicationListDefaults(t *testing.T) {
	repo := &fakeIntakeRepo{app: &models.CreatorApplication{UserID: "user-1"}}
	svc := NewApplicationService(repo, nil, nil)

	apps, pagination, err := svc.List(context.Background(), ApplicationListRequest{})

	require.NoError(t, err)
	assert.Len(t, apps, 1)
	assert.Equal(t, models.ApplicationStatusPendingReview, repo.listStatus)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestApplicationListClampsPageSize(t *testing.T) {
	repo := &fakeIntakeRepo{app: &models.CreatorApplication{}}
	svc := NewApplicationService(repo, nil, nil)

	_, _, err := svc.List(context.Background(), ApplicationListRequest{Page: -5, PageSize: 500})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.listPage)
	assert.Equal(t, 20, repo.listSize)
}
