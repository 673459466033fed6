package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
)

type fakeTrackingRepo struct {
	tracking   *models.MonthlyTracking
	findErr    error
	list       []models.MonthlyTracking
	lastStatus models.PaymentStatus
	lastPaidAt *time.Time
	setCalls   int
}

func (f *fakeTrackingRepo) FindByID(context.Context, string) (*models.MonthlyTracking, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.tracking, nil
}

func (f *fakeTrackingRepo) FindByCreatorAndMonth(context.Context, string, string) (*models.MonthlyTracking, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.tracking, nil
}

func (f *fakeTrackingRepo) ListByCreator(context.Context, string) ([]models.MonthlyTracking, error) {
	return f.list, nil
}

func (f *fakeTrackingRepo) SetPaymentStatus(_ context.Context, _ string, status models.PaymentStatus, paidAt *time.Time) error {
	f.setCalls++
	f.lastStatus = status
	f.lastPaidAt = paidAt
	return nil
}

func TestTrackingGetNotFound(t *testing.T) {
	svc := NewTrackingService(&fakeTrackingRepo{findErr: sql.ErrNoRows}, nil, nil)

	_, err := svc.Get(context.Background(), "trk-1", "")

	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestTrackingGetScopedToOwner(t *testing.T) {
	repo := &fakeTrackingRepo{tracking: &models.MonthlyTracking{ID: "trk-1", CreatorID: "cr-1"}}
	svc := NewTrackingService(repo, nil, nil)

	tracking, err := svc.Get(context.Background(), "trk-1", "cr-1")
	require.NoError(t, err)
	assert.Equal(t, "cr-1", tracking.CreatorID)

	// Another creator's scope must not read this tracking.
	_, err = svc.Get(context.Background(), "trk-1", "cr-2")
	assert.True(t, appErrors.Is(err, appErrors.ErrForbidden))

	// The empty scope is the admin read path.
	_, err = svc.Get(context.Background(), "trk-1", "")
	assert.NoError(t, err)
}

func TestTrackingListByCreator(t *testing.T) {
	repo := &fakeTrackingRepo{list: []models.MonthlyTracking{{ID: "trk-2", Month: "2026-05"}, {ID: "trk-1", Month: "2026-04"}}}
	svc := NewTrackingService(repo, nil, nil)

	trackings, err := svc.ListByCreator(context.Background(), "cr-1")

	require.NoError(t, err)
	require.Len(t, trackings, 2)
	assert.Equal(t, "2026-05", trackings[0].Month)
}

func TestTrackingMarkPaid(t *testing.T) {
	repo := &fakeTrackingRepo{tracking: &models.MonthlyTracking{
		ID:            "trk-1",
		CreatorID:     "cr-1",
		PaymentStatus: models.PaymentStatusInProgress,
	}}
	cache := &fakeInvalidator{}
	svc := NewTrackingService(repo, cache, nil)

	paid, err := svc.MarkPaid(context.Background(), "trk-1")

	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPaid, paid.PaymentStatus)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, 1, repo.setCalls)
	assert.Equal(t, models.PaymentStatusPaid, repo.lastStatus)
	require.NotNil(t, repo.lastPaidAt)
	require.Len(t, cache.patterns, 1)
	assert.Equal(t, "dashboard:creator:cr-1:*", cache.patterns[0])
}

func TestTrackingMarkPaidTwiceRefused(t *testing.T) {
	repo := &fakeTrackingRepo{tracking: &models.MonthlyTracking{
		ID:            "trk-1",
		PaymentStatus: models.PaymentStatusPaid,
	}}
	svc := NewTrackingService(repo, nil, nil)

	_, err := svc.MarkPaid(context.Background(), "trk-1")

	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidState))
	assert.Zero(t, repo.setCalls)
}
