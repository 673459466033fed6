package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
)

type fakeRateLister struct {
	rates []models.VideoRate
}

func (f *fakeRateLister) ListRates(context.Context) ([]models.VideoRate, error) {
	return f.rates, nil
}

type fakePackageLister struct {
	packages []models.PackageDefinition
}

func (f *fakePackageLister) ListPackages(context.Context) ([]models.PackageDefinition, error) {
	return f.packages, nil
}

type memoryCacheRepo struct {
	entries map[string][]byte
	gets    int
	sets    int
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{entries: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	m.gets++
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.sets++
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(_ context.Context, _ string) error {
	m.entries = map[string][]byte{}
	return nil
}

func dashboardTracking() *models.MonthlyTracking {
	return &models.MonthlyTracking{
		ID:          "trk-1",
		CreatorID:   "cr-1",
		Month:       "2026-04",
		PackageTier: 2,
		QuotaTotal:  4,
		Quotas: models.VideoCounts{
			models.VideoTypeOOTD:     2,
			models.VideoTypeTraining: 2,
		},
		Delivered: models.VideoCounts{
			models.VideoTypeOOTD: 1,
		},
		PaymentStatus: models.PaymentStatusInProgress,
	}
}

func dashboardFixture(trackings trackingMonthReader, cache *CacheService) *DashboardService {
	return NewDashboardService(DashboardServiceParams{
		Trackings: trackings,
		Rates:     &fakeRateLister{rates: []models.VideoRate{{VideoType: models.VideoTypeOOTD, Rate: 25}, {VideoType: models.VideoTypeTraining, Rate: 30}}},
		Packages:  &fakePackageLister{packages: []models.PackageDefinition{{Tier: 2, MonthlyVideos: 4, MonthlyCredits: 100}}},
		Payouts:   NewPayoutService(nil),
		Cache:     cache,
		Now:       func() time.Time { return time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC) },
	})
}

func TestDashboardOverview(t *testing.T) {
	svc := dashboardFixture(&fakeTrackingRepo{tracking: dashboardTracking()}, nil)

	dashboard, err := svc.CreatorOverview(context.Background(), "cr-1", "2026-04")

	require.NoError(t, err)
	assert.Equal(t, "trk-1", dashboard.Tracking.ID)
	assert.Equal(t, 100.0+25, dashboard.Payout.Total)
	assert.Equal(t, models.SummaryStatusPending, dashboard.Summary.Status)
	assert.Equal(t, "1 OOTD, 2 Training", dashboard.Summary.RemainingDetails)
}

func TestDashboardOverviewDefaultsToCurrentMonth(t *testing.T) {
	svc := dashboardFixture(&fakeTrackingRepo{tracking: dashboardTracking()}, nil)

	dashboard, err := svc.CreatorOverview(context.Background(), "cr-1", "")

	require.NoError(t, err)
	assert.Equal(t, "2026-04", dashboard.Tracking.Month)
}

func TestDashboardOverviewInvalidMonth(t *testing.T) {
	svc := dashboardFixture(&fakeTrackingRepo{tracking: dashboardTracking()}, nil)

	_, err := svc.CreatorOverview(context.Background(), "cr-1", "April 2026")

	assert.True(t, appErrors.Is(err, appErrors.ErrValidation))
}

func TestDashboardOverviewNoTracking(t *testing.T) {
	svc := dashboardFixture(&fakeTrackingRepo{findErr: sql.ErrNoRows}, nil)

	_, err := svc.CreatorOverview(context.Background(), "cr-1", "2026-04")

	assert.True(t, appErrors.Is(err, appErrors.ErrNotFound))
}

func TestDashboardOverviewUnknownTierDefaultsCreditsToZero(t *testing.T) {
	tracking := dashboardTracking()
	tracking.PackageTier = 9
	svc := dashboardFixture(&fakeTrackingRepo{tracking: tracking}, nil)

	dashboard, err := svc.CreatorOverview(context.Background(), "cr-1", "2026-04")

	require.NoError(t, err)
	assert.Equal(t, 0.0, dashboard.Payout.MonthlyCredits)
	assert.Equal(t, 25.0, dashboard.Payout.Total)
}

func TestDashboardOverviewCacheRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	cacheSvc := NewCacheService(repo, nil, time.Minute, nil, true)
	svc := dashboardFixture(&fakeTrackingRepo{tracking: dashboardTracking()}, cacheSvc)

	first, err := svc.CreatorOverview(context.Background(), "cr-1", "2026-04")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.sets)

	second, err := svc.CreatorOverview(context.Background(), "cr-1", "2026-04")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.sets, "second read must come from cache")
	assert.Equal(t, first.Payout.Total, second.Payout.Total)
	assert.Equal(t, first.Summary, second.Summary)
}
