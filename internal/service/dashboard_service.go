package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
)

type trackingMonthReader interface {
	FindByCreatorAndMonth(ctx context.Context, creatorID, month string) (*models.MonthlyTracking, error)
}

type rateLister interface {
	ListRates(ctx context.Context) ([]models.VideoRate, error)
}

type packageLister interface {
	ListPackages(ctx context.Context) ([]models.PackageDefinition, error)
}

// DashboardService composes the creator's monthly overview: the tracking
// record, its payout breakdown and the quota summary. Responses are cached
// per creator and month; writes against the tracking invalidate the entry.
type DashboardService struct {
	trackings trackingMonthReader
	rates     rateLister
	packages  packageLister
	payouts   *PayoutService
	cache     *CacheService
	logger    *zap.Logger
	cacheTTL  time.Duration
	now       func() time.Time
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Trackings trackingMonthReader
	Rates     rateLister
	Packages  packageLister
	Payouts   *PayoutService
	Cache     *CacheService
	Logger    *zap.Logger
	CacheTTL  time.Duration
	Now       func() time.Time
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &DashboardService{
		trackings: params.Trackings,
		rates:     params.Rates,
		packages:  params.Packages,
		payouts:   params.Payouts,
		cache:     params.Cache,
		logger:    logger,
		cacheTTL:  ttl,
		now:       now,
	}
}

// CreatorOverview returns the dashboard payload for a creator and month. An
// empty month defaults to the current cycle.
func (s *DashboardService) CreatorOverview(ctx context.Context, creatorID, month string) (*models.CreatorDashboard, error) {
	if month == "" {
		month = s.now().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid month %q, expected YYYY-MM", month))
	}

	cacheKey := fmt.Sprintf("dashboard:creator:%s:%s", creatorID, month)
	if s.cache.Enabled() {
		var cached models.CreatorDashboard
		if s.cache.Get(ctx, cacheKey, &cached) {
			return &cached, nil
		}
	}

	tracking, err := s.trackings.FindByCreatorAndMonth(ctx, creatorID, month)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no tracking for month %s", month))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tracking")
	}

	rates, err := s.rates.ListRates(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list video rates")
	}
	credits, err := s.monthlyCredits(ctx, tracking.PackageTier)
	if err != nil {
		return nil, err
	}

	dashboard := &models.CreatorDashboard{
		Tracking: tracking,
		Payout:   s.payouts.Calculate(tracking.Delivered, rates, credits),
		Summary:  s.payouts.Summarize(tracking.Quotas, tracking.Delivered),
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, cacheKey, dashboard, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return dashboard, nil
}

func (s *DashboardService) monthlyCredits(ctx context.Context, tier int) (float64, error) {
	packages, err := s.packages.ListPackages(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list packages")
	}
	for _, pkg := range packages {
		if pkg.Tier == tier {
			return pkg.MonthlyCredits, nil
		}
	}
	// A tracking can outlive a retired tier; the payout then carries no flat credits.
	s.logger.Warn("package tier missing for tracking", zap.Int("tier", tier))
	return 0, nil
}
