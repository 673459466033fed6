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

type trackingRepo interface {
	FindByID(ctx context.Context, id string) (*models.MonthlyTracking, error)
	FindByCreatorAndMonth(ctx context.Context, creatorID, month string) (*models.MonthlyTracking, error)
	ListByCreator(ctx context.Context, creatorID string) ([]models.MonthlyTracking, error)
	SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus, paidAt *time.Time) error
}

// TrackingService exposes monthly tracking reads and the payment transition.
type TrackingService struct {
	trackings trackingRepo
	cache     dashboardInvalidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewTrackingService constructs a TrackingService.
func NewTrackingService(trackings trackingRepo, cache dashboardInvalidator, logger *zap.Logger) *TrackingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrackingService{trackings: trackings, cache: cache, logger: logger, now: time.Now}
}

// Get returns a tracking by id. A non-empty callerCreatorID restricts the
// read to that creator's own trackings; admins pass the empty string.
func (s *TrackingService) Get(ctx context.Context, id, callerCreatorID string) (*models.MonthlyTracking, error) {
	tracking, err := s.trackings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "tracking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load tracking")
	}
	if callerCreatorID != "" && tracking.CreatorID != callerCreatorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "tracking belongs to another creator")
	}
	return tracking, nil
}

// ListByCreator returns a creator's trackings, newest month first.
func (s *TrackingService) ListByCreator(ctx context.Context, creatorID string) ([]models.MonthlyTracking, error) {
	trackings, err := s.trackings.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list trackings")
	}
	return trackings, nil
}

// MarkPaid transitions a tracking to PAID and stamps the payment time. Only
// an in-progress tracking can be paid; paying twice is refused.
func (s *TrackingService) MarkPaid(ctx context.Context, id string) (*models.MonthlyTracking, error) {
	tracking, err := s.Get(ctx, id, "")
	if err != nil {
		return nil, err
	}
	if tracking.PaymentStatus == models.PaymentStatusPaid {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "tracking already paid")
	}

	paidAt := s.now().UTC()
	if err := s.trackings.SetPaymentStatus(ctx, id, models.PaymentStatusPaid, &paidAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update payment status")
	}
	s.invalidateDashboard(ctx, tracking.CreatorID)

	tracking.PaymentStatus = models.PaymentStatusPaid
	tracking.PaidAt = &paidAt
	s.logger.Info("tracking paid", zap.String("tracking_id", id), zap.String("creator_id", tracking.CreatorID))
	return tracking, nil
}

func (s *TrackingService) invalidateDashboard(ctx context.Context, creatorID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("dashboard:creator:%s:*", creatorID)); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.String("creator_id", creatorID), zap.Error(err))
	}
}
