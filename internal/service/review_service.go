package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
)

type applicationReviewRepo interface {
	FindByUserID(ctx context.Context, userID string) (*models.CreatorApplication, error)
	UpdateReview(ctx context.Context, userID string, status models.ApplicationStatus, notes string, reviewedAt time.Time) (*models.CreatorApplication, error)
}

type creatorProvisioner interface {
	UpsertFromApplication(ctx context.Context, app *models.CreatorApplication, status models.CreatorStatus, startDate time.Time) (*models.Creator, error)
}

type trackingProvisioner interface {
	FindByCreatorAndMonth(ctx context.Context, creatorID, month string) (*models.MonthlyTracking, error)
	Create(ctx context.Context, tracking *models.MonthlyTracking) (*models.MonthlyTracking, error)
}

type catalogReader interface {
	ListPackages(ctx context.Context) ([]models.PackageDefinition, error)
	ListMixes(ctx context.Context) ([]models.MixDefinition, error)
}

type dashboardInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// ReviewDecision is the admin's verdict on a pending application.
type ReviewDecision string

const (
	ReviewDecisionApproved ReviewDecision = "APPROVED"
	ReviewDecisionRejected ReviewDecision = "REJECTED"
)

// ReviewApplicationRequest carries the admin review payload.
type ReviewApplicationRequest struct {
	UserID      string         `json:"user_id" validate:"required"`
	Decision    ReviewDecision `json:"decision" validate:"required,oneof=APPROVED REJECTED"`
	ReviewNotes string         `json:"review_notes"`
}

// ReviewResult reports the outcome of a review. CreatorID and TrackingID are
// populated on the approval path only.
type ReviewResult struct {
	Application *models.CreatorApplication `json:"application"`
	CreatorID   string                     `json:"creator_id,omitempty"`
	TrackingID  string                     `json:"tracking_id,omitempty"`
}

// ReviewService drives the approval/rejection of creator applications. On
// approval it provisions (or reuses) a Creator and the first MonthlyTracking
// of the current cycle.
type ReviewService struct {
	applications applicationReviewRepo
	creators     creatorProvisioner
	trackings    trackingProvisioner
	catalog      catalogReader
	quotas       *QuotaService
	cache        dashboardInvalidator
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// ReviewServiceParams groups constructor dependencies.
type ReviewServiceParams struct {
	Applications applicationReviewRepo
	Creators     creatorProvisioner
	Trackings    trackingProvisioner
	Catalog      catalogReader
	Quotas       *QuotaService
	Cache        dashboardInvalidator
	Validator    *validator.Validate
	Logger       *zap.Logger
	Now          func() time.Time
}

// NewReviewService constructs a ReviewService.
func NewReviewService(params ReviewServiceParams) *ReviewService {
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &ReviewService{
		applications: params.Applications,
		creators:     params.Creators,
		trackings:    params.Trackings,
		catalog:      params.Catalog,
		quotas:       params.Quotas,
		cache:        params.Cache,
		validator:    validate,
		logger:       logger,
		now:          now,
	}
}

// Review applies an admin decision to the application belonging to userID.
//
// Rejection is allowed from any state and has no side effects beyond the
// status update. Approval refuses drafts, then provisions the creator and the
// current month's tracking; both provisioning steps are idempotent, so a
// repeated approval (or a retry after a partial failure) converges on the
// same creator and tracking ids.
func (s *ReviewService) Review(ctx context.Context, req ReviewApplicationRequest) (*ReviewResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	app, err := s.applications.FindByUserID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}

	reviewedAt := s.now().UTC()

	if req.Decision == ReviewDecisionRejected {
		updated, err := s.applications.UpdateReview(ctx, req.UserID, models.ApplicationStatusRejected, req.ReviewNotes, reviewedAt)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist rejection")
		}
		s.logger.Info("application rejected", zap.String("user_id", req.UserID))
		return &ReviewResult{Application: updated}, nil
	}

	if app.Status == models.ApplicationStatusDraft {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "cannot approve a draft application")
	}

	today := truncateToDate(s.now())
	creator, err := s.creators.UpsertFromApplication(ctx, app, models.CreatorStatusActive, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to provision creator")
	}

	month := today.Format("2006-01")
	tracking, err := s.ensureTracking(ctx, creator, app, month)
	if err != nil {
		return nil, err
	}

	updated, err := s.applications.UpdateReview(ctx, req.UserID, models.ApplicationStatusApproved, req.ReviewNotes, reviewedAt)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist approval")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, fmt.Sprintf("dashboard:creator:%s:*", creator.ID)); err != nil {
			s.logger.Warn("dashboard cache invalidation failed", zap.String("creator_id", creator.ID), zap.Error(err))
		}
	}

	s.logger.Info("application approved",
		zap.String("user_id", req.UserID),
		zap.String("creator_id", creator.ID),
		zap.String("tracking_id", tracking.ID),
		zap.String("month", month),
	)
	return &ReviewResult{Application: updated, CreatorID: creator.ID, TrackingID: tracking.ID}, nil
}

// ensureTracking returns the creator's tracking for month, creating it when
// absent. An existing tracking is reused verbatim so repeated approvals never
// provision a second one for the same month.
func (s *ReviewService) ensureTracking(ctx context.Context, creator *models.Creator, app *models.CreatorApplication, month string) (*models.MonthlyTracking, error) {
	existing, err := s.trackings.FindByCreatorAndMonth(ctx, creator.ID, month)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to look up tracking")
	}
	if existing != nil {
		return existing, nil
	}

	pkg, err := s.findPackage(ctx, app.PackageTier)
	if err != nil {
		return nil, err
	}
	mix, err := s.findMix(ctx, app.MixName)
	if err != nil {
		return nil, err
	}

	quotas, err := s.quotas.Allocate(pkg.MonthlyVideos, *mix)
	if err != nil {
		return nil, err
	}
	deadline, err := monthEnd(month)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute deadline")
	}

	tracking := &models.MonthlyTracking{
		CreatorID:     creator.ID,
		Month:         month,
		PackageTier:   pkg.Tier,
		QuotaTotal:    pkg.MonthlyVideos,
		MixName:       mix.Name,
		Quotas:        quotas,
		Delivered:     models.ZeroVideoCounts(),
		Deadline:      deadline,
		PaymentStatus: models.PaymentStatusInProgress,
	}
	created, err := s.trackings.Create(ctx, tracking)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create tracking")
	}
	return created, nil
}

func (s *ReviewService) findPackage(ctx context.Context, tier int) (*models.PackageDefinition, error) {
	packages, err := s.catalog.ListPackages(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list packages")
	}
	for i := range packages {
		if packages[i].Tier == tier {
			return &packages[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("package tier %d not found", tier))
}

func (s *ReviewService) findMix(ctx context.Context, name string) (*models.MixDefinition, error) {
	mixes, err := s.catalog.ListMixes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mixes")
	}
	for i := range mixes {
		if mixes[i].Name == name {
			return &mixes[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("mix %q not found", name))
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// monthEnd returns the last calendar day of a YYYY-MM month, handling
// variable month lengths and leap years.
func monthEnd(month string) (time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse month %q: %w", month, err)
	}
	return start.AddDate(0, 1, -1), nil
}
