package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
	appErrors "github.com/cyberkingz/retromuscle-affiliate-api/pkg/errors"
)

type applicationIntakeRepo interface {
	FindByUserID(ctx context.Context, userID string) (*models.CreatorApplication, error)
	SaveDraft(ctx context.Context, app *models.CreatorApplication) (*models.CreatorApplication, error)
	Submit(ctx context.Context, userID string) (*models.CreatorApplication, error)
	ListByStatus(ctx context.Context, status models.ApplicationStatus, page, pageSize int) ([]models.CreatorApplication, int, error)
}

// SaveApplicationRequest is the applicant's draft payload.
type SaveApplicationRequest struct {
	UserID       string `json:"-" validate:"required"`
	Handle       string `json:"handle" validate:"required"`
	FullName     string `json:"full_name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	InstagramURL string `json:"instagram_url"`
	TikTokURL    string `json:"tiktok_url"`
	Bio          string `json:"bio"`
	PackageTier  int    `json:"package_tier" validate:"required"`
	MixName      string `json:"mix_name" validate:"required"`
}

// ApplicationListRequest filters the admin application queue.
type ApplicationListRequest struct {
	Status   models.ApplicationStatus
	Page     int
	PageSize int
}

// ApplicationService handles the applicant side of the funnel: draft saves,
// submission and self-lookup.
type ApplicationService struct {
	applications applicationIntakeRepo
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(applications applicationIntakeRepo, validate *validator.Validate, logger *zap.Logger) *ApplicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{applications: applications, validator: validate, logger: logger}
}

// Get returns the caller's application.
func (s *ApplicationService) Get(ctx context.Context, userID string) (*models.CreatorApplication, error) {
	app, err := s.applications.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	return app, nil
}

// SaveDraft creates or updates the caller's draft application. Applications
// that already left the draft state cannot be edited.
func (s *ApplicationService) SaveDraft(ctx context.Context, req SaveApplicationRequest) (*models.CreatorApplication, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}

	existing, err := s.applications.FindByUserID(ctx, req.UserID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if existing != nil && existing.Status != models.ApplicationStatusDraft {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "application already submitted")
	}

	app := &models.CreatorApplication{
		UserID:       req.UserID,
		Handle:       req.Handle,
		FullName:     req.FullName,
		Email:        req.Email,
		InstagramURL: req.InstagramURL,
		TikTokURL:    req.TikTokURL,
		Bio:          req.Bio,
		PackageTier:  req.PackageTier,
		MixName:      req.MixName,
		Status:       models.ApplicationStatusDraft,
	}
	saved, err := s.applications.SaveDraft(ctx, app)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save application")
	}
	return saved, nil
}

// Submit moves the caller's draft into the review queue.
func (s *ApplicationService) Submit(ctx context.Context, userID string) (*models.CreatorApplication, error) {
	existing, err := s.applications.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if existing.Status != models.ApplicationStatusDraft {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "only a draft application can be submitted")
	}

	submitted, err := s.applications.Submit(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit application")
	}
	s.logger.Info("application submitted", zap.String("user_id", userID))
	return submitted, nil
}

// List returns applications in the given status for the admin queue.
func (s *ApplicationService) List(ctx context.Context, req ApplicationListRequest) ([]models.CreatorApplication, *models.Pagination, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	status := req.Status
	if status == "" {
		status = models.ApplicationStatusPendingReview
	}

	apps, total, err := s.applications.ListByStatus(ctx, status, page, size)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return apps, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}
