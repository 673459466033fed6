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

type videoAssetRepo interface {
	FindByID(ctx context.Context, id string) (*models.VideoAsset, error)
	ListByTracking(ctx context.Context, trackingID string) ([]models.VideoAsset, error)
	Create(ctx context.Context, asset *models.VideoAsset) error
	UpdateStatus(ctx context.Context, id string, status models.VideoAssetStatus, notes string, reviewedAt time.Time) error
}

type videoTrackingRepo interface {
	FindByID(ctx context.Context, id string) (*models.MonthlyTracking, error)
	RecountDelivered(ctx context.Context, trackingID string) (*models.MonthlyTracking, error)
}

// UploadVideoRequest registers an uploaded video against a tracking.
// CallerCreatorID is the caller's creators-table id; empty means an admin
// uploading on a creator's behalf.
type UploadVideoRequest struct {
	TrackingID      string           `json:"tracking_id" validate:"required"`
	CallerCreatorID string           `json:"-"`
	VideoType       models.VideoType `json:"video_type" validate:"required"`
	Title           string           `json:"title"`
	StorageKey      string           `json:"storage_key" validate:"required"`
}

// ReviewVideoRequest applies an admin verdict to an uploaded video.
type ReviewVideoRequest struct {
	AssetID     string                  `json:"-" validate:"required"`
	Status      models.VideoAssetStatus `json:"status" validate:"required,oneof=APPROVED REJECTED"`
	ReviewNotes string                  `json:"review_notes"`
}

// VideoService handles video asset intake and review. Delivered counts on the
// parent tracking are a derived cache of approved assets, so every status
// flip is followed by a recount.
type VideoService struct {
	assets    videoAssetRepo
	trackings videoTrackingRepo
	cache     dashboardInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewVideoService constructs a VideoService.
func NewVideoService(assets videoAssetRepo, trackings videoTrackingRepo, cache dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *VideoService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VideoService{assets: assets, trackings: trackings, cache: cache, validator: validate, logger: logger, now: time.Now}
}

// Upload registers a pending video asset. The target tracking must exist and,
// for creator callers, belong to the caller; the asset is stamped with the
// tracking's creator id so delivered recounts stay consistent.
func (s *VideoService) Upload(ctx context.Context, req UploadVideoRequest) (*models.VideoAsset, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid upload payload")
	}
	if !req.VideoType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown video type %q", req.VideoType))
	}

	tracking, err := s.loadOwnedTracking(ctx, req.TrackingID, req.CallerCreatorID)
	if err != nil {
		return nil, err
	}

	asset := &models.VideoAsset{
		TrackingID: tracking.ID,
		CreatorID:  tracking.CreatorID,
		VideoType:  req.VideoType,
		Title:      req.Title,
		StorageKey: req.StorageKey,
		Status:     models.VideoAssetStatusPending,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save video asset")
	}
	return asset, nil
}

// ListByTracking returns every asset uploaded for a tracking. A non-empty
// callerCreatorID restricts the read to the caller's own tracking.
func (s *VideoService) ListByTracking(ctx context.Context, trackingID, callerCreatorID string) ([]models.VideoAsset, error) {
	if _, err := s.loadOwnedTracking(ctx, trackingID, callerCreatorID); err != nil {
		return nil, err
	}
	assets, err := s.assets.ListByTracking(ctx, trackingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list video assets")
	}
	return assets, nil
}

func (s *VideoService) loadOwnedTracking(ctx context.Context, trackingID, callerCreatorID string) (*models.MonthlyTracking, error) {
	tracking, err := s.trackings.FindByID(ctx, trackingID)
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

// Review approves or rejects an uploaded video, then recounts the parent
// tracking's delivered map from the approved rows.
func (s *VideoService) Review(ctx context.Context, req ReviewVideoRequest) (*models.VideoAsset, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}

	asset, err := s.assets.FindByID(ctx, req.AssetID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "video asset not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load video asset")
	}

	reviewedAt := s.now().UTC()
	if err := s.assets.UpdateStatus(ctx, asset.ID, req.Status, req.ReviewNotes, reviewedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update video status")
	}

	tracking, err := s.trackings.RecountDelivered(ctx, asset.TrackingID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to recount delivered videos")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, fmt.Sprintf("dashboard:creator:%s:*", tracking.CreatorID)); err != nil {
			s.logger.Warn("dashboard cache invalidation failed", zap.String("creator_id", tracking.CreatorID), zap.Error(err))
		}
	}

	asset.Status = req.Status
	asset.ReviewNotes = req.ReviewNotes
	asset.ReviewedAt = &reviewedAt
	s.logger.Info("video reviewed",
		zap.String("asset_id", asset.ID),
		zap.String("tracking_id", asset.TrackingID),
		zap.String("status", string(req.Status)),
	)
	return asset, nil
}
