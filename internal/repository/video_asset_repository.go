package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
)

// VideoAssetRepository handles persistence of uploaded videos.
type VideoAssetRepository struct {
	db *sqlx.DB
}

// NewVideoAssetRepository constructs the repository.
func NewVideoAssetRepository(db *sqlx.DB) *VideoAssetRepository {
	return &VideoAssetRepository{db: db}
}

const videoAssetColumns = `id, tracking_id, creator_id, video_type, title, storage_key, status, review_notes, uploaded_at, reviewed_at`

// FindByID returns a video asset by its id.
func (r *VideoAssetRepository) FindByID(ctx context.Context, id string) (*models.VideoAsset, error) {
	query := fmt.Sprintf(`SELECT %s FROM video_assets WHERE id = $1`, videoAssetColumns)
	var asset models.VideoAsset
	if err := r.db.GetContext(ctx, &asset, query, id); err != nil {
		return nil, err
	}
	return &asset, nil
}

// ListByTracking returns every asset of a tracking, newest upload first.
func (r *VideoAssetRepository) ListByTracking(ctx context.Context, trackingID string) ([]models.VideoAsset, error) {
	query := fmt.Sprintf(`SELECT %s FROM video_assets WHERE tracking_id = $1 ORDER BY uploaded_at DESC`, videoAssetColumns)
	var assets []models.VideoAsset
	if err := r.db.SelectContext(ctx, &assets, query, trackingID); err != nil {
		return nil, fmt.Errorf("list video assets: %w", err)
	}
	return assets, nil
}

// Create persists a new video asset.
func (r *VideoAssetRepository) Create(ctx context.Context, asset *models.VideoAsset) error {
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	if asset.UploadedAt.IsZero() {
		asset.UploadedAt = time.Now().UTC()
	}
	if asset.Status == "" {
		asset.Status = models.VideoAssetStatusPending
	}
	const query = `INSERT INTO video_assets (id, tracking_id, creator_id, video_type, title, storage_key, status, review_notes, uploaded_at)
        VALUES (:id, :tracking_id, :creator_id, :video_type, :title, :storage_key, :status, :review_notes, :uploaded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, asset); err != nil {
		return fmt.Errorf("create video asset: %w", err)
	}
	return nil
}

// UpdateStatus applies a review verdict to an asset.
func (r *VideoAssetRepository) UpdateStatus(ctx context.Context, id string, status models.VideoAssetStatus, notes string, reviewedAt time.Time) error {
	const query = `UPDATE video_assets SET status = $2, review_notes = $3, reviewed_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, notes, reviewedAt); err != nil {
		return fmt.Errorf("update video asset status: %w", err)
	}
	return nil
}
