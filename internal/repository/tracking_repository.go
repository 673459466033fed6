package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
)

// TrackingRepository handles persistence of monthly tracking records.
type TrackingRepository struct {
	db      *sqlx.DB
	metrics QueryObserver
}

// NewTrackingRepository constructs the repository.
func NewTrackingRepository(db *sqlx.DB) *TrackingRepository {
	return &TrackingRepository{db: db}
}

// WithMetrics attaches a query timing observer and returns the repository.
func (r *TrackingRepository) WithMetrics(m QueryObserver) *TrackingRepository {
	r.metrics = m
	return r
}

const trackingColumns = `id, creator_id, month, package_tier, quota_total, mix_name, quotas, delivered,
        deadline, payment_status, paid_at, created_at, updated_at`

// FindByID returns a tracking by its id.
func (r *TrackingRepository) FindByID(ctx context.Context, id string) (*models.MonthlyTracking, error) {
	defer observeQuery(r.metrics, "tracking_find_by_id", time.Now())
	query := fmt.Sprintf(`SELECT %s FROM monthly_trackings WHERE id = $1`, trackingColumns)
	var tracking models.MonthlyTracking
	if err := r.db.GetContext(ctx, &tracking, query, id); err != nil {
		return nil, err
	}
	return &tracking, nil
}

// FindByCreatorAndMonth returns the tracking for a creator's cycle.
func (r *TrackingRepository) FindByCreatorAndMonth(ctx context.Context, creatorID, month string) (*models.MonthlyTracking, error) {
	defer observeQuery(r.metrics, "tracking_find_by_creator_month", time.Now())
	query := fmt.Sprintf(`SELECT %s FROM monthly_trackings WHERE creator_id = $1 AND month = $2`, trackingColumns)
	var tracking models.MonthlyTracking
	if err := r.db.GetContext(ctx, &tracking, query, creatorID, month); err != nil {
		return nil, err
	}
	return &tracking, nil
}

// ListByCreator returns a creator's trackings, newest month first.
func (r *TrackingRepository) ListByCreator(ctx context.Context, creatorID string) ([]models.MonthlyTracking, error) {
	defer observeQuery(r.metrics, "tracking_list_by_creator", time.Now())
	query := fmt.Sprintf(`SELECT %s FROM monthly_trackings WHERE creator_id = $1 ORDER BY month DESC`, trackingColumns)
	var trackings []models.MonthlyTracking
	if err := r.db.SelectContext(ctx, &trackings, query, creatorID); err != nil {
		return nil, fmt.Errorf("list trackings: %w", err)
	}
	return trackings, nil
}

// Create inserts a tracking for a creator's month. The table carries a unique
// constraint on (creator_id, month); a concurrent insert for the same cycle
// loses the conflict and the surviving row is returned, so at most one
// tracking ever exists per creator and month.
func (r *TrackingRepository) Create(ctx context.Context, tracking *models.MonthlyTracking) (*models.MonthlyTracking, error) {
	defer observeQuery(r.metrics, "tracking_create", time.Now())
	if tracking.ID == "" {
		tracking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	tracking.CreatedAt = now
	tracking.UpdatedAt = now

	const query = `INSERT INTO monthly_trackings
        (id, creator_id, month, package_tier, quota_total, mix_name, quotas, delivered, deadline, payment_status, created_at, updated_at)
        VALUES (:id, :creator_id, :month, :package_tier, :quota_total, :mix_name, :quotas, :delivered, :deadline, :payment_status, :created_at, :updated_at)
        ON CONFLICT (creator_id, month) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, tracking); err != nil {
		return nil, fmt.Errorf("create tracking: %w", err)
	}
	return r.FindByCreatorAndMonth(ctx, tracking.CreatorID, tracking.Month)
}

// SetPaymentStatus updates the payment state of a tracking.
func (r *TrackingRepository) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus, paidAt *time.Time) error {
	defer observeQuery(r.metrics, "tracking_set_payment_status", time.Now())
	const query = `UPDATE monthly_trackings SET payment_status = $2, paid_at = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, paidAt, time.Now().UTC()); err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}

// RecountDelivered rebuilds the delivered map of a tracking from its approved
// video assets in a single statement, then returns the refreshed row. The
// delivered column is a derived cache, never an independent ledger.
func (r *TrackingRepository) RecountDelivered(ctx context.Context, trackingID string) (*models.MonthlyTracking, error) {
	defer observeQuery(r.metrics, "tracking_recount_delivered", time.Now())
	const query = `UPDATE monthly_trackings SET delivered = (
            SELECT COALESCE(jsonb_object_agg(video_type, cnt), '{}'::jsonb)
            FROM (
                SELECT video_type, COUNT(*) AS cnt
                FROM video_assets
                WHERE tracking_id = $1 AND status = $2
                GROUP BY video_type
            ) counts
        ), updated_at = $3
        WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, trackingID, models.VideoAssetStatusApproved, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("recount delivered: %w", err)
	}
	return r.FindByID(ctx, trackingID)
}
