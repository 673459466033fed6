package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
)

// ApplicationRepository handles persistence of creator applications.
type ApplicationRepository struct {
	db      *sqlx.DB
	metrics QueryObserver
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// WithMetrics attaches a query timing observer and returns the repository.
func (r *ApplicationRepository) WithMetrics(m QueryObserver) *ApplicationRepository {
	r.metrics = m
	return r
}

const applicationColumns = `id, user_id, handle, full_name, email, instagram_url, tiktok_url, bio,
        package_tier, mix_name, status, review_notes, reviewed_at, created_at, updated_at`

// FindByUserID returns the application belonging to a user.
func (r *ApplicationRepository) FindByUserID(ctx context.Context, userID string) (*models.CreatorApplication, error) {
	defer observeQuery(r.metrics, "application_find_by_user_id", time.Now())
	query := fmt.Sprintf(`SELECT %s FROM creator_applications WHERE user_id = $1`, applicationColumns)
	var app models.CreatorApplication
	if err := r.db.GetContext(ctx, &app, query, userID); err != nil {
		return nil, err
	}
	return &app, nil
}

// SaveDraft inserts or updates a draft application keyed by user identity.
func (r *ApplicationRepository) SaveDraft(ctx context.Context, app *models.CreatorApplication) (*models.CreatorApplication, error) {
	defer observeQuery(r.metrics, "application_save_draft", time.Now())
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	app.Status = models.ApplicationStatusDraft

	query := fmt.Sprintf(`INSERT INTO creator_applications
        (id, user_id, handle, full_name, email, instagram_url, tiktok_url, bio, package_tier, mix_name, status, review_notes, created_at, updated_at)
        VALUES (:id, :user_id, :handle, :full_name, :email, :instagram_url, :tiktok_url, :bio, :package_tier, :mix_name, :status, :review_notes, :created_at, :updated_at)
        ON CONFLICT (user_id) DO UPDATE SET
            handle = EXCLUDED.handle,
            full_name = EXCLUDED.full_name,
            email = EXCLUDED.email,
            instagram_url = EXCLUDED.instagram_url,
            tiktok_url = EXCLUDED.tiktok_url,
            bio = EXCLUDED.bio,
            package_tier = EXCLUDED.package_tier,
            mix_name = EXCLUDED.mix_name,
            updated_at = EXCLUDED.updated_at
        WHERE creator_applications.status = '%s'`, models.ApplicationStatusDraft)
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		return nil, fmt.Errorf("save application draft: %w", err)
	}
	return r.FindByUserID(ctx, app.UserID)
}

// Submit moves a draft application into the review queue.
func (r *ApplicationRepository) Submit(ctx context.Context, userID string) (*models.CreatorApplication, error) {
	defer observeQuery(r.metrics, "application_submit", time.Now())
	const query = `UPDATE creator_applications SET status = $2, updated_at = $3 WHERE user_id = $1 AND status = $4`
	if _, err := r.db.ExecContext(ctx, query, userID, models.ApplicationStatusPendingReview, time.Now().UTC(), models.ApplicationStatusDraft); err != nil {
		return nil, fmt.Errorf("submit application: %w", err)
	}
	return r.FindByUserID(ctx, userID)
}

// UpdateReview persists a terminal review decision with notes and timestamp.
func (r *ApplicationRepository) UpdateReview(ctx context.Context, userID string, status models.ApplicationStatus, notes string, reviewedAt time.Time) (*models.CreatorApplication, error) {
	defer observeQuery(r.metrics, "application_update_review", time.Now())
	query := fmt.Sprintf(`UPDATE creator_applications
        SET status = $2, review_notes = $3, reviewed_at = $4, updated_at = $4
        WHERE user_id = $1
        RETURNING %s`, applicationColumns)
	var app models.CreatorApplication
	if err := r.db.GetContext(ctx, &app, query, userID, status, notes, reviewedAt); err != nil {
		return nil, fmt.Errorf("update application review: %w", err)
	}
	return &app, nil
}

// ListByStatus returns applications in a status, oldest submission first.
func (r *ApplicationRepository) ListByStatus(ctx context.Context, status models.ApplicationStatus, page, pageSize int) ([]models.CreatorApplication, int, error) {
	defer observeQuery(r.metrics, "application_list_by_status", time.Now())
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT %s FROM creator_applications WHERE status = $1 ORDER BY updated_at ASC LIMIT %d OFFSET %d`,
		applicationColumns, pageSize, offset)
	var apps []models.CreatorApplication
	if err := r.db.SelectContext(ctx, &apps, query, status); err != nil {
		return nil, 0, fmt.Errorf("list applications: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM creator_applications WHERE status = $1`, status); err != nil {
		return nil, 0, fmt.Errorf("count applications: %w", err)
	}
	return apps, total, nil
}
