package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cyberkingz/retromuscle-affiliate-api/internal/models"
)

// CreatorRepository handles persistence of provisioned creators.
type CreatorRepository struct {
	db      *sqlx.DB
	metrics QueryObserver
}

// NewCreatorRepository constructs the repository.
func NewCreatorRepository(db *sqlx.DB) *CreatorRepository {
	return &CreatorRepository{db: db}
}

// WithMetrics attaches a query timing observer and returns the repository.
func (r *CreatorRepository) WithMetrics(m QueryObserver) *CreatorRepository {
	r.metrics = m
	return r
}

const creatorColumns = `id, user_id, handle, full_name, email, instagram_url, tiktok_url, bio,
        package_tier, mix_name, status, start_date, created_at, updated_at`

// FindByID returns a creator by its id.
func (r *CreatorRepository) FindByID(ctx context.Context, id string) (*models.Creator, error) {
	defer observeQuery(r.metrics, "creator_find_by_id", time.Now())
	query := fmt.Sprintf(`SELECT %s FROM creators WHERE id = $1`, creatorColumns)
	var creator models.Creator
	if err := r.db.GetContext(ctx, &creator, query, id); err != nil {
		return nil, err
	}
	return &creator, nil
}

// FindByUserID returns a creator by its owning user identity.
func (r *CreatorRepository) FindByUserID(ctx context.Context, userID string) (*models.Creator, error) {
	defer observeQuery(r.metrics, "creator_find_by_user_id", time.Now())
	query := fmt.Sprintf(`SELECT %s FROM creators WHERE user_id = $1`, creatorColumns)
	var creator models.Creator
	if err := r.db.GetContext(ctx, &creator, query, userID); err != nil {
		return nil, err
	}
	return &creator, nil
}

// UpsertFromApplication provisions a creator from an approved application.
// The insert conflicts on user identity, so re-approval updates the existing
// row instead of creating a duplicate. The start date of an already
// provisioned creator is preserved.
func (r *CreatorRepository) UpsertFromApplication(ctx context.Context, app *models.CreatorApplication, status models.CreatorStatus, startDate time.Time) (*models.Creator, error) {
	defer observeQuery(r.metrics, "creator_upsert", time.Now())
	now := time.Now().UTC()
	creator := &models.Creator{
		ID:           uuid.NewString(),
		UserID:       app.UserID,
		Handle:       app.Handle,
		FullName:     app.FullName,
		Email:        app.Email,
		InstagramURL: app.InstagramURL,
		TikTokURL:    app.TikTokURL,
		Bio:          app.Bio,
		PackageTier:  app.PackageTier,
		MixName:      app.MixName,
		Status:       status,
		StartDate:    startDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	query := fmt.Sprintf(`INSERT INTO creators
        (id, user_id, handle, full_name, email, instagram_url, tiktok_url, bio, package_tier, mix_name, status, start_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
        ON CONFLICT (user_id) DO UPDATE SET
            handle = EXCLUDED.handle,
            full_name = EXCLUDED.full_name,
            email = EXCLUDED.email,
            instagram_url = EXCLUDED.instagram_url,
            tiktok_url = EXCLUDED.tiktok_url,
            bio = EXCLUDED.bio,
            package_tier = EXCLUDED.package_tier,
            mix_name = EXCLUDED.mix_name,
            status = EXCLUDED.status,
            updated_at = EXCLUDED.updated_at
        RETURNING %s`, creatorColumns)

	var provisioned models.Creator
	if err := r.db.GetContext(ctx, &provisioned, query,
		creator.ID, creator.UserID, creator.Handle, creator.FullName, creator.Email,
		creator.InstagramURL, creator.TikTokURL, creator.Bio, creator.PackageTier,
		creator.MixName, creator.Status, creator.StartDate, now,
	); err != nil {
		return nil, fmt.Errorf("upsert creator: %w", err)
	}
	return &provisioned, nil
}

// SetStatus updates a creator's program status.
func (r *CreatorRepository) SetStatus(ctx context.Context, id string, status models.CreatorStatus) error {
	defer observeQuery(r.metrics, "creator_set_status", time.Now())
	const query = `UPDATE creators SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update creator status: %w", err)
	}
	return nil
}
